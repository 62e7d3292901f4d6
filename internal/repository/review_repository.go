package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/handypro/internal/domain"
)

// ReviewFilter narrows review listings.
type ReviewFilter struct {
	TechnicianID *string
	Status       *domain.ReviewStatus
}

// ReviewRepository encapsulates review persistence.
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	// UpdateStatus moves the review from one status to another in a single
	// step. ErrStatusChanged means the review is no longer in status from.
	UpdateStatus(ctx context.Context, id string, from, to domain.ReviewStatus) error
	GetByID(ctx context.Context, id string) (*domain.Review, error)
	// List returns reviews in submission order.
	List(ctx context.Context, filter ReviewFilter) ([]domain.Review, error)
}

type reviewRepository struct {
	pool *pgxpool.Pool
}

// NewReviewRepository instantiates the repository.
func NewReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &reviewRepository{pool: pool}
}

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	const query = `
        INSERT INTO reviews (technician_id, author_name, author_phone, rating, comment, status)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		review.TechnicianID,
		review.AuthorName,
		review.AuthorPhone,
		review.Rating,
		review.Comment,
		review.Status,
	).Scan(&review.ID, &review.CreatedAt)
}

func (r *reviewRepository) UpdateStatus(ctx context.Context, id string, from, to domain.ReviewStatus) error {
	if !validID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `UPDATE reviews SET status=$1 WHERE id=$2 AND status=$3`, to, id, from)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM reviews WHERE id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return pgx.ErrNoRows
	}
	return ErrStatusChanged
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*domain.Review, error) {
	const query = `
        SELECT id, technician_id, author_name, author_phone, rating, comment, status, created_at
        FROM reviews WHERE id=$1`
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	var review domain.Review
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&review.ID,
		&review.TechnicianID,
		&review.AuthorName,
		&review.AuthorPhone,
		&review.Rating,
		&review.Comment,
		&review.Status,
		&review.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) List(ctx context.Context, filter ReviewFilter) ([]domain.Review, error) {
	query := `SELECT id, technician_id, author_name, author_phone, rating, comment, status, created_at FROM reviews`
	args := []any{}
	clauses := []string{}

	if filter.TechnicianID != nil {
		if !validID(*filter.TechnicianID) {
			return nil, nil
		}
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("technician_id=$%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Review
	for rows.Next() {
		var review domain.Review
		if err := rows.Scan(
			&review.ID,
			&review.TechnicianID,
			&review.AuthorName,
			&review.AuthorPhone,
			&review.Rating,
			&review.Comment,
			&review.Status,
			&review.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}
