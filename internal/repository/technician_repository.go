package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/handypro/internal/domain"
)

// TechnicianFilter narrows technician listings.
type TechnicianFilter struct {
	Status *domain.RegistrationStatus
}

// TechnicianRepository encapsulates technician persistence.
type TechnicianRepository interface {
	Create(ctx context.Context, tech *domain.Technician) error
	Update(ctx context.Context, tech *domain.Technician) error
	GetByID(ctx context.Context, id string) (*domain.Technician, error)
	// FindByLogin returns technicians whose login_email or contact_1 equals login.
	FindByLogin(ctx context.Context, login string) ([]domain.Technician, error)
	// List returns technicians in registration order.
	List(ctx context.Context, filter TechnicianFilter) ([]domain.Technician, error)
	// DeleteWithReviews removes the technician and all its reviews atomically.
	DeleteWithReviews(ctx context.Context, id string) (int, error)
}

type technicianRepository struct {
	pool *pgxpool.Pool
}

// NewTechnicianRepository instantiates the repository.
func NewTechnicianRepository(pool *pgxpool.Pool) TechnicianRepository {
	return &technicianRepository{pool: pool}
}

const technicianColumns = `id, full_name, contact_1, contact_2, login_email, commune, skills, short_description,
               price_per_hour, negotiable_per_job, registration_status, password_hash, created_at, updated_at`

func (r *technicianRepository) Create(ctx context.Context, tech *domain.Technician) error {
	const query = `
        INSERT INTO technicians (full_name, contact_1, contact_2, login_email, commune, skills, short_description,
            price_per_hour, negotiable_per_job, registration_status, password_hash)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		tech.FullName,
		tech.Contact1,
		tech.Contact2,
		tech.LoginEmail,
		tech.Commune,
		skillsOrEmpty(tech.Skills),
		tech.ShortDescription,
		tech.PricePerHour,
		tech.NegotiablePerJob,
		tech.RegistrationStatus,
		tech.PasswordHash,
	).Scan(&tech.ID, &tech.CreatedAt, &tech.UpdatedAt)
}

func (r *technicianRepository) Update(ctx context.Context, tech *domain.Technician) error {
	const query = `
        UPDATE technicians
        SET full_name=$1, contact_1=$2, contact_2=$3, login_email=$4, commune=$5, skills=$6, short_description=$7,
            price_per_hour=$8, negotiable_per_job=$9, registration_status=$10, password_hash=$11, updated_at=NOW()
        WHERE id=$12
        RETURNING updated_at`

	err := r.pool.QueryRow(ctx, query,
		tech.FullName,
		tech.Contact1,
		tech.Contact2,
		tech.LoginEmail,
		tech.Commune,
		skillsOrEmpty(tech.Skills),
		tech.ShortDescription,
		tech.PricePerHour,
		tech.NegotiablePerJob,
		tech.RegistrationStatus,
		tech.PasswordHash,
		tech.ID,
	).Scan(&tech.UpdatedAt)
	return err
}

func (r *technicianRepository) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	query := `SELECT ` + technicianColumns + ` FROM technicians WHERE id=$1`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	techs, err := scanTechnicians(rows)
	if err != nil {
		return nil, err
	}
	if len(techs) == 0 {
		return nil, pgx.ErrNoRows
	}
	return &techs[0], nil
}

func (r *technicianRepository) FindByLogin(ctx context.Context, login string) ([]domain.Technician, error) {
	query := `SELECT ` + technicianColumns + `
        FROM technicians WHERE login_email=$1 OR contact_1=$1
        ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query, login)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTechnicians(rows)
}

func (r *technicianRepository) List(ctx context.Context, filter TechnicianFilter) ([]domain.Technician, error) {
	query := `SELECT ` + technicianColumns + ` FROM technicians`
	args := []any{}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += fmt.Sprintf(" WHERE registration_status=$%d", len(args))
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTechnicians(rows)
}

func (r *technicianRepository) DeleteWithReviews(ctx context.Context, id string) (int, error) {
	if !validID(id) {
		return 0, pgx.ErrNoRows
	}
	var removedReviews int
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, `DELETE FROM reviews WHERE technician_id=$1`, id)
		if err != nil {
			return fmt.Errorf("delete reviews: %w", err)
		}
		removedReviews = int(cmd.RowsAffected())

		cmd, err = tx.Exec(ctx, `DELETE FROM technicians WHERE id=$1`, id)
		if err != nil {
			return fmt.Errorf("delete technician: %w", err)
		}
		if cmd.RowsAffected() == 0 {
			return pgx.ErrNoRows
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return removedReviews, nil
}

func scanTechnicians(rows pgx.Rows) ([]domain.Technician, error) {
	var result []domain.Technician
	for rows.Next() {
		var tech domain.Technician
		if err := rows.Scan(
			&tech.ID,
			&tech.FullName,
			&tech.Contact1,
			&tech.Contact2,
			&tech.LoginEmail,
			&tech.Commune,
			&tech.Skills,
			&tech.ShortDescription,
			&tech.PricePerHour,
			&tech.NegotiablePerJob,
			&tech.RegistrationStatus,
			&tech.PasswordHash,
			&tech.CreatedAt,
			&tech.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, tech)
	}
	return result, rows.Err()
}

func skillsOrEmpty(skills []string) []string {
	if skills == nil {
		return []string{}
	}
	return skills
}
