package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/handypro/internal/domain"
)

// UserRepository defines persistence access for back-office users.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	// CreateEditor inserts an EDITOR after checking roster size and username
	// uniqueness in the same transaction.
	CreateEditor(ctx context.Context, user *domain.User, maxEditors int) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByUsername matches case-insensitively.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const insertUserQuery = `
        INSERT INTO users (username, password_hash, role)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.pool.QueryRow(ctx, insertUserQuery,
		user.Username,
		user.PasswordHash,
		user.Role,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) CreateEditor(ctx context.Context, user *domain.User, maxEditors int) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Serializes concurrent editor creation so the roster check holds.
		if _, err := tx.Exec(ctx, `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`); err != nil {
			return err
		}

		var editors int
		if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role=$1`, domain.UserRoleEditor).Scan(&editors); err != nil {
			return err
		}
		if editors >= maxEditors {
			return ErrEditorCapacity
		}

		var taken bool
		if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(username)=LOWER($1))`, user.Username).Scan(&taken); err != nil {
			return err
		}
		if taken {
			return ErrDuplicateUsername
		}

		user.Role = domain.UserRoleEditor
		return tx.QueryRow(ctx, insertUserQuery,
			user.Username,
			user.PasswordHash,
			user.Role,
		).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	})
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET username=$1, password_hash=$2, role=$3, updated_at=NOW()
        WHERE id=$4`

	cmd, err := r.pool.Exec(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Role,
		user.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return pgx.ErrNoRows
	}
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `
        SELECT id, username, password_hash, role, created_at, updated_at
        FROM users WHERE id=$1`
	if !validID(id) {
		return nil, pgx.ErrNoRows
	}
	return r.fetchSingle(ctx, query, id)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `
        SELECT id, username, password_hash, role, created_at, updated_at
        FROM users WHERE LOWER(username)=LOWER($1)`
	return r.fetchSingle(ctx, query, username)
}

func (r *userRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.User, error) {
	var user domain.User
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.Role,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ListByRole(ctx context.Context, role domain.UserRole) ([]domain.User, error) {
	const query = `
        SELECT id, username, password_hash, role, created_at, updated_at
        FROM users WHERE role=$1 ORDER BY created_at ASC`
	rows, err := r.pool.Query(ctx, query, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		var user domain.User
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.PasswordHash,
			&user.Role,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	return result, rows.Err()
}
