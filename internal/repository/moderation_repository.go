package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/handypro/internal/domain"
)

// ModerationLogRepository stores moderation audit entries.
type ModerationLogRepository interface {
	Create(ctx context.Context, entry *domain.ModerationEntry) error
	ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.ModerationEntry, error)
}

type moderationLogRepository struct {
	pool *pgxpool.Pool
}

// NewModerationLogRepository builds repository.
func NewModerationLogRepository(pool *pgxpool.Pool) ModerationLogRepository {
	return &moderationLogRepository{pool: pool}
}

func (r *moderationLogRepository) Create(ctx context.Context, entry *domain.ModerationEntry) error {
	const query = `
        INSERT INTO moderation_log (entity_type, entity_id, actor_type, actor_id, old_status, new_status, reason)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.EntityType,
		entry.EntityID,
		entry.ActorType,
		entry.ActorID,
		entry.OldStatus,
		entry.NewStatus,
		entry.Reason,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *moderationLogRepository) ListByEntity(ctx context.Context, entityType domain.EntityType, entityID string) ([]domain.ModerationEntry, error) {
	const query = `
        SELECT id, entity_type, entity_id, actor_type, actor_id, old_status, new_status, reason, created_at
        FROM moderation_log WHERE entity_type=$1 AND entity_id=$2 ORDER BY created_at ASC`
	if !validID(entityID) {
		return nil, nil
	}
	rows, err := r.pool.Query(ctx, query, entityType, entityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.ModerationEntry
	for rows.Next() {
		var entry domain.ModerationEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.EntityType,
			&entry.EntityID,
			&entry.ActorType,
			&entry.ActorID,
			&entry.OldStatus,
			&entry.NewStatus,
			&entry.Reason,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
