package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/asset-service/internal/domain"
)

// AuditTrailRepository stores immutable audit entries. Entries are append
// only; there is no update or delete.
type AuditTrailRepository interface {
	Create(ctx context.Context, entry *domain.AuditTrail) error
	ListByEntity(ctx context.Context, entityType domain.AuditEntityType, entityID string, limit, offset int) ([]domain.AuditTrail, error)
}

type auditTrailRepository struct {
	pool *pgxpool.Pool
}

// NewAuditTrailRepository builds repository.
func NewAuditTrailRepository(pool *pgxpool.Pool) AuditTrailRepository {
	return &auditTrailRepository{pool: pool}
}

func (r *auditTrailRepository) Create(ctx context.Context, entry *domain.AuditTrail) error {
	const query = `
        INSERT INTO audit_trails (entity_id, entity_type, action, actor_id, actor_name, details, previous_value, new_value)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at`
	return r.pool.QueryRow(ctx, query,
		entry.EntityID,
		entry.EntityType,
		entry.Action,
		entry.ActorID,
		entry.ActorName,
		entry.Details,
		entry.PreviousValue,
		entry.NewValue,
	).Scan(&entry.ID, &entry.CreatedAt)
}

func (r *auditTrailRepository) ListByEntity(ctx context.Context, entityType domain.AuditEntityType, entityID string, limit, offset int) ([]domain.AuditTrail, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
        SELECT id, entity_id, entity_type, action, actor_id, actor_name, details, previous_value, new_value, created_at
        FROM audit_trails WHERE entity_type=$1 AND entity_id=$2
        ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.pool.Query(ctx, query, entityType, entityID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AuditTrail
	for rows.Next() {
		var entry domain.AuditTrail
		if err := rows.Scan(
			&entry.ID,
			&entry.EntityID,
			&entry.EntityType,
			&entry.Action,
			&entry.ActorID,
			&entry.ActorName,
			&entry.Details,
			&entry.PreviousValue,
			&entry.NewValue,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, entry)
	}
	return result, rows.Err()
}
