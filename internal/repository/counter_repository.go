package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DefaultCodePadding is the zero-pad width applied when callers pass 0.
const DefaultCodePadding = 3

// CounterRepository issues monotonically increasing human-readable codes.
type CounterRepository interface {
	// AllocateNext increments the named series and returns the formatted
	// code. The counter row is created on first allocation. The increment
	// is a single atomic upsert, so concurrent callers against the same
	// series always receive distinct contiguous values.
	AllocateNext(ctx context.Context, counterID, prefix string, padding int) (string, error)
}

// counterQuerier is the slice of pgxpool.Pool the allocator needs.
type counterQuerier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type counterRepository struct {
	db counterQuerier
}

// NewCounterRepository instantiates repository.
func NewCounterRepository(pool *pgxpool.Pool) CounterRepository {
	return &counterRepository{db: pool}
}

// The read-modify-write lives entirely inside one statement: a plain
// SELECT ... FOR UPDATE would lock nothing when the row does not exist
// yet, letting two first allocations return the same code.
const allocateNextQuery = `
        INSERT INTO counters (id, current_value, prefix)
        VALUES ($1, 1, $2)
        ON CONFLICT (id) DO UPDATE
        SET current_value = counters.current_value + 1, prefix = EXCLUDED.prefix, updated_at = NOW()
        RETURNING current_value`

func (r *counterRepository) AllocateNext(ctx context.Context, counterID, prefix string, padding int) (string, error) {
	var next int64
	if err := r.db.QueryRow(ctx, allocateNextQuery, counterID, prefix).Scan(&next); err != nil {
		return "", fmt.Errorf("allocate counter %s: %w", counterID, err)
	}
	return FormatCode(prefix, next, padding), nil
}

// FormatCode renders a series value as "{prefix}-{zero-padded value}".
// Values wider than the padding are not truncated.
func FormatCode(prefix string, value int64, padding int) string {
	if padding <= 0 {
		padding = DefaultCodePadding
	}
	return fmt.Sprintf("%s-%0*d", prefix, padding, value)
}
