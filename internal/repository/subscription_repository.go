package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/asset-service/internal/domain"
)

// ErrNoLicensesAvailable signals the subscription has no free slots.
var ErrNoLicensesAvailable = errors.New("no licenses available")

// ErrLicenseAlreadyAllocated signals the user already holds a license.
var ErrLicenseAlreadyAllocated = errors.New("license already allocated to user")

// SubscriptionRepository encapsulates subscription persistence.
type SubscriptionRepository interface {
	Create(ctx context.Context, sub *domain.Subscription) error
	Update(ctx context.Context, sub *domain.Subscription) error
	GetByID(ctx context.Context, id string) (*domain.Subscription, error)
	List(ctx context.Context, limit, offset int) ([]domain.Subscription, error)
	UpdateStatus(ctx context.Context, id string, status domain.SubscriptionStatus) error
	MarkReminderSent(ctx context.Context, id string, milestoneDays int) error
	CountExpiringWithin(ctx context.Context, now time.Time, days int) (int, error)
	AllocateLicense(ctx context.Context, alloc *domain.LicenseAllocation) error
	ReleaseLicense(ctx context.Context, subscriptionID, userID string) error
	ListAllocations(ctx context.Context, subscriptionID string) ([]domain.LicenseAllocation, error)
}

type subscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewSubscriptionRepository instantiates repository.
func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &subscriptionRepository{pool: pool}
}

const subscriptionColumns = `id, name, vendor, total_licenses, used_licenses, cost_per_period,
               billing_cycle, expiry_date, status, reminder_sent_h30, reminder_sent_h14,
               reminder_sent_h7, reminder_sent_h1, created_at, updated_at`

func (r *subscriptionRepository) Create(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        INSERT INTO subscriptions (name, vendor, total_licenses, used_licenses, cost_per_period,
            billing_cycle, expiry_date, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		sub.Name,
		sub.Vendor,
		sub.TotalLicenses,
		sub.UsedLicenses,
		sub.CostPerPeriod,
		sub.BillingCycle,
		sub.ExpiryDate,
		sub.Status,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

func (r *subscriptionRepository) Update(ctx context.Context, sub *domain.Subscription) error {
	const query = `
        UPDATE subscriptions SET name=$1, vendor=$2, total_licenses=$3, cost_per_period=$4,
            billing_cycle=$5, expiry_date=$6, status=$7, updated_at=NOW()
        WHERE id=$8`
	cmd, err := r.pool.Exec(ctx, query,
		sub.Name,
		sub.Vendor,
		sub.TotalLicenses,
		sub.CostPerPeriod,
		sub.BillingCycle,
		sub.ExpiryDate,
		sub.Status,
		sub.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id string) (*domain.Subscription, error) {
	query := fmt.Sprintf(`SELECT %s FROM subscriptions WHERE id=$1`, subscriptionColumns)
	row := r.pool.QueryRow(ctx, query, id)
	return scanSubscription(row)
}

func (r *subscriptionRepository) List(ctx context.Context, limit, offset int) ([]domain.Subscription, error) {
	if offset < 0 {
		offset = 0
	}
	// limit <= 0 returns the full set, used by the maintenance sweeps.
	query := fmt.Sprintf(`SELECT %s FROM subscriptions ORDER BY expiry_date ASC OFFSET %d`,
		subscriptionColumns, offset)
	if limit > 0 {
		query = fmt.Sprintf(`SELECT %s FROM subscriptions ORDER BY expiry_date ASC LIMIT %d OFFSET %d`,
			subscriptionColumns, limit, offset)
	}
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *sub)
	}
	return result, rows.Err()
}

func (r *subscriptionRepository) UpdateStatus(ctx context.Context, id string, status domain.SubscriptionStatus) error {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE subscriptions SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// MarkReminderSent flips one milestone flag. Flags are one-way; the sweep
// checks the flag before calling, so re-marking is harmless.
func (r *subscriptionRepository) MarkReminderSent(ctx context.Context, id string, milestoneDays int) error {
	var column string
	switch milestoneDays {
	case 30:
		column = "reminder_sent_h30"
	case 14:
		column = "reminder_sent_h14"
	case 7:
		column = "reminder_sent_h7"
	case 1:
		column = "reminder_sent_h1"
	default:
		return fmt.Errorf("unknown reminder milestone: %d", milestoneDays)
	}
	query := fmt.Sprintf(`UPDATE subscriptions SET %s=TRUE, updated_at=NOW() WHERE id=$1`, column)
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *subscriptionRepository) CountExpiringWithin(ctx context.Context, now time.Time, days int) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM subscriptions WHERE expiry_date > $1 AND expiry_date <= $2`,
		now, now.AddDate(0, 0, days),
	).Scan(&count)
	return count, err
}

// AllocateLicense inserts an allocation and increments used_licenses inside
// one transaction. The subscription row is locked first so two concurrent
// callers cannot both take the last slot or double-assign a user.
func (r *subscriptionRepository) AllocateLicense(ctx context.Context, alloc *domain.LicenseAllocation) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin allocation tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var total, used int
	if err := tx.QueryRow(ctx,
		`SELECT total_licenses, used_licenses FROM subscriptions WHERE id=$1 FOR UPDATE`,
		alloc.SubscriptionID,
	).Scan(&total, &used); err != nil {
		return err
	}
	if used >= total {
		return ErrNoLicensesAvailable
	}

	var exists bool
	if err := tx.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM subscription_allocations WHERE subscription_id=$1 AND user_id=$2)`,
		alloc.SubscriptionID, alloc.UserID,
	).Scan(&exists); err != nil {
		return err
	}
	if exists {
		return ErrLicenseAlreadyAllocated
	}

	if err := tx.QueryRow(ctx, `
        INSERT INTO subscription_allocations (subscription_id, user_id, user_name)
        VALUES ($1,$2,$3)
        RETURNING id, allocated_at`,
		alloc.SubscriptionID, alloc.UserID, alloc.UserName,
	).Scan(&alloc.ID, &alloc.AllocatedAt); err != nil {
		return err
	}

	if _, err := tx.Exec(ctx,
		`UPDATE subscriptions SET used_licenses=used_licenses+1, updated_at=NOW() WHERE id=$1`,
		alloc.SubscriptionID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

// ReleaseLicense removes an allocation and decrements used_licenses.
func (r *subscriptionRepository) ReleaseLicense(ctx context.Context, subscriptionID, userID string) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin release tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	cmd, err := tx.Exec(ctx,
		`DELETE FROM subscription_allocations WHERE subscription_id=$1 AND user_id=$2`,
		subscriptionID, userID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}

	if _, err := tx.Exec(ctx,
		`UPDATE subscriptions SET used_licenses=GREATEST(used_licenses-1, 0), updated_at=NOW() WHERE id=$1`,
		subscriptionID,
	); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *subscriptionRepository) ListAllocations(ctx context.Context, subscriptionID string) ([]domain.LicenseAllocation, error) {
	const query = `
        SELECT id, subscription_id, user_id, user_name, allocated_at
        FROM subscription_allocations WHERE subscription_id=$1 ORDER BY allocated_at ASC`
	rows, err := r.pool.Query(ctx, query, subscriptionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.LicenseAllocation
	for rows.Next() {
		var alloc domain.LicenseAllocation
		if err := rows.Scan(
			&alloc.ID,
			&alloc.SubscriptionID,
			&alloc.UserID,
			&alloc.UserName,
			&alloc.AllocatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, alloc)
	}
	return result, rows.Err()
}

func scanSubscription(row pgx.Row) (*domain.Subscription, error) {
	var sub domain.Subscription
	if err := row.Scan(
		&sub.ID,
		&sub.Name,
		&sub.Vendor,
		&sub.TotalLicenses,
		&sub.UsedLicenses,
		&sub.CostPerPeriod,
		&sub.BillingCycle,
		&sub.ExpiryDate,
		&sub.Status,
		&sub.ReminderSentH30,
		&sub.ReminderSentH14,
		&sub.ReminderSentH7,
		&sub.ReminderSentH1,
		&sub.CreatedAt,
		&sub.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &sub, nil
}
