package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/asset-service/internal/domain"
)

// AssetFilter captures asset search parameters.
type AssetFilter struct {
	Statuses   []domain.AssetStatus
	Categories []domain.AssetCategory
	AssignedTo *string
	SearchTerm *string
	Limit      int
	Offset     int
}

// AssetRepository encapsulates asset persistence.
type AssetRepository interface {
	Create(ctx context.Context, asset *domain.Asset) error
	Update(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id string) (*domain.Asset, error)
	GetByCode(ctx context.Context, code string) (*domain.Asset, error)
	ListWithFilter(ctx context.Context, filter AssetFilter) ([]domain.Asset, error)
	CountByStatus(ctx context.Context) (map[domain.AssetStatus]int, error)
	SumPurchasePrice(ctx context.Context) (int64, error)
}

type assetRepository struct {
	pool *pgxpool.Pool
}

// NewAssetRepository instantiates repository.
func NewAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &assetRepository{pool: pool}
}

const assetColumns = `id, asset_code, serial_number, name, category, asset_type, status,
               assigned_to, assigned_to_name, assigned_at, purchase_date, purchase_price,
               location, notes, created_at, updated_at`

func (r *assetRepository) Create(ctx context.Context, asset *domain.Asset) error {
	const query = `
        INSERT INTO assets (asset_code, serial_number, name, category, asset_type, status,
            assigned_to, assigned_to_name, assigned_at, purchase_date, purchase_price, location, notes)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
        RETURNING id, created_at, updated_at`
	return r.pool.QueryRow(ctx, query,
		asset.AssetCode,
		asset.SerialNumber,
		asset.Name,
		asset.Category,
		asset.Type,
		asset.Status,
		asset.AssignedTo,
		asset.AssignedToName,
		asset.AssignedAt,
		asset.PurchaseDate,
		asset.PurchasePrice,
		asset.Location,
		asset.Notes,
	).Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
}

func (r *assetRepository) Update(ctx context.Context, asset *domain.Asset) error {
	const query = `
        UPDATE assets SET serial_number=$1, name=$2, category=$3, asset_type=$4, status=$5,
            assigned_to=$6, assigned_to_name=$7, assigned_at=$8, purchase_date=$9,
            purchase_price=$10, location=$11, notes=$12, updated_at=NOW()
        WHERE id=$13`
	cmd, err := r.pool.Exec(ctx, query,
		asset.SerialNumber,
		asset.Name,
		asset.Category,
		asset.Type,
		asset.Status,
		asset.AssignedTo,
		asset.AssignedToName,
		asset.AssignedAt,
		asset.PurchaseDate,
		asset.PurchasePrice,
		asset.Location,
		asset.Notes,
		asset.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *assetRepository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE id=$1`, assetColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *assetRepository) GetByCode(ctx context.Context, code string) (*domain.Asset, error) {
	query := fmt.Sprintf(`SELECT %s FROM assets WHERE asset_code=$1`, assetColumns)
	return r.fetchSingle(ctx, query, code)
}

func (r *assetRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.Asset, error) {
	var asset domain.Asset
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&asset.ID,
		&asset.AssetCode,
		&asset.SerialNumber,
		&asset.Name,
		&asset.Category,
		&asset.Type,
		&asset.Status,
		&asset.AssignedTo,
		&asset.AssignedToName,
		&asset.AssignedAt,
		&asset.PurchaseDate,
		&asset.PurchasePrice,
		&asset.Location,
		&asset.Notes,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepository) ListWithFilter(ctx context.Context, filter AssetFilter) ([]domain.Asset, error) {
	base := fmt.Sprintf(`SELECT %s FROM assets`, assetColumns)
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Categories) > 0 {
		placeholders := make([]string, len(filter.Categories))
		for i, cat := range filter.Categories {
			args = append(args, cat)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("category IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.AssignedTo != nil {
		args = append(args, *filter.AssignedTo)
		clauses = append(clauses, fmt.Sprintf("assigned_to=$%d", len(args)))
	}
	if filter.SearchTerm != nil && strings.TrimSpace(*filter.SearchTerm) != "" {
		search := "%" + strings.ToLower(strings.TrimSpace(*filter.SearchTerm)) + "%"
		args = append(args, search)
		placeholder := fmt.Sprintf("$%d", len(args))
		clauses = append(clauses, fmt.Sprintf("(LOWER(name) LIKE %s OR LOWER(asset_code) LIKE %s OR LOWER(serial_number) LIKE %s)", placeholder, placeholder, placeholder))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := fmt.Sprintf(`%s WHERE %s ORDER BY updated_at DESC LIMIT %d OFFSET %d`,
		base, strings.Join(clauses, " AND "), limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanAssets(rows)
}

func (r *assetRepository) CountByStatus(ctx context.Context) (map[domain.AssetStatus]int, error) {
	rows, err := r.pool.Query(ctx, `SELECT status, COUNT(*) FROM assets GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[domain.AssetStatus]int)
	for rows.Next() {
		var status domain.AssetStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		result[status] = count
	}
	return result, rows.Err()
}

func (r *assetRepository) SumPurchasePrice(ctx context.Context) (int64, error) {
	var total int64
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(purchase_price), 0) FROM assets WHERE status <> $1`,
		domain.AssetStatusRetired,
	).Scan(&total)
	return total, err
}

func scanAssets(rows pgx.Rows) ([]domain.Asset, error) {
	var result []domain.Asset
	for rows.Next() {
		var asset domain.Asset
		if err := rows.Scan(
			&asset.ID,
			&asset.AssetCode,
			&asset.SerialNumber,
			&asset.Name,
			&asset.Category,
			&asset.Type,
			&asset.Status,
			&asset.AssignedTo,
			&asset.AssignedToName,
			&asset.AssignedAt,
			&asset.PurchaseDate,
			&asset.PurchasePrice,
			&asset.Location,
			&asset.Notes,
			&asset.CreatedAt,
			&asset.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, asset)
	}
	return result, rows.Err()
}
