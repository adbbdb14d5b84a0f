package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"marketing-asset-backend/internal/domains/asset/model"
)

type postgresAssetRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresAssetRepository(pool *pgxpool.Pool) AssetRepository {
	return &postgresAssetRepository{pool: pool}
}

const assetColumns = `
	id, name, category, asset_type, tags,
	status, usage_status, linking_active, last_review_outcome,
	version, created_at, updated_at
`

func scanAsset(row pgx.Row) (*model.Asset, error) {
	asset := &model.Asset{}
	var tags []string

	err := row.Scan(
		&asset.ID,
		&asset.Name,
		&asset.Category,
		&asset.AssetType,
		pq.Array(&tags),
		&asset.Status,
		&asset.UsageStatus,
		&asset.LinkingActive,
		&asset.LastReviewOutcome,
		&asset.Version,
		&asset.CreatedAt,
		&asset.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	asset.Tags = tags
	return asset, nil
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresAssetRepository) Create(ctx context.Context, asset *model.Asset) error {
	query := `
		INSERT INTO assets (
			name, category, asset_type, tags,
			status, usage_status, linking_active, last_review_outcome,
			version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	err := r.pool.QueryRow(ctx, query,
		asset.Name,
		asset.Category,
		asset.AssetType,
		pq.Array(asset.Tags),
		asset.Status,
		asset.UsageStatus,
		asset.LinkingActive,
		asset.LastReviewOutcome,
		asset.Version,
		asset.CreatedAt,
		asset.UpdatedAt,
	).Scan(&asset.ID)

	if err != nil {
		return fmt.Errorf("failed to create asset: %w", err)
	}

	return nil
}

// =====================================================
// READ
// =====================================================

func (r *postgresAssetRepository) GetByID(ctx context.Context, id int64) (*model.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1`

	asset, err := scanAsset(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to get asset: %w", err)
	}

	return asset, nil
}

func (r *postgresAssetRepository) GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Asset, error) {
	// The row lock serializes concurrent review submissions per asset.
	query := `SELECT ` + assetColumns + ` FROM assets WHERE id = $1 FOR UPDATE`

	asset, err := scanAsset(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAssetNotFound
		}
		return nil, fmt.Errorf("failed to lock asset: %w", err)
	}

	return asset, nil
}

// =====================================================
// STATE UPDATE
// =====================================================

func (r *postgresAssetRepository) UpdateState(ctx context.Context, tx pgx.Tx, asset *model.Asset) error {
	query := `
		UPDATE assets
		SET
			status = $2,
			usage_status = $3,
			linking_active = $4,
			last_review_outcome = $5,
			version = version + 1,
			updated_at = NOW()
		WHERE id = $1 AND version = $6
	`

	result, err := tx.Exec(ctx, query,
		asset.ID,
		asset.Status,
		asset.UsageStatus,
		asset.LinkingActive,
		asset.LastReviewOutcome,
		asset.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update asset state: %w", err)
	}

	if result.RowsAffected() == 0 {
		return model.ErrVersionConflict
	}

	asset.Version++
	return nil
}

// =====================================================
// LIST
// =====================================================

func (r *postgresAssetRepository) List(ctx context.Context, req model.ListAssetsRequest) ([]*model.Asset, int, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE 1=1`
	countQuery := `SELECT COUNT(*) FROM assets WHERE 1=1`

	args := []interface{}{}
	countArgs := []interface{}{}
	argCount := 1

	if req.Category != "" {
		clause := fmt.Sprintf(" AND category = $%d", argCount)
		query += clause
		countQuery += clause
		args = append(args, req.Category)
		countArgs = append(countArgs, req.Category)
		argCount++
	}

	if req.UsageStatus != "" {
		clause := fmt.Sprintf(" AND usage_status = $%d", argCount)
		query += clause
		countQuery += clause
		args = append(args, req.UsageStatus)
		countArgs = append(countArgs, req.UsageStatus)
		argCount++
	}

	query += " ORDER BY created_at DESC, id DESC"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argCount, argCount+1)
	args = append(args, req.Limit, (req.Page-1)*req.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list assets: %w", err)
	}
	defer rows.Close()

	var assets []*model.Asset
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan asset: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read assets: %w", err)
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count assets: %w", err)
	}

	return assets, total, nil
}
