package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"marketing-asset-backend/internal/domains/asset/model"
)

// AssetRepository is the data access contract for assets.
// State-changing operations take an explicit pgx.Tx so the caller controls
// the transaction scope; the review recorder and the asset service both
// rely on GetForUpdate to serialize per-asset writes.
type AssetRepository interface {
	// Create inserts a new asset and fills in its generated id.
	Create(ctx context.Context, asset *model.Asset) error

	// GetByID gets an asset by id.
	GetByID(ctx context.Context, id int64) (*model.Asset, error)

	// GetForUpdate locks the asset row for the duration of tx.
	GetForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*model.Asset, error)

	// UpdateState writes usage_status, linking_active, last_review_outcome
	// and status, guarded by the version the asset was read at.
	// Returns model.ErrVersionConflict when the row moved underneath us.
	UpdateState(ctx context.Context, tx pgx.Tx, asset *model.Asset) error

	// List lists assets with optional category / usage-status filters.
	List(ctx context.Context, req model.ListAssetsRequest) ([]*model.Asset, int, error)
}
