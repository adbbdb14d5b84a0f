package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"marketing-asset-backend/internal/domains/qcreview/model"
)

// ReviewRepository is the data access contract for QC reviews.
// Reviews are append-only: there is no update or delete.
type ReviewRepository interface {
	// Create inserts a review inside the caller's transaction and fills
	// in the generated id. The recorder pairs it with the asset state
	// update so both commit or neither does.
	Create(ctx context.Context, tx pgx.Tx, review *model.Review) error

	// ListByAsset returns the asset's reviews, most recent first.
	// Zero reviews yields an empty slice, not an error.
	ListByAsset(ctx context.Context, assetID int64, limit int) ([]*model.Review, error)

	// Statistics aggregates an asset's review history.
	Statistics(ctx context.Context, assetID int64) (*model.ReviewStatistics, error)
}
