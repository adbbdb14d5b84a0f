package service

import (
	"context"

	"marketing-asset-backend/internal/domains/asset/model"
)

// Service exposes asset reads, the linking guard and the externally
// originated lifecycle transitions. Review-triggered transitions live in
// the qcreview recorder; they never pass through this interface.
type Service interface {
	Create(ctx context.Context, req model.CreateAssetRequest) (*model.Asset, error)
	GetByID(ctx context.Context, id int64) (*model.Asset, error)
	List(ctx context.Context, req model.ListAssetsRequest) ([]*model.Asset, int, error)

	// CheckLinkable is the linking guard: permit iff the asset is available
	// and flagged for linking, deny with the blocking state otherwise.
	CheckLinkable(ctx context.Context, id int64, relation string) (*model.LinkDecision, error)

	// External transitions (accepted by the core, never originated by reviews).
	ActivateLinking(ctx context.Context, id int64) (*model.Asset, error)
	Link(ctx context.Context, id int64, relation string) (*model.Asset, error)
	Unlink(ctx context.Context, id int64) (*model.Asset, error)
	Archive(ctx context.Context, id int64) (*model.Asset, error)
}
