package service

import (
	"context"

	"marketing-asset-backend/internal/domains/qcreview/model"
	"marketing-asset-backend/internal/shared"
)

// Service is the QC review workflow: the submission pipeline (recorder)
// and the read path (query service + statistics).
type Service interface {
	// SubmitReview runs the full pipeline: checklist validation, score
	// policy, then one transaction persisting the review and applying the
	// lifecycle transition. All-or-nothing; on any error no row is written
	// and the asset is unchanged.
	SubmitReview(ctx context.Context, principal shared.Principal, assetID int64, req model.SubmitReviewRequest) (*model.SubmitReviewResponse, error)

	// ListByAsset returns review history, most recent first.
	ListByAsset(ctx context.Context, assetID int64, limit int) ([]*model.Review, error)

	// Statistics aggregates an asset's review history.
	Statistics(ctx context.Context, assetID int64) (*model.ReviewStatistics, error)
}

// Authorizer is the external role-resolution collaborator. The core only
// consumes the boolean; it never implements role logic itself.
type Authorizer interface {
	CanReview(principal shared.Principal, category string) bool
}

// RoleAuthorizer is the default static implementation: reviewers and
// admins may review any category.
type RoleAuthorizer struct{}

func (RoleAuthorizer) CanReview(principal shared.Principal, category string) bool {
	return principal.Role == shared.RoleReviewer || principal.Role == shared.RoleAdmin
}
