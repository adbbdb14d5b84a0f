package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	assetmodel "marketing-asset-backend/internal/domains/asset/model"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// SubmitReviewRequest is the review submission body. The reviewer identity
// comes from the authenticated principal, never from the body.
type SubmitReviewRequest struct {
	QCScore    int    `json:"qc_score"`
	QCRemarks  string `json:"qc_remarks"`
	QCDecision string `json:"qc_decision" binding:"required"`

	ChecklistItems map[string]bool `json:"checklist_items"`
	// ChecklistCompletion is advisory; the server recomputes it and logs drift.
	ChecklistCompletion bool `json:"checklist_completion"`

	LinkingActive bool `json:"linking_active"`
}

// Validate validates SubmitReviewRequest. Score bounds and checklist
// completeness are policy concerns checked by the recorder; this only
// rejects structurally malformed submissions.
func (req SubmitReviewRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.QCDecision, validation.Required, validation.In(
			string(assetmodel.DecisionApproved),
			string(assetmodel.DecisionRejected),
			string(assetmodel.DecisionNeedsChanges),
		)),
		validation.Field(&req.ChecklistItems, validation.NotNil),
		validation.Field(&req.QCRemarks, validation.Length(0, 4000)),
	)
}

// Decision returns the typed decision enum.
func (req SubmitReviewRequest) Decision() assetmodel.ReviewDecision {
	return assetmodel.ReviewDecision(req.QCDecision)
}

// HistoryRequest bounds the review history query.
type HistoryRequest struct {
	Limit int `form:"limit"`
}

func (req *HistoryRequest) Validate() error {
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}
	return nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// SubmitReviewResponse returns the persisted review together with the
// asset's resulting usage status.
type SubmitReviewResponse struct {
	Review           *Review                `json:"review"`
	AssetUsageStatus assetmodel.UsageStatus `json:"asset_usage_status"`
	AssetLinkable    bool                   `json:"asset_linkable"`
}

// ReviewStatistics aggregates an asset's review history.
type ReviewStatistics struct {
	AssetID           int64           `json:"asset_id"`
	TotalReviews      int             `json:"total_reviews"`
	AverageScore      decimal.Decimal `json:"average_score"`
	DecisionBreakdown map[string]int  `json:"decision_breakdown"`
	LastReviewedAt    *time.Time      `json:"last_reviewed_at,omitempty"`
}
