package model

import (
	"time"

	assetmodel "marketing-asset-backend/internal/domains/asset/model"
)

// Review is a single quality-control evaluation of one asset.
// Immutable once recorded; corrections are new reviews, never edits.
type Review struct {
	ID      int64 `json:"id"`
	AssetID int64 `json:"asset_id"`

	ReviewerID   int64  `json:"reviewer_id"`
	ReviewerRole string `json:"reviewer_role"`

	Score    int                       `json:"score"` // 0-100
	Decision assetmodel.ReviewDecision `json:"decision"`
	Remarks  string                    `json:"remarks"` // audit only, not policy-relevant

	// ChecklistItems maps the checklist item name to its pass/fail flag.
	ChecklistItems    map[string]bool `json:"checklist_items"`
	ChecklistComplete bool            `json:"checklist_complete"` // server-recomputed

	// LinkingActive records whether the reviewer requested immediate
	// linking eligibility on approval.
	LinkingActive bool `json:"linking_active"`

	CreatedAt time.Time `json:"created_at"`
}
