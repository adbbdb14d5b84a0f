package model

import (
	"time"
)

// Status is the content lifecycle of an asset.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// UsageStatus governs whether an asset may be linked from other records.
// A review in flight does not block linking; submissions serialize against
// the guard through the asset row lock instead of a dedicated pending state.
type UsageStatus string

const (
	UsageAvailable UsageStatus = "available"
	UsageInUse     UsageStatus = "in_use"
	UsageArchived  UsageStatus = "archived"
	UsageRejected  UsageStatus = "rejected"
)

// ReviewDecision is the reviewer's verdict on an asset.
type ReviewDecision string

const (
	DecisionApproved     ReviewDecision = "approved"
	DecisionRejected     ReviewDecision = "rejected"
	DecisionNeedsChanges ReviewDecision = "needs_changes"
)

// Asset represents a marketing content item tracked for reuse.
type Asset struct {
	ID        int64    `json:"id"`
	Name      string   `json:"name"`
	Category  string   `json:"category"` // determines the required checklist
	AssetType string   `json:"asset_type"`
	Tags      []string `json:"tags"`

	Status            Status      `json:"status"`
	UsageStatus       UsageStatus `json:"usage_status"`
	LinkingActive     bool        `json:"linking_active"`
	LastReviewOutcome *string     `json:"last_review_outcome"`

	// Version is the optimistic-lock counter; bumped on every state write.
	Version int `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Linkable reports whether the asset may currently be referenced elsewhere.
func (a *Asset) Linkable() bool {
	return a.UsageStatus == UsageAvailable && a.LinkingActive
}
