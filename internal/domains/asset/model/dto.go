package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// =====================================================
// REQUEST DTOs
// =====================================================

// CreateAssetRequest ingests a new asset into the library.
type CreateAssetRequest struct {
	Name      string   `json:"name" binding:"required"`
	Category  string   `json:"category" binding:"required"`
	AssetType string   `json:"asset_type"`
	Tags      []string `json:"tags"`
}

// Validate validates CreateAssetRequest. Category membership is checked by
// the service against the configured checklist categories.
func (req CreateAssetRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Category, validation.Required, validation.Length(1, 64)),
		validation.Field(&req.AssetType, validation.Length(0, 64)),
		validation.Field(&req.Tags, validation.Length(0, 20)),
	)
}

// ListAssetsRequest filters the asset library listing.
type ListAssetsRequest struct {
	Category    string `form:"category"`
	UsageStatus string `form:"usage_status"`
	Page        int    `form:"page"`
	Limit       int    `form:"limit"`
}

func (req *ListAssetsRequest) Validate() error {
	if req.Page < 1 {
		req.Page = 1
	}
	if req.Limit < 1 || req.Limit > 100 {
		req.Limit = 20
	}

	if req.UsageStatus != "" {
		return validation.Validate(req.UsageStatus, validation.In(
			string(UsageAvailable),
			string(UsageInUse),
			string(UsageArchived),
			string(UsageRejected),
		))
	}

	return nil
}

// =====================================================
// RESPONSE DTOs
// =====================================================

// LinkDecision is the linking guard's answer for a candidate asset.
type LinkDecision struct {
	AssetID  int64  `json:"asset_id"`
	Relation string `json:"relation"`
	Allowed  bool   `json:"allowed"`
	// BlockingReason names the state preventing the link (empty when allowed).
	BlockingReason string `json:"blocking_reason,omitempty"`
}
