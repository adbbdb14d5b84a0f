package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"marketing-asset-backend/internal/domains/asset/model"
	"marketing-asset-backend/internal/domains/asset/service"
	"marketing-asset-backend/internal/shared/response"
)

type AssetHandler struct {
	assetService service.Service
}

func NewAssetHandler(assetService service.Service) *AssetHandler {
	return &AssetHandler{assetService: assetService}
}

// parseAssetID reads the :id path parameter.
func parseAssetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "Invalid asset ID")
		return 0, false
	}
	return id, true
}

// mapAssetError translates domain errors to HTTP status + code.
func mapAssetError(c *gin.Context, err error) {
	var invalidState *model.InvalidStateError
	var linkingDenied *model.LinkingDeniedError

	switch {
	case errors.Is(err, model.ErrAssetNotFound):
		response.ErrorResponse(c, http.StatusNotFound, model.ErrCodeAssetNotFound, "Asset not found")
	case errors.Is(err, model.ErrUnknownCategory):
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeInvalidCategory, err.Error())
	case errors.As(err, &invalidState):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeInvalidState, invalidState.Error())
	case errors.As(err, &linkingDenied):
		response.ErrorWithDetails(c, http.StatusConflict, model.ErrCodeLinkingDenied,
			"Asset cannot be linked", gin.H{"blocking_reason": linkingDenied.Reason})
	case errors.Is(err, model.ErrVersionConflict):
		response.Conflict(c, "Asset was modified concurrently, retry the request")
	default:
		response.InternalServerError(c, "Unexpected error")
	}
}

// CreateAsset ingests a new asset
// POST /api/v1/assets
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	var req model.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid asset", err.Error())
		return
	}

	asset, err := h.assetService.Create(c.Request.Context(), req)
	if err != nil {
		mapAssetError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, asset)
}

// GetAsset gets an asset by id
// GET /api/v1/assets/:id
func (h *AssetHandler) GetAsset(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	asset, err := h.assetService.GetByID(c.Request.Context(), id)
	if err != nil {
		mapAssetError(c, err)
		return
	}

	response.Success(c, http.StatusOK, asset)
}

// ListAssets lists assets with filters
// GET /api/v1/assets
func (h *AssetHandler) ListAssets(c *gin.Context) {
	var req model.ListAssetsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid filters", err.Error())
		return
	}

	assets, total, err := h.assetService.List(c.Request.Context(), req)
	if err != nil {
		mapAssetError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, assets, &response.Meta{
		Page:  req.Page,
		Limit: req.Limit,
		Total: total,
	})
}

// CheckLinkable queries the linking guard
// GET /api/v1/assets/:id/linkable
func (h *AssetHandler) CheckLinkable(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	relation := c.DefaultQuery("relation", "featured_asset")

	decision, err := h.assetService.CheckLinkable(c.Request.Context(), id, relation)
	if err != nil {
		mapAssetError(c, err)
		return
	}

	response.Success(c, http.StatusOK, decision)
}

// ActivateLinking enables linking on an approved asset
// POST /api/v1/assets/:id/activate
func (h *AssetHandler) ActivateLinking(c *gin.Context) {
	h.applyTransition(c, h.assetService.ActivateLinking)
}

// Link marks an asset in use as a referenced asset
// POST /api/v1/assets/:id/link
func (h *AssetHandler) Link(c *gin.Context) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	var body struct {
		Relation string `json:"relation"`
	}
	// Body is optional; default relation covers the common case.
	_ = c.ShouldBindJSON(&body)
	if body.Relation == "" {
		body.Relation = "featured_asset"
	}

	asset, err := h.assetService.Link(c.Request.Context(), id, body.Relation)
	if err != nil {
		mapAssetError(c, err)
		return
	}

	response.Success(c, http.StatusOK, asset)
}

// Unlink releases an in-use asset
// POST /api/v1/assets/:id/unlink
func (h *AssetHandler) Unlink(c *gin.Context) {
	h.applyTransition(c, h.assetService.Unlink)
}

// Archive removes an asset from circulation
// POST /api/v1/assets/:id/archive
func (h *AssetHandler) Archive(c *gin.Context) {
	h.applyTransition(c, h.assetService.Archive)
}

func (h *AssetHandler) applyTransition(
	c *gin.Context,
	fn func(ctx context.Context, id int64) (*model.Asset, error),
) {
	id, ok := parseAssetID(c)
	if !ok {
		return
	}

	asset, err := fn(c.Request.Context(), id)
	if err != nil {
		mapAssetError(c, err)
		return
	}

	response.Success(c, http.StatusOK, asset)
}
