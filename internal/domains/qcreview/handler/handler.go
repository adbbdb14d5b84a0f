package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	assetmodel "marketing-asset-backend/internal/domains/asset/model"
	"marketing-asset-backend/internal/domains/qcreview/model"
	"marketing-asset-backend/internal/domains/qcreview/service"
	"marketing-asset-backend/internal/shared/middleware"
	"marketing-asset-backend/internal/shared/response"
)

type ReviewHandler struct {
	reviewService service.Service
}

func NewReviewHandler(reviewService service.Service) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

func parseAssetID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id < 1 {
		response.BadRequest(c, "Invalid asset ID")
		return 0, false
	}
	return id, true
}

// mapReviewError translates the error taxonomy to HTTP status + code:
// 400 validation/policy, 403 role, 404 unknown asset, 409 invalid state
// or lost race, 500 persistence.
func mapReviewError(c *gin.Context, err error) {
	var validationErr *model.ValidationError
	var policyErr *model.PolicyError
	var invalidState *assetmodel.InvalidStateError
	var ozzoErrs validation.Errors

	switch {
	case errors.As(err, &validationErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeValidation,
			validationErr.Error(), gin.H{"missing_items": validationErr.MissingItems})
	case errors.As(err, &policyErr):
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodePolicy,
			policyErr.Error(), gin.H{"reason": policyErr.Reason})
	case errors.As(err, &ozzoErrs):
		response.ErrorWithDetails(c, http.StatusBadRequest, model.ErrCodeValidation,
			"Invalid review submission", ozzoErrs)
	case errors.Is(err, assetmodel.ErrUnknownCategory):
		response.ErrorResponse(c, http.StatusBadRequest, model.ErrCodeValidation, err.Error())
	case errors.Is(err, assetmodel.ErrAssetNotFound):
		response.ErrorResponse(c, http.StatusNotFound, assetmodel.ErrCodeAssetNotFound, "Asset not found")
	case errors.As(err, &invalidState):
		response.ErrorResponse(c, http.StatusConflict, assetmodel.ErrCodeInvalidState, invalidState.Error())
	case errors.Is(err, model.ErrNotAuthorized):
		response.ErrorResponse(c, http.StatusForbidden, model.ErrCodeUnauthorized, err.Error())
	case errors.Is(err, model.ErrConflict):
		response.ErrorResponse(c, http.StatusConflict, model.ErrCodeConflict, err.Error())
	default:
		response.ErrorResponse(c, http.StatusInternalServerError, model.ErrCodePersistence,
			"Temporary storage failure, please retry")
	}
}

// SubmitReview submits a QC review for an asset
// POST /api/v1/assets/:id/reviews
func (h *ReviewHandler) SubmitReview(c *gin.Context) {
	principal, ok := middleware.GetPrincipal(c)
	if !ok {
		response.Unauthorized(c, "Missing caller identity")
		return
	}

	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	var req model.SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := req.Validate(); err != nil {
		mapReviewError(c, err)
		return
	}

	result, err := h.reviewService.SubmitReview(c.Request.Context(), principal, assetID, req)
	if err != nil {
		mapReviewError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, result)
}

// ListReviews returns review history, most recent first
// GET /api/v1/assets/:id/reviews
func (h *ReviewHandler) ListReviews(c *gin.Context) {
	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	var req model.HistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		mapReviewError(c, err)
		return
	}

	reviews, err := h.reviewService.ListByAsset(c.Request.Context(), assetID, req.Limit)
	if err != nil {
		mapReviewError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, reviews, &response.Meta{
		Limit: req.Limit,
		Total: len(reviews),
	})
}

// GetStatistics returns aggregate review statistics for an asset
// GET /api/v1/assets/:id/reviews/stats
func (h *ReviewHandler) GetStatistics(c *gin.Context) {
	assetID, ok := parseAssetID(c)
	if !ok {
		return
	}

	stats, err := h.reviewService.Statistics(c.Request.Context(), assetID)
	if err != nil {
		mapReviewError(c, err)
		return
	}

	response.Success(c, http.StatusOK, stats)
}
