package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog/log"

	assetmodel "marketing-asset-backend/internal/domains/asset/model"
	assetrepo "marketing-asset-backend/internal/domains/asset/repository"
	assetservice "marketing-asset-backend/internal/domains/asset/service"
	"marketing-asset-backend/internal/domains/qcreview/model"
	"marketing-asset-backend/internal/domains/qcreview/repository"
	"marketing-asset-backend/internal/shared"
	"marketing-asset-backend/pkg/cache"
	"marketing-asset-backend/pkg/database"
)

type reviewService struct {
	reviewRepo repository.ReviewRepository
	assetRepo  assetrepo.AssetRepository
	transactor database.Transactor
	cache      cache.Cache
	authorizer Authorizer
	checklist  *ChecklistValidator
	policy     *ScorePolicy
	maxRetries int
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	assetRepo assetrepo.AssetRepository,
	transactor database.Transactor,
	c cache.Cache,
	authorizer Authorizer,
	checklist *ChecklistValidator,
	policy *ScorePolicy,
	maxRetries int,
) Service {
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &reviewService{
		reviewRepo: reviewRepo,
		assetRepo:  assetRepo,
		transactor: transactor,
		cache:      c,
		authorizer: authorizer,
		checklist:  checklist,
		policy:     policy,
		maxRetries: maxRetries,
	}
}

// =====================================================
// SUBMIT REVIEW (recorder)
// =====================================================

func (s *reviewService) SubmitReview(
	ctx context.Context,
	principal shared.Principal,
	assetID int64,
	req model.SubmitReviewRequest,
) (*model.SubmitReviewResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var result *model.SubmitReviewResponse
	var lastErr error

	// The asset row lock serializes submissions per asset; the version
	// check and the retry loop cover transactions that still lose a race.
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		result, lastErr = s.submitOnce(ctx, principal, assetID, req)
		if lastErr == nil {
			break
		}
		if !isRetryableConflict(lastErr) {
			return nil, lastErr
		}

		log.Warn().
			Int64("asset_id", assetID).
			Int("attempt", attempt).
			Err(lastErr).
			Msg("Review submission lost a race, retrying")
	}

	if lastErr != nil {
		// Retry budget exhausted; tell the caller to retry.
		return nil, model.ErrConflict
	}

	// Drop the cached asset so the guard and reads see the new state.
	if err := s.cache.Delete(ctx, assetservice.AssetCacheKey(assetID)); err != nil {
		log.Warn().Err(err).Int64("asset_id", assetID).Msg("Failed to invalidate asset cache")
	}

	log.Info().
		Int64("asset_id", assetID).
		Int64("review_id", result.Review.ID).
		Str("decision", string(result.Review.Decision)).
		Str("usage_status", string(result.AssetUsageStatus)).
		Msg("Review recorded")

	return result, nil
}

// submitOnce runs one attempt of the pipeline inside a single transaction.
func (s *reviewService) submitOnce(
	ctx context.Context,
	principal shared.Principal,
	assetID int64,
	req model.SubmitReviewRequest,
) (*model.SubmitReviewResponse, error) {
	var response *model.SubmitReviewResponse

	err := s.transactor.WithinTx(ctx, func(tx pgx.Tx) error {
		asset, err := s.assetRepo.GetForUpdate(ctx, tx, assetID)
		if err != nil {
			return err
		}

		// Archived assets are absorbing for review-triggered transitions;
		// reject before any validation work or write.
		if asset.UsageStatus == assetmodel.UsageArchived {
			return &assetmodel.InvalidStateError{State: asset.UsageStatus, Action: "submit_review"}
		}

		if !s.authorizer.CanReview(principal, asset.Category) {
			return model.ErrNotAuthorized
		}

		verdict, err := s.checklist.Validate(asset.Category, req.ChecklistItems)
		if err != nil {
			return err
		}

		if req.ChecklistCompletion != verdict.Complete {
			// Client/server drift on the advisory flag; the server's
			// verdict wins.
			log.Warn().
				Int64("asset_id", assetID).
				Bool("client", req.ChecklistCompletion).
				Bool("server", verdict.Complete).
				Msg("checklist_completion drift")
		}

		decision := req.Decision()
		if err := s.policy.Evaluate(req.QCScore, decision, verdict); err != nil {
			return err
		}

		nextStatus, nextLinking, err := assetmodel.ApplyReviewOutcome(asset, decision, req.LinkingActive)
		if err != nil {
			return err
		}

		review := &model.Review{
			AssetID:           assetID,
			ReviewerID:        principal.UserID,
			ReviewerRole:      principal.Role,
			Score:             req.QCScore,
			Decision:          decision,
			Remarks:           req.QCRemarks,
			ChecklistItems:    req.ChecklistItems,
			ChecklistComplete: verdict.Complete,
			LinkingActive:     req.LinkingActive,
			CreatedAt:         time.Now(),
		}

		if err := s.reviewRepo.Create(ctx, tx, review); err != nil {
			return err
		}

		outcome := string(decision)
		asset.UsageStatus = nextStatus
		asset.LinkingActive = nextLinking
		asset.LastReviewOutcome = &outcome

		if err := s.assetRepo.UpdateState(ctx, tx, asset); err != nil {
			return err
		}

		response = &model.SubmitReviewResponse{
			Review:           review,
			AssetUsageStatus: asset.UsageStatus,
			AssetLinkable:    asset.Linkable(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return response, nil
}

// isRetryableConflict reports whether the error is a lost race worth
// retrying: our own version check, or a serialization/deadlock failure
// from the database.
func isRetryableConflict(err error) bool {
	if errors.Is(err, assetmodel.ErrVersionConflict) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// 40001 serialization_failure, 40P01 deadlock_detected
		return pgErr.Code == "40001" || pgErr.Code == "40P01"
	}

	return false
}

// =====================================================
// QUERY SERVICE
// =====================================================

func (s *reviewService) ListByAsset(ctx context.Context, assetID int64, limit int) ([]*model.Review, error) {
	// Surface unknown assets as 404 rather than an empty history.
	if _, err := s.assetRepo.GetByID(ctx, assetID); err != nil {
		return nil, err
	}

	reviews, err := s.reviewRepo.ListByAsset(ctx, assetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	return reviews, nil
}

func (s *reviewService) Statistics(ctx context.Context, assetID int64) (*model.ReviewStatistics, error) {
	if _, err := s.assetRepo.GetByID(ctx, assetID); err != nil {
		return nil, err
	}

	stats, err := s.reviewRepo.Statistics(ctx, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get statistics: %w", err)
	}

	return stats, nil
}
