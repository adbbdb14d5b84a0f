package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"

	"marketing-asset-backend/internal/domains/asset/model"
	"marketing-asset-backend/internal/domains/asset/repository"
	"marketing-asset-backend/pkg/cache"
	"marketing-asset-backend/pkg/database"
)

const assetCacheTTL = 5 * time.Minute

// AssetCacheKey is shared with the review recorder, which invalidates the
// entry when a review transition lands.
func AssetCacheKey(id int64) string {
	return fmt.Sprintf("asset:%d", id)
}

type assetService struct {
	repo       repository.AssetRepository
	transactor database.Transactor
	cache      cache.Cache
	// categories with a configured checklist; ingestion rejects the rest
	categories map[string][]string
}

func NewAssetService(
	repo repository.AssetRepository,
	transactor database.Transactor,
	c cache.Cache,
	categories map[string][]string,
) Service {
	return &assetService{
		repo:       repo,
		transactor: transactor,
		cache:      c,
		categories: categories,
	}
}

// =====================================================
// CREATE (ingestion stand-in)
// =====================================================

func (s *assetService) Create(ctx context.Context, req model.CreateAssetRequest) (*model.Asset, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, ok := s.categories[req.Category]; !ok {
		return nil, fmt.Errorf("%w: no checklist configured for %q", model.ErrUnknownCategory, req.Category)
	}

	now := time.Now()
	asset := &model.Asset{
		Name:          req.Name,
		Category:      req.Category,
		AssetType:     req.AssetType,
		Tags:          req.Tags,
		Status:        model.StatusDraft,
		UsageStatus:   model.UsageAvailable,
		LinkingActive: false,
		Version:       1,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("failed to create asset: %w", err)
	}

	log.Info().
		Int64("asset_id", asset.ID).
		Str("category", asset.Category).
		Msg("Asset ingested")

	return asset, nil
}

// =====================================================
// READS
// =====================================================

func (s *assetService) GetByID(ctx context.Context, id int64) (*model.Asset, error) {
	key := AssetCacheKey(id)

	cached := &model.Asset{}
	if found, err := s.cache.Get(ctx, key, cached); err == nil && found {
		return cached, nil
	}

	asset, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Cache failures are non-critical.
	if err := s.cache.Set(ctx, key, asset, assetCacheTTL); err != nil {
		log.Warn().Err(err).Int64("asset_id", id).Msg("Failed to cache asset")
	}

	return asset, nil
}

func (s *assetService) List(ctx context.Context, req model.ListAssetsRequest) ([]*model.Asset, int, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	return s.repo.List(ctx, req)
}

// =====================================================
// LINKING GUARD
// =====================================================

func (s *assetService) CheckLinkable(ctx context.Context, id int64, relation string) (*model.LinkDecision, error) {
	asset, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	decision := &model.LinkDecision{
		AssetID:  id,
		Relation: relation,
	}

	switch {
	case asset.UsageStatus != model.UsageAvailable:
		decision.BlockingReason = string(asset.UsageStatus)
	case !asset.LinkingActive:
		decision.BlockingReason = "linking_inactive"
	default:
		decision.Allowed = true
	}

	return decision, nil
}

// =====================================================
// EXTERNAL TRANSITIONS
// =====================================================

// transition runs a pure lifecycle function against the locked asset row
// and persists the result under the version check.
func (s *assetService) transition(
	ctx context.Context,
	id int64,
	action string,
	apply func(*model.Asset) (model.UsageStatus, bool, error),
) (*model.Asset, error) {
	var updated *model.Asset

	err := s.transactor.WithinTx(ctx, func(tx pgx.Tx) error {
		asset, err := s.repo.GetForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		nextStatus, nextLinking, err := apply(asset)
		if err != nil {
			return err
		}

		asset.UsageStatus = nextStatus
		asset.LinkingActive = nextLinking

		if err := s.repo.UpdateState(ctx, tx, asset); err != nil {
			return err
		}

		updated = asset
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, AssetCacheKey(id)); err != nil {
		log.Warn().Err(err).Int64("asset_id", id).Msg("Failed to invalidate asset cache")
	}

	log.Info().
		Int64("asset_id", id).
		Str("action", action).
		Str("usage_status", string(updated.UsageStatus)).
		Msg("Asset transition applied")

	return updated, nil
}

func (s *assetService) ActivateLinking(ctx context.Context, id int64) (*model.Asset, error) {
	return s.transition(ctx, id, "activate_linking", model.ActivateLinking)
}

func (s *assetService) Link(ctx context.Context, id int64, relation string) (*model.Asset, error) {
	return s.transition(ctx, id, "link:"+relation, model.Link)
}

func (s *assetService) Unlink(ctx context.Context, id int64) (*model.Asset, error) {
	return s.transition(ctx, id, "unlink", model.Unlink)
}

func (s *assetService) Archive(ctx context.Context, id int64) (*model.Asset, error) {
	return s.transition(ctx, id, "archive", model.Archive)
}
