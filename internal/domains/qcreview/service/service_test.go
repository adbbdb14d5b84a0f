package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assetmodel "marketing-asset-backend/internal/domains/asset/model"
	"marketing-asset-backend/internal/domains/qcreview/model"
	"marketing-asset-backend/internal/shared"
	"marketing-asset-backend/pkg/database"
)

// =====================================================
// FAKES
// =====================================================

// stubTx satisfies pgx.Tx through embedding; the fakes never call its methods.
type stubTx struct{ pgx.Tx }

type fakeAssetRepo struct {
	assets map[int64]*assetmodel.Asset
	nextID int64
	// updateErrs are popped one per UpdateState call to simulate lost races.
	updateErrs  []error
	updateCalls int
}

func newFakeAssetRepo() *fakeAssetRepo {
	return &fakeAssetRepo{assets: make(map[int64]*assetmodel.Asset), nextID: 1}
}

func cloneAsset(a *assetmodel.Asset) *assetmodel.Asset {
	clone := *a
	if a.LastReviewOutcome != nil {
		outcome := *a.LastReviewOutcome
		clone.LastReviewOutcome = &outcome
	}
	return &clone
}

func (r *fakeAssetRepo) put(a *assetmodel.Asset) *assetmodel.Asset {
	if a.ID == 0 {
		a.ID = r.nextID
		r.nextID++
	}
	r.assets[a.ID] = cloneAsset(a)
	return a
}

func (r *fakeAssetRepo) Create(_ context.Context, asset *assetmodel.Asset) error {
	r.put(asset)
	return nil
}

func (r *fakeAssetRepo) GetByID(_ context.Context, id int64) (*assetmodel.Asset, error) {
	a, ok := r.assets[id]
	if !ok {
		return nil, assetmodel.ErrAssetNotFound
	}
	return cloneAsset(a), nil
}

func (r *fakeAssetRepo) GetForUpdate(ctx context.Context, _ pgx.Tx, id int64) (*assetmodel.Asset, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeAssetRepo) UpdateState(_ context.Context, _ pgx.Tx, asset *assetmodel.Asset) error {
	r.updateCalls++
	if len(r.updateErrs) > 0 {
		err := r.updateErrs[0]
		r.updateErrs = r.updateErrs[1:]
		return err
	}

	stored, ok := r.assets[asset.ID]
	if !ok {
		return assetmodel.ErrAssetNotFound
	}
	if stored.Version != asset.Version {
		return assetmodel.ErrVersionConflict
	}

	asset.Version++
	asset.UpdatedAt = time.Now()
	r.assets[asset.ID] = cloneAsset(asset)
	return nil
}

func (r *fakeAssetRepo) List(_ context.Context, _ assetmodel.ListAssetsRequest) ([]*assetmodel.Asset, int, error) {
	out := make([]*assetmodel.Asset, 0, len(r.assets))
	for _, a := range r.assets {
		out = append(out, cloneAsset(a))
	}
	return out, len(out), nil
}

func (r *fakeAssetRepo) snapshot() map[int64]*assetmodel.Asset {
	snap := make(map[int64]*assetmodel.Asset, len(r.assets))
	for id, a := range r.assets {
		snap[id] = cloneAsset(a)
	}
	return snap
}

type fakeReviewRepo struct {
	reviews []*model.Review
	nextID  int64
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{nextID: 1}
}

func (r *fakeReviewRepo) Create(_ context.Context, _ pgx.Tx, review *model.Review) error {
	review.ID = r.nextID
	r.nextID++
	clone := *review
	r.reviews = append(r.reviews, &clone)
	return nil
}

func (r *fakeReviewRepo) ListByAsset(_ context.Context, assetID int64, limit int) ([]*model.Review, error) {
	out := make([]*model.Review, 0)
	for i := len(r.reviews) - 1; i >= 0 && len(out) < limit; i-- {
		if r.reviews[i].AssetID == assetID {
			clone := *r.reviews[i]
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) Statistics(_ context.Context, assetID int64) (*model.ReviewStatistics, error) {
	stats := &model.ReviewStatistics{
		AssetID:           assetID,
		DecisionBreakdown: make(map[string]int),
	}
	for _, rv := range r.reviews {
		if rv.AssetID == assetID {
			stats.TotalReviews++
			stats.DecisionBreakdown[string(rv.Decision)]++
		}
	}
	return stats, nil
}

// fakeTransactor runs the closure directly and restores repository state on
// error, mirroring a rollback.
type fakeTransactor struct {
	assets  *fakeAssetRepo
	reviews *fakeReviewRepo
}

func (t *fakeTransactor) WithinTx(_ context.Context, fn database.TxFunc) error {
	assetSnap := t.assets.snapshot()
	reviewSnap := make([]*model.Review, len(t.reviews.reviews))
	copy(reviewSnap, t.reviews.reviews)
	reviewNextID := t.reviews.nextID

	if err := fn(stubTx{}); err != nil {
		t.assets.assets = assetSnap
		t.reviews.reviews = reviewSnap
		t.reviews.nextID = reviewNextID
		return err
	}
	return nil
}

type noopCache struct {
	deletes []string
}

func (c *noopCache) Get(_ context.Context, _ string, _ interface{}) (bool, error) { return false, nil }
func (c *noopCache) Set(_ context.Context, _ string, _ interface{}, _ time.Duration) error {
	return nil
}
func (c *noopCache) Delete(_ context.Context, keys ...string) error {
	c.deletes = append(c.deletes, keys...)
	return nil
}
func (c *noopCache) Ping(_ context.Context) error { return nil }

// =====================================================
// FIXTURE
// =====================================================

type fixture struct {
	assets  *fakeAssetRepo
	reviews *fakeReviewRepo
	cache   *noopCache
	svc     Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	assets := newFakeAssetRepo()
	reviews := newFakeReviewRepo()
	c := &noopCache{}

	svc := NewReviewService(
		reviews,
		assets,
		&fakeTransactor{assets: assets, reviews: reviews},
		c,
		RoleAuthorizer{},
		testValidator(),
		testPolicy(),
		3,
	)

	return &fixture{assets: assets, reviews: reviews, cache: c, svc: svc}
}

func (f *fixture) seedAsset(status assetmodel.UsageStatus, linking bool) *assetmodel.Asset {
	return f.assets.put(&assetmodel.Asset{
		Name:          "Summer banner",
		Category:      "article",
		AssetType:     "creative",
		Status:        assetmodel.StatusDraft,
		UsageStatus:   status,
		LinkingActive: linking,
		Version:       1,
		CreatedAt:     time.Now(),
		UpdatedAt:     time.Now(),
	})
}

func reviewer() shared.Principal {
	return shared.Principal{UserID: 42, Role: shared.RoleReviewer}
}

func completeArticleChecklist() map[string]bool {
	return map[string]bool{
		"headline":   true,
		"body_copy":  true,
		"seo_meta":   true,
		"brand_tone": true,
	}
}

// =====================================================
// SUBMIT REVIEW
// =====================================================

func TestSubmitReview_ApproveHappyPath(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, false)

	resp, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:             88,
		QCRemarks:           "solid copy",
		QCDecision:          string(assetmodel.DecisionApproved),
		ChecklistItems:      completeArticleChecklist(),
		ChecklistCompletion: true,
		LinkingActive:       true,
	})

	require.NoError(t, err)
	assert.Equal(t, assetmodel.UsageAvailable, resp.AssetUsageStatus)
	assert.True(t, resp.AssetLinkable)
	assert.True(t, resp.Review.ChecklistComplete)
	assert.NotZero(t, resp.Review.ID)
	assert.Equal(t, int64(42), resp.Review.ReviewerID)

	// Review persisted and asset state moved under the same submission.
	stored, err := f.assets.GetByID(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.True(t, stored.LinkingActive)
	assert.Equal(t, 2, stored.Version)
	require.NotNil(t, stored.LastReviewOutcome)
	assert.Equal(t, "approved", *stored.LastReviewOutcome)

	history, err := f.reviews.ListByAsset(context.Background(), asset.ID, 10)
	require.NoError(t, err)
	assert.Len(t, history, 1)

	// The cached asset entry is invalidated.
	assert.NotEmpty(t, f.cache.deletes)
}

func TestSubmitReview_InconsistentApprovalWritesNothing(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, false)

	_, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:        40,
		QCDecision:     string(assetmodel.DecisionApproved),
		ChecklistItems: completeArticleChecklist(),
	})

	var policyErr *model.PolicyError
	require.ErrorAs(t, err, &policyErr)
	assert.Equal(t, model.PolicyReasonInconsistentApproval, policyErr.Reason)

	// All-or-nothing: no review row, asset untouched.
	assert.Empty(t, f.reviews.reviews)
	stored, _ := f.assets.GetByID(context.Background(), asset.ID)
	assert.Equal(t, 1, stored.Version)
	assert.Nil(t, stored.LastReviewOutcome)
}

func TestSubmitReview_RejectionAcceptsIncompleteChecklist(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, true)

	resp, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:    30,
		QCRemarks:  "headline off-brand, body thin",
		QCDecision: string(assetmodel.DecisionRejected),
		ChecklistItems: map[string]bool{
			"headline": false,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, assetmodel.UsageRejected, resp.AssetUsageStatus)
	assert.False(t, resp.AssetLinkable)
	assert.False(t, resp.Review.ChecklistComplete)

	stored, _ := f.assets.GetByID(context.Background(), asset.ID)
	assert.Equal(t, assetmodel.UsageRejected, stored.UsageStatus)
	assert.False(t, stored.LinkingActive)
}

func TestSubmitReview_NeedsChangesKeepsStatus(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, true)

	resp, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:    55,
		QCDecision: string(assetmodel.DecisionNeedsChanges),
		ChecklistItems: map[string]bool{
			"headline": true,
		},
	})

	require.NoError(t, err)
	assert.Equal(t, assetmodel.UsageAvailable, resp.AssetUsageStatus)

	// Status and linking unchanged, but the outcome and version moved.
	stored, _ := f.assets.GetByID(context.Background(), asset.ID)
	assert.True(t, stored.LinkingActive)
	assert.Equal(t, 2, stored.Version)
	require.NotNil(t, stored.LastReviewOutcome)
	assert.Equal(t, "needs_changes", *stored.LastReviewOutcome)
}

func TestSubmitReview_ArchivedAssetRefused(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageArchived, false)

	_, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:        90,
		QCDecision:     string(assetmodel.DecisionApproved),
		ChecklistItems: completeArticleChecklist(),
	})

	var invalidState *assetmodel.InvalidStateError
	require.ErrorAs(t, err, &invalidState)
	assert.Equal(t, assetmodel.UsageArchived, invalidState.State)
	assert.Empty(t, f.reviews.reviews)
}

func TestSubmitReview_RoleNotAuthorized(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, false)

	editor := shared.Principal{UserID: 7, Role: shared.RoleEditor}
	_, err := f.svc.SubmitReview(context.Background(), editor, asset.ID, model.SubmitReviewRequest{
		QCScore:        80,
		QCDecision:     string(assetmodel.DecisionApproved),
		ChecklistItems: completeArticleChecklist(),
	})

	assert.ErrorIs(t, err, model.ErrNotAuthorized)
	assert.Empty(t, f.reviews.reviews)
}

func TestSubmitReview_MalformedRequest(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, false)

	// Unknown decision value.
	_, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:        80,
		QCDecision:     "escalated",
		ChecklistItems: completeArticleChecklist(),
	})
	assert.Error(t, err)

	// Absent checklist map.
	_, err = f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:    80,
		QCDecision: string(assetmodel.DecisionApproved),
	})
	assert.Error(t, err)

	assert.Empty(t, f.reviews.reviews)
}

func TestSubmitReview_AssetNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.SubmitReview(context.Background(), reviewer(), 999, model.SubmitReviewRequest{
		QCScore:        80,
		QCDecision:     string(assetmodel.DecisionApproved),
		ChecklistItems: completeArticleChecklist(),
	})

	assert.ErrorIs(t, err, assetmodel.ErrAssetNotFound)
}

func TestSubmitReview_RetriesVersionConflict(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, false)

	// First attempt loses the race, second succeeds.
	f.assets.updateErrs = []error{assetmodel.ErrVersionConflict}

	resp, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:        75,
		QCDecision:     string(assetmodel.DecisionApproved),
		ChecklistItems: completeArticleChecklist(),
	})

	require.NoError(t, err)
	assert.Equal(t, assetmodel.UsageAvailable, resp.AssetUsageStatus)
	assert.Equal(t, 2, f.assets.updateCalls)

	// The failed attempt left no review behind.
	history, _ := f.reviews.ListByAsset(context.Background(), asset.ID, 10)
	assert.Len(t, history, 1)
}

func TestSubmitReview_RetryBudgetExhausted(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, false)

	f.assets.updateErrs = []error{
		assetmodel.ErrVersionConflict,
		assetmodel.ErrVersionConflict,
		assetmodel.ErrVersionConflict,
	}

	_, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:        75,
		QCDecision:     string(assetmodel.DecisionApproved),
		ChecklistItems: completeArticleChecklist(),
	})

	assert.ErrorIs(t, err, model.ErrConflict)
	assert.Equal(t, 3, f.assets.updateCalls)
	assert.Empty(t, f.reviews.reviews)
}

func TestSubmitReview_NonRetryableErrorReturnsImmediately(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, false)

	dbDown := errors.New("connection reset")
	f.assets.updateErrs = []error{dbDown}

	_, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:        75,
		QCDecision:     string(assetmodel.DecisionApproved),
		ChecklistItems: completeArticleChecklist(),
	})

	assert.ErrorIs(t, err, dbDown)
	assert.Equal(t, 1, f.assets.updateCalls)
}

// =====================================================
// QUERY SERVICE
// =====================================================

func TestListByAsset_EmptyHistory(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, false)

	history, err := f.svc.ListByAsset(context.Background(), asset.ID, 20)

	require.NoError(t, err)
	assert.NotNil(t, history)
	assert.Empty(t, history)
}

func TestListByAsset_UnknownAsset(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListByAsset(context.Background(), 999, 20)
	assert.ErrorIs(t, err, assetmodel.ErrAssetNotFound)
}

func TestListByAsset_MostRecentFirst(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, false)

	submit := func(decision assetmodel.ReviewDecision, score int) {
		_, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
			QCScore:        score,
			QCDecision:     string(decision),
			ChecklistItems: completeArticleChecklist(),
		})
		require.NoError(t, err)
	}

	submit(assetmodel.DecisionNeedsChanges, 50)
	submit(assetmodel.DecisionApproved, 85)

	history, err := f.svc.ListByAsset(context.Background(), asset.ID, 20)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, assetmodel.DecisionApproved, history[0].Decision)
	assert.Equal(t, assetmodel.DecisionNeedsChanges, history[1].Decision)
}

func TestStatistics(t *testing.T) {
	f := newFixture(t)
	asset := f.seedAsset(assetmodel.UsageAvailable, false)

	_, err := f.svc.SubmitReview(context.Background(), reviewer(), asset.ID, model.SubmitReviewRequest{
		QCScore:        85,
		QCDecision:     string(assetmodel.DecisionApproved),
		ChecklistItems: completeArticleChecklist(),
	})
	require.NoError(t, err)

	stats, err := f.svc.Statistics(context.Background(), asset.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.TotalReviews)
	assert.Equal(t, 1, stats.DecisionBreakdown["approved"])

	_, err = f.svc.Statistics(context.Background(), 999)
	assert.ErrorIs(t, err, assetmodel.ErrAssetNotFound)
}
