package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"marketing-asset-backend/internal/domains/qcreview/model"
)

type postgresReviewRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresReviewRepository(pool *pgxpool.Pool) ReviewRepository {
	return &postgresReviewRepository{pool: pool}
}

// =====================================================
// CREATE
// =====================================================

func (r *postgresReviewRepository) Create(ctx context.Context, tx pgx.Tx, review *model.Review) error {
	query := `
		INSERT INTO qc_reviews (
			asset_id, reviewer_id, reviewer_role,
			score, decision, remarks,
			checklist_items, checklist_complete, linking_active,
			created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id
	`

	items, err := json.Marshal(review.ChecklistItems)
	if err != nil {
		return fmt.Errorf("failed to encode checklist items: %w", err)
	}

	err = tx.QueryRow(ctx, query,
		review.AssetID,
		review.ReviewerID,
		review.ReviewerRole,
		review.Score,
		review.Decision,
		review.Remarks,
		items,
		review.ChecklistComplete,
		review.LinkingActive,
		review.CreatedAt,
	).Scan(&review.ID)

	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// =====================================================
// HISTORY
// =====================================================

func (r *postgresReviewRepository) ListByAsset(ctx context.Context, assetID int64, limit int) ([]*model.Review, error) {
	query := `
		SELECT
			id, asset_id, reviewer_id, reviewer_role,
			score, decision, remarks,
			checklist_items, checklist_complete, linking_active,
			created_at
		FROM qc_reviews
		WHERE asset_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, assetID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := []*model.Review{}
	for rows.Next() {
		review := &model.Review{}
		var items []byte

		err := rows.Scan(
			&review.ID,
			&review.AssetID,
			&review.ReviewerID,
			&review.ReviewerRole,
			&review.Score,
			&review.Decision,
			&review.Remarks,
			&items,
			&review.ChecklistComplete,
			&review.LinkingActive,
			&review.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}

		if err := json.Unmarshal(items, &review.ChecklistItems); err != nil {
			return nil, fmt.Errorf("failed to decode checklist items: %w", err)
		}

		reviews = append(reviews, review)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read reviews: %w", err)
	}

	return reviews, nil
}

// =====================================================
// STATISTICS
// =====================================================

func (r *postgresReviewRepository) Statistics(ctx context.Context, assetID int64) (*model.ReviewStatistics, error) {
	query := `
		SELECT
			COUNT(*) AS total_reviews,
			COALESCE(AVG(score)::float8, 0) AS average_score,
			MAX(created_at) AS last_reviewed_at
		FROM qc_reviews
		WHERE asset_id = $1
	`

	stats := &model.ReviewStatistics{AssetID: assetID}
	var avg float64
	var lastReviewedAt *time.Time

	err := r.pool.QueryRow(ctx, query, assetID).Scan(
		&stats.TotalReviews,
		&avg,
		&lastReviewedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get review statistics: %w", err)
	}

	stats.AverageScore = decimal.NewFromFloat(avg).Round(1)
	stats.LastReviewedAt = lastReviewedAt

	breakdownQuery := `
		SELECT decision, COUNT(*) AS count
		FROM qc_reviews
		WHERE asset_id = $1
		GROUP BY decision
	`

	rows, err := r.pool.Query(ctx, breakdownQuery, assetID)
	if err != nil {
		return nil, fmt.Errorf("failed to get decision breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[string]int)
	for rows.Next() {
		var decision string
		var count int
		if err := rows.Scan(&decision, &count); err != nil {
			return nil, fmt.Errorf("failed to scan decision breakdown: %w", err)
		}
		breakdown[decision] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read decision breakdown: %w", err)
	}

	stats.DecisionBreakdown = breakdown
	return stats, nil
}
