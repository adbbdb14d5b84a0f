package service

import (
	"fmt"

	assetmodel "marketing-asset-backend/internal/domains/asset/model"
	"marketing-asset-backend/internal/domains/qcreview/model"
)

// ScorePolicy decides whether a (score, decision, checklist verdict)
// combination is admissible. A refused submission is never persisted;
// this is distinct from the reviewer deciding to reject the asset.
type ScorePolicy struct {
	approvalThreshold int
	minScore          int
	maxScore          int
}

func NewScorePolicy(approvalThreshold, minScore, maxScore int) *ScorePolicy {
	return &ScorePolicy{
		approvalThreshold: approvalThreshold,
		minScore:          minScore,
		maxScore:          maxScore,
	}
}

// Evaluate returns nil when the submission is admissible.
//
//	approved      requires a complete checklist and score >= threshold
//	rejected      score advisory, bounds still enforced
//	needs_changes score advisory, checklist may be incomplete
func (p *ScorePolicy) Evaluate(score int, decision assetmodel.ReviewDecision, verdict ChecklistVerdict) error {
	if score < p.minScore || score > p.maxScore {
		return &model.PolicyError{
			Reason: model.PolicyReasonOutOfRange,
			Detail: fmt.Sprintf("score %d not in [%d,%d]", score, p.minScore, p.maxScore),
		}
	}

	if decision == assetmodel.DecisionApproved {
		if !verdict.Complete {
			return &model.PolicyError{
				Reason: model.PolicyReasonInconsistentApproval,
				Detail: fmt.Sprintf("checklist incomplete: %v", verdict.Problems()),
			}
		}
		if score < p.approvalThreshold {
			return &model.PolicyError{
				Reason: model.PolicyReasonInconsistentApproval,
				Detail: fmt.Sprintf("score %d below approval threshold %d", score, p.approvalThreshold),
			}
		}
	}

	return nil
}
