package model

import "fmt"

// Lifecycle transition rules. All functions here are pure: they map
// (prior state, input) to the next state or an error, and never touch
// storage. The review recorder and the asset service apply the results
// inside their own transactions.

// ApplyReviewOutcome returns the usage status and linking flag an asset
// moves to when a review with the given decision lands.
//
//	approved      -> available; linking flag taken from the review
//	rejected      -> rejected; linking flag cleared
//	needs_changes -> status and flag unchanged
//
// Archived assets accept no review-triggered transitions.
func ApplyReviewOutcome(prior *Asset, decision ReviewDecision, linkingActive bool) (UsageStatus, bool, error) {
	if prior.UsageStatus == UsageArchived {
		return "", false, &InvalidStateError{State: prior.UsageStatus, Action: "submit_review"}
	}

	switch decision {
	case DecisionApproved:
		return UsageAvailable, linkingActive, nil
	case DecisionRejected:
		return UsageRejected, false, nil
	case DecisionNeedsChanges:
		return prior.UsageStatus, prior.LinkingActive, nil
	default:
		return "", false, fmt.Errorf("unknown review decision: %q", decision)
	}
}

// ActivateLinking is the explicit external activation for assets approved
// with linking_active=false. Only an available asset can be activated.
func ActivateLinking(prior *Asset) (UsageStatus, bool, error) {
	if prior.UsageStatus != UsageAvailable {
		return "", false, &InvalidStateError{State: prior.UsageStatus, Action: "activate_linking"}
	}
	return UsageAvailable, true, nil
}

// Link marks the asset in use by another record. Requires the guard to pass.
func Link(prior *Asset) (UsageStatus, bool, error) {
	if !prior.Linkable() {
		if prior.UsageStatus != UsageAvailable {
			return "", false, &LinkingDeniedError{Reason: string(prior.UsageStatus)}
		}
		return "", false, &LinkingDeniedError{Reason: "linking_inactive"}
	}
	return UsageInUse, true, nil
}

// Unlink releases an in-use asset back to the pool.
func Unlink(prior *Asset) (UsageStatus, bool, error) {
	if prior.UsageStatus != UsageInUse {
		return "", false, &InvalidStateError{State: prior.UsageStatus, Action: "unlink"}
	}
	return UsageAvailable, prior.LinkingActive, nil
}

// Archive is the administrative removal. Absorbing: archiving an archived
// asset is rejected so callers notice double submissions.
func Archive(prior *Asset) (UsageStatus, bool, error) {
	if prior.UsageStatus == UsageArchived {
		return "", false, &InvalidStateError{State: prior.UsageStatus, Action: "archive"}
	}
	return UsageArchived, false, nil
}
