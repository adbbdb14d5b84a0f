package model

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes
const (
	ErrCodeValidation   = "QC001"
	ErrCodePolicy       = "QC002"
	ErrCodeConflict     = "QC003"
	ErrCodeUnauthorized = "QC004"
	ErrCodePersistence  = "QC005"
)

// Policy error reasons
const (
	PolicyReasonInconsistentApproval = "inconsistent_approval"
	PolicyReasonOutOfRange           = "out_of_range"
)

// Errors
var (
	// ErrConflict is surfaced after the bounded retry budget for a
	// concurrent submission is exhausted; the caller should retry.
	ErrConflict = errors.New("concurrent review submission, retry")

	// ErrNotAuthorized means the caller's role may not review this category.
	ErrNotAuthorized = errors.New("role not authorized to submit reviews")
)

// ValidationError reports a malformed checklist submission. MissingItems
// carries the required item names that were absent or failing, so the
// client can surface them; never silently defaulted.
type ValidationError struct {
	MissingItems []string
}

func (e *ValidationError) Error() string {
	if len(e.MissingItems) == 0 {
		return "checklist validation failed"
	}
	return fmt.Sprintf("checklist incomplete: missing or failing items [%s]",
		strings.Join(e.MissingItems, ", "))
}

// PolicyError reports a score/decision combination the policy refuses.
// The submission itself is invalid and is never persisted; distinct from
// the reviewer's own decision=rejected outcome for the asset.
type PolicyError struct {
	Reason string
	Detail string
}

func (e *PolicyError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("policy violation (%s): %s", e.Reason, e.Detail)
	}
	return fmt.Sprintf("policy violation (%s)", e.Reason)
}
