package model

import (
	"errors"
	"fmt"
)

// Error codes
const (
	ErrCodeAssetNotFound   = "ASSET001"
	ErrCodeInvalidState    = "ASSET002"
	ErrCodeVersionConflict = "ASSET003"
	ErrCodeLinkingDenied   = "ASSET004"
	ErrCodeInvalidCategory = "ASSET005"
)

// Errors
var (
	ErrAssetNotFound   = errors.New("asset not found")
	ErrVersionConflict = errors.New("asset was modified concurrently")
	ErrUnknownCategory = errors.New("unknown asset category")
)

// InvalidStateError signals a transition requested against a state that
// does not permit it. The asset is left untouched.
type InvalidStateError struct {
	State  UsageStatus
	Action string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("action %q not allowed while asset is %s", e.Action, e.State)
}

// LinkingDeniedError carries the blocking reason returned by the linking guard.
type LinkingDeniedError struct {
	Reason string
}

func (e *LinkingDeniedError) Error() string {
	return fmt.Sprintf("linking denied: %s", e.Reason)
}
