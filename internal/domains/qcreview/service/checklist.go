package service

import (
	"fmt"
	"sort"

	assetmodel "marketing-asset-backend/internal/domains/asset/model"
	"marketing-asset-backend/internal/domains/qcreview/model"
)

// ChecklistVerdict is the outcome of validating a submitted checklist
// against the required item set for the asset's category.
type ChecklistVerdict struct {
	Complete bool
	// Missing lists required items absent from the submission.
	Missing []string
	// Failing lists required items present but not passed.
	Failing []string
}

// Problems returns the missing and failing names in one stable list.
func (v ChecklistVerdict) Problems() []string {
	problems := make([]string, 0, len(v.Missing)+len(v.Failing))
	problems = append(problems, v.Missing...)
	problems = append(problems, v.Failing...)
	return problems
}

// ChecklistValidator checks submissions against the configured
// category -> required items mapping. Side-effect free.
type ChecklistValidator struct {
	requirements map[string][]string
}

func NewChecklistValidator(requirements map[string][]string) *ChecklistValidator {
	return &ChecklistValidator{requirements: requirements}
}

// Validate computes the verdict for a submission. A category with no
// configured checklist is a malformed submission, reported as a
// ValidationError rather than silently defaulted.
func (cv *ChecklistValidator) Validate(category string, items map[string]bool) (ChecklistVerdict, error) {
	required, ok := cv.requirements[category]
	if !ok {
		return ChecklistVerdict{}, fmt.Errorf("%w: no checklist configured for %q",
			assetmodel.ErrUnknownCategory, category)
	}

	verdict := ChecklistVerdict{}
	for _, name := range required {
		passed, present := items[name]
		switch {
		case !present:
			verdict.Missing = append(verdict.Missing, name)
		case !passed:
			verdict.Failing = append(verdict.Failing, name)
		}
	}

	// Extra items beyond the required set are allowed; they are stored
	// with the review for audit but carry no policy weight.

	sort.Strings(verdict.Missing)
	sort.Strings(verdict.Failing)
	verdict.Complete = len(verdict.Missing) == 0 && len(verdict.Failing) == 0

	return verdict, nil
}

// RequireComplete converts an incomplete verdict into the structured
// validation error surfaced to the caller.
func (v ChecklistVerdict) RequireComplete() error {
	if v.Complete {
		return nil
	}
	return &model.ValidationError{MissingItems: v.Problems()}
}
