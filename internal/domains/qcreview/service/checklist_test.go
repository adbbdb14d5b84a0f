package service

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assetmodel "marketing-asset-backend/internal/domains/asset/model"
	"marketing-asset-backend/internal/domains/qcreview/model"
)

func testValidator() *ChecklistValidator {
	return NewChecklistValidator(map[string][]string{
		"article": {"headline", "body_copy", "seo_meta", "brand_tone"},
		"image":   {"resolution", "brand_colors", "licensing"},
	})
}

func TestChecklistValidator_Complete(t *testing.T) {
	verdict, err := testValidator().Validate("article", map[string]bool{
		"headline":   true,
		"body_copy":  true,
		"seo_meta":   true,
		"brand_tone": true,
	})

	require.NoError(t, err)
	assert.True(t, verdict.Complete)
	assert.Empty(t, verdict.Missing)
	assert.Empty(t, verdict.Failing)
	assert.NoError(t, verdict.RequireComplete())
}

func TestChecklistValidator_MissingAndFailing(t *testing.T) {
	verdict, err := testValidator().Validate("article", map[string]bool{
		"headline":  true,
		"body_copy": false,
		// seo_meta and brand_tone absent
	})

	require.NoError(t, err)
	assert.False(t, verdict.Complete)
	assert.Equal(t, []string{"brand_tone", "seo_meta"}, verdict.Missing)
	assert.Equal(t, []string{"body_copy"}, verdict.Failing)

	err = verdict.RequireComplete()
	var validationErr *model.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.ElementsMatch(t, []string{"brand_tone", "seo_meta", "body_copy"}, validationErr.MissingItems)
}

func TestChecklistValidator_ExtraItemsAllowed(t *testing.T) {
	verdict, err := testValidator().Validate("image", map[string]bool{
		"resolution":   true,
		"brand_colors": true,
		"licensing":    true,
		"alt_text":     false, // beyond the required set, ignored
	})

	require.NoError(t, err)
	assert.True(t, verdict.Complete)
}

func TestChecklistValidator_UnknownCategory(t *testing.T) {
	_, err := testValidator().Validate("podcast", map[string]bool{})
	assert.True(t, errors.Is(err, assetmodel.ErrUnknownCategory))
}

func TestChecklistValidator_EmptySubmission(t *testing.T) {
	verdict, err := testValidator().Validate("image", map[string]bool{})

	require.NoError(t, err)
	assert.False(t, verdict.Complete)
	assert.Equal(t, []string{"brand_colors", "licensing", "resolution"}, verdict.Missing)
}
