package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type decisionRequest struct {
	Status string `json:"status" validate:"required,is-verification-status"`
}

type jobRequest struct {
	Title     string `json:"title" validate:"required,min=3"`
	Trade     string `json:"trade" validate:"required,trade"`
	StartTime string `json:"start_time" validate:"omitempty,hhmm"`
	ABN       string `json:"abn" validate:"omitempty,abn"`
}

func TestValidate_VerificationStatus(t *testing.T) {
	v := New()

	for _, s := range []string{"unverified", "pending", "verified", "rejected", "VERIFIED"} {
		assert.NoError(t, v.Validate(&decisionRequest{Status: s}), s)
	}

	err := v.Validate(&decisionRequest{Status: "approved"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Errors, "status")
}

func TestValidate_UsesJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Validate(&jobRequest{Title: "ab", Trade: "astronaut", StartTime: "25:00", ABN: "123"})
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)

	assert.Equal(t, "Must be at least 3 items/characters long", vErr.Errors["title"])
	assert.Equal(t, "Unknown trade", vErr.Errors["trade"])
	assert.Equal(t, "Must be a time in HH:MM format", vErr.Errors["start_time"])
	assert.Equal(t, "Must be a valid 11-digit ABN", vErr.Errors["abn"])
}

func TestValidate_Valid(t *testing.T) {
	v := New()

	assert.NoError(t, v.Validate(&jobRequest{Title: "Tiling job", Trade: "tiler", StartTime: "07:30", ABN: "51 824 753 556"}))
}

func TestValidationError_MessageIsStable(t *testing.T) {
	err := &ValidationError{Errors: map[string]string{"b": "two", "a": "one"}}
	assert.Equal(t, "Validation failed: field 'a': one; field 'b': two", err.Error())
}
