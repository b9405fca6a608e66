package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type contactInput struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Email string `json:"email,omitempty" validate:"omitempty,max=5"`
}

func TestFormatValidationErrors_UsesJSONNames(t *testing.T) {
	v := NewValidator()

	err := v.Validate(&contactInput{Email: "too-long"})
	require.Error(t, err)

	fields := v.FormatValidationErrors(err)
	assert.Equal(t, "name is required", fields["name"])
	assert.Equal(t, "phone is required", fields["phone"])
	assert.Equal(t, "email must be at most 5 characters", fields["email"])
}

func TestValidate_Passes(t *testing.T) {
	v := NewValidator()
	assert.NoError(t, v.Validate(&contactInput{Name: "Jane", Phone: "+1"}))
	assert.Empty(t, v.FormatValidationErrors(nil))
}
