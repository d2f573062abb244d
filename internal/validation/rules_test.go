package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/cmdflow/internal/validation"
)

func TestRequired(t *testing.T) {
	assert.Nil(t, validation.Required("email", "al@example.com"))

	err := validation.Required("email", "   ")
	require.NotNil(t, err)
	assert.Equal(t, validation.KindRequired, err.Kind)
	assert.Equal(t, "email: is required", err.Message)
}

func TestMaxLength(t *testing.T) {
	assert.Nil(t, validation.MaxLength("name", "Al", 50))

	err := validation.MaxLength("name", strings.Repeat("a", 51), 50)
	require.NotNil(t, err)
	assert.Equal(t, validation.KindLength, err.Kind)
}

func TestMinLength(t *testing.T) {
	assert.Nil(t, validation.MinLength("password", "secretpw", 8))
	assert.Nil(t, validation.MinLength("password", "", 8), "emptiness is Required's concern")

	err := validation.MinLength("password", "short", 8)
	require.NotNil(t, err)
	assert.Equal(t, validation.KindLength, err.Kind)
}

func TestInRange(t *testing.T) {
	assert.Nil(t, validation.InRange("age", 30, 0, 150))

	err := validation.InRange("age", -1, 0, 150)
	require.NotNil(t, err)
	assert.Equal(t, validation.KindRange, err.Kind)
	assert.Equal(t, "age: must be between 0 and 150", err.Message)
}

func TestEmail(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"al@example.com", true},
		{"a@b.co", true},
		{"not-an-email", false},
		{"@example.com", false},
		{"al@example.", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			err := validation.Email("email", tt.value)
			if tt.valid {
				assert.Nil(t, err)
			} else {
				require.NotNil(t, err)
				assert.Equal(t, validation.KindFormat, err.Kind)
			}
		})
	}
}
