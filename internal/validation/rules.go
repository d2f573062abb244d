package validation

import (
	"fmt"
	"strings"
)

// Field rules used by command constructors to populate FieldErrors. Each rule
// returns nil on success so rules compose through CheckField.

// Required fails when the value is empty or whitespace-only.
func Required(field, value string) *ValidationError {
	if strings.TrimSpace(value) == "" {
		e := NewValidationError(field+": is required", KindRequired)
		return &e
	}
	return nil
}

// MaxLength fails when the value exceeds maxLen bytes.
func MaxLength(field, value string, maxLen int) *ValidationError {
	if len(value) > maxLen {
		e := NewValidationError(fmt.Sprintf("%s: must be at most %d characters", field, maxLen), KindLength)
		return &e
	}
	return nil
}

// MinLength fails when a non-empty value is shorter than minLen bytes.
func MinLength(field, value string, minLen int) *ValidationError {
	if value != "" && len(value) < minLen {
		e := NewValidationError(fmt.Sprintf("%s: must be at least %d characters", field, minLen), KindLength)
		return &e
	}
	return nil
}

// InRange fails when value is outside [minValue, maxValue].
func InRange(field string, value, minValue, maxValue int) *ValidationError {
	if value < minValue || value > maxValue {
		e := NewValidationError(
			fmt.Sprintf("%s: must be between %d and %d", field, minValue, maxValue), KindRange)
		return &e
	}
	return nil
}

// Email performs a basic shape check: an @ followed later by a dot.
func Email(field, value string) *ValidationError {
	at := strings.Index(value, "@")
	if at <= 0 || !strings.Contains(value[at:], ".") || strings.HasSuffix(value, ".") {
		e := NewValidationError(field+": must be a valid email address", KindFormat)
		return &e
	}
	return nil
}
