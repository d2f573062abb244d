package validation

import "fmt"

// ErrorKind classifies a validation failure.
type ErrorKind string

// Validation error kinds.
const (
	KindRequired ErrorKind = "required"
	KindFormat   ErrorKind = "format"
	KindLength   ErrorKind = "length"
	KindRange    ErrorKind = "range"
	KindConflict ErrorKind = "conflict"
	KindNotFound ErrorKind = "not_found"

	// KindUnknown wraps unexpected faults raised by command handlers.
	KindUnknown ErrorKind = "unknown_error"
)

// ValidationError is a single validation failure with a human-readable
// message and a kind tag.
//
//nolint:revive // Name kept explicit to avoid confusion with plain errors.
type ValidationError struct {
	Message string
	Kind    ErrorKind
}

// NewValidationError creates a ValidationError.
func NewValidationError(message string, kind ErrorKind) ValidationError {
	return ValidationError{Message: message, Kind: kind}
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}
