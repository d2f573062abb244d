package validation

// FieldError is the validation result of a single bound field. It either
// passed (no inner error) or failed with exactly one ValidationError.
type FieldError struct {
	Field string
	err   *ValidationError
}

// ValidField returns a FieldError recording that the field passed validation.
func ValidField(field string) FieldError {
	return FieldError{Field: field}
}

// InvalidField returns a FieldError recording a validation failure.
func InvalidField(field string, err ValidationError) FieldError {
	return FieldError{Field: field, err: &err}
}

// CheckField combines the results of several rules applied to one field. The
// first failure wins; nil results are passes.
func CheckField(field string, results ...*ValidationError) FieldError {
	for _, r := range results {
		if r != nil {
			return InvalidField(field, *r)
		}
	}
	return ValidField(field)
}

// IsValid reports whether the field passed validation.
func (f FieldError) IsValid() bool {
	return f.err == nil
}

// Err returns the inner validation error, if any.
func (f FieldError) Err() (ValidationError, bool) {
	if f.err == nil {
		return ValidationError{}, false
	}
	return *f.err, true
}

// Command is the capability a request-bound command object must expose to the
// executor layer. Both accessors are pure reads over state populated by the
// binding/validation phase; executors never mutate a command.
type Command interface {
	// IsValid reports whether every field-level validation succeeded.
	IsValid() bool

	// FieldErrors returns the per-field validation results in binding order.
	// When IsValid is false at least one entry carries an inner error.
	FieldErrors() []FieldError
}
