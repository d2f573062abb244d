// Package validation defines the uniform success-or-failure result type shared
// by every command executor, together with the minimal capability a bound
// command must expose to be executable.
package validation

// Outcome is the result of executing a command: either a value of type S or a
// non-empty, order-preserving list of validation errors. The zero value is an
// invalid Outcome with no errors and must not be returned to callers; use
// Valid or NewInvalid.
type Outcome[S any] struct {
	value  S
	errors []ValidationError
	valid  bool
}

// Valid returns a successful Outcome carrying value.
func Valid[S any](value S) Outcome[S] {
	return Outcome[S]{value: value, valid: true}
}

// NewInvalid returns a failed Outcome. The signature requires at least one
// error: an invalid Outcome never carries an empty error list.
func NewInvalid[S any](first ValidationError, rest ...ValidationError) Outcome[S] {
	errs := make([]ValidationError, 0, 1+len(rest))
	errs = append(errs, first)
	errs = append(errs, rest...)
	return Outcome[S]{errors: errs}
}

// IsValid reports whether the Outcome carries a value.
func (o Outcome[S]) IsValid() bool {
	return o.valid
}

// Value returns the success value. For an invalid Outcome it returns the zero
// value of S; callers must check IsValid first.
func (o Outcome[S]) Value() S {
	return o.value
}

// Errors returns the validation errors in their original order. Returns nil
// for a valid Outcome. Callers must not mutate the returned slice.
func (o Outcome[S]) Errors() []ValidationError {
	return o.errors
}

// ErrorMessages returns the messages of all errors, in order.
func (o Outcome[S]) ErrorMessages() []string {
	if len(o.errors) == 0 {
		return nil
	}
	msgs := make([]string, len(o.errors))
	for i, e := range o.errors {
		msgs[i] = e.Message
	}
	return msgs
}
