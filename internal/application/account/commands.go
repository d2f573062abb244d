// Package account is the sample application layer: account commands, their
// models and results, and the handlers the executor strategies run.
package account

import (
	"github.com/google/uuid"

	"github.com/lllypuk/cmdflow/internal/validation"
)

// Field limits for account commands.
const (
	maxEmailLength       = 254
	maxDisplayNameLength = 50
	maxBioLength         = 500
	minPasswordLength    = 8
)

// commandFields carries the per-field validation results populated at
// construction time and implements the Command capability.
type commandFields struct {
	fields []validation.FieldError
}

// IsValid reports whether every field passed validation.
func (c commandFields) IsValid() bool {
	for _, f := range c.fields {
		if !f.IsValid() {
			return false
		}
	}
	return true
}

// FieldErrors returns the per-field results in binding order.
func (c commandFields) FieldErrors() []validation.FieldError {
	return c.fields
}

// RegisterAccountCommand creates a new account.
type RegisterAccountCommand struct {
	commandFields

	Email       string
	DisplayName string
	Password    string
}

// NewRegisterAccountCommand builds the command and validates its fields.
func NewRegisterAccountCommand(email, displayName, password string) RegisterAccountCommand {
	cmd := RegisterAccountCommand{
		Email:       email,
		DisplayName: displayName,
		Password:    password,
	}
	cmd.fields = []validation.FieldError{
		validation.CheckField("email",
			validation.Required("email", email),
			validation.Email("email", email),
			validation.MaxLength("email", email, maxEmailLength),
		),
		validation.CheckField("display_name",
			validation.Required("display_name", displayName),
			validation.MaxLength("display_name", displayName, maxDisplayNameLength),
		),
		validation.CheckField("password",
			validation.Required("password", password),
			validation.MinLength("password", password, minPasswordLength),
		),
	}
	return cmd
}

// UpdateProfileCommand changes an account's display name and bio. It is
// executed through a model-input strategy: the executor projects it to a
// Profile before invoking the handler.
type UpdateProfileCommand struct {
	commandFields

	AccountID   uuid.UUID
	DisplayName string
	Bio         string
}

// NewUpdateProfileCommand builds the command and validates its fields.
func NewUpdateProfileCommand(accountID uuid.UUID, displayName, bio string) UpdateProfileCommand {
	cmd := UpdateProfileCommand{
		AccountID:   accountID,
		DisplayName: displayName,
		Bio:         bio,
	}
	cmd.fields = []validation.FieldError{
		validation.CheckField("account_id", requiredID("account_id", accountID)),
		validation.CheckField("display_name",
			validation.Required("display_name", displayName),
			validation.MaxLength("display_name", displayName, maxDisplayNameLength),
		),
		validation.CheckField("bio",
			validation.MaxLength("bio", bio, maxBioLength),
		),
	}
	return cmd
}

// SendWelcomeEmailCommand queues the post-registration welcome email; its
// handler is asynchronous.
type SendWelcomeEmailCommand struct {
	commandFields

	AccountID uuid.UUID
}

// NewSendWelcomeEmailCommand builds the command and validates its fields.
func NewSendWelcomeEmailCommand(accountID uuid.UUID) SendWelcomeEmailCommand {
	cmd := SendWelcomeEmailCommand{AccountID: accountID}
	cmd.fields = []validation.FieldError{
		validation.CheckField("account_id", requiredID("account_id", accountID)),
	}
	return cmd
}

// ReindexProfileCommand rebuilds the search entry for a profile; its handler
// is asynchronous and model-input.
type ReindexProfileCommand struct {
	commandFields

	AccountID uuid.UUID
}

// NewReindexProfileCommand builds the command and validates its fields.
func NewReindexProfileCommand(accountID uuid.UUID) ReindexProfileCommand {
	cmd := ReindexProfileCommand{AccountID: accountID}
	cmd.fields = []validation.FieldError{
		validation.CheckField("account_id", requiredID("account_id", accountID)),
	}
	return cmd
}

// requiredID rejects the zero UUID.
func requiredID(field string, id uuid.UUID) *validation.ValidationError {
	if id == uuid.Nil {
		e := validation.NewValidationError(field+": is required", validation.KindRequired)
		return &e
	}
	return nil
}
