package account

import (
	"time"

	"github.com/google/uuid"
)

// AccountResult is the success value of account registration.
type AccountResult struct {
	AccountID   uuid.UUID `json:"account_id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Profile is the model representation of profile commands: the value a
// model-input handler receives instead of the raw command, and the success
// value of profile operations.
type Profile struct {
	AccountID   uuid.UUID `json:"account_id"`
	DisplayName string    `json:"display_name"`
	Bio         string    `json:"bio,omitempty"`
}

// EmailReceipt is the success value of the welcome email command.
type EmailReceipt struct {
	AccountID uuid.UUID `json:"account_id"`
	MessageID uuid.UUID `json:"message_id"`
	SentAt    time.Time `json:"sent_at"`
}

// ProfileFromUpdateCommand is the pure projection supplied to the model-input
// strategy for profile updates.
func ProfileFromUpdateCommand(cmd UpdateProfileCommand) Profile {
	return Profile{
		AccountID:   cmd.AccountID,
		DisplayName: cmd.DisplayName,
		Bio:         cmd.Bio,
	}
}

// ProfileFromReindexCommand projects a reindex command to the stored profile
// key; only the account ID is meaningful, the handler loads the rest.
func ProfileFromReindexCommand(cmd ReindexProfileCommand) Profile {
	return Profile{AccountID: cmd.AccountID}
}
