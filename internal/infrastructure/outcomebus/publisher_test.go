package outcomebus_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/cmdflow/internal/infrastructure/outcomebus"
	"github.com/lllypuk/cmdflow/internal/validation"
)

func TestRecordFor_Success(t *testing.T) {
	out := validation.Valid("done")

	rec := outcomebus.RecordFor("RegisterAccountCommand", out)

	assert.Equal(t, "RegisterAccountCommand", rec.Command)
	assert.True(t, rec.Success)
	assert.Empty(t, rec.Failures)
	assert.False(t, rec.OccurredAt.IsZero())
}

func TestRecordFor_Failure(t *testing.T) {
	out := validation.NewInvalid[string](
		validation.NewValidationError("email: is required", validation.KindRequired),
		validation.NewValidationError("email: must be a valid email address", validation.KindFormat),
	)

	rec := outcomebus.RecordFor("RegisterAccountCommand", out)

	assert.False(t, rec.Success)
	assert.Equal(t, []string{
		"email: is required",
		"email: must be a valid email address",
	}, rec.Failures)
}

func TestRecord_JSONShape(t *testing.T) {
	rec := outcomebus.RecordFor("UpdateProfileCommand", validation.Valid(1))

	payload, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"command":"UpdateProfileCommand"`)
	assert.Contains(t, string(payload), `"success":true`)
	assert.NotContains(t, string(payload), "failures", "empty failures are omitted")
}

func TestPublisher_ChannelNaming(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	p := outcomebus.NewPublisher(nil, "", logger)
	assert.Equal(t, "outcomes:RegisterAccountCommand", p.Channel("RegisterAccountCommand"))

	custom := outcomebus.NewPublisher(nil, "cmd.", logger)
	assert.Equal(t, "cmd.RegisterAccountCommand", custom.Channel("RegisterAccountCommand"))
}
