package httphandler_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lllypuk/cmdflow/internal/application/account"
	httphandler "github.com/lllypuk/cmdflow/internal/handler/http"
	"github.com/lllypuk/cmdflow/internal/infrastructure/httpserver"
	"github.com/lllypuk/cmdflow/internal/infrastructure/outcomebus"
)

// recordingPublisher captures outcome records instead of touching Redis.
type recordingPublisher struct {
	records []outcomebus.Record
}

func (p *recordingPublisher) Publish(_ context.Context, rec outcomebus.Record) error {
	p.records = append(p.records, rec)
	return nil
}

func newHandler(t *testing.T) (*httphandler.AccountHandler, *account.Service, *recordingPublisher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := account.NewService(logger)
	pub := &recordingPublisher{}
	h, err := httphandler.NewAccountHandler(svc, pub, logger)
	require.NoError(t, err)
	return h, svc, pub
}

func doJSON(t *testing.T, h func(echo.Context) error, method, target, body string, params ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	require.NoError(t, h(c))
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httpserver.Response {
	t.Helper()
	var resp httpserver.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func registerBody(email string) string {
	return `{"email":"` + email + `","display_name":"Al","password":"long-enough-pw"}`
}

func registerAccount(t *testing.T, h *httphandler.AccountHandler) uuid.UUID {
	t.Helper()
	rec := doJSON(t, h.Register, http.MethodPost, "/api/v1/accounts", registerBody("al@example.com"))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Data account.AccountResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data.AccountID
}

func TestRegister_Created(t *testing.T) {
	h, _, pub := newHandler(t)

	rec := doJSON(t, h.Register, http.MethodPost, "/api/v1/accounts", registerBody("al@example.com"))

	assert.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	require.Len(t, pub.records, 1)
	assert.Equal(t, "RegisterAccountCommand", pub.records[0].Command)
	assert.True(t, pub.records[0].Success)
}

func TestRegister_ValidationFailure(t *testing.T) {
	h, _, pub := newHandler(t)

	rec := doJSON(t, h.Register, http.MethodPost, "/api/v1/accounts",
		`{"email":"not-an-email","display_name":"","password":"x"}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	resp := decodeResponse(t, rec)
	assert.False(t, resp.Success)
	require.Len(t, resp.Errors, 3, "every field failure is reported, in order")
	assert.Equal(t, "email: must be a valid email address", resp.Errors[0].Message)

	require.Len(t, pub.records, 1)
	assert.False(t, pub.records[0].Success)
	assert.Len(t, pub.records[0].Failures, 3)
}

func TestRegister_DuplicateEmailConflict(t *testing.T) {
	h, _, _ := newHandler(t)
	registerAccount(t, h)

	rec := doJSON(t, h.Register, http.MethodPost, "/api/v1/accounts", registerBody("al@example.com"))

	assert.Equal(t, http.StatusConflict, rec.Code)
	resp := decodeResponse(t, rec)
	require.Len(t, resp.Errors, 1)
	assert.Equal(t, "conflict", resp.Errors[0].Kind)
}

func TestRegister_MalformedBody(t *testing.T) {
	h, _, pub := newHandler(t)

	rec := doJSON(t, h.Register, http.MethodPost, "/api/v1/accounts", `{not json`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, pub.records, "no command was executed, nothing to publish")
}

func TestUpdateProfile_OK(t *testing.T) {
	h, svc, _ := newHandler(t)
	accountID := registerAccount(t, h)

	rec := doJSON(t, h.UpdateProfile, http.MethodPut, "/api/v1/accounts/"+accountID.String()+"/profile",
		`{"display_name":"Alice","bio":"hello"}`, "id", accountID.String())

	assert.Equal(t, http.StatusOK, rec.Code)
	stored, ok := svc.GetProfile(accountID)
	require.True(t, ok)
	assert.Equal(t, "Alice", stored.DisplayName)
	assert.Equal(t, "hello", stored.Bio)
}

func TestUpdateProfile_UnknownAccountNotFound(t *testing.T) {
	h, _, _ := newHandler(t)
	id := uuid.New()

	rec := doJSON(t, h.UpdateProfile, http.MethodPut, "/api/v1/accounts/"+id.String()+"/profile",
		`{"display_name":"Alice"}`, "id", id.String())

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateProfile_BadAccountID(t *testing.T) {
	h, _, _ := newHandler(t)

	rec := doJSON(t, h.UpdateProfile, http.MethodPut, "/api/v1/accounts/nope/profile",
		`{"display_name":"Alice"}`, "id", "nope")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSendWelcomeEmail_OK(t *testing.T) {
	h, _, pub := newHandler(t)
	accountID := registerAccount(t, h)

	rec := doJSON(t, h.SendWelcomeEmail, http.MethodPost,
		"/api/v1/accounts/"+accountID.String()+"/welcome-email", "", "id", accountID.String())

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)

	require.Len(t, pub.records, 2)
	assert.Equal(t, "SendWelcomeEmailCommand", pub.records[1].Command)
}

func TestReindexProfile_OK(t *testing.T) {
	h, _, _ := newHandler(t)
	accountID := registerAccount(t, h)

	rec := doJSON(t, h.ReindexProfile, http.MethodPost,
		"/api/v1/accounts/"+accountID.String()+"/reindex", "", "id", accountID.String())

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
}
