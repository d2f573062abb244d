package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/lllypuk/cmdflow/internal/validation"
)

// Response is the uniform API envelope.
type Response struct {
	Success bool         `json:"success"`
	Data    any          `json:"data,omitempty"`
	Errors  []FieldIssue `json:"errors,omitempty"`
}

// FieldIssue is one validation failure in an error response.
type FieldIssue struct {
	Message string `json:"message"`
	Kind    string `json:"kind"`
}

// RespondJSON sends a successful JSON response.
func RespondJSON(c echo.Context, code int, data any) error {
	return c.JSON(code, Response{
		Success: true,
		Data:    data,
	})
}

// RespondOK sends a 200 OK response with data.
func RespondOK(c echo.Context, data any) error {
	return RespondJSON(c, http.StatusOK, data)
}

// RespondCreated sends a 201 Created response with data.
func RespondCreated(c echo.Context, data any) error {
	return RespondJSON(c, http.StatusCreated, data)
}

// RespondInvalid maps an Invalid command outcome to an error response. The
// status derives from the failure kinds: handler faults read as 500, a pure
// not-found as 404, a pure conflict as 409, anything else as 422.
func RespondInvalid(c echo.Context, errs []validation.ValidationError) error {
	issues := make([]FieldIssue, len(errs))
	for i, e := range errs {
		issues[i] = FieldIssue{Message: e.Message, Kind: string(e.Kind)}
	}
	return c.JSON(statusFor(errs), Response{
		Success: false,
		Errors:  issues,
	})
}

// RespondBadRequest reports a malformed request before a command exists.
func RespondBadRequest(c echo.Context, message string) error {
	return c.JSON(http.StatusBadRequest, Response{
		Success: false,
		Errors:  []FieldIssue{{Message: message, Kind: string(validation.KindFormat)}},
	})
}

func statusFor(errs []validation.ValidationError) int {
	sawNotFound := false
	sawConflict := false
	for _, e := range errs {
		switch e.Kind {
		case validation.KindUnknown:
			return http.StatusInternalServerError
		case validation.KindNotFound:
			sawNotFound = true
		case validation.KindConflict:
			sawConflict = true
		default:
			return http.StatusUnprocessableEntity
		}
	}
	if sawNotFound && !sawConflict {
		return http.StatusNotFound
	}
	if sawConflict && !sawNotFound {
		return http.StatusConflict
	}
	return http.StatusUnprocessableEntity
}
