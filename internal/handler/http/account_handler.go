// Package httphandler binds incoming requests into commands and runs them
// through the resolved executor strategies.
package httphandler

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/lllypuk/cmdflow/internal/application/account"
	"github.com/lllypuk/cmdflow/internal/executor"
	"github.com/lllypuk/cmdflow/internal/infrastructure/httpserver"
	"github.com/lllypuk/cmdflow/internal/infrastructure/outcomebus"
	"github.com/lllypuk/cmdflow/internal/validation"
)

// RegisterAccountRequest is the payload for account registration.
type RegisterAccountRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

// UpdateProfileRequest is the payload for profile updates.
type UpdateProfileRequest struct {
	DisplayName string `json:"display_name"`
	Bio         string `json:"bio"`
}

// OutcomePublisher is the outcome sink consumed by the handler; nil disables
// publishing. Declared on the consumer side.
type OutcomePublisher interface {
	Publish(ctx context.Context, rec outcomebus.Record) error
}

// AccountHandler handles account-related HTTP requests. Each route owns one
// executor strategy resolved once at construction time.
type AccountHandler struct {
	register  executor.Strategy[account.RegisterAccountCommand, account.AccountResult]
	update    executor.Strategy[account.UpdateProfileCommand, account.Profile]
	welcome   executor.Strategy[account.SendWelcomeEmailCommand, account.EmailReceipt]
	reindex   executor.Strategy[account.ReindexProfileCommand, account.Profile]
	publisher OutcomePublisher
	logger    *slog.Logger
}

// NewAccountHandler resolves an executor for every account handler. A handler
// whose shape matches no strategy surfaces here as a ResolutionError, before
// any route is registered.
func NewAccountHandler(svc *account.Service, publisher OutcomePublisher, logger *slog.Logger) (*AccountHandler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opt := executor.WithLogger(logger)

	register, err := executor.Resolve[account.RegisterAccountCommand, account.AccountResult](svc.Register, opt)
	if err != nil {
		return nil, fmt.Errorf("resolving register executor: %w", err)
	}

	update, err := executor.ResolveModel[account.UpdateProfileCommand, account.Profile, account.Profile](
		account.ProfileFromUpdateCommand, svc.UpdateProfile, opt)
	if err != nil {
		return nil, fmt.Errorf("resolving update profile executor: %w", err)
	}

	welcome, err := executor.Resolve[account.SendWelcomeEmailCommand, account.EmailReceipt](svc.SendWelcomeEmail, opt)
	if err != nil {
		return nil, fmt.Errorf("resolving welcome email executor: %w", err)
	}

	reindex, err := executor.ResolveModel[account.ReindexProfileCommand, account.Profile, account.Profile](
		account.ProfileFromReindexCommand, svc.ReindexProfile, opt)
	if err != nil {
		return nil, fmt.Errorf("resolving reindex executor: %w", err)
	}

	return &AccountHandler{
		register:  register,
		update:    update,
		welcome:   welcome,
		reindex:   reindex,
		publisher: publisher,
		logger:    logger,
	}, nil
}

// RegisterRoutes registers account routes on the Echo instance.
func (h *AccountHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/api/v1/accounts", h.Register)
	e.PUT("/api/v1/accounts/:id/profile", h.UpdateProfile)
	e.POST("/api/v1/accounts/:id/welcome-email", h.SendWelcomeEmail)
	e.POST("/api/v1/accounts/:id/reindex", h.ReindexProfile)
}

// Register handles POST /api/v1/accounts.
func (h *AccountHandler) Register(c echo.Context) error {
	var req RegisterAccountRequest
	if err := c.Bind(&req); err != nil {
		return httpserver.RespondBadRequest(c, "invalid request body")
	}

	cmd := account.NewRegisterAccountCommand(req.Email, req.DisplayName, req.Password)
	out, err := h.register.Dispatch(c.Request().Context(), cmd).Await(c.Request().Context())
	if err != nil {
		return err
	}
	publishOutcome(h, c.Request().Context(), cmd, out)

	if !out.IsValid() {
		return httpserver.RespondInvalid(c, out.Errors())
	}
	return httpserver.RespondCreated(c, out.Value())
}

// UpdateProfile handles PUT /api/v1/accounts/:id/profile.
func (h *AccountHandler) UpdateProfile(c echo.Context) error {
	accountID, ok := pathAccountID(c)
	if !ok {
		return httpserver.RespondBadRequest(c, "invalid account ID format")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return httpserver.RespondBadRequest(c, "invalid request body")
	}

	cmd := account.NewUpdateProfileCommand(accountID, req.DisplayName, req.Bio)
	out, err := h.update.Dispatch(c.Request().Context(), cmd).Await(c.Request().Context())
	if err != nil {
		return err
	}
	publishOutcome(h, c.Request().Context(), cmd, out)

	if !out.IsValid() {
		return httpserver.RespondInvalid(c, out.Errors())
	}
	return httpserver.RespondOK(c, out.Value())
}

// SendWelcomeEmail handles POST /api/v1/accounts/:id/welcome-email. The
// executor is asynchronous; the handler awaits the deferred outcome within
// the request context.
func (h *AccountHandler) SendWelcomeEmail(c echo.Context) error {
	accountID, ok := pathAccountID(c)
	if !ok {
		return httpserver.RespondBadRequest(c, "invalid account ID format")
	}

	ctx := c.Request().Context()
	cmd := account.NewSendWelcomeEmailCommand(accountID)
	out, err := h.welcome.Dispatch(ctx, cmd).Await(ctx)
	if err != nil {
		return err
	}
	publishOutcome(h, ctx, cmd, out)

	if !out.IsValid() {
		return httpserver.RespondInvalid(c, out.Errors())
	}
	return httpserver.RespondOK(c, out.Value())
}

// ReindexProfile handles POST /api/v1/accounts/:id/reindex.
func (h *AccountHandler) ReindexProfile(c echo.Context) error {
	accountID, ok := pathAccountID(c)
	if !ok {
		return httpserver.RespondBadRequest(c, "invalid account ID format")
	}

	ctx := c.Request().Context()
	cmd := account.NewReindexProfileCommand(accountID)
	out, err := h.reindex.Dispatch(ctx, cmd).Await(ctx)
	if err != nil {
		return err
	}
	publishOutcome(h, ctx, cmd, out)

	if !out.IsValid() {
		return httpserver.RespondInvalid(c, out.Errors())
	}
	return httpserver.RespondOK(c, out.Value())
}

// publishOutcome pushes the execution record to the outcome bus, best-effort.
func publishOutcome[S any](
	h *AccountHandler,
	ctx context.Context,
	cmd validation.Command,
	out validation.Outcome[S],
) {
	if h.publisher == nil {
		return
	}
	rec := outcomebus.RecordFor(executor.CommandName(cmd), out)
	if err := h.publisher.Publish(ctx, rec); err != nil {
		h.logger.Warn("failed to publish outcome",
			slog.String("command", rec.Command),
			slog.String("error", err.Error()),
		)
	}
}

func pathAccountID(c echo.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}
