package account

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/lllypuk/cmdflow/internal/executor"
	"github.com/lllypuk/cmdflow/internal/validation"
)

// Service holds the account handlers executed by the command layer. Handlers
// return Outcomes (or Deferreds of Outcomes) rather than errors: every
// business failure is validation data, never a fault.
type Service struct {
	mu       sync.RWMutex
	byID     map[uuid.UUID]AccountResult
	byEmail  map[string]uuid.UUID
	profiles map[uuid.UUID]Profile
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates an account service backed by in-memory state.
func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		byID:     make(map[uuid.UUID]AccountResult),
		byEmail:  make(map[string]uuid.UUID),
		profiles: make(map[uuid.UUID]Profile),
		logger:   logger,
		now:      time.Now,
	}
}

// Register is the blocking command-input handler for account registration.
func (s *Service) Register(_ context.Context, cmd RegisterAccountCommand) validation.Outcome[AccountResult] {
	email := strings.ToLower(strings.TrimSpace(cmd.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byEmail[email]; taken {
		return validation.NewInvalid[AccountResult](
			validation.NewValidationError("email: already taken", validation.KindConflict))
	}

	acc := AccountResult{
		AccountID:   uuid.New(),
		Email:       email,
		DisplayName: strings.TrimSpace(cmd.DisplayName),
		CreatedAt:   s.now(),
	}
	s.byID[acc.AccountID] = acc
	s.byEmail[email] = acc.AccountID
	s.profiles[acc.AccountID] = Profile{
		AccountID:   acc.AccountID,
		DisplayName: acc.DisplayName,
	}

	s.logger.Info("account registered",
		slog.String("account_id", acc.AccountID.String()),
		slog.String("email", acc.Email),
	)
	return validation.Valid(acc)
}

// UpdateProfile is the blocking model-input handler for profile updates; it
// receives the Profile projection, never the raw command.
func (s *Service) UpdateProfile(_ context.Context, m Profile) validation.Outcome[Profile] {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byID[m.AccountID]; !ok {
		return validation.NewInvalid[Profile](
			validation.NewValidationError("account_id: account not found", validation.KindNotFound))
	}

	m.DisplayName = strings.TrimSpace(m.DisplayName)
	s.profiles[m.AccountID] = m
	return validation.Valid(m)
}

// SendWelcomeEmail is the asynchronous command-input handler. The Deferred is
// produced by executor.Go; the executor layer only attaches continuations.
func (s *Service) SendWelcomeEmail(_ context.Context, cmd SendWelcomeEmailCommand) *executor.Deferred[EmailReceipt] {
	return executor.Go(func() validation.Outcome[EmailReceipt] {
		s.mu.RLock()
		acc, ok := s.byID[cmd.AccountID]
		s.mu.RUnlock()
		if !ok {
			return validation.NewInvalid[EmailReceipt](
				validation.NewValidationError("account_id: account not found", validation.KindNotFound))
		}

		// Stands in for the mail gateway call.
		receipt := EmailReceipt{
			AccountID: acc.AccountID,
			MessageID: uuid.New(),
			SentAt:    s.now(),
		}
		s.logger.Info("welcome email sent",
			slog.String("account_id", acc.AccountID.String()),
			slog.String("message_id", receipt.MessageID.String()),
		)
		return validation.Valid(receipt)
	})
}

// ReindexProfile is the asynchronous model-input handler; it receives the
// Profile projection carrying the account key.
func (s *Service) ReindexProfile(_ context.Context, m Profile) *executor.Deferred[Profile] {
	return executor.Go(func() validation.Outcome[Profile] {
		s.mu.RLock()
		stored, ok := s.profiles[m.AccountID]
		s.mu.RUnlock()
		if !ok {
			return validation.NewInvalid[Profile](
				validation.NewValidationError("account_id: profile not found", validation.KindNotFound))
		}

		// Stands in for the search index write.
		s.logger.Debug("profile reindexed",
			slog.String("account_id", stored.AccountID.String()),
		)
		return validation.Valid(stored)
	})
}

// GetProfile returns the stored profile, for handlers and tests.
func (s *Service) GetProfile(accountID uuid.UUID) (Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[accountID]
	return p, ok
}
