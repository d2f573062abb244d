// Package executor implements the command execution layer: four strategies
// (blocking or asynchronous, command-input or model-input) that run a business
// handler behind a shared validate/invoke/normalize/log sequence, and a
// resolver that picks the strategy matching a handler's shape at composition
// time.
//
// Every strategy has a total contract: a blocking Execute always returns an
// Outcome and never panics; an asynchronous Execute returns a Deferred that
// always settles with an Outcome and never with a fault. Handler panics are
// downgraded to an Invalid Outcome with a single KindUnknown error.
package executor

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lllypuk/cmdflow/internal/validation"
)

// Kind identifies which of the four strategies an executor is.
type Kind string

// Executor strategy kinds.
const (
	KindBlocking      Kind = "blocking"
	KindBlockingModel Kind = "blocking_model"
	KindAsync         Kind = "async"
	KindAsyncModel    Kind = "async_model"
)

// Strategy is the interface common to all four executor variants. Dispatch
// runs the command through the full execution sequence; blocking variants
// compute on the calling goroutine and return an already-settled Deferred.
//
// Strategies are stateless and safe for concurrent use; construct them once
// at route-registration time and share them across requests.
type Strategy[C validation.Command, S any] interface {
	Kind() Kind
	Dispatch(ctx context.Context, cmd C) *Deferred[S]
}

type options struct {
	logger *slog.Logger
}

// Option configures an executor.
type Option func(*options)

// WithLogger sets the structured logger used for outcome and fault logging.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func newOptions(opts []Option) options {
	o := options{logger: slog.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}

// shortCircuit collects the validation failures of an invalid command. It
// returns the Invalid outcome and true when the command failed validation,
// in which case the handler must not be invoked.
//
// A FieldError reporting valid on a command whose IsValid is false violates
// the Command contract; such fields are logged at warn level and skipped. If
// every field turns out valid despite the command being invalid, a single
// KindUnknown error stands in so the non-empty invariant holds.
func shortCircuit[C validation.Command, S any](
	logger *slog.Logger,
	cmd C,
	name string,
) (validation.Outcome[S], bool) {
	if cmd.IsValid() {
		var zero validation.Outcome[S]
		return zero, false
	}

	fields := cmd.FieldErrors()
	errs := make([]validation.ValidationError, 0, len(fields))
	for _, fe := range fields {
		ve, ok := fe.Err()
		if !ok {
			safeLog(func() {
				logger.Warn("field reported valid on an invalid command",
					slog.String("command", name),
					slog.String("field", fe.Field),
				)
			})
			continue
		}
		errs = append(errs, ve)
	}

	if len(errs) == 0 {
		safeLog(func() {
			logger.Warn("invalid command carried no field failures",
				slog.String("command", name),
			)
		})
		return contractViolation[S](name), true
	}

	safeLog(func() {
		logger.Debug(failureSummary("command validation failed with", len(errs)),
			slog.String("command", name),
			slog.Int("failures", len(errs)),
		)
	})
	return toInvalid[S](errs), true
}

// toInvalid builds an Invalid outcome from a non-empty slice.
func toInvalid[S any](errs []validation.ValidationError) validation.Outcome[S] {
	return validation.NewInvalid[S](errs[0], errs[1:]...)
}

// unknownFailure is the substitute outcome for a handler fault.
func unknownFailure[S any](name string) validation.Outcome[S] {
	return validation.NewInvalid[S](
		validation.NewValidationError("Failed to execute "+humanize(name), validation.KindUnknown),
	)
}

func contractViolation[S any](name string) validation.Outcome[S] {
	return validation.NewInvalid[S](
		validation.NewValidationError(
			"Inconsistent validation state for "+humanize(name), validation.KindUnknown),
	)
}

// invokeContained runs fn on the calling goroutine, converting a panic into a
// *PanicError fault. Exactly the handler invocation (and, for model variants,
// the command-to-model conversion) runs inside this boundary.
func invokeContained[R any](fn func() R) (result R, fault error) {
	defer func() {
		if r := recover(); r != nil {
			fault = capturedPanic(r)
		}
	}()
	return fn(), nil
}

// logFault records a handler fault at error level with full detail.
func logFault(logger *slog.Logger, name string, fault error) {
	attrs := []any{
		slog.String("command", name),
		slog.String("error", fault.Error()),
	}
	var pe *PanicError
	if errors.As(fault, &pe) {
		attrs = append(attrs, slog.String("stack", string(pe.Stack)))
	}
	logger.Error("command handler fault", attrs...)
}

// logOutcome emits the completion debug line: success, or the failure count
// (pluralized) plus the literal failure list. The outcome itself is never
// altered.
func logOutcome[S any](logger *slog.Logger, name string, out validation.Outcome[S]) {
	if out.IsValid() {
		logger.Debug("command executed successfully", slog.String("command", name))
		return
	}
	errs := out.Errors()
	logger.Debug(failureSummary("command completed with", len(errs)),
		slog.String("command", name),
		slog.Int("failures", len(errs)),
		slog.Any("errors", out.ErrorMessages()),
	)
}

// safeLog runs a logging step inside its own recovery boundary so a faulting
// log handler can never disturb outcome delivery.
func safeLog(fn func()) {
	defer func() {
		_ = recover()
	}()
	fn()
}
