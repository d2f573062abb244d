package executor

import (
	"context"
	"log/slog"

	"github.com/lllypuk/cmdflow/internal/validation"
)

// Blocking runs a command-input handler on the calling goroutine.
type Blocking[C validation.Command, S any] struct {
	handler func(context.Context, C) validation.Outcome[S]
	logger  *slog.Logger
}

// NewBlocking creates a blocking executor for a handler taking the raw
// command.
func NewBlocking[C validation.Command, S any](
	handler func(context.Context, C) validation.Outcome[S],
	opts ...Option,
) *Blocking[C, S] {
	o := newOptions(opts)
	return &Blocking[C, S]{handler: handler, logger: o.logger}
}

// Kind returns KindBlocking.
func (e *Blocking[C, S]) Kind() Kind {
	return KindBlocking
}

// Execute validates cmd, invokes the handler when valid, and normalizes the
// result. It always returns an Outcome and never panics.
func (e *Blocking[C, S]) Execute(ctx context.Context, cmd C) validation.Outcome[S] {
	return runBlocking(e.logger, cmd, func() validation.Outcome[S] {
		return e.handler(ctx, cmd)
	})
}

// Dispatch runs Execute on the calling goroutine and wraps the result in a
// settled Deferred.
func (e *Blocking[C, S]) Dispatch(ctx context.Context, cmd C) *Deferred[S] {
	return CompletedDeferred(e.Execute(ctx, cmd))
}

// BlockingModel runs a model-input handler on the calling goroutine, first
// projecting the command through an explicitly supplied conversion.
type BlockingModel[C validation.Command, M, S any] struct {
	convert func(C) M
	handler func(context.Context, M) validation.Outcome[S]
	logger  *slog.Logger
}

// NewBlockingModel creates a blocking executor for a handler taking the model
// produced by convert. The conversion must be a pure projection; if it can
// fail it runs inside the fault-containment boundary like the handler itself.
func NewBlockingModel[C validation.Command, M, S any](
	convert func(C) M,
	handler func(context.Context, M) validation.Outcome[S],
	opts ...Option,
) *BlockingModel[C, M, S] {
	o := newOptions(opts)
	return &BlockingModel[C, M, S]{convert: convert, handler: handler, logger: o.logger}
}

// Kind returns KindBlockingModel.
func (e *BlockingModel[C, M, S]) Kind() Kind {
	return KindBlockingModel
}

// Execute validates cmd, converts it to the model, invokes the handler, and
// normalizes the result. It always returns an Outcome and never panics.
func (e *BlockingModel[C, M, S]) Execute(ctx context.Context, cmd C) validation.Outcome[S] {
	return runBlocking(e.logger, cmd, func() validation.Outcome[S] {
		return e.handler(ctx, e.convert(cmd))
	})
}

// Dispatch runs Execute on the calling goroutine and wraps the result in a
// settled Deferred.
func (e *BlockingModel[C, M, S]) Dispatch(ctx context.Context, cmd C) *Deferred[S] {
	return CompletedDeferred(e.Execute(ctx, cmd))
}

// runBlocking is the shared state machine for the blocking variants:
// validate, invoke inside the containment boundary, normalize, log.
func runBlocking[C validation.Command, S any](
	logger *slog.Logger,
	cmd C,
	invoke func() validation.Outcome[S],
) validation.Outcome[S] {
	name := CommandName(cmd)
	if out, short := shortCircuit[C, S](logger, cmd, name); short {
		return out
	}

	out, fault := invokeContained(invoke)
	if fault != nil {
		safeLog(func() { logFault(logger, name, fault) })
		return unknownFailure[S](name)
	}

	safeLog(func() { logOutcome(logger, name, out) })
	return out
}
