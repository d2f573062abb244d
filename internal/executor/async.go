package executor

import (
	"context"
	"log/slog"

	"github.com/lllypuk/cmdflow/internal/validation"
)

// Async runs a command-input handler that returns a Deferred. The executor
// supplies no scheduling of its own: the handler decides where its work runs,
// and the continuations attached here run on whichever goroutine settles the
// handler's Deferred.
type Async[C validation.Command, S any] struct {
	handler func(context.Context, C) *Deferred[S]
	logger  *slog.Logger
}

// NewAsync creates an asynchronous executor for a handler taking the raw
// command.
func NewAsync[C validation.Command, S any](
	handler func(context.Context, C) *Deferred[S],
	opts ...Option,
) *Async[C, S] {
	o := newOptions(opts)
	return &Async[C, S]{handler: handler, logger: o.logger}
}

// Kind returns KindAsync.
func (e *Async[C, S]) Kind() Kind {
	return KindAsync
}

// Execute validates cmd and, when valid, invokes the handler. The returned
// Deferred always settles with an Outcome: handler faults (whether raised
// while producing the Deferred or settled into it) are downgraded to a
// KindUnknown Invalid outcome.
func (e *Async[C, S]) Execute(ctx context.Context, cmd C) *Deferred[S] {
	return runAsync(e.logger, cmd, func() *Deferred[S] {
		return e.handler(ctx, cmd)
	})
}

// Dispatch is Execute; it satisfies the Strategy interface.
func (e *Async[C, S]) Dispatch(ctx context.Context, cmd C) *Deferred[S] {
	return e.Execute(ctx, cmd)
}

// AsyncModel runs a model-input handler that returns a Deferred, first
// projecting the command through an explicitly supplied conversion.
type AsyncModel[C validation.Command, M, S any] struct {
	convert func(C) M
	handler func(context.Context, M) *Deferred[S]
	logger  *slog.Logger
}

// NewAsyncModel creates an asynchronous executor for a handler taking the
// model produced by convert.
func NewAsyncModel[C validation.Command, M, S any](
	convert func(C) M,
	handler func(context.Context, M) *Deferred[S],
	opts ...Option,
) *AsyncModel[C, M, S] {
	o := newOptions(opts)
	return &AsyncModel[C, M, S]{convert: convert, handler: handler, logger: o.logger}
}

// Kind returns KindAsyncModel.
func (e *AsyncModel[C, M, S]) Kind() Kind {
	return KindAsyncModel
}

// Execute validates cmd, converts it to the model, and invokes the handler.
// The returned Deferred always settles with an Outcome.
func (e *AsyncModel[C, M, S]) Execute(ctx context.Context, cmd C) *Deferred[S] {
	return runAsync(e.logger, cmd, func() *Deferred[S] {
		return e.handler(ctx, e.convert(cmd))
	})
}

// Dispatch is Execute; it satisfies the Strategy interface.
func (e *AsyncModel[C, M, S]) Dispatch(ctx context.Context, cmd C) *Deferred[S] {
	return e.Execute(ctx, cmd)
}

// runAsync is the shared state machine for the asynchronous variants. The
// invocation itself is fault-contained, and the handler's Deferred gets two
// chained continuations: a logging observer that never alters the value, and
// a recovery step that substitutes the KindUnknown outcome for a fault. The
// logging observer runs inside its own containment boundary so recovery and
// delivery happen even if logging panics.
func runAsync[C validation.Command, S any](
	logger *slog.Logger,
	cmd C,
	invoke func() *Deferred[S],
) *Deferred[S] {
	name := CommandName(cmd)
	if out, short := shortCircuit[C, S](logger, cmd, name); short {
		return CompletedDeferred(out)
	}

	inner, fault := invokeContained(invoke)
	if fault != nil {
		safeLog(func() { logFault(logger, name, fault) })
		return CompletedDeferred(unknownFailure[S](name))
	}
	if inner == nil {
		safeLog(func() {
			logger.Error("command handler returned a nil deferred", slog.String("command", name))
		})
		return CompletedDeferred(unknownFailure[S](name))
	}

	outer := NewDeferred[S]()
	inner.onSettle(func(out validation.Outcome[S], settleFault error) {
		if settleFault != nil {
			safeLog(func() { logFault(logger, name, settleFault) })
			outer.Complete(unknownFailure[S](name))
			return
		}
		safeLog(func() { logOutcome(logger, name, out) })
		outer.Complete(out)
	})
	return outer
}
