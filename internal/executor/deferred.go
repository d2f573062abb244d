package executor

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"

	"github.com/lllypuk/cmdflow/internal/validation"
)

// Deferred is a write-once future of an Outcome. A Deferred settles exactly
// once, either with an Outcome (Complete) or with a fault (Fail); later
// attempts are ignored. Deferreds produced by executors are guaranteed to
// settle with an Outcome, never a fault.
//
// The Deferred itself schedules nothing: continuations registered with
// onSettle run synchronously on the goroutine that settles the value (or on
// the caller's goroutine when the value is already settled).
type Deferred[S any] struct {
	mu        sync.Mutex
	done      chan struct{}
	settled   bool
	outcome   validation.Outcome[S]
	fault     error
	callbacks []func(validation.Outcome[S], error)
}

// NewDeferred creates an unsettled Deferred.
func NewDeferred[S any]() *Deferred[S] {
	return &Deferred[S]{done: make(chan struct{})}
}

// CompletedDeferred returns a Deferred already settled with out.
func CompletedDeferred[S any](out validation.Outcome[S]) *Deferred[S] {
	d := NewDeferred[S]()
	d.Complete(out)
	return d
}

// Complete settles the Deferred with an Outcome. Returns false if the
// Deferred was already settled.
func (d *Deferred[S]) Complete(out validation.Outcome[S]) bool {
	return d.settle(out, nil)
}

// Fail settles the Deferred with a fault. Returns false if the Deferred was
// already settled.
func (d *Deferred[S]) Fail(err error) bool {
	if err == nil {
		err = errors.New("deferred failed with nil error")
	}
	var zero validation.Outcome[S]
	return d.settle(zero, err)
}

func (d *Deferred[S]) settle(out validation.Outcome[S], fault error) bool {
	d.mu.Lock()
	if d.settled {
		d.mu.Unlock()
		return false
	}
	d.settled = true
	d.outcome = out
	d.fault = fault
	callbacks := d.callbacks
	d.callbacks = nil
	close(d.done)
	d.mu.Unlock()

	for _, cb := range callbacks {
		cb(out, fault)
	}
	return true
}

// onSettle registers a continuation. If the Deferred is already settled the
// continuation runs immediately on the calling goroutine; otherwise it runs
// on the goroutine that settles the value, in registration order.
func (d *Deferred[S]) onSettle(cb func(validation.Outcome[S], error)) {
	d.mu.Lock()
	if !d.settled {
		d.callbacks = append(d.callbacks, cb)
		d.mu.Unlock()
		return
	}
	out, fault := d.outcome, d.fault
	d.mu.Unlock()
	cb(out, fault)
}

// Done returns a channel closed when the Deferred settles.
func (d *Deferred[S]) Done() <-chan struct{} {
	return d.done
}

// Await blocks until the Deferred settles or ctx is done. It returns the
// settled fault or ctx.Err() as the error; Deferreds returned by executors
// only ever yield a ctx error here.
func (d *Deferred[S]) Await(ctx context.Context) (validation.Outcome[S], error) {
	select {
	case <-d.done:
		d.mu.Lock()
		defer d.mu.Unlock()
		return d.outcome, d.fault
	case <-ctx.Done():
		var zero validation.Outcome[S]
		return zero, ctx.Err()
	}
}

// PanicError is the fault recorded when a computation running inside Go (or a
// blocking handler invocation) panics.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// Go runs fn on a new goroutine and returns a Deferred settled with its
// result. A panic inside fn settles the Deferred with a *PanicError fault.
// This is a convenience for handlers; executors themselves never spawn
// goroutines.
func Go[S any](fn func() validation.Outcome[S]) *Deferred[S] {
	d := NewDeferred[S]()
	go func() {
		defer func() {
			if r := recover(); r != nil {
				d.Fail(capturedPanic(r))
			}
		}()
		d.Complete(fn())
	}()
	return d
}

func capturedPanic(r any) *PanicError {
	stack := make([]byte, panicStackSize)
	n := runtime.Stack(stack, false)
	return &PanicError{Value: r, Stack: stack[:n]}
}

// panicStackSize bounds the stack trace captured on handler faults (4KB,
// matching the recovery middleware).
const panicStackSize = 4 << 10
