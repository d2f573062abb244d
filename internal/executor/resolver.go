package executor

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"github.com/lllypuk/cmdflow/internal/validation"
)

// ResolutionError reports that a handler's shape matches no executor
// strategy. It is returned at composition time, never from Execute.
type ResolutionError struct {
	// CommandType and ResultType are the generic parameters the resolver was
	// instantiated with.
	CommandType reflect.Type
	ResultType  reflect.Type

	// HandlerType is the dynamic type of the rejected handler value.
	HandlerType reflect.Type

	// Accepted lists the handler signatures the resolver would have matched.
	Accepted []string
}

func (e *ResolutionError) Error() string {
	handler := "nil"
	if e.HandlerType != nil {
		handler = e.HandlerType.String()
	}
	return fmt.Sprintf(
		"no executor strategy matches handler %s for command %s and result %s; accepted signatures: %s",
		handler, e.CommandType, e.ResultType, strings.Join(e.Accepted, " or "),
	)
}

// Resolve selects the executor strategy matching a command-input handler.
// Exactly one strategy matches a well-typed handler:
//
//	func(context.Context, C) validation.Outcome[S]  -> Blocking
//	func(context.Context, C) *executor.Deferred[S]  -> Async
//
// Any other shape is rejected with a *ResolutionError. Resolution is a pure
// type inspection with no per-call cost; call it once at composition time.
func Resolve[C validation.Command, S any](handler any, opts ...Option) (Strategy[C, S], error) {
	switch h := handler.(type) {
	case func(context.Context, C) validation.Outcome[S]:
		return NewBlocking(h, opts...), nil
	case func(context.Context, C) *Deferred[S]:
		return NewAsync(h, opts...), nil
	default:
		return nil, resolutionError[C, S](handler,
			signatureFor[C, S]("validation.Outcome"),
			signatureFor[C, S]("*executor.Deferred"),
		)
	}
}

// ResolveModel selects the executor strategy matching a model-input handler,
// given the explicit command-to-model conversion:
//
//	func(context.Context, M) validation.Outcome[S]  -> BlockingModel
//	func(context.Context, M) *executor.Deferred[S]  -> AsyncModel
//
// Any other shape is rejected with a *ResolutionError.
func ResolveModel[C validation.Command, M, S any](
	convert func(C) M,
	handler any,
	opts ...Option,
) (Strategy[C, S], error) {
	switch h := handler.(type) {
	case func(context.Context, M) validation.Outcome[S]:
		return NewBlockingModel(convert, h, opts...), nil
	case func(context.Context, M) *Deferred[S]:
		return NewAsyncModel(convert, h, opts...), nil
	default:
		return nil, resolutionError[C, S](handler,
			signatureFor[M, S]("validation.Outcome"),
			signatureFor[M, S]("*executor.Deferred"),
		)
	}
}

// MustResolve is Resolve for composition roots where a mismatch is a
// programming error; it panics on a ResolutionError.
func MustResolve[C validation.Command, S any](handler any, opts ...Option) Strategy[C, S] {
	s, err := Resolve[C, S](handler, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// MustResolveModel is ResolveModel with the same panic-on-error contract.
func MustResolveModel[C validation.Command, M, S any](
	convert func(C) M,
	handler any,
	opts ...Option,
) Strategy[C, S] {
	s, err := ResolveModel[C, M, S](convert, handler, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

func resolutionError[C validation.Command, S any](handler any, accepted ...string) *ResolutionError {
	return &ResolutionError{
		CommandType: reflect.TypeOf((*C)(nil)).Elem(),
		ResultType:  reflect.TypeOf((*S)(nil)).Elem(),
		HandlerType: reflect.TypeOf(handler),
		Accepted:    accepted,
	}
}

func signatureFor[In, S any](wrapper string) string {
	return fmt.Sprintf("func(context.Context, %s) %s[%s]",
		reflect.TypeOf((*In)(nil)).Elem(), wrapper, reflect.TypeOf((*S)(nil)).Elem())
}
