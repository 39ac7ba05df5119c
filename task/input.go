package task

import (
	"fmt"
	"reflect"

	"github.com/wippyai/loom/errors"
)

// Context is the externally supplied, per-tick bundle of resources a
// procedure operates on. The host constructs one per task per tick; it is
// valid only for the duration of a single resume call.
type Context interface {
	// View resolves a named view into the bundle, or nil if absent.
	View(name string) any
}

// ContextFunc adapts a plain function to the Context interface.
type ContextFunc func(name string) any

// View resolves a named view by calling f.
func (f ContextFunc) View(name string) any { return f(name) }

// Input is the envelope a paused computation is resumed with: the current
// tick's external context and, except on the first resume, the result of the
// suspension that just resolved.
type Input struct {
	Ctx    Context
	result any
	has    bool
}

// NewInput builds the first-resume envelope, which carries no suspension
// result.
func NewInput(ctx Context) Input {
	return Input{Ctx: ctx}
}

// NewResumeInput builds the envelope for a resume after a suspension
// resolved with the given result.
func NewResumeInput(ctx Context, result any) Input {
	return Input{Ctx: ctx, result: result, has: true}
}

// HasResult reports whether the input carries a suspension result.
func (in Input) HasResult() bool {
	return in.has
}

// Result extracts the suspension result as T. Calling it on an input with no
// result, or with a result of a different type, is a contract violation and
// panics with a structured error; Resume turns that panic into the fatal
// outcome of the step.
func Result[T any](in Input) T {
	if !in.has {
		panic(errors.Misuse(errors.PhaseResume, "input carries no suspension result"))
	}
	if v, ok := in.result.(T); ok {
		return v
	}
	want := reflect.TypeOf((*T)(nil)).Elem()
	if in.result == nil && want.Kind() == reflect.Interface {
		var zero T
		return zero
	}
	panic(errors.TypeMismatch(errors.PhaseResume, want.String(), fmt.Sprintf("%T", in.result)))
}

// View derives a typed view from the input's external context. Generated
// code calls it once in the procedure prologue and again after every
// suspension point, because the context is refreshed each tick and views
// obtained before a suspension are stale after it.
func View[T any](in Input, name string) T {
	if in.Ctx == nil {
		panic(errors.Misuse(errors.PhaseResume, "input carries no external context"))
	}
	v := in.Ctx.View(name)
	if t, ok := v.(T); ok {
		return t
	}
	want := reflect.TypeOf((*T)(nil)).Elem()
	if v == nil && want.Kind() == reflect.Interface {
		var zero T
		return zero
	}
	panic(errors.New(errors.PhaseResume, errors.KindTypeMismatch).
		Detail("view %q: want %s, got %T", name, want.String(), v).
		Value(v).
		Build())
}
