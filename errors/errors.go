package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseTransform Phase = "transform" // source rewriting
	PhaseRegister  Phase = "register"  // registry operations
	PhasePoll      Phase = "poll"      // suspension polling
	PhaseResume    Phase = "resume"    // coroutine resumption
	PhaseRuntime   Phase = "runtime"   // everything else at run time
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidProc      Kind = "invalid_proc"
	KindTypeMismatch     Kind = "type_mismatch"
	KindMisuse           Kind = "misuse"
	KindPanic            Kind = "panic"
	KindBackgroundFailed Kind = "background_failed"
	KindNotFound         Kind = "not_found"
	KindInvalidInput     Kind = "invalid_input"
)

// Error is the structured error type used throughout loom
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Proc   string
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Proc != "" {
		b.WriteString(" in ")
		b.WriteString(e.Proc)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Proc sets the procedure identity the error belongs to
func (b *Builder) Proc(id string) *Builder {
	b.err.Proc = id
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error for a suspension result or view
func TypeMismatch(phase Phase, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Detail: fmt.Sprintf("want %s, got %s", want, got),
	}
}

// Misuse creates a programmer-contract violation error
func Misuse(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindMisuse,
		Detail: detail,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// InvalidProc creates a transform-time procedure rejection
func InvalidProc(proc, detail string) *Error {
	return &Error{
		Phase:  PhaseTransform,
		Kind:   KindInvalidProc,
		Proc:   proc,
		Detail: detail,
	}
}

// BackgroundFailed creates a fatal background work failure error
func BackgroundFailed(cause error) *Error {
	return &Error{
		Phase:  PhasePoll,
		Kind:   KindBackgroundFailed,
		Detail: "background work failed",
		Cause:  cause,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
