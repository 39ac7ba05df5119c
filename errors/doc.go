// Package errors provides structured error types for the loom library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type includes the procedure identity, a detail message,
// the offending value and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseResume, errors.KindTypeMismatch).
//		Proc("anim::fade_banner").
//		Detail("suspension result is not a time.Time").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.TypeMismatch(errors.PhaseResume, "time.Time", "string")
//	err := errors.NotFound(errors.PhaseRegister, "procedure", id)
//
// All errors implement the standard error interface and support errors.Is/As.
// Two *Error values match under errors.Is when their Phase and Kind agree,
// which is how callers distinguish fatal contract violations
// (KindTypeMismatch, KindMisuse) from host-recoverable conditions
// (KindNotFound).
package errors
