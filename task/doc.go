// Package task holds the per-procedure-instance machinery: the paused
// computation, the input envelope it is resumed with, and the state record
// the scheduler keeps between ticks.
//
// A Coroutine is a one-shot resumable computation built on a goroutine and a
// pair of rendezvous channels. The body runs on its own goroutine but never
// concurrently with its driver: Resume hands an Input to the body and blocks
// until the body either yields a suspension handle or returns. Yield, the
// inverse, hands a handle to the driver and blocks until the next Resume.
// Exactly one side is running at any moment, which is what makes everything
// between two suspension points atomic with respect to other tasks.
//
// Input is the transient per-resume envelope: the current tick's external
// context plus the dynamically-typed result of the suspension that just
// resolved. Inputs are constructed immediately before a resume and must not
// be retained past it; in particular the Context is only valid for the
// duration of that resume call, because the host supplies a fresh one every
// tick. Generated code re-derives all views from the new Input after every
// suspension point for exactly this reason.
//
// Result and View extract typed values from an Input. A wrong type is a
// programmer contract violation, not a recoverable condition: both panic
// with a structured error, which Resume recovers and reports as the fatal
// outcome of that step.
package task
