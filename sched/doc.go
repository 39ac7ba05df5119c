// Package sched drives transformed procedures one step per tick.
//
// A Registry associates task identities with their procedure bodies and
// tracks the active set: identities that have been triggered and have not
// yet run to completion. The host scheduler owns the tick signal; each tick
// it consults Active and invokes the driver once per active identity,
// supplying a fresh external context and the tick's timestamp.
//
// The driver is a small state machine per identity:
//
//	Uninitialized --first step--> Paused(pending) --completion--> Finished
//
// On each step the driver polls the pending suspension. Not ready means the
// task does no further work this tick. Ready means the driver builds an
// input from the fresh context and the suspension's result, resumes the
// paused computation, and either stores the newly yielded suspension or
// marks the task finished and removes it from the active set. A freshly
// yielded suspension is polled again within the same tick so that
// immediately-ready suspensions (Noop, an already-elapsed Delay) do not
// cost a tick; the re-entry is bounded by Config.StepLimit to keep one task
// from starving the rest of the tick.
//
// Scheduling is single-threaded and cooperative: exactly one resume step of
// one task runs at a time, and everything between two suspension points
// executes atomically with respect to other tasks. Registry methods are
// mutex-guarded so hosts may trigger identities from other goroutines, but
// the driver itself must be ticked from one goroutine.
//
// Finished is terminal for a task instance. Triggering the identity again
// afterwards starts an independent fresh instance with no memory of the
// prior run.
package sched
