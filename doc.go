// Package loom lets a procedure that logically runs across many discrete
// ticks be written as straight-line sequential code. The procedure pauses at
// explicit suspension points and resumes on a later tick with the result of
// the asynchronous operation it was waiting on.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct
// responsibilities:
//
//	loom/            Root package with the Suspend marker recognized by the rewriter
//	├── rewrite/     Source-to-source transformation of marked procedures
//	├── sched/       Registration registry and the per-tick scheduler driver
//	├── task/        Paused computation, input envelope and per-task state
//	├── suspend/     Poll-based suspension primitives (Delay, NextTick, Noop, Go)
//	├── errors/      Structured error types
//	└── cmd/loomgen/ Code generator CLI, suitable for go:generate
//
// # Quick Start
//
// Write a procedure and mark it:
//
//	//go:generate loomgen $GOFILE
//
//	//loom:proc
//	func greet(w *World) {
//		w.Say("hello")
//		loom.Suspend(suspend.Delay(time.Second))
//		w.Say("goodbye")
//	}
//
// loomgen generates greet_loom.go with a task identity, a registration
// helper and the transformed body. Wire it to a registry and tick it from
// the host loop:
//
//	reg := sched.NewRegistry(sched.Config{})
//	registerGreet(reg)
//	reg.Trigger(greetID)
//
//	for range ticker.C {
//		reg.Tick(provideContext, time.Now())
//	}
//
// Each tick the driver polls the pending suspension and, once it resolves,
// resumes the procedure with a fresh external context. Everything between
// two suspension points runs within a single tick, atomically with respect
// to other tasks.
package loom
