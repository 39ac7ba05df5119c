// Package suspend provides the canonical pause descriptions a procedure can
// yield at a suspension point.
//
// Every primitive is a poll-based Handle. The scheduler polls the handle once
// per tick with the tick's timestamp; the handle answers "not yet" or hands
// back a dynamically-typed result. Handles are single-owner, single-use
// objects: between the tick they are yielded and the tick they resolve they
// belong exclusively to one task, and a correct driver never polls a handle
// again after it reported ready.
//
// Primitives:
//
//	Delay(d)    ready once the deadline has passed; result is the poll time
//	At(t)       absolute-deadline variant of Delay
//	NextTick()  never ready on its first poll, always ready afterwards
//	Noop()      immediately ready; forces a yield boundary without waiting
//	Go(work)    runs work on its own goroutine; ready when work returns
//
// Noop exists to split two operations that would otherwise contend for
// exclusive access to the same external resource within one tick.
//
// Go is the only source of true concurrency in the system. A failure inside
// the background work, including a panic, is fatal for the owning task and
// surfaces as an error on poll.
package suspend
