package task

import (
	"github.com/wippyai/loom/errors"
	"github.com/wippyai/loom/suspend"
)

// Body is a transformed procedure body. It receives the Yielder it suspends
// through and the first-resume input.
type Body func(y *Yielder, in Input)

type yieldMsg struct {
	handle   suspend.Handle
	panicked any
	done     bool
}

// Coroutine is a one-shot paused computation. It is exclusively owned,
// cannot be shared, and cannot be restarted once it has finished.
//
// The body goroutine and the driver alternate through two rendezvous
// channels; they never run at the same time.
type Coroutine struct {
	resume   chan Input
	yield    chan yieldMsg
	finished bool
}

// New creates a coroutine for body. The body does not start executing until
// the first Resume. A coroutine that is never resumed to completion holds
// its goroutine until process teardown; there is no external cancellation.
func New(body Body) *Coroutine {
	c := &Coroutine{
		resume: make(chan Input),
		yield:  make(chan yieldMsg),
	}
	go func() {
		in := <-c.resume
		defer func() {
			if r := recover(); r != nil {
				c.yield <- yieldMsg{panicked: r}
				return
			}
			c.yield <- yieldMsg{done: true}
		}()
		body(&Yielder{co: c}, in)
	}()
	return c
}

// Resume advances the computation with in until it yields or returns.
// It returns the yielded suspension handle and more=true, or more=false once
// the body has run to completion.
//
// A panic inside the body, including the structured panics raised by Result
// and View on contract violations, is recovered and returned as a fatal
// error; the coroutine is finished afterwards. Resuming an already finished
// coroutine is itself a fatal misuse error.
func (c *Coroutine) Resume(in Input) (handle suspend.Handle, more bool, err error) {
	if c.finished {
		return nil, false, errors.Misuse(errors.PhaseResume, "resume on finished coroutine")
	}
	c.resume <- in
	m := <-c.yield
	switch {
	case m.panicked != nil:
		c.finished = true
		if e, ok := m.panicked.(*errors.Error); ok {
			return nil, false, e
		}
		return nil, false, errors.New(errors.PhaseResume, errors.KindPanic).
			Detail("procedure panicked: %v", m.panicked).
			Value(m.panicked).
			Build()
	case m.done:
		c.finished = true
		return nil, false, nil
	default:
		return m.handle, true, nil
	}
}

// Yielder is the body-side half of the suspension protocol. It is only valid
// inside the body it was handed to.
type Yielder struct {
	co *Coroutine
}

// Yield transfers control to the driver with h as the pending suspension and
// blocks until the driver resumes with the next input, which carries h's
// result and the fresh external context.
func (y *Yielder) Yield(h suspend.Handle) Input {
	y.co.yield <- yieldMsg{handle: h}
	return <-y.co.resume
}
