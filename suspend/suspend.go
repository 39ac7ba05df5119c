package suspend

import "time"

// Handle is a pollable suspension. Poll reports whether the suspension has
// resolved and, if so, carries its dynamically-typed result. A non-nil error
// is fatal for the task that owns the handle.
//
// Poll is called by the scheduler driver with the current tick's timestamp,
// at most once per tick plus one immediate poll on the tick the handle was
// yielded.
type Handle interface {
	Poll(now time.Time) (result any, ready bool, err error)
}

type delay struct {
	deadline time.Time
	d        time.Duration
	armed    bool
}

// Delay suspends until the given duration has elapsed. The deadline is armed
// on the first poll, which the driver performs in the same tick the handle is
// yielded, so the deadline is creation time plus d under both wall clocks and
// simulated clocks. A zero or negative duration resolves on the first poll.
//
// The result is the time of the resolving poll.
func Delay(d time.Duration) Handle {
	return &delay{d: d}
}

// At suspends until the given absolute time. The result is the time of the
// resolving poll.
func At(t time.Time) Handle {
	return &delay{deadline: t, armed: true}
}

func (h *delay) Poll(now time.Time) (any, bool, error) {
	if !h.armed {
		h.deadline = now.Add(h.d)
		h.armed = true
	}
	if now.Before(h.deadline) {
		return nil, false, nil
	}
	return now, true, nil
}

type nextTick struct {
	polled bool
}

// NextTick suspends for at least one full tick: the poll issued on the tick
// it was yielded reports not ready, any later poll reports ready. The result
// is nil.
func NextTick() Handle {
	return &nextTick{}
}

func (h *nextTick) Poll(time.Time) (any, bool, error) {
	if !h.polled {
		h.polled = true
		return nil, false, nil
	}
	return nil, true, nil
}

type noop struct{}

// Noop is immediately ready. It forces a yield boundary without consuming a
// tick; the driver's same-tick re-poll resumes the procedure right away.
func Noop() Handle {
	return noop{}
}

func (noop) Poll(time.Time) (any, bool, error) {
	return nil, true, nil
}
