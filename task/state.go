package task

import "github.com/wippyai/loom/suspend"

// State is the per-identity record the scheduler keeps between ticks: the
// paused computation and its at-most-one outstanding suspension.
//
// At rest a State is in exactly one of three shapes: fresh (both fields
// nil, never started), paused (both fields set), or finished (reset back to
// both nil after completion). A paused computation always has a pending
// suspension between ticks; the driver only clears Pending transiently while
// it is resuming.
type State struct {
	Coroutine *Coroutine
	Pending   suspend.Handle
}

// Fresh reports whether the task has not been started since its last reset.
func (s *State) Fresh() bool {
	return s.Coroutine == nil && s.Pending == nil
}

// Reset discards the paused computation and pending suspension. A discarded
// computation is not restartable; a later trigger builds an entirely new one.
func (s *State) Reset() {
	s.Coroutine = nil
	s.Pending = nil
}
