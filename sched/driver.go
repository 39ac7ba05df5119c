package sched

import (
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/loom/errors"
	"github.com/wippyai/loom/task"
)

// Status is the outcome of one driver step.
type Status int

const (
	// StatusRunning means the task is still paused on a suspension.
	StatusRunning Status = iota
	// StatusDone means the task ran to completion this step.
	StatusDone
	// StatusFailed means the step aborted on a fatal error and the task
	// was discarded.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Provider constructs the external context for a task identity on demand,
// once per tick. The returned context is valid only for that tick's step.
type Provider func(id string) task.Context

// DriverFunc is the generic tick-driver entry signature exposed to hosts:
// an opaque external context handle in, a still-running/finished status out.
type DriverFunc func(ctx task.Context, now time.Time) (Status, error)

// Entry returns the tick-driver entry for an identity. The mapping is
// populated at registration time; Entry merely closes over it.
func (r *Registry) Entry(id string) (DriverFunc, bool) {
	if !r.Registered(id) {
		return nil, false
	}
	return func(ctx task.Context, now time.Time) (Status, error) {
		return r.Step(id, ctx, now)
	}, true
}

// Step runs one tick's worth of work for an identity: initialize on first
// invocation, poll the pending suspension, resume on a ready result, and
// re-poll freshly yielded suspensions until one is not ready, the task
// completes, or the step limit is reached.
//
// A poll or resume error is fatal for the task instance: its state is
// discarded, the identity leaves the active set, and the error is returned.
func (r *Registry) Step(id string, ctx task.Context, now time.Time) (Status, error) {
	r.mu.Lock()
	body, ok := r.procs[id]
	if !ok {
		r.mu.Unlock()
		return StatusFailed, errors.NotFound(errors.PhaseRuntime, "procedure", id)
	}
	st := r.tasks[id]
	if st == nil {
		st = &task.State{}
		r.tasks[id] = st
	}
	if st.Fresh() {
		st.Coroutine = task.New(body)
		r.active[id] = struct{}{}
		r.log.Debug("task started", zap.String("id", id))
	}
	limit := r.stepLimit
	// The resume below may re-enter the registry (a procedure is allowed to
	// trigger other identities), so the lock cannot be held across it.
	r.mu.Unlock()

	for steps := 0; steps < limit; steps++ {
		var in task.Input
		if st.Pending != nil {
			res, ready, err := st.Pending.Poll(now)
			if err != nil {
				return r.fail(id, st, err)
			}
			if !ready {
				return StatusRunning, nil
			}
			st.Pending = nil
			in = task.NewResumeInput(ctx, res)
		} else {
			in = task.NewInput(ctx)
		}

		handle, more, err := st.Coroutine.Resume(in)
		if err != nil {
			return r.fail(id, st, err)
		}
		if !more {
			st.Reset()
			r.markInactive(id)
			r.log.Debug("task finished", zap.String("id", id))
			return StatusDone, nil
		}
		st.Pending = handle
	}

	r.log.Debug("step limit reached", zap.String("id", id), zap.Int("limit", limit))
	return StatusRunning, nil
}

func (r *Registry) fail(id string, st *task.State, err error) (Status, error) {
	st.Reset()
	r.markInactive(id)
	r.log.Error("task aborted", zap.String("id", id), zap.Error(err))
	return StatusFailed, err
}

// Tick drives every active identity once at the given time, constructing
// each task's external context through provide. Errors from individual
// tasks are combined; a failing task does not stop the tick.
func (r *Registry) Tick(provide Provider, now time.Time) error {
	var errs error
	for _, id := range r.Active() {
		var ctx task.Context
		if provide != nil {
			ctx = provide(id)
		}
		if _, err := r.Step(id, ctx, now); err != nil {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
