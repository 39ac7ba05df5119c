package sched

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/loom/errors"
	"github.com/wippyai/loom/suspend"
	"github.com/wippyai/loom/task"
)

var t0 = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func at(d time.Duration) time.Time { return t0.Add(d) }

// stepUntil drives Step with wall-clock time until the status leaves
// StatusRunning. Used for bodies waiting on real background work.
func stepUntil(t *testing.T, r *Registry, id string) (Status, error) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		st, err := r.Step(id, nil, time.Now())
		if st != StatusRunning || err != nil {
			return st, err
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("task did not leave running state")
	return StatusRunning, nil
}

func TestScenario_DelayThenNextTick(t *testing.T) {
	const id = "demo::delayed"
	var phases []string

	r := NewRegistry(Config{})
	r.Register(id, func(y *task.Yielder, in task.Input) {
		phases = append(phases, "start")
		in = y.Yield(suspend.Delay(time.Second))
		phases = append(phases, "after delay")
		in = y.Yield(suspend.NextTick())
		_ = in
		phases = append(phases, "after next tick")
	})
	require.NoError(t, r.Trigger(id))

	// tick@0.0: task created, pauses on the delay.
	st, err := r.Step(id, nil, at(0))
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, st)
	assert.Equal(t, []string{"start"}, phases)
	assert.True(t, r.IsActive(id))

	// tick@0.5: delay not ready, no progress.
	st, err = r.Step(id, nil, at(500*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, st)
	assert.Equal(t, []string{"start"}, phases)
	assert.True(t, r.IsActive(id))

	// tick@1.1: delay ready, resumes into the next-tick suspension, which
	// is freshly polled within the same tick and not yet ready.
	st, err = r.Step(id, nil, at(1100*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, st)
	assert.Equal(t, []string{"start", "after delay"}, phases)
	assert.True(t, r.IsActive(id))

	// tick@1.2: next-tick ready, runs to completion.
	st, err = r.Step(id, nil, at(1200*time.Millisecond))
	require.NoError(t, err)
	assert.Equal(t, StatusDone, st)
	assert.Equal(t, []string{"start", "after delay", "after next tick"}, phases)
	assert.False(t, r.IsActive(id))
}

func TestScenario_TwoNoopsInOneTick(t *testing.T) {
	const id = "demo::noops"
	var phases []string

	r := NewRegistry(Config{})
	r.Register(id, func(y *task.Yielder, in task.Input) {
		phases = append(phases, "a")
		in = y.Yield(suspend.Noop())
		phases = append(phases, "b")
		in = y.Yield(suspend.Noop())
		_ = in
		phases = append(phases, "c")
	})
	require.NoError(t, r.Trigger(id))

	st, err := r.Step(id, nil, at(0))
	require.NoError(t, err)
	assert.Equal(t, StatusDone, st)
	assert.Equal(t, []string{"a", "b", "c"}, phases)
	assert.False(t, r.IsActive(id))
}

func TestScenario_SuspensionInThenBranch(t *testing.T) {
	const id = "demo::branchy"

	run := func(cond bool) (phases []string, ticks int) {
		r := NewRegistry(Config{})
		r.Register(id, func(y *task.Yielder, in task.Input) {
			phases = append(phases, "before")
			if cond {
				phases = append(phases, "then")
				in = y.Yield(suspend.NextTick())
				_ = in
				phases = append(phases, "then resumed")
			}
			phases = append(phases, "after")
		})
		require.NoError(t, r.Trigger(id))
		for {
			ticks++
			st, err := r.Step(id, nil, at(time.Duration(ticks)*time.Millisecond))
			require.NoError(t, err)
			if st == StatusDone {
				return phases, ticks
			}
		}
	}

	phases, ticks := run(false)
	assert.Equal(t, []string{"before", "after"}, phases)
	assert.Equal(t, 1, ticks, "false branch completes in one tick with no suspension")

	phases, ticks = run(true)
	assert.Equal(t, []string{"before", "then", "then resumed", "after"}, phases)
	assert.Equal(t, 2, ticks, "suspension nested in the branch costs one extra tick")
}

func TestRetrigger_StartsFreshInstance(t *testing.T) {
	const id = "demo::counter"
	starts := 0

	r := NewRegistry(Config{})
	r.Register(id, func(y *task.Yielder, in task.Input) {
		starts++
		local := starts
		in = y.Yield(suspend.NextTick())
		_ = in
		// A fresh instance has no memory of the prior run's locals.
		assert.Equal(t, starts, local)
	})

	for run := 1; run <= 2; run++ {
		require.NoError(t, r.Trigger(id))
		st, err := r.Step(id, nil, at(0))
		require.NoError(t, err)
		require.Equal(t, StatusRunning, st)
		st, err = r.Step(id, nil, at(time.Millisecond))
		require.NoError(t, err)
		require.Equal(t, StatusDone, st)
		assert.False(t, r.IsActive(id))
	}
	assert.Equal(t, 2, starts)
}

func TestStepLimit_BoundsSameTickReentry(t *testing.T) {
	const id = "demo::greedy"
	yields := 0

	r := NewRegistry(Config{StepLimit: 4})
	r.Register(id, func(y *task.Yielder, in task.Input) {
		for i := 0; i < 10; i++ {
			yields++
			in = y.Yield(suspend.Noop())
		}
		_ = in
	})
	require.NoError(t, r.Trigger(id))

	st, err := r.Step(id, nil, at(0))
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, st, "step cap leaves the task paused, not failed")
	assert.Equal(t, 4, yields)
	assert.True(t, r.IsActive(id))

	// Later ticks continue where the cap stopped.
	var ticks int
	for st == StatusRunning {
		ticks++
		st, err = r.Step(id, nil, at(time.Duration(ticks)*time.Millisecond))
		require.NoError(t, err)
	}
	assert.Equal(t, StatusDone, st)
	assert.Equal(t, 10, yields)
}

func TestBackgroundResult_TypeContract(t *testing.T) {
	const id = "demo::fetch"
	var got string

	r := NewRegistry(Config{})
	r.Register(id, func(y *task.Yielder, in task.Input) {
		in = y.Yield(suspend.Go(func() (any, error) {
			return "payload", nil
		}))
		got = task.Result[string](in)
	})
	require.NoError(t, r.Trigger(id))

	st, err := stepUntil(t, r, id)
	require.NoError(t, err)
	assert.Equal(t, StatusDone, st)
	assert.Equal(t, "payload", got)
}

func TestBackgroundResult_WrongTypeIsFatal(t *testing.T) {
	const id = "demo::fetch"

	r := NewRegistry(Config{})
	r.Register(id, func(y *task.Yielder, in task.Input) {
		in = y.Yield(suspend.Go(func() (any, error) {
			return "payload", nil
		}))
		task.Result[int](in)
	})
	require.NoError(t, r.Trigger(id))

	st, err := stepUntil(t, r, id)
	assert.Equal(t, StatusFailed, st)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.TypeMismatch(errors.PhaseResume, "", ""))
	assert.False(t, r.IsActive(id))
}

func TestBackgroundFailure_AbortsTask(t *testing.T) {
	const id = "demo::doomed"

	r := NewRegistry(Config{})
	r.Register(id, func(y *task.Yielder, in task.Input) {
		y.Yield(suspend.Go(func() (any, error) {
			panic("worker exploded")
		}))
		t.Error("body must not resume past a failed background task")
	})
	require.NoError(t, r.Trigger(id))

	st, err := stepUntil(t, r, id)
	assert.Equal(t, StatusFailed, st)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.BackgroundFailed(nil))
	assert.False(t, r.IsActive(id))
}

func TestTick_DrivesAllActive(t *testing.T) {
	r := NewRegistry(Config{})
	done := map[string]bool{}
	for _, id := range []string{"a::p", "b::p"} {
		id := id
		r.Register(id, func(y *task.Yielder, in task.Input) {
			w := task.View[*map[string]bool](in, "done")
			(*w)[id] = true
		})
		require.NoError(t, r.Trigger(id))
	}

	provide := func(string) task.Context {
		return task.ContextFunc(func(name string) any {
			if name == "done" {
				return &done
			}
			return nil
		})
	}

	require.NoError(t, r.Tick(provide, at(0)))
	assert.Equal(t, map[string]bool{"a::p": true, "b::p": true}, done)
	assert.Empty(t, r.Active())
}

func TestStep_FreshContextEachTick(t *testing.T) {
	const id = "demo::views"
	var seen []int

	r := NewRegistry(Config{})
	r.Register(id, func(y *task.Yielder, in task.Input) {
		seen = append(seen, task.View[int](in, "frame"))
		in = y.Yield(suspend.NextTick())
		// Views must be re-derived from the fresh input after a resume.
		seen = append(seen, task.View[int](in, "frame"))
	})
	require.NoError(t, r.Trigger(id))

	frame := 1
	ctx := func() task.Context {
		return task.ContextFunc(func(name string) any { return frame })
	}

	st, err := r.Step(id, ctx(), at(0))
	require.NoError(t, err)
	require.Equal(t, StatusRunning, st)

	frame = 2
	st, err = r.Step(id, ctx(), at(time.Millisecond))
	require.NoError(t, err)
	require.Equal(t, StatusDone, st)

	assert.Equal(t, []int{1, 2}, seen)
}
