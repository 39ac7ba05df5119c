package suspend

import (
	"fmt"
	"time"

	"github.com/wippyai/loom/errors"
)

type background struct {
	done   chan struct{}
	result any
	err    error
}

// Go spawns work on its own goroutine and returns a handle that is ready once
// the work has returned. The handle's result is the work's return value.
//
// The work cannot be cancelled once spawned. An error returned by the work,
// or a panic inside it, is fatal for the owning task and surfaces as a
// background_failed error on poll.
func Go(work func() (any, error)) Handle {
	b := &background{done: make(chan struct{})}
	go func() {
		defer close(b.done)
		defer func() {
			if r := recover(); r != nil {
				b.err = errors.BackgroundFailed(fmt.Errorf("panic: %v", r))
			}
		}()
		v, err := work()
		if err != nil {
			b.err = errors.BackgroundFailed(err)
			return
		}
		b.result = v
	}()
	return b
}

func (b *background) Poll(time.Time) (any, bool, error) {
	select {
	case <-b.done:
		if b.err != nil {
			return nil, false, b.err
		}
		return b.result, true, nil
	default:
		return nil, false, nil
	}
}
