package main

import (
	"fmt"
	"time"

	"github.com/wippyai/loom"
	"github.com/wippyai/loom/suspend"
)

//go:generate go run github.com/wippyai/loom/cmd/loomgen --namespace demo procs.go

// Stage is the shared surface the demo procedures draw on. Procedures reach
// it through their task context; the TUI reads it when rendering. All
// mutation happens inside the tick, on the TUI goroutine.
type Stage struct {
	Banner string
	Status string
	Events []string
}

func (s *Stage) SetBanner(v string) { s.Banner = v }
func (s *Stage) SetStatus(v string) { s.Status = v }

func (s *Stage) Log(line string) {
	s.Events = append(s.Events, time.Now().Format("15:04:05.000")+"  "+line)
	if len(s.Events) > 8 {
		s.Events = s.Events[len(s.Events)-8:]
	}
}

// reveal plays a staged banner animation, one frame per delay, then lets a
// full tick pass before reporting completion.
//
//loom:proc
func reveal(stage *Stage) {
	for _, frame := range []string{"L", "LO", "LOO", "LOOM"} {
		stage.SetBanner(frame)
		loom.Suspend(suspend.Delay(150 * time.Millisecond))
	}
	loom.Suspend(suspend.NextTick())
	stage.Log("reveal complete")
}

// fetch simulates a slow background call. The work runs off the tick loop;
// the procedure resumes with its result once a tick observes completion.
//
//loom:proc
func fetch(stage *Stage) {
	stage.SetStatus("fetching")
	v := loom.Suspend(suspend.Go(func() (any, error) {
		time.Sleep(600 * time.Millisecond)
		return fmt.Sprintf("payload %s", time.Now().Format("15:04:05.000")), nil
	})).(string)
	stage.SetStatus("done: " + v)
	stage.Log("fetch returned " + v)
}
