package loom

import (
	"github.com/wippyai/loom/errors"
	"github.com/wippyai/loom/suspend"
)

// Suspend marks a suspension point in a procedure body. The call only exists
// in source that has not been transformed yet: loomgen rewrites every
// statement-position Suspend into a yield/resume boundary, and the generated
// code never calls it.
//
// In a marked procedure, suspend and bind the result:
//
//	t := loom.Suspend(suspend.Delay(time.Second)).(time.Time)
//
// or suspend and discard it:
//
//	loom.Suspend(suspend.NextTick())
//
// Calling Suspend at run time means the enclosing function was scheduled
// without being transformed, which is a programmer error.
func Suspend(h suspend.Handle) any {
	panic(errors.Misuse(errors.PhaseRuntime,
		"loom.Suspend called outside a transformed procedure; run loomgen over this file"))
}
