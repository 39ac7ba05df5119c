// Package rewrite turns straight-line procedures into resumable coroutine
// bodies, source-to-source.
//
// A procedure is an ordinary function marked with a //loom:proc directive
// whose body may contain suspension expressions: calls to loom.Suspend in
// statement position, bare or bound:
//
//	//loom:proc
//	func fadeBanner(w *World) {
//		w.ShowBanner()
//		t := loom.Suspend(suspend.Delay(time.Second)).(time.Time)
//		w.SetClock(t)
//		for i := 0; i < 3; i++ {
//			loom.Suspend(suspend.NextTick())
//			w.Pulse(i)
//		}
//	}
//
// The rewriter walks the body recursively, leaving ordinary statements and
// every construct header (condition, range clause, switch tag) untouched,
// and splices each suspension into a yield/resume boundary: transfer control
// out with the suspension handle, and on resume extract the typed result and
// re-derive every parameter view from the fresh input. Parameters are views
// into the per-tick external context; they are derived once in a generated
// prologue and again after every resume point, because the context object is
// replaced each tick and bindings taken before a suspension are stale after
// it.
//
// For each marked procedure the generated sibling file carries an identity
// constant ("<package>::<name>"), a registration helper, and the transformed
// body:
//
//	const fadeBannerID = "anim::fadeBanner"
//	func registerFadeBanner(r *sched.Registry) { ... }
//	func fadeBannerLoomBody(__y *task.Yielder, __in task.Input) { ... }
//
// Rejected procedures, reported at transform time: results, receivers,
// variadic, anonymous or underscore parameters, and suspension expressions
// anywhere other than statement position or a simple single-name binding.
//
// The rewrite is restricted by design: it is not a general compiler, just
// one transformation over the statement subset above plus nested blocks,
// if/else, for, range, switch, type switch, select and labeled statements.
package rewrite
