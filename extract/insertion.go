package extract

import (
	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/musdata"
	"github.com/meelgroup/gmus/oracle"
	"github.com/meelgroup/gmus/refine"
	"github.com/meelgroup/gmus/rotate"
	"github.com/meelgroup/gmus/schedule"
)

// Insertion runs the insertion-based extraction loop: starting
// from the empty working set, it grows W by scheduler order until the
// oracle reports UNSAT; the group whose addition caused the flip is a
// transition witness and is necessary; the other groups in W go back to
// the untested pool, and the process repeats with the witness kept
// permanently active.
//
// Refinement applies at the UNSAT step exactly as in deletion. Rotation
// does too, but the model it rotates is the witness of the *previous*
// probe — the last SAT answer, snapshotted before the transition probe
// overwrote the solver's assignment; that model satisfies everything the
// refined remainder keeps except the transition witness, which is
// precisely rotation's precondition.
func Insertion(md *musdata.State, o oracle.Oracle, sched schedule.Scheduler, opts Options, budget Budget) Result {
	d := newDeadline(budget)
	tainted := 0
	maxVar := md.GSet().MaxVar()

	for len(candidateGroups(md)) > 0 {
		if d.exhausted() {
			break
		}

		// Base solve: the transition-witness argument needs the working
		// set to start from a satisfiable floor. Once N ∪ group 0 is
		// unsatisfiable on its own, every remaining candidate is
		// unnecessary and the MUS is exactly N.
		base := append([]clause.GID{clause.Group0}, necessaryGroups(md)...)
		outcome, err := o.Test(base, nil, d.callBudget())
		d.satCalls++
		if err != nil || outcome == oracle.Unknown {
			break
		}
		if outcome == oracle.Unsat {
			for _, gg := range candidateGroups(md) {
				md.MarkRemoved(gg, false)
				sched.NotifyRemoved(gg)
				if opts.Delete {
					o.Deactivate(gg)
				}
			}
			md.BumpVersion()
			break
		}

		var w []clause.GID
		var lastAdded clause.GID
		model := snapshotModel(o.Model(), maxVar)
		sawUnsat := false

		for {
			g, ok := sched.Next()
			if !ok {
				break
			}
			if md.IsRemoved(g) || md.IsNecessary(g) || containsGID(w, g) {
				continue
			}
			if d.exhausted() {
				sched.Reschedule(g)
				return finalizeResult(md, d, tainted)
			}

			w = append(w, g)
			lastAdded = g
			active := append(append([]clause.GID{clause.Group0}, necessaryGroups(md)...), w...)
			outcome, err := o.Test(active, nil, d.callBudget())
			d.satCalls++
			if err != nil || outcome == oracle.Unknown {
				w = w[:len(w)-1]
				sched.Reschedule(g)
				continue
			}
			if outcome == oracle.Sat {
				model = snapshotModel(o.Model(), maxVar)
				continue
			}
			sawUnsat = true
			break
		}

		if !sawUnsat {
			// The scheduler ran dry while the working set was still
			// satisfiable: whatever remains in w is necessary by
			// elimination.
			for _, gg := range w {
				if md.IsUntested(gg) {
					md.MarkNecessary(gg, false)
					sched.NotifyNecessary(gg)
				}
			}
			break
		}

		coreTainted := o.TaintedCore()
		if opts.UseRefine {
			refResult := refine.Refine(lastAdded, candidateGroups(md), o.Core(), coreTainted)
			if refResult.Tainted {
				tainted++
			} else {
				for _, gg := range refResult.Unnecessary {
					if gg == lastAdded || !md.IsUntested(gg) {
						continue
					}
					md.MarkRemoved(gg, false)
					sched.NotifyRemoved(gg)
					if opts.Delete {
						o.Deactivate(gg)
					}
				}
				md.BumpVersion()
			}
		}

		// Rotation needs the snapshot model to satisfy every non-removed
		// group except the witness. The snapshot only covers W, the
		// necessary set, and group 0 — so rotation is sound here exactly
		// when refinement just removed everything outside the core.
		necessary := []clause.GID{lastAdded}
		if opts.UseRotation && opts.UseRefine && !coreTainted && model != nil {
			necessary = rotate.Rotate(md.GSet(), model, lastAdded, opts.RotationDepth).Necessary
		}
		for _, gg := range necessary {
			if !md.IsUntested(gg) {
				continue
			}
			md.MarkNecessary(gg, false)
			sched.NotifyNecessary(gg)
			if opts.Finalize {
				o.Finalize(gg)
			}
		}

		for _, gg := range w {
			if gg != lastAdded && md.IsUntested(gg) {
				sched.Reschedule(gg)
			}
		}
	}

	return finalizeResult(md, d, tainted)
}

func containsGID(xs []clause.GID, g clause.GID) bool {
	for _, x := range xs {
		if x == g {
			return true
		}
	}
	return false
}

func necessaryGroups(md *musdata.State) []clause.GID {
	var out []clause.GID
	for _, g := range md.GSet().Groups() {
		if md.IsNecessary(g) {
			out = append(out, g)
		}
	}
	return out
}
