package extract

import (
	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/musdata"
	"github.com/meelgroup/gmus/oracle"
	"github.com/meelgroup/gmus/refine"
	"github.com/meelgroup/gmus/rotate"
	"github.com/meelgroup/gmus/schedule"
)

// Deletion runs the deletion-based extraction loop: probe each scheduled
// group by assuming it absent; SAT proves it (and anything rotation
// reaches) necessary, UNSAT proves it (and anything refinement reaches)
// unnecessary.
func Deletion(md *musdata.State, o oracle.Oracle, sched schedule.Scheduler, opts Options, budget Budget) Result {
	d := newDeadline(budget)
	useRR := opts.UseRR
	tainted := 0

	for {
		g, ok := sched.Next()
		if !ok {
			break
		}
		if md.IsRemoved(g) || md.IsNecessary(g) {
			continue
		}
		if d.exhausted() {
			sched.Reschedule(g)
			break
		}

		active := without(activeGroups(md), g)
		var assumps []clause.Lit
		// The RR trick: probe with the candidate's negation
		// injected, so UNSAT proves the remainder entails g — redundancy,
		// not mere removability. Unit assumptions can only express the
		// negation exactly when g is a single clause (its negation is then
		// the conjunction of its negated literals), so multi-clause groups
		// are probed without RR.
		if useRR {
			if c := soleActiveClause(md.GSet(), g); c != nil {
				for _, l := range c.Active() {
					assumps = append(assumps, l.Not())
				}
			}
		}
		rrApplied := len(assumps) > 0

		outcome, err := o.Test(active, assumps, d.callBudget())
		d.satCalls++
		if err != nil {
			sched.Reschedule(g)
			continue
		}

		switch outcome {
		case oracle.Unsat:
			coreTainted := rrApplied && o.TaintedCore()
			var refResult refine.Result
			if opts.UseRefine {
				refResult = refine.Refine(g, candidateGroups(md), o.Core(), coreTainted)
			} else {
				refResult = refine.Result{Unnecessary: []clause.GID{g}, Tainted: coreTainted}
			}
			if refResult.Tainted {
				tainted++
			}
			for _, gg := range refResult.Unnecessary {
				if md.IsRemoved(gg) || md.IsNecessary(gg) {
					continue
				}
				md.MarkRemoved(gg, false)
				sched.NotifyRemoved(gg)
				if opts.Delete {
					o.Deactivate(gg)
				}
			}
			md.BumpVersion()
			if refResult.Tainted && opts.AdaptiveRR {
				useRR = false
				for _, gg := range refResult.FasttrackCandidates {
					if gg != g && md.IsUntested(gg) {
						sched.Fasttrack(gg)
					}
				}
			}

		case oracle.Sat:
			var necessary []clause.GID
			if opts.UseRotation {
				rotRes := rotate.Rotate(md.GSet(), oracleModel(o), g, opts.RotationDepth)
				necessary = rotRes.Necessary
				for _, gg := range rotRes.Fasttrack {
					md.MarkPotentiallyNecessary(gg)
				}
			} else {
				necessary = []clause.GID{g}
			}
			for _, gg := range necessary {
				if md.IsNecessary(gg) || md.IsRemoved(gg) {
					continue
				}
				md.MarkNecessary(gg, false)
				sched.NotifyNecessary(gg)
				if opts.Finalize {
					o.Finalize(gg)
				}
			}
			if opts.AdaptiveRR {
				useRR = opts.UseRR
			}

		case oracle.Unknown:
			sched.Reschedule(g)
		}
	}

	return finalizeResult(md, d, tainted)
}
