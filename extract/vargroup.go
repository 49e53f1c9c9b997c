package extract

import (
	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
	"github.com/meelgroup/gmus/musdata"
	"github.com/meelgroup/gmus/oracle"
	"github.com/meelgroup/gmus/schedule"
)

// DeletionVars runs the deletion loop's variable-group analogue: the
// quantity being minimized is a set of variable groups, and removing a
// variable group removes every clause that mentions one of its variables —
// the induced subformula. Each clause sits in its own singleton
// clause-group (the engine arranges this in variable-group mode), so a
// probe activates exactly the clause-groups of the clauses induced by the
// variables still in play.
//
// A candidate vg is unnecessary exactly when the subformula induced by
// dropping its variables (on top of the already-removed groups' variables)
// stays unsatisfiable; a SAT answer proves vg necessary.
func DeletionVars(md *musdata.State, o oracle.Oracle, sched schedule.Scheduler, budget Budget) Result {
	d := newDeadline(budget)
	gset := md.GSet()

	removedVars := func(extra clause.GID) map[clause.Var]bool {
		out := make(map[clause.Var]bool)
		for _, vg := range gset.VarGroupIDs() {
			if vg != extra && !md.IsRemoved(vg) {
				continue
			}
			for _, v := range gset.VarsOf(vg) {
				out[v] = true
			}
		}
		return out
	}

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

		active := inducedGroups(gset, removedVars(g))
		outcome, err := o.Test(active, nil, d.callBudget())
		d.satCalls++
		if err != nil {
			sched.Reschedule(g)
			continue
		}

		switch outcome {
		case oracle.Unsat:
			md.MarkRemoved(g, false)
			sched.NotifyRemoved(g)
			md.BumpVersion()
		case oracle.Sat:
			md.MarkNecessary(g, false)
			sched.NotifyNecessary(g)
		case oracle.Unknown:
			sched.Reschedule(g)
		}
	}

	return finalizeVarResult(md, d, gset)
}

// inducedGroups returns every clause-group none of whose clauses mentions
// an excluded variable — the induced subformula, at the granularity the
// oracle activates.
func inducedGroups(gset *groupset.Set, exclude map[clause.Var]bool) []clause.GID {
	var active []clause.GID
groups:
	for _, g := range gset.Groups() {
		for _, c := range gset.ClausesOf(g) {
			if c.Removed() {
				continue
			}
			for _, l := range c.Active() {
				if exclude[l.Var()] {
					continue groups
				}
			}
		}
		active = append(active, g)
	}
	return active
}

func finalizeVarResult(md *musdata.State, d *deadline, gset *groupset.Set) Result {
	res := Result{Status: Exact, SATCalls: d.satCalls}
	untested := 0
	for _, vg := range gset.VarGroupIDs() {
		if md.IsUntested(vg) {
			untested++
		}
	}
	if untested > 0 {
		res.Status = Approximate
	}
	for _, vg := range gset.VarGroupIDs() {
		if md.IsNecessary(vg) || (md.IsUntested(vg) && res.Status == Approximate) {
			res.Necessary = append(res.Necessary, vg)
		}
	}
	return res
}
