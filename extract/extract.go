// Package extract implements the three classical MUS extraction control
// strategies — deletion, insertion, and dichotomic — as drivers over
// the oracle, refiner, rotator, and scheduler packages.
package extract

import (
	"time"

	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
	"github.com/meelgroup/gmus/musdata"
	"github.com/meelgroup/gmus/oracle"
	"github.com/meelgroup/gmus/rotate"
)

// Status is the final disposition of an extraction run.
type Status int

const (
	// Exact means every group was classified and R ∪ N covers all groups
	// but group 0 — the result is a genuine GMUS.
	Exact Status = iota
	// Approximate means untested groups remain when the driver stops —
	// because a budget was exhausted, or because the driver (Dichotomic)
	// does not classify every group; those are reported necessary for
	// safety.
	Approximate
)

// Result is what an extraction driver returns.
type Result struct {
	Status       Status
	Necessary    []clause.GID // the extracted group-MUS, ascending
	SATCalls     int
	TaintedCores int
}

// Options configures the shared knobs every driver honors.
type Options struct {
	UseRefine     bool
	UseRotation   bool
	RotationDepth int
	UseRR         bool // redundancy-removal trick: assume ¬g when probing g
	AdaptiveRR    bool // re-enable RR after a SAT outcome, disable after a tainted core
	Finalize      bool // merge proven-necessary groups into the oracle's permanent set
	Delete        bool // physically delete unnecessary groups from the oracle
}

// Budget bounds one extraction run; either field being zero means
// unlimited.
type Budget struct {
	MaxSATCalls int
	CPUTime     time.Duration
}

// deadline is a tiny shared helper every driver consults before each
// oracle call, polled once per top-level iteration. The CPU budget is
// soft: each oracle call is granted whatever remains, and an in-progress
// call is never preempted.
type deadline struct {
	budget   Budget
	start    time.Time
	satCalls int
}

func newDeadline(b Budget) *deadline {
	return &deadline{budget: b, start: time.Now()}
}

func (d *deadline) exhausted() bool {
	if d.budget.MaxSATCalls > 0 && d.satCalls >= d.budget.MaxSATCalls {
		return true
	}
	return d.budget.CPUTime > 0 && time.Since(d.start) >= d.budget.CPUTime
}

// callBudget grants the next oracle call the remaining share of the run's
// CPU budget.
func (d *deadline) callBudget() oracle.Budget {
	if d.budget.CPUTime == 0 {
		return oracle.Budget{}
	}
	rem := d.budget.CPUTime - time.Since(d.start)
	if rem < time.Millisecond {
		rem = time.Millisecond
	}
	return oracle.Budget{CPUTime: rem}
}

// finalizeResult collects R/N into a Result once the main loop of any
// driver stops; untested leftovers are reported necessary for safety.
func finalizeResult(md *musdata.State, d *deadline, tainted int) Result {
	res := Result{Status: Exact, SATCalls: d.satCalls, TaintedCores: tainted}
	if md.NumUntested() > 0 {
		res.Status = Approximate
	}
	for _, g := range md.GSet().Groups() {
		if g == clause.Group0 {
			continue
		}
		if md.IsNecessary(g) || md.IsUntested(g) && res.Status == Approximate {
			res.Necessary = append(res.Necessary, g)
		}
	}
	return res
}

// snapshotModel materializes the oracle's current witness into a slice so
// it survives subsequent Test calls — the insertion driver rotates on the
// model of its last SAT probe after the next probe has already flipped the
// solver to UNSAT.
func snapshotModel(m func(clause.Lit) bool, maxVar clause.Var) rotate.Model {
	vals := make([]bool, int(maxVar)+1)
	for v := clause.Var(1); v <= maxVar; v++ {
		vals[v] = m(clause.Lit(v))
	}
	return func(l clause.Lit) bool {
		if l.IsPos() {
			return vals[l.Var()]
		}
		return !vals[l.Var()]
	}
}

// candidateGroups returns every group still untested, excluding group 0.
func candidateGroups(md *musdata.State) []clause.GID {
	var out []clause.GID
	for _, g := range md.GSet().Groups() {
		if g == clause.Group0 {
			continue
		}
		if md.IsUntested(g) {
			out = append(out, g)
		}
	}
	return out
}

// activeGroups returns every group not yet removed, including group 0 and
// necessary groups — the set an oracle.Test call should treat as present.
func activeGroups(md *musdata.State) []clause.GID {
	var out []clause.GID
	for _, g := range md.GSet().Groups() {
		if !md.IsRemoved(g) {
			out = append(out, g)
		}
	}
	return out
}

// without returns active with g removed, used to probe "is the remainder
// minus g still unsatisfiable".
func without(active []clause.GID, g clause.GID) []clause.GID {
	out := make([]clause.GID, 0, len(active))
	for _, x := range active {
		if x != g {
			out = append(out, x)
		}
	}
	return out
}

// oracleModel adapts an oracle.Oracle's Model accessor to rotate.Model.
func oracleModel(o oracle.Oracle) rotate.Model { return rotate.Model(o.Model()) }

// soleActiveClause returns g's only non-removed clause, or nil if g has
// none or more than one — the shape redundancy removal can express with
// unit assumptions.
func soleActiveClause(gs *groupset.Set, g clause.GID) *clause.Clause {
	var only *clause.Clause
	for _, c := range gs.ClausesOf(g) {
		if c.Removed() {
			continue
		}
		if only != nil {
			return nil
		}
		only = c
	}
	return only
}
