package oracle

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
)

// Reinit is the re-initialized oracle backend:
// every Test call throws away the previous gini.Gini and builds a fresh
// one from scratch, adding only the clauses of the currently-active
// groups. This trades per-call solver setup cost for never having to
// worry about stale learned clauses across group activations.
//
// gini exposes no clause-level unsat-core facility, so the group core is
// reconstructed through its assumption-failure interface instead: each
// active non-final group's clauses are gated on a throwaway selector
// literal that lives only for this one call, and Why maps the failed
// selectors back to group ids.
type Reinit struct {
	gs      *groupset.Set
	final   map[clause.GID]bool
	core    []clause.GID
	tainted bool
	lastG   *gini.Gini
}

// NewReinit returns an uninitialized re-initialized oracle.
func NewReinit() *Reinit {
	return &Reinit{final: make(map[clause.GID]bool)}
}

func (o *Reinit) Init(gs *groupset.Set) error {
	o.gs = gs
	o.final = map[clause.GID]bool{clause.Group0: true}
	o.core = nil
	o.tainted = false
	o.lastG = nil
	return nil
}

func (o *Reinit) Reset() {
	o.gs = nil
	o.final = nil
	o.core = nil
	o.lastG = nil
}

func (o *Reinit) Test(active []clause.GID, assumps []clause.Lit, budget Budget) (Outcome, error) {
	if o.gs == nil {
		return Unknown, fmt.Errorf("oracle: reinit backend not initialized")
	}
	wantActive := make(map[clause.GID]bool, len(active))
	for _, g := range active {
		wantActive[g] = true
	}

	g := gini.New()
	// per-group selector literal, added as a disjunct of every one of the
	// group's clauses (the standard assumption-gated-clause trick) so that
	// asserting it true for this call enforces the clause and Why can
	// blame the group if asserting it was necessary for the conflict.
	// Final groups need no selector: their clauses are asserted outright,
	// exactly as make_group_final's groups are added unconditionally.
	gactlit := make(map[clause.GID]z.Lit)
	for _, gid := range o.gs.Groups() {
		if !o.final[gid] && !wantActive[gid] {
			continue
		}
		var sel z.Lit
		if !o.final[gid] {
			sel = g.Lit()
			gactlit[gid] = sel
		}
		for _, c := range o.gs.ClausesOf(gid) {
			if c.Removed() || c.ActiveLen() == 0 {
				continue
			}
			if sel != 0 {
				g.Add(sel.Not())
			}
			for _, l := range c.Active() {
				g.Add(z.Dimacs2Lit(int(l)))
			}
			g.Add(z.LitNull)
		}
	}

	assume := make([]z.Lit, 0, len(gactlit)+len(assumps))
	for _, lit := range gactlit {
		assume = append(assume, lit)
	}
	extra := make(map[z.Lit]bool, len(assumps))
	for _, l := range assumps {
		zl := z.Dimacs2Lit(int(l))
		extra[zl] = true
		assume = append(assume, zl)
	}
	g.Assume(assume...)

	var res int
	if budget.CPUTime > 0 {
		res = g.Try(budget.CPUTime)
	} else {
		res = g.Solve()
	}

	o.lastG = g
	switch res {
	case 1:
		o.core = nil
		o.tainted = false
		return Sat, nil
	case -1:
		why := g.Why(nil)
		byLit := make(map[z.Lit]clause.GID, len(gactlit))
		for gid, lit := range gactlit {
			byLit[lit] = gid
		}
		o.core = nil
		o.tainted = false
		seen := make(map[clause.GID]bool)
		for _, l := range why {
			if gid, ok := byLit[l]; ok && !seen[gid] {
				seen[gid] = true
				o.core = append(o.core, gid)
			}
			if extra[l] {
				// caller assumption in the conflict: core is tainted.
				o.tainted = true
			}
		}
		return Unsat, nil
	default:
		return Unknown, nil
	}
}

func (o *Reinit) Core() []clause.GID { return o.core }
func (o *Reinit) TaintedCore() bool  { return o.tainted }

func (o *Reinit) Model() func(clause.Lit) bool {
	g := o.lastG
	return func(l clause.Lit) bool {
		return g.Value(z.Dimacs2Lit(int(l)))
	}
}

// Activate and Deactivate are no-ops on the re-initialized backend: group
// membership is read fresh from the group set on every Test call.
func (o *Reinit) Activate(gs *groupset.Set, g clause.GID) error { return nil }
func (o *Reinit) Deactivate(g clause.GID) error                 { return nil }

// Finalize marks g permanently active — it will be added to every future
// throwaway solver unconditionally and never assumption-gated.
func (o *Reinit) Finalize(g clause.GID) error {
	o.final[g] = true
	return nil
}
