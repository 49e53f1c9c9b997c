package oracle

import (
	"fmt"

	"github.com/go-air/gini"
	"github.com/go-air/gini/z"

	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
)

// Incremental is the persistent-solver oracle backend: one gini.Gini
// instance lives for the whole run. Every non-final
// group gets an activation literal (gini's ActivationLit) at Init time, and
// each of the group's clauses is added with that literal's negation as an
// extra disjunct; Test assumes the activation literals of exactly the
// requested groups plus the caller's extra literals, so group membership
// changes cost one assumption each rather than a clause re-add.
//
// Because the literals come from ActivationLit, Deactivate can hand one
// back to gini together with the clauses gated on it.
type Incremental struct {
	g       *gini.Gini
	act     map[clause.GID]z.Lit // activation literal per non-final group
	final   map[clause.GID]bool
	core    []clause.GID
	tainted bool
}

// NewIncremental returns an uninitialized incremental oracle.
func NewIncremental() *Incremental {
	return &Incremental{}
}

func (o *Incremental) Init(gs *groupset.Set) error {
	o.g = gini.New()
	o.act = make(map[clause.GID]z.Lit)
	o.final = make(map[clause.GID]bool)
	o.core = nil
	o.tainted = false

	for _, gid := range gs.Groups() {
		if gid == clause.Group0 {
			o.final[gid] = true
			o.addHardClauses(gs, gid)
			continue
		}
		act := o.g.ActivationLit()
		o.act[gid] = act
		o.addGatedClauses(gs, gid, act)
	}
	return nil
}

// addHardClauses asserts g's active clauses outright — final groups need
// no gating.
func (o *Incremental) addHardClauses(gs *groupset.Set, gid clause.GID) {
	for _, c := range gs.ClausesOf(gid) {
		if c.Removed() || c.ActiveLen() == 0 {
			// the empty clause is short-circuited by the engine before any
			// oracle is built; gini's Add(0) on an empty run would be the
			// empty clause itself, so it is never forwarded here.
			continue
		}
		for _, l := range c.Active() {
			o.g.Add(z.Dimacs2Lit(int(l)))
		}
		o.g.Add(z.LitNull)
	}
}

// addGatedClauses adds g's active clauses gated on act: each is added as
// the clause (¬act ∨ l_1 ∨ … ∨ l_k), so assuming act in a later Test
// enforces it and assuming ¬act switches it off.
func (o *Incremental) addGatedClauses(gs *groupset.Set, gid clause.GID, act z.Lit) {
	for _, c := range gs.ClausesOf(gid) {
		if c.Removed() || c.ActiveLen() == 0 {
			continue
		}
		o.g.Add(act.Not())
		for _, l := range c.Active() {
			o.g.Add(z.Dimacs2Lit(int(l)))
		}
		o.g.Add(z.LitNull)
	}
}

func (o *Incremental) Reset() {
	o.g = nil
	o.act = nil
	o.final = nil
	o.core = nil
}

func (o *Incremental) Test(active []clause.GID, assumps []clause.Lit, budget Budget) (Outcome, error) {
	if o.g == nil {
		return Unknown, fmt.Errorf("oracle: incremental backend not initialized")
	}
	wantActive := make(map[clause.GID]bool, len(active))
	for _, g := range active {
		wantActive[g] = true
	}

	assume := make([]z.Lit, 0, len(o.act)+len(assumps))
	for gid, lit := range o.act {
		if o.final[gid] || wantActive[gid] {
			assume = append(assume, lit)
		} else {
			assume = append(assume, lit.Not())
		}
	}
	extra := make(map[z.Lit]bool, len(assumps))
	for _, l := range assumps {
		zl := z.Dimacs2Lit(int(l))
		extra[zl] = true
		assume = append(assume, zl)
	}
	o.g.Assume(assume...)

	var res int
	if budget.CPUTime > 0 {
		res = o.g.Try(budget.CPUTime)
	} else {
		res = o.g.Solve()
	}

	switch res {
	case 1:
		o.core = nil
		o.tainted = false
		return Sat, nil
	case -1:
		why := o.g.Why(nil)
		o.core = o.coreFromWhy(why, wantActive)
		o.tainted = false
		for _, l := range why {
			if extra[l] {
				// a caller-injected assumption participated in the final
				// conflict: groups absent from the core are not provably
				// unnecessary.
				o.tainted = true
				break
			}
		}
		return Unsat, nil
	default:
		return Unknown, nil
	}
}

// coreFromWhy maps the failed-assumption literals gini returns back to
// the group ids whose activation literal produced them, filtered to
// active, non-final groups.
func (o *Incremental) coreFromWhy(why []z.Lit, wantActive map[clause.GID]bool) []clause.GID {
	byLit := make(map[z.Lit]clause.GID, len(o.act))
	for gid, lit := range o.act {
		byLit[lit] = gid
	}
	seen := make(map[clause.GID]bool)
	var core []clause.GID
	for _, l := range why {
		gid, ok := byLit[l]
		if !ok || o.final[gid] || !wantActive[gid] || seen[gid] {
			continue
		}
		seen[gid] = true
		core = append(core, gid)
	}
	return core
}

func (o *Incremental) Core() []clause.GID { return o.core }
func (o *Incremental) TaintedCore() bool  { return o.tainted }

func (o *Incremental) Model() func(clause.Lit) bool {
	return func(l clause.Lit) bool {
		return o.g.Value(z.Dimacs2Lit(int(l)))
	}
}

func (o *Incremental) Activate(gs *groupset.Set, g clause.GID) error {
	if _, ok := o.act[g]; ok {
		return nil
	}
	act := o.g.ActivationLit()
	o.act[g] = act
	o.addGatedClauses(gs, g, act)
	return nil
}

// Deactivate drops g permanently: gini recycles the activation literal
// and removes every clause gated on it, including learned ones — deletion
// rather than a mere toggle (toggling is free: just leave g out of Test's
// active set).
func (o *Incremental) Deactivate(g clause.GID) error {
	lit, ok := o.act[g]
	if !ok {
		return fmt.Errorf("oracle: group %d has no activation literal", g)
	}
	o.g.Deactivate(lit)
	delete(o.act, g)
	return nil
}

func (o *Incremental) Finalize(g clause.GID) error {
	o.final[g] = true
	return nil
}
