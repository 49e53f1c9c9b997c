// Package rotate implements the model rotator (C6): given a SAT witness
// that falsifies exactly one clause of a candidate group, it flips the
// falsified literal and follows the resulting chain of newly-falsified
// clauses to discover further necessary groups in one SAT answer.
//
// The classical result: flip a clause's sole falsified literal, and if
// exactly one other clause becomes newly falsified as a result, its group
// is also necessary. Implemented as a pure function over
// clause.Clause/groupset.Set, driven by the occurrence lists.
package rotate

import (
	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
)

// Result is the outcome of rotating from one necessary group's model.
type Result struct {
	// Necessary holds every group proven necessary by the rotation,
	// always including the starting group.
	Necessary []clause.GID

	// Fasttrack holds groups visited during the search whose necessity is
	// suspected but not proven — a single flip newly falsified more than
	// one group's clause at once, so neither can be singled out as the
	// one the rotation argument actually implies.
	Fasttrack []clause.GID
}

// Model reads the truth value gini (or any other oracle backend) assigned
// to a literal in the witness being rotated.
type Model func(clause.Lit) bool

// Rotate explores model-rotation chains starting from group `start`, whose
// SAT witness `model` is known to satisfy every currently-active group
// except possibly some of start's clauses. depth bounds the recursion
// (0 disables rotation: the result is just {start}).
//
// start must have a clause
// with exactly one literal falsified by model; flipping that literal in a
// copy of the assignment satisfies it, and can only newly falsify clauses
// that contain the flipped literal's negation — found via the occurrence
// list. A clause that becomes entirely falsified by the flip hands its
// group to the next round, seeded with every one of that clause's (now
// false) literals as further candidate flips, bounded by depth. If a
// single flip newly falsifies more than one group's clauses at once, the
// rotation argument doesn't single one out, so all are reported as
// fasttrack hints instead of proven necessary. Cycles are broken by a
// visited-group set.
func Rotate(gs *groupset.Set, model Model, start clause.GID, depth int) Result {
	res := Result{Necessary: []clause.GID{start}}
	if depth <= 0 {
		return res
	}
	occ := gs.Occurrence()
	if occ == nil {
		return res
	}

	m := &flippedModel{base: model}
	seed, ok := soleFalsifiedLit(gs, start, m)
	if !ok {
		return res
	}

	visited := map[clause.GID]bool{start: true}
	type pending struct {
		lit   clause.Lit
		depth int
	}
	queue := []pending{{seed, depth}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur.depth <= 0 {
			continue
		}
		m.flip(cur.lit)

		newlyFalsified := map[clause.GID]*clause.Clause{}
		for _, c := range occ.ClausesOf(cur.lit.Not()) {
			if c.Removed() || !allFalsified(c, m) {
				continue
			}
			newlyFalsified[c.Group()] = c
		}

		switch len(newlyFalsified) {
		case 0:
			// the flip alone resolved everything it touched.
		case 1:
			for g, c := range newlyFalsified {
				if g == clause.Group0 || visited[g] {
					continue
				}
				visited[g] = true
				res.Necessary = append(res.Necessary, g)
				for _, l := range c.Active() {
					if !m.value(l) {
						queue = append(queue, pending{l, cur.depth - 1})
					}
				}
			}
		default:
			// ambiguous: more than one group's clause went false from this
			// single flip, so the rotation argument can't single one out.
			for g := range newlyFalsified {
				if !visited[g] {
					res.Fasttrack = append(res.Fasttrack, g)
				}
			}
		}
	}
	return res
}

// flippedModel overlays a small set of literal flips on top of a base
// model, without mutating the oracle's own witness.
type flippedModel struct {
	base    Model
	flipped map[clause.Lit]bool
}

func (m *flippedModel) value(l clause.Lit) bool {
	if m.flipped != nil {
		if v, ok := m.flipped[l]; ok {
			return v
		}
		if v, ok := m.flipped[l.Not()]; ok {
			return !v
		}
	}
	return m.base(l)
}

func (m *flippedModel) flip(l clause.Lit) {
	if m.flipped == nil {
		m.flipped = make(map[clause.Lit]bool)
	}
	m.flipped[l] = !m.value(l)
}

// soleFalsifiedLit returns the single falsified active literal among g's
// clauses under m, and true, if g's non-removed clauses hold exactly one
// falsified literal between them; otherwise ok is false.
func soleFalsifiedLit(gs *groupset.Set, g clause.GID, m *flippedModel) (lit clause.Lit, ok bool) {
	var found clause.Lit
	n := 0
	for _, c := range gs.ClausesOf(g) {
		if c.Removed() {
			continue
		}
		for _, l := range c.Active() {
			if !m.value(l) {
				found = l
				n++
			}
		}
	}
	return found, n == 1
}

// falsifiedLit returns the clause's sole falsified active literal under m,
// and true, if the clause has exactly one; otherwise ok is false.
func falsifiedLit(c *clause.Clause, m *flippedModel) (lit clause.Lit, ok bool) {
	count := 0
	var found clause.Lit
	for _, l := range c.Active() {
		if !m.value(l) {
			count++
			found = l
			if count > 1 {
				return 0, false
			}
		}
	}
	if count != 1 {
		return 0, false
	}
	return found, true
}

// allFalsified reports whether every active literal of c is false under m
// — the clause has become entirely falsified by the flip chain.
func allFalsified(c *clause.Clause, m *flippedModel) bool {
	if c.ActiveLen() == 0 {
		return false
	}
	for _, l := range c.Active() {
		if m.value(l) {
			return false
		}
	}
	return true
}
