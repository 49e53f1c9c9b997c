// Package refine implements the core refiner (C5): turning the oracle's
// raw unsatisfiable core into the set of groups the deletion algorithm may
// safely drop in one step, and handling the case where redundancy removal
// has made that core untrustworthy.
//
// Refinement is exposed as a pure function over plain parameters rather
// than a stateful work-item object, so the drivers stay in control of all
// state mutation.
package refine

import "github.com/meelgroup/gmus/clause"

// Result is the outcome of refining one SAT-oracle probe.
type Result struct {
	// Unnecessary lists every group Refine proved not needed — at least
	// the probed group itself, and, when refinement succeeds, every
	// candidate group absent from the reported core.
	Unnecessary []clause.GID

	// Tainted mirrors the caller's coreTainted input: the core came from a
	// conflict that used redundancy-removal assumptions, so groups outside
	// it are not provably safe to drop.
	Tainted bool

	// FasttrackCandidates names the groups Refine suggests rechecking
	// ahead of the scheduler's normal order once a tainted core is found —
	// the groups the tainted core did mention, since they are the ones the
	// conflict actually leaned on.
	FasttrackCandidates []clause.GID
}

// Refine interprets an UNSAT oracle probe of probed (the single group the
// extraction algorithm is currently testing for necessity) against
// candidates (every group still under consideration) and core (the group
// ids the oracle reported as responsible). coreTainted must be the
// oracle's own report of whether a redundancy-removal assumption
// participated in the conflict.
//
// When the core is tainted, only probed is reported unnecessary — the
// core proves nothing about the groups it omits — and the groups the core
// does mention come back as fasttrack hints. Otherwise every candidate
// absent from core is also unnecessary, since the oracle's own core
// proves the formula restricted to core alone is already unsatisfiable.
// The probed group itself always heads the Unnecessary list; callers that
// probe by addition rather than removal (insertion) skip it.
func Refine(probed clause.GID, candidates, core []clause.GID, coreTainted bool) Result {
	if coreTainted {
		var ft []clause.GID
		for _, g := range core {
			if g != probed {
				ft = append(ft, g)
			}
		}
		return Result{Unnecessary: []clause.GID{probed}, Tainted: true, FasttrackCandidates: ft}
	}

	inCore := make(map[clause.GID]bool, len(core))
	for _, g := range core {
		inCore[g] = true
	}
	unnecessary := []clause.GID{probed}
	for _, g := range candidates {
		if g != probed && !inCore[g] {
			unnecessary = append(unnecessary, g)
		}
	}
	return Result{Unnecessary: unnecessary}
}
