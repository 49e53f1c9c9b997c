// Package musdata implements the MUS state (C3): the mutable removed/
// necessary annotations that drive extraction, their insertion-ordered
// histories, the version counter, and the optional resolution graph.
package musdata

import (
	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
)

// Status classifies a group's membership in the current candidate formula.
type Status int

const (
	Untested Status = iota
	Necessary
	Removed
)

// State holds the R (removed) and N (necessary) sets, their most-recent-
// first histories, the fake-group bookkeeping for approximated results,
// and a monotone version counter bumped whenever R changes.
type State struct {
	gset    *groupset.Set
	varMode bool

	removed   map[clause.GID]struct{}
	necessary map[clause.GID]struct{}

	removedList   []clause.GID // most-recent-first
	necessaryList []clause.GID // most-recent-first

	// fake holds group ids whose R/N membership was recorded as
	// approximated (MarkRemoved/MarkNecessary with fake set — the
	// dichotomic driver's dropped suffixes) rather than proven group by
	// group.
	fake map[clause.GID]struct{}

	// potNec holds groups suspected, but not yet proven, necessary —
	// model rotation's "fasttrack" output lands here.
	potNec map[clause.GID]struct{}

	version uint64

	rgraph        *ResGraph
	rgraphDynamic bool
}

// New creates MUS state over gset. varMode mirrors groupset.Set.VarMode:
// true when groups identify variable groups rather than clause groups.
func New(gset *groupset.Set, varMode bool) *State {
	return &State{
		gset:      gset,
		varMode:   varMode,
		removed:   make(map[clause.GID]struct{}),
		necessary: make(map[clause.GID]struct{}),
		fake:      make(map[clause.GID]struct{}),
		potNec:    make(map[clause.GID]struct{}),
	}
}

// GSet returns the underlying group set.
func (s *State) GSet() *groupset.Set { return s.gset }

// VarMode reports whether this run computes a variable-group MUS.
func (s *State) VarMode() bool { return s.varMode }

// IsRemoved reports whether g is in R.
func (s *State) IsRemoved(g clause.GID) bool {
	_, ok := s.removed[g]
	return ok
}

// IsNecessary reports whether g is in N.
func (s *State) IsNecessary(g clause.GID) bool {
	_, ok := s.necessary[g]
	return ok
}

// IsUntested reports whether g is neither necessary nor removed.
func (s *State) IsUntested(g clause.GID) bool {
	return !s.IsRemoved(g) && !s.IsNecessary(g)
}

// StatusOf classifies g.
func (s *State) StatusOf(g clause.GID) Status {
	switch {
	case s.IsRemoved(g):
		return Removed
	case s.IsNecessary(g):
		return Necessary
	default:
		return Untested
	}
}

// MarkRemoved inserts g into R, prepends it to the removed history, and
// removes its clauses from the group set. If the resolution graph is live
// and dynamic, g's clauses are pulled out of it first; afterwards the
// graph's RemovedNeighbourhood holds only the last of those clauses'
// former neighbours. If fake is true, g is also recorded as approximated.
//
// MarkRemoved panics if g is already classified — R and N are always
// disjoint, and violating that is a programming error in the caller, not
// a recoverable condition.
func (s *State) MarkRemoved(g clause.GID, fake bool) {
	if s.IsRemoved(g) || s.IsNecessary(g) {
		panic("musdata: group already classified")
	}
	if s.rgraph != nil && s.rgraphDynamic {
		for _, c := range s.gset.ClausesOf(g) {
			s.rgraph.RemoveClause(c.ID())
		}
	}
	s.removed[g] = struct{}{}
	s.removedList = append([]clause.GID{g}, s.removedList...)
	if !s.varMode {
		// In variable-group mode g is a variable-group id; the clause
		// groups it induces out are recomputed per probe, never flagged.
		s.gset.RemoveGroup(g)
	}
	if fake {
		s.fake[g] = struct{}{}
	}
}

// MarkNecessary inserts g into N and prepends it to the finalized history.
// If fake is true, g is also recorded as approximated.
func (s *State) MarkNecessary(g clause.GID, fake bool) {
	if s.IsRemoved(g) || s.IsNecessary(g) {
		panic("musdata: group already classified")
	}
	s.necessary[g] = struct{}{}
	s.necessaryList = append([]clause.GID{g}, s.necessaryList...)
	if fake {
		s.fake[g] = struct{}{}
	}
}

// ClearLists resets the removed/necessary histories without touching R/N
// themselves.
func (s *State) ClearLists() {
	s.removedList = nil
	s.necessaryList = nil
}

// RemovedList returns R's most-recent-first history.
func (s *State) RemovedList() []clause.GID { return s.removedList }

// NecessaryList returns N's most-recent-first history.
func (s *State) NecessaryList() []clause.GID { return s.necessaryList }

// BumpVersion increments and returns the version counter. Callers bump
// after any batch of MarkRemoved calls so stale oracle results (from
// before the mutation) can be detected.
func (s *State) BumpVersion() uint64 {
	s.version++
	return s.version
}

// Version returns the current version counter.
func (s *State) Version() uint64 { return s.version }

// RealGSize returns the number of groups not yet removed.
func (s *State) RealGSize() int {
	return s.gset.GSize() - len(s.removed)
}

// NumUntested returns the number of untested groups, disregarding group 0.
func (s *State) NumUntested() int {
	has0 := 0
	if s.gset.HasGroup0() {
		has0 = 1
	}
	return s.gset.GSize() - has0 - (len(s.necessary) + len(s.removed))
}

// FakeGIDs returns the set of groups whose R/N membership was accepted
// through approximation rather than proof.
func (s *State) FakeGIDs() map[clause.GID]struct{} { return s.fake }

// PotNecGIDs returns groups suspected, but not proven, necessary.
func (s *State) PotNecGIDs() map[clause.GID]struct{} { return s.potNec }

// MarkPotentiallyNecessary records g as suspected necessary without
// claiming proof.
func (s *State) MarkPotentiallyNecessary(g clause.GID) { s.potNec[g] = struct{}{} }

// MakeEmptyGMUS marks every non-zero group removed and clears N — used
// when group 0 alone (or an empty clause anywhere) is already
// unsatisfiable, short-circuiting extraction to "every group
// unnecessary".
func (s *State) MakeEmptyGMUS() {
	s.removedList = nil
	for _, g := range s.gset.Groups() {
		if g == clause.Group0 {
			continue
		}
		if !s.IsRemoved(g) {
			s.removed[g] = struct{}{}
		}
		s.removedList = append(s.removedList, g)
	}
	s.necessary = make(map[clause.GID]struct{})
	s.necessaryList = nil
}

// HasResGraph reports whether the resolution graph has been built.
func (s *State) HasResGraph() bool { return s.rgraph != nil }

// BuildResGraph constructs the resolution graph from the group set's
// current contents. When dynamic is true, MarkRemoved keeps the graph in
// sync as groups are removed.
func (s *State) BuildResGraph(dynamic bool) {
	s.rgraph = NewResGraph()
	s.rgraph.Construct(s.gset)
	s.rgraphDynamic = dynamic
}

// DestroyResGraph discards the resolution graph.
func (s *State) DestroyResGraph() {
	s.rgraph = nil
	s.rgraphDynamic = false
}

// ResGraph returns the resolution graph, or nil if it was never built.
func (s *State) ResGraph() *ResGraph { return s.rgraph }
