// Package groupset implements the group set (C2): the bidirectional
// mapping between groups and clauses, plus the ancillary indices (max
// variable/clause/group, occurrence lists, variable-group map) that the
// oracle adapter, model rotator, and schedulers build on.
package groupset

import (
	"fmt"
	"sort"

	"github.com/meelgroup/gmus/clause"
)

// Group owns a list of clause references and tracks how many of them are
// still active (not removed).
type Group struct {
	ID          clause.GID
	Clauses     []*clause.Clause // insertion order; may include removed ones
	activeCount int
}

// ActiveCount returns the number of non-removed clauses currently owned by
// the group.
func (g *Group) ActiveCount() int { return g.activeCount }

// ErrAlreadyAttached is returned by Set.SetClauseGroup when a clause is
// already attached to a different group.
type ErrAlreadyAttached struct {
	Clause clause.ID
	Have   clause.GID
	Want   clause.GID
}

func (e ErrAlreadyAttached) Error() string {
	return fmt.Sprintf("groupset: clause %d already attached to group %d, cannot attach to group %d", e.Clause, e.Have, e.Want)
}

// Set is the group set (C2): two parallel views over the clause store — the
// flat insertion-ordered list, and a sparse map indexed by group id — plus
// the occurrence lists, variable-group map, and the tracked maxima that the
// rest of the engine relies on.
type Set struct {
	store *clause.Store

	all []*clause.Clause // flat list, insertion order

	groups map[clause.GID]*Group
	order  []clause.GID // ascending, maintained incrementally

	seen map[clause.ID]bool

	maxVar    clause.Var
	maxClause clause.ID
	maxGID    clause.GID
	sawClause bool

	empty *clause.Clause // first empty clause registered, if any

	occ *Occurrence // nil unless EnableOccurrence was requested

	varGroups map[clause.Var]clause.GID // VGCNF: variable -> variable-group id
	varMode   bool
}

// New returns an empty group set backed by store. When withOccurrence is
// true, occurrence lists are maintained as clauses are added — required by
// model rotation, BCP-style propagation, and degree-based schedulers.
func New(store *clause.Store, withOccurrence bool) *Set {
	s := &Set{
		store:  store,
		groups: make(map[clause.GID]*Group),
		seen:   make(map[clause.ID]bool),
	}
	if withOccurrence {
		s.occ = NewOccurrence()
	}
	return s
}

// Store returns the underlying clause store.
func (s *Set) Store() *clause.Store { return s.store }

// Occurrence returns the occurrence-list index, or nil if it was not
// requested at construction.
func (s *Set) Occurrence() *Occurrence { return s.occ }

// MaxVar returns the largest variable seen so far.
func (s *Set) MaxVar() clause.Var { return s.maxVar }

// MaxClauseID returns the largest clause id seen so far.
func (s *Set) MaxClauseID() clause.ID { return s.maxClause }

// MaxGID returns the largest group id seen so far.
func (s *Set) MaxGID() clause.GID { return s.maxGID }

// EmptyClause returns the first empty clause registered with this set, or
// nil if none has been. An empty clause means the formula is trivially
// unsatisfiable.
func (s *Set) EmptyClause() *clause.Clause { return s.empty }

// SetVarMode marks this group set as grouping variables rather than
// clauses (VGCNF input).
func (s *Set) SetVarMode(v bool) { s.varMode = v }

// VarMode reports whether groups here identify variable groups.
func (s *Set) VarMode() bool { return s.varMode }

// AddClause appends c to the flat clause list if it is not already present
// (idempotent on repeat calls with the same clause), and updates the
// tracked maxima, occurrence lists, and empty-clause pointer.
func (s *Set) AddClause(c *clause.Clause) {
	if s.seen[c.ID()] {
		return
	}
	s.seen[c.ID()] = true
	s.all = append(s.all, c)
	if !s.sawClause || c.ID() > s.maxClause {
		s.maxClause = c.ID()
	}
	s.sawClause = true
	for _, l := range c.Active() {
		if l.Var() > s.maxVar {
			s.maxVar = l.Var()
		}
	}
	if c.IsEmpty() && s.empty == nil {
		s.empty = c
	}
	if s.occ != nil {
		s.occ.Add(c)
	}
}

// SetClauseGroup attaches c to group g, materializing the group on first
// use. Attaching an already-attached clause to the same group is a no-op;
// attaching to a different group fails with ErrAlreadyAttached.
func (s *Set) SetClauseGroup(c *clause.Clause, g clause.GID) error {
	if c.Attached() {
		if c.Group() == g {
			return nil
		}
		return ErrAlreadyAttached{Clause: c.ID(), Have: c.Group(), Want: g}
	}
	grp, ok := s.groups[g]
	if !ok {
		grp = &Group{ID: g}
		s.groups[g] = grp
		s.insertOrder(g)
		if len(s.order) == 1 || g > s.maxGID {
			s.maxGID = g
		}
	}
	c.SetGroup(g)
	grp.Clauses = append(grp.Clauses, c)
	if !c.Removed() {
		grp.activeCount++
	}
	return nil
}

func (s *Set) hasGroup(g clause.GID) bool {
	_, ok := s.groups[g]
	return ok
}

func (s *Set) insertOrder(g clause.GID) {
	i := sort.Search(len(s.order), func(i int) bool { return s.order[i] >= g })
	s.order = append(s.order, 0)
	copy(s.order[i+1:], s.order[i:])
	s.order[i] = g
}

// Group returns the group with id g, or nil if it has never been
// materialized.
func (s *Set) Group(g clause.GID) *Group { return s.groups[g] }

// Groups returns every materialized group id in ascending order.
func (s *Set) Groups() []clause.GID {
	return append([]clause.GID(nil), s.order...)
}

// ClausesOf returns g's (possibly removed) clauses, or nil if g does not
// exist.
func (s *Set) ClausesOf(g clause.GID) []*clause.Clause {
	grp, ok := s.groups[g]
	if !ok {
		return nil
	}
	return grp.Clauses
}

// GSize returns the number of materialized groups (including group 0, if
// present).
func (s *Set) GSize() int { return len(s.groups) }

// HasGroup0 reports whether group 0 has been materialized.
func (s *Set) HasGroup0() bool { return s.hasGroup(clause.Group0) }

// RemoveGroup marks every non-removed clause in g as removed and
// decrements the group's active-clause counter. Occurrence-list active
// counts are decremented lazily — one Occurrence.Remove call per literal
// of each clause being removed, never a rescan of the occurrence lists
// themselves.
func (s *Set) RemoveGroup(g clause.GID) {
	grp, ok := s.groups[g]
	if !ok {
		return
	}
	for _, c := range grp.Clauses {
		if c.Removed() {
			continue
		}
		c.MarkRemoved()
		grp.activeCount--
		if s.occ != nil {
			s.occ.Remove(c)
		}
	}
}

// RestoreAll clears every removed flag, returning the set to its
// post-construction state — the group-set half of reset_run, so a
// later init_run starts from the full formula again.
func (s *Set) RestoreAll() {
	for _, grp := range s.groups {
		for _, c := range grp.Clauses {
			if !c.Removed() {
				continue
			}
			c.UnmarkRemoved()
			grp.activeCount++
			if s.occ != nil {
				s.occ.Restore(c)
			}
		}
	}
}

// VarGroup returns the variable-group id owning variable v in VGCNF mode;
// variables not explicitly listed default to variable-group 0.
func (s *Set) VarGroup(v clause.Var) clause.GID {
	if s.varGroups == nil {
		return clause.Group0
	}
	if g, ok := s.varGroups[v]; ok {
		return g
	}
	return clause.Group0
}

// SetVarGroup assigns variable v to variable-group g.
func (s *Set) SetVarGroup(v clause.Var, g clause.GID) {
	if s.varGroups == nil {
		s.varGroups = make(map[clause.Var]clause.GID)
	}
	s.varGroups[v] = g
	if g > s.maxGID {
		s.maxGID = g
	}
}

// VarGroupIDs returns every distinct non-zero variable-group id that has
// at least one variable assigned to it, in ascending order.
func (s *Set) VarGroupIDs() []clause.GID {
	seen := map[clause.GID]bool{}
	for _, g := range s.varGroups {
		if g != clause.Group0 {
			seen[g] = true
		}
	}
	out := make([]clause.GID, 0, len(seen))
	for g := range seen {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// VarsOf returns every variable assigned to variable-group g.
func (s *Set) VarsOf(g clause.GID) []clause.Var {
	var out []clause.Var
	for v, vg := range s.varGroups {
		if vg == g {
			out = append(out, v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
