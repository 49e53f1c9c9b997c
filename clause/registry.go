package clause

import (
	"strconv"
)

// Store is the global (per-run) clause registry: a hash set keyed by a
// clause's sorted literal vector, guaranteeing that at most one Clause
// exists per literal set. A second request for the same literal set
// returns the existing instance — clause identity is value semantics.
//
// Both the id counter and the registry live on a Store value owned by
// whichever groupset.Set/engine.Engine created it, so nothing survives
// past a single extraction run.
type Store struct {
	byKey  map[string]*Clause
	all    []*Clause // flat list, insertion order
	nextID ID
}

// NewStore returns an empty clause store.
func NewStore() *Store {
	return &Store{byKey: make(map[string]*Clause)}
}

// All returns every clause ever created by this store, in insertion order,
// including ones later marked removed.
func (s *Store) All() []*Clause { return s.all }

// key builds the dedup key for an already-normalized literal slice.
func key(lits []Lit) string {
	b := make([]byte, 0, len(lits)*6)
	for _, l := range lits {
		b = strconv.AppendInt(b, int64(l), 10)
		b = append(b, ',')
	}
	return string(b)
}

// Make normalizes lits (stable sort by |lit|, duplicates removed) and
// returns the unique Clause with that literal set, creating it on first
// request. If an identical literal set was already registered, the
// existing Clause is returned unchanged — the caller-requested group is
// ignored (see groupset.Set.AddClause for how the first-group-wins rule
// is surfaced to the embedding API).
//
// Under TautReject, a tautological literal set fails with ErrTautology.
// Under TautStrip (the engine's default), a tautological
// literal set is not registered at all: Make returns (nil, false, nil).
// Under TautKeep, the clause is registered as-is.
func (s *Store) Make(lits []Lit, policy TautPolicy) (c *Clause, existing bool, err error) {
	sorted, tautological := normalize(lits)
	if tautological {
		switch policy {
		case TautReject:
			return nil, false, ErrTautology
		case TautStrip:
			return nil, false, nil
		}
	}
	k := key(sorted)
	if found, ok := s.byKey[k]; ok {
		return found, true, nil
	}
	c = &Clause{id: s.nextID, lits: sorted, active: len(sorted)}
	c.abs = abstraction(sorted)
	s.nextID++
	s.byKey[k] = c
	s.all = append(s.all, c)
	return c, false, nil
}
