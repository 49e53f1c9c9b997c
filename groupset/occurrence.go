package groupset

import "github.com/meelgroup/gmus/clause"

// litIndex is the per-literal occurrence-list key: (var<<1 | sign).
type litIndex uint32

func indexOf(l clause.Lit) litIndex {
	i := litIndex(l.Var()) << 1
	if l < 0 {
		i |= 1
	}
	return i
}

// Occurrence maintains, for every literal, the list of clauses containing
// it and a count of how many of those are still active. The clause list
// keeps stale entries for removed clauses forever — consumers must
// re-check Clause.Removed(); only the active count is kept current, and
// only by decrementing it on removal, never by rescanning the list.
type Occurrence struct {
	clauses map[litIndex][]*clause.Clause
	active  map[litIndex]int
}

// NewOccurrence returns an empty occurrence-list index.
func NewOccurrence() *Occurrence {
	return &Occurrence{
		clauses: make(map[litIndex][]*clause.Clause),
		active:  make(map[litIndex]int),
	}
}

// Add registers every active literal of c in the occurrence lists.
func (o *Occurrence) Add(c *clause.Clause) {
	for _, l := range c.Active() {
		idx := indexOf(l)
		o.clauses[idx] = append(o.clauses[idx], c)
		o.active[idx]++
	}
}

// Remove decrements the active count for every active literal of c,
// without touching the stored clause lists themselves.
func (o *Occurrence) Remove(c *clause.Clause) {
	for _, l := range c.Active() {
		idx := indexOf(l)
		if o.active[idx] > 0 {
			o.active[idx]--
		}
	}
}

// Restore re-increments the active count for every active literal of c —
// the inverse of Remove, used when a run's removals are rolled back.
func (o *Occurrence) Restore(c *clause.Clause) {
	for _, l := range c.Active() {
		o.active[indexOf(l)]++
	}
}

// ClausesOf returns every clause (active or stale-removed) that contains
// literal l.
func (o *Occurrence) ClausesOf(l clause.Lit) []*clause.Clause {
	return o.clauses[indexOf(l)]
}

// ActiveCount returns the number of currently-active clauses containing l.
func (o *Occurrence) ActiveCount(l clause.Lit) int {
	return o.active[indexOf(l)]
}
