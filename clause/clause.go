// Package clause implements the canonical clause store (C1): construction,
// deduplication, and active-prefix bookkeeping for the literals that make up
// a single clause.
package clause

import (
	"errors"
	"sort"
)

// Lit is a signed, non-zero DIMACS-style literal. The variable is its
// absolute value; the sign carries polarity.
type Lit int32

// Var returns the variable underlying l.
func (l Lit) Var() Var {
	if l < 0 {
		return Var(-l)
	}
	return Var(l)
}

// Sign returns 1 for a positive literal, -1 for a negated one.
func (l Lit) Sign() int8 {
	if l < 0 {
		return -1
	}
	return 1
}

// Not returns the negation of l.
func (l Lit) Not() Lit { return -l }

// IsPos reports whether l is a positive occurrence of its variable.
func (l Lit) IsPos() bool { return l > 0 }

// Var identifies a propositional variable; the zero value never occurs.
type Var uint32

// ID uniquely identifies a Clause within a Store (C1).
type ID uint32

// GID identifies a group (C2). Group 0, when present, is permanent
// background.
type GID uint32

// Group0 is the permanent background group.
const Group0 GID = 0

// UndefGID requests that the caller of add_clause be handed a fresh
// group id.
const UndefGID GID = ^GID(0)

// ErrTautology is returned by Store.Make when the caller requested
// taut-rejection (TautReject) and the literal set contains both v and -v.
var ErrTautology = errors.New("clause: tautological clause rejected")

// TautPolicy controls how Store.Make treats a clause containing both a
// variable and its negation.
//
// Tautologies add nothing to an unsatisfiable core and some solvers
// mishandle them during core extraction, so the default policy
// (TautStrip) silently omits the clause; TautReject is offered for
// callers who want to fail fast instead.
type TautPolicy int

const (
	// TautKeep stores the clause as-is, tautology or not.
	TautKeep TautPolicy = iota
	// TautStrip omits a tautological clause entirely; Store.Make returns
	// (nil, false, nil). This is the engine's default.
	TautStrip
	// TautReject fails with ErrTautology.
	TautReject
)

// Clause is an ordered, deduplicated sequence of literals, identified by a
// globally unique id, together with the owning group, a removed flag, an
// active-prefix length, and a cheap 64-bit abstraction used as a
// Bloom-style subsumption filter.
type Clause struct {
	id       ID
	lits     []Lit // sorted by ascending |lit|; suffix beyond activeLen is inactive
	group    GID
	attached bool // true once SetGroup has been called; disambiguates the zero GID from "never attached"
	removed  bool
	active   int // active prefix length; lits[:active] are the active literals
	abs      uint64
}

// ID returns the clause's unique identifier.
func (c *Clause) ID() ID { return c.id }

// Group returns the clause's owning group. Valid only if Attached is true.
func (c *Clause) Group() GID { return c.group }

// Attached reports whether the clause has been assigned to a group yet.
func (c *Clause) Attached() bool { return c.attached }

// SetGroup attaches the clause to a group. Callers go through
// groupset.Set.SetClauseGroup for the idempotence/conflict checks; this
// setter is the low-level primitive it uses.
func (c *Clause) SetGroup(g GID) { c.group = g; c.attached = true }

// Lits returns every literal of the clause, active and inactive, in sorted
// order. Callers must not mutate the returned slice.
func (c *Clause) Lits() []Lit { return c.lits }

// Active returns the clause's active prefix — the literals not yet shrunk
// away by propagation.
func (c *Clause) Active() []Lit { return c.lits[:c.active] }

// Len returns the total number of literals (active and inactive).
func (c *Clause) Len() int { return len(c.lits) }

// ActiveLen returns the length of the active prefix.
func (c *Clause) ActiveLen() int { return c.active }

// Abstraction returns the clause's 64-bit subsumption filter, computed over
// its active prefix.
func (c *Clause) Abstraction() uint64 { return c.abs }

// Removed reports whether the clause has been flagged removed. Removal
// never physically deletes a clause: the group set and occurrence lists
// may still hold stale references.
func (c *Clause) Removed() bool { return c.removed }

// MarkRemoved flags the clause removed.
func (c *Clause) MarkRemoved() { c.removed = true }

// UnmarkRemoved clears the removed flag.
func (c *Clause) UnmarkRemoved() { c.removed = false }

// Shrink treats the last active literal as inactive, re-sorts (trivially,
// since the prefix was already sorted) and refreshes the abstraction.
// Shrink is a no-op once the active prefix is empty.
func (c *Clause) Shrink() {
	if c.active == 0 {
		return
	}
	c.active--
	c.abs = abstraction(c.lits[:c.active])
}

// Restore resets the active prefix to the full literal set and refreshes
// the abstraction.
func (c *Clause) Restore() {
	c.active = len(c.lits)
	c.abs = abstraction(c.lits)
}

// IsEmpty reports whether the clause has no literals at all — the group
// set uses this to short-circuit extraction.
func (c *Clause) IsEmpty() bool { return len(c.lits) == 0 }

// litLess orders literals by ascending variable, negative before positive
// within a variable so that v and -v land adjacent after sorting.
func litLess(a, b Lit) bool {
	va, vb := a.Var(), b.Var()
	if va != vb {
		return va < vb
	}
	return a < b
}

// normalize sorts lits by ascending |lit|, removing exact duplicates, and
// reports whether the result is tautological (contains both v and -v for
// some v). The returned slice may alias lits' backing array.
func normalize(lits []Lit) (sorted []Lit, tautological bool) {
	out := append([]Lit(nil), lits...)
	sort.Slice(out, func(i, j int) bool { return litLess(out[i], out[j]) })
	dst := out[:0]
	for _, l := range out {
		if len(dst) > 0 && dst[len(dst)-1] == l {
			continue // exact duplicate
		}
		if len(dst) > 0 && dst[len(dst)-1].Var() == l.Var() {
			tautological = true
		}
		dst = append(dst, l)
	}
	return dst, tautological
}

// abstraction computes a 64-bit Bloom-style filter over lits, consistent
// with the active prefix.
func abstraction(lits []Lit) uint64 {
	var a uint64
	for _, l := range lits {
		h := uint(l.Var()) << 1
		if l < 0 {
			h |= 1
		}
		a |= 1 << (h % 64)
	}
	return a
}
