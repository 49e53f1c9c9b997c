// Package schedule implements the group scheduler: the family of
// policies that decide in what order the extraction algorithms probe
// untested groups — static, semi-static, random, dynamic, and
// resolution-graph-degree variants behind one interface.
package schedule

import (
	"container/heap"
	"math/rand"
	"sort"

	"github.com/meelgroup/gmus/clause"
)

// Scheduler is the polymorphic group-ordering contract the extraction
// drivers program against.
type Scheduler interface {
	// Next returns the next group id to probe, and false once exhausted.
	// Group 0 is never returned — callers never add it in the first place.
	Next() (clause.GID, bool)

	// Reschedule re-queues g (e.g. after an UNKNOWN oracle result).
	Reschedule(g clause.GID)

	// Fasttrack biases g to come out soon; a no-op on schedulers for which
	// this is not meaningful.
	Fasttrack(g clause.GID)

	// NotifyRemoved informs the scheduler that g left the candidate set.
	NotifyRemoved(g clause.GID)

	// NotifyNecessary informs the scheduler that g was proven necessary.
	NotifyNecessary(g clause.GID)

	// NotifyPriorityChanged informs dynamic schedulers that whatever
	// quantity backs g's priority has changed.
	NotifyPriorityChanged(g clause.GID)
}

// baseNoop supplies no-op NotifyRemoved/NotifyNecessary/NotifyPriorityChanged
// for schedulers that do not react to them, so each variant only overrides
// what it actually uses.
type baseNoop struct{}

func (baseNoop) NotifyRemoved(clause.GID)         {}
func (baseNoop) NotifyNecessary(clause.GID)       {}
func (baseNoop) NotifyPriorityChanged(clause.GID) {}

// deque is a minimal double-ended GID queue backing the linear/static
// schedulers.
type deque struct{ items []clause.GID }

func (d *deque) pushFront(g clause.GID) { d.items = append([]clause.GID{g}, d.items...) }
func (d *deque) pushBack(g clause.GID)  { d.items = append(d.items, g) }
func (d *deque) popFront() (clause.GID, bool) {
	if len(d.items) == 0 {
		return 0, false
	}
	g := d.items[0]
	d.items = d.items[1:]
	return g, true
}

// Linear gives out groups largest-id-first (or smallest-first,
// reversed).
type Linear struct {
	baseNoop
	q *deque
}

// NewLinear builds a Linear scheduler over groups. If reverse is false,
// groups come out largest-id-first; if true, smallest-first.
func NewLinear(groups []clause.GID, reverse bool) *Linear {
	sorted := append([]clause.GID(nil), groups...)
	sortGIDs(sorted, reverse)
	return &Linear{q: &deque{items: sorted}}
}

func (s *Linear) Next() (clause.GID, bool)   { return s.q.popFront() }
func (s *Linear) Reschedule(g clause.GID)    { s.q.pushBack(g) }
func (s *Linear) Fasttrack(g clause.GID) {
	for i, x := range s.q.items {
		if x == g {
			s.q.items = append(s.q.items[:i], s.q.items[i+1:]...)
			break
		}
	}
	s.q.pushFront(g)
}

// StaticOrdered materializes a user-supplied total order once at
// construction. less should report whether g1 sorts before g2; groups are
// probed last-to-first, i.e. a max-heap over the comparator.
type StaticOrdered struct {
	baseNoop
	q *deque
}

func NewStaticOrdered(groups []clause.GID, less func(a, b clause.GID) bool) *StaticOrdered {
	sorted := append([]clause.GID(nil), groups...)
	stableSortDesc(sorted, less)
	return &StaticOrdered{q: &deque{items: sorted}}
}

func (s *StaticOrdered) Next() (clause.GID, bool) { return s.q.popFront() }
func (s *StaticOrdered) Reschedule(g clause.GID)  { s.q.pushBack(g) }
func (s *StaticOrdered) Fasttrack(g clause.GID)   { s.q.pushFront(g) }

// Random gives out groups in a seeded-once random permutation.
type Random struct {
	baseNoop
	q *deque
}

func NewRandom(groups []clause.GID, seed int64) *Random {
	perm := append([]clause.GID(nil), groups...)
	r := rand.New(rand.NewSource(seed))
	r.Shuffle(len(perm), func(i, j int) { perm[i], perm[j] = perm[j], perm[i] })
	return &Random{q: &deque{items: perm}}
}

func (s *Random) Next() (clause.GID, bool) { return s.q.popFront() }
func (s *Random) Reschedule(g clause.GID)  { s.q.pushBack(g) }
func (s *Random) Fasttrack(g clause.GID)   { s.q.pushFront(g) }

// Length orders semi-statically by the sum of active-literal counts
// across a group's clauses: priorities are read at insertion time, and
// later removals do not re-heapify automatically.
type Length struct {
	baseNoop
	q *gidHeap
}

// NewLength builds a Length scheduler. lengthOf(g) must return the sum of
// active-literal counts across g's clauses at call time; longestFirst
// selects longest-first vs shortest-first.
func NewLength(groups []clause.GID, lengthOf func(clause.GID) int, longestFirst bool) *Length {
	h := &gidHeap{}
	for _, g := range groups {
		l := lengthOf(g)
		if !longestFirst {
			l = -l
		}
		heap.Push(h, gidPriority{gid: g, key: l})
	}
	return &Length{q: h}
}

func (s *Length) Next() (clause.GID, bool) {
	if s.q.Len() == 0 {
		return 0, false
	}
	return heap.Pop(s.q).(gidPriority).gid, true
}
func (s *Length) Reschedule(g clause.GID) { heap.Push(s.q, gidPriority{gid: g}) }
func (s *Length) Fasttrack(g clause.GID)  { heap.Push(s.q, gidPriority{gid: g, key: 1 << 30}) }

func sortGIDs(gids []clause.GID, reverse bool) {
	sort.SliceStable(gids, func(i, j int) bool {
		if reverse {
			return gids[i] < gids[j]
		}
		return gids[i] > gids[j]
	})
}

// stableSortDesc stably sorts gids so that the element less(·, ·) ranks
// highest comes first — a max-heap-equivalent ordering for the
// StaticOrdered scheduler.
func stableSortDesc(gids []clause.GID, less func(a, b clause.GID) bool) {
	sort.SliceStable(gids, func(i, j int) bool { return less(gids[j], gids[i]) })
}
