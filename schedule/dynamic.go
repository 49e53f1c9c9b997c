package schedule

import (
	"container/heap"

	"github.com/meelgroup/gmus/clause"
)

// indexedItem is a priority-queue entry that tracks its own heap index so
// NotifyPriorityChanged can call heap.Fix in place.
type indexedItem struct {
	gid   clause.GID
	key   func() int // re-evaluated lazily; priority may depend on live state
	index int
}

type indexedHeap []*indexedItem

func (h indexedHeap) Len() int           { return len(h) }
func (h indexedHeap) Less(i, j int) bool { return h[i].key() > h[j].key() }
func (h indexedHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index, h[j].index = i, j
}
func (h *indexedHeap) Push(x interface{}) {
	it := x.(*indexedItem)
	it.index = len(*h)
	*h = append(*h, it)
}
func (h *indexedHeap) Pop() interface{} {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return it
}

// DynamicOrdered is a priority scheduler whose key function is
// re-evaluated on demand and can be rebalanced via
// NotifyPriorityChanged.
type DynamicOrdered struct {
	q      indexedHeap
	byGID  map[clause.GID]*indexedItem
	keyFor func(clause.GID) int
}

// NewDynamicOrdered builds a DynamicOrdered scheduler over groups, where
// keyFor(g) returns g's current priority (higher probes first).
func NewDynamicOrdered(groups []clause.GID, keyFor func(clause.GID) int) *DynamicOrdered {
	s := &DynamicOrdered{byGID: make(map[clause.GID]*indexedItem, len(groups)), keyFor: keyFor}
	for _, g := range groups {
		gg := g
		it := &indexedItem{gid: gg, key: func() int { return keyFor(gg) }, index: len(s.q)}
		s.byGID[gg] = it
		s.q = append(s.q, it)
	}
	heap.Init(&s.q)
	return s
}

func (s *DynamicOrdered) Next() (clause.GID, bool) {
	if s.q.Len() == 0 {
		return 0, false
	}
	it := heap.Pop(&s.q).(*indexedItem)
	delete(s.byGID, it.gid)
	return it.gid, true
}

func (s *DynamicOrdered) Reschedule(g clause.GID) {
	if _, ok := s.byGID[g]; ok {
		return
	}
	gg := g
	it := &indexedItem{gid: gg, key: func() int { return s.keyFor(gg) }}
	s.byGID[gg] = it
	heap.Push(&s.q, it)
}

func (s *DynamicOrdered) Fasttrack(g clause.GID) { s.Reschedule(g) }

func (s *DynamicOrdered) NotifyRemoved(g clause.GID) {
	it, ok := s.byGID[g]
	if !ok {
		return
	}
	heap.Remove(&s.q, it.index)
	delete(s.byGID, g)
}

func (s *DynamicOrdered) NotifyNecessary(g clause.GID) { s.NotifyRemoved(g) }

func (s *DynamicOrdered) NotifyPriorityChanged(g clause.GID) {
	if it, ok := s.byGID[g]; ok {
		heap.Fix(&s.q, it.index)
	}
}

// DegreeScheduler orders groups by their degree in the resolution graph
// (or an occurrence-list approximation of it). degreeOf supplies the
// current degree for a group; maxFirst selects which end probes first.
type DegreeScheduler struct {
	*DynamicOrdered
}

// NewDegreeScheduler builds a degree-ordered scheduler. degreeOf(g)
// should return g's current degree, real or approximated; the scheduler
// itself does not care which.
func NewDegreeScheduler(groups []clause.GID, degreeOf func(clause.GID) int, maxFirst bool) *DegreeScheduler {
	key := degreeOf
	if !maxFirst {
		key = func(g clause.GID) int { return -degreeOf(g) }
	}
	return &DegreeScheduler{DynamicOrdered: NewDynamicOrdered(groups, key)}
}

// NotifyGraphNeighboursChanged re-heapifies every group in neighbours —
// called after a removed clause's former neighbours are pulled out of the
// resolution graph.
func (s *DegreeScheduler) NotifyGraphNeighboursChanged(neighbours []clause.GID) {
	for _, g := range neighbours {
		s.NotifyPriorityChanged(g)
	}
}
