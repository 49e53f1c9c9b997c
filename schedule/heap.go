package schedule

import "github.com/meelgroup/gmus/clause"

// gidPriority is one entry of a priority-ordered group queue: higher key
// comes out first.
type gidPriority struct {
	gid clause.GID
	key int
}

// gidHeap is a container/heap-compatible max-heap of gidPriority, backing
// the Length scheduler (the dynamic/degree-based schedulers use
// indexedHeap instead).
type gidHeap []gidPriority

func (h gidHeap) Len() int            { return len(h) }
func (h gidHeap) Less(i, j int) bool  { return h[i].key > h[j].key } // max-heap
func (h gidHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *gidHeap) Push(x interface{}) { *h = append(*h, x.(gidPriority)) }
func (h *gidHeap) Pop() interface{} {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}
