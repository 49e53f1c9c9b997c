package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meelgroup/gmus/clause"
)

func drain(s Scheduler) []clause.GID {
	var out []clause.GID
	for {
		g, ok := s.Next()
		if !ok {
			return out
		}
		out = append(out, g)
	}
}

func TestLinearDefaultOrderIsLargestFirst(t *testing.T) {
	s := NewLinear([]clause.GID{1, 2, 3}, false)
	assert.Equal(t, []clause.GID{3, 2, 1}, drain(s))
}

func TestLinearReverseOrderIsSmallestFirst(t *testing.T) {
	s := NewLinear([]clause.GID{1, 2, 3}, true)
	assert.Equal(t, []clause.GID{1, 2, 3}, drain(s))
}

func TestLinearRescheduleGoesToBack(t *testing.T) {
	s := NewLinear([]clause.GID{1, 2}, true)
	g, ok := s.Next()
	assert.True(t, ok)
	assert.Equal(t, clause.GID(1), g)
	s.Reschedule(g)
	assert.Equal(t, []clause.GID{2, 1}, drain(s))
}

func TestLinearFasttrackGoesToFront(t *testing.T) {
	s := NewLinear([]clause.GID{1, 2, 3}, true)
	s.Fasttrack(3)
	assert.Equal(t, []clause.GID{3, 1, 2}, drain(s))
}

func TestStaticOrderedUsesComparatorOnce(t *testing.T) {
	priority := map[clause.GID]int{1: 10, 2: 30, 3: 20}
	less := func(a, b clause.GID) bool { return priority[a] < priority[b] }
	s := NewStaticOrdered([]clause.GID{1, 2, 3}, less)
	assert.Equal(t, []clause.GID{2, 3, 1}, drain(s))
}

func TestStaticOrderedDoesNotReactToLaterPriorityChanges(t *testing.T) {
	priority := map[clause.GID]int{1: 10, 2: 30}
	less := func(a, b clause.GID) bool { return priority[a] < priority[b] }
	s := NewStaticOrdered([]clause.GID{1, 2}, less)
	priority[1] = 100 // mutate after construction; order was already baked in
	assert.Equal(t, []clause.GID{2, 1}, drain(s))
}

func TestRandomIsAPermutationOfInput(t *testing.T) {
	groups := []clause.GID{1, 2, 3, 4, 5}
	s := NewRandom(groups, 42)
	assert.ElementsMatch(t, groups, drain(s))
}

func TestRandomSeedIsDeterministic(t *testing.T) {
	groups := []clause.GID{1, 2, 3, 4, 5}
	a := drain(NewRandom(groups, 7))
	b := drain(NewRandom(groups, 7))
	assert.Equal(t, a, b)
}

func TestLengthLongestFirst(t *testing.T) {
	lengths := map[clause.GID]int{1: 5, 2: 1, 3: 9}
	s := NewLength([]clause.GID{1, 2, 3}, func(g clause.GID) int { return lengths[g] }, true)
	assert.Equal(t, []clause.GID{3, 1, 2}, drain(s))
}

func TestLengthShortestFirst(t *testing.T) {
	lengths := map[clause.GID]int{1: 5, 2: 1, 3: 9}
	s := NewLength([]clause.GID{1, 2, 3}, func(g clause.GID) int { return lengths[g] }, false)
	assert.Equal(t, []clause.GID{2, 1, 3}, drain(s))
}

func TestLengthPriorityIsReadAtInsertionNotUpdatedLater(t *testing.T) {
	lengths := map[clause.GID]int{1: 5, 2: 1}
	s := NewLength([]clause.GID{1, 2}, func(g clause.GID) int { return lengths[g] }, true)
	lengths[2] = 100 // semi-static: this mutation must not change the already-queued order
	assert.Equal(t, []clause.GID{1, 2}, drain(s))
}

func TestLengthFasttrackComesOutFirst(t *testing.T) {
	lengths := map[clause.GID]int{1: 5, 2: 9}
	s := NewLength([]clause.GID{1, 2}, func(g clause.GID) int { return lengths[g] }, true)
	s.Fasttrack(3)
	g, ok := s.Next()
	assert.True(t, ok)
	assert.Equal(t, clause.GID(3), g)
}

func TestLengthExhaustedReturnsFalse(t *testing.T) {
	s := NewLength(nil, func(clause.GID) int { return 0 }, true)
	_, ok := s.Next()
	assert.False(t, ok)
}
