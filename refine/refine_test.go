package refine

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/meelgroup/gmus/clause"
)

func TestRefineDropsGroupsOutsideCore(t *testing.T) {
	res := Refine(1, []clause.GID{2, 3, 4}, []clause.GID{2}, false)
	assert.False(t, res.Tainted)
	assert.ElementsMatch(t, []clause.GID{1, 3, 4}, res.Unnecessary)
}

func TestRefineFallsBackToProbedWhenCoreCoversEverything(t *testing.T) {
	res := Refine(1, []clause.GID{2, 3}, []clause.GID{2, 3}, false)
	assert.False(t, res.Tainted)
	assert.Equal(t, []clause.GID{1}, res.Unnecessary)
}

func TestRefineTaintedCoreDropsOnlyProbed(t *testing.T) {
	res := Refine(1, []clause.GID{2, 3, 5}, []clause.GID{5}, true)
	assert.True(t, res.Tainted)
	assert.Equal(t, []clause.GID{1}, res.Unnecessary)
	assert.Equal(t, []clause.GID{5}, res.FasttrackCandidates)
}

func TestRefineTaintedCoreExcludesProbedFromFasttrack(t *testing.T) {
	res := Refine(1, []clause.GID{2, 3}, []clause.GID{1, 2}, true)
	assert.True(t, res.Tainted)
	assert.Equal(t, []clause.GID{1}, res.Unnecessary)
	assert.Equal(t, []clause.GID{2}, res.FasttrackCandidates)
}

func TestRefineProbedAlwaysListedFirst(t *testing.T) {
	res := Refine(4, []clause.GID{1, 2, 4}, nil, false)
	assert.Equal(t, clause.GID(4), res.Unnecessary[0])
	assert.ElementsMatch(t, []clause.GID{1, 2, 4}, res.Unnecessary)
}
