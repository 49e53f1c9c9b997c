package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
	"github.com/meelgroup/gmus/musdata"
)

// degreeFixture: group 1's clause (1) resolves with both of group 2's
// clauses (-1 2) and (-1 3); group 3's clause (4) resolves with nothing.
func degreeFixture(t *testing.T) *musdata.State {
	t.Helper()
	store := clause.NewStore()
	gs := groupset.New(store, true)
	add := func(gid clause.GID, lits ...clause.Lit) {
		c, _, err := store.Make(lits, clause.TautKeep)
		require.NoError(t, err)
		require.NoError(t, gs.SetClauseGroup(c, gid))
		gs.AddClause(c)
	}
	add(1, 1)
	add(2, -1, 2)
	add(2, -1, 3)
	add(3, 4)
	return musdata.New(gs, false)
}

func TestResGraphDegreeOrdersByGraphDegree(t *testing.T) {
	md := degreeFixture(t)
	s := NewResGraphDegree(md, []clause.GID{1, 2, 3}, true)

	// group 1: one clause of degree 2; group 2: two clauses of degree 1
	// each; group 3: isolated. Max-first ties 1 and 2 at degree 2, with 3
	// guaranteed last.
	first, ok := s.Next()
	require.True(t, ok)
	second, ok := s.Next()
	require.True(t, ok)
	assert.ElementsMatch(t, []clause.GID{1, 2}, []clause.GID{first, second})
	third, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, clause.GID(3), third)
	_, ok = s.Next()
	assert.False(t, ok)
}

func TestResGraphDegreeMinFirst(t *testing.T) {
	md := degreeFixture(t)
	s := NewResGraphDegree(md, []clause.GID{1, 2, 3}, false)

	first, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, clause.GID(3), first)
}

func TestImplicitDegreeApproximation(t *testing.T) {
	md := degreeFixture(t)
	s := NewImplicitDegree(md.GSet(), []clause.GID{1, 2, 3}, true)

	// occurrence bound: group 1's (1) sees two clauses containing -1;
	// group 2's clauses each see one clause containing 1; group 3 sees
	// nothing.
	first, ok := s.Next()
	require.True(t, ok)
	second, ok := s.Next()
	require.True(t, ok)
	assert.ElementsMatch(t, []clause.GID{1, 2}, []clause.GID{first, second})
	third, ok := s.Next()
	require.True(t, ok)
	assert.Equal(t, clause.GID(3), third)
}

func TestResGraphDegreeReactsToRemoval(t *testing.T) {
	md := degreeFixture(t)
	s := NewResGraphDegree(md, []clause.GID{1, 2, 3}, true)

	// removing group 2 strips group 1's only resolution partners; the
	// dynamic graph keeps the lazily-read keys honest.
	md.MarkRemoved(2, false)
	s.NotifyRemoved(2)

	first, ok := s.Next()
	require.True(t, ok)
	second, ok := s.Next()
	require.True(t, ok)
	assert.ElementsMatch(t, []clause.GID{1, 3}, []clause.GID{first, second})
}
