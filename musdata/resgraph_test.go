package musdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
)

func TestResGraphConstructEdgesOnSharedVariable(t *testing.T) {
	store := clause.NewStore()
	gs := groupset.New(store, true)

	c1, _, err := store.Make([]clause.Lit{1, 2}, clause.TautKeep)
	require.NoError(t, err)
	require.NoError(t, gs.SetClauseGroup(c1, 1))
	gs.AddClause(c1)

	c2, _, err := store.Make([]clause.Lit{-1, 3}, clause.TautKeep)
	require.NoError(t, err)
	require.NoError(t, gs.SetClauseGroup(c2, 2))
	gs.AddClause(c2)

	g := NewResGraph()
	g.Construct(gs)

	assert.True(t, g.HasClause(c1))
	assert.True(t, g.HasClause(c2))
	assert.Equal(t, 1, g.Degree(c1))
	assert.Equal(t, 1, g.Degree(c2))
}

func TestResGraphSkipsTautologicalResolvent(t *testing.T) {
	store := clause.NewStore()
	gs := groupset.New(store, true)

	// resolving on var 1 would yield "2 ∨ -2" — a tautology — so no edge.
	c1, _, err := store.Make([]clause.Lit{1, 2}, clause.TautKeep)
	require.NoError(t, err)
	require.NoError(t, gs.SetClauseGroup(c1, 1))
	gs.AddClause(c1)

	c2, _, err := store.Make([]clause.Lit{-1, -2}, clause.TautKeep)
	require.NoError(t, err)
	require.NoError(t, gs.SetClauseGroup(c2, 2))
	gs.AddClause(c2)

	g := NewResGraph()
	g.Construct(gs)

	// c1 (the smaller-occurrence side explored first) gets a vertex with
	// no edges; c2, only ever visited as a would-be tautological partner,
	// never gets one at all.
	assert.Equal(t, 0, g.Degree(c1))
	assert.Equal(t, -1, g.Degree(c2))
}

func TestResGraphRemoveClauseCachesNeighbourhood(t *testing.T) {
	store := clause.NewStore()
	gs := groupset.New(store, true)

	c1, _, err := store.Make([]clause.Lit{1, 2}, clause.TautKeep)
	require.NoError(t, err)
	require.NoError(t, gs.SetClauseGroup(c1, 1))
	gs.AddClause(c1)

	c2, _, err := store.Make([]clause.Lit{-1, 3}, clause.TautKeep)
	require.NoError(t, err)
	require.NoError(t, gs.SetClauseGroup(c2, 2))
	gs.AddClause(c2)

	g := NewResGraph()
	g.Construct(gs)

	removed := g.RemoveClause(c1.ID())
	assert.True(t, removed)
	assert.False(t, g.HasClause(c1))
	assert.Equal(t, 0, g.Degree(c2))
	require.Len(t, g.RemovedNeighbourhood(), 1)
	assert.Equal(t, c2, g.RemovedNeighbourhood()[0])
}
