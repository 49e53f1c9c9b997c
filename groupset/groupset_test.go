package groupset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meelgroup/gmus/clause"
)

func mkClause(t *testing.T, s *clause.Store, lits ...clause.Lit) *clause.Clause {
	t.Helper()
	c, _, err := s.Make(lits, clause.TautKeep)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

func TestAddClauseAndGroupAttachment(t *testing.T) {
	store := clause.NewStore()
	gs := New(store, false)

	c1 := mkClause(t, store, 1, 2)
	require.NoError(t, gs.SetClauseGroup(c1, 1))
	gs.AddClause(c1)

	c2 := mkClause(t, store, -1)
	require.NoError(t, gs.SetClauseGroup(c2, 2))
	gs.AddClause(c2)

	assert.Equal(t, []clause.GID{1, 2}, gs.Groups())
	assert.Equal(t, clause.Var(2), gs.MaxVar())
	assert.Equal(t, 2, gs.GSize())
	assert.False(t, gs.HasGroup0())
}

func TestSetClauseGroupIdempotentAndConflicting(t *testing.T) {
	store := clause.NewStore()
	gs := New(store, false)
	c := mkClause(t, store, 1)

	require.NoError(t, gs.SetClauseGroup(c, 1))
	require.NoError(t, gs.SetClauseGroup(c, 1)) // idempotent

	err := gs.SetClauseGroup(c, 2)
	require.Error(t, err)
	var conflict ErrAlreadyAttached
	assert.ErrorAs(t, err, &conflict)
	assert.Equal(t, clause.GID(1), conflict.Have)
	assert.Equal(t, clause.GID(2), conflict.Want)
}

func TestRemoveGroupMarksClausesRemoved(t *testing.T) {
	store := clause.NewStore()
	gs := New(store, true)

	c1 := mkClause(t, store, 1, 2)
	require.NoError(t, gs.SetClauseGroup(c1, 1))
	gs.AddClause(c1)
	c2 := mkClause(t, store, -1)
	require.NoError(t, gs.SetClauseGroup(c2, 1))
	gs.AddClause(c2)

	assert.Equal(t, 2, gs.Group(1).ActiveCount())
	gs.RemoveGroup(1)
	assert.True(t, c1.Removed())
	assert.True(t, c2.Removed())
	assert.Equal(t, 0, gs.Group(1).ActiveCount())
	assert.Equal(t, 0, gs.Occurrence().ActiveCount(clause.Lit(1)))
}

func TestEmptyClauseTracked(t *testing.T) {
	store := clause.NewStore()
	gs := New(store, false)
	c := mkClause(t, store)
	require.NoError(t, gs.SetClauseGroup(c, 1))
	gs.AddClause(c)
	assert.Same(t, c, gs.EmptyClause())
}

func TestVarGroupDefaultsToZero(t *testing.T) {
	store := clause.NewStore()
	gs := New(store, false)
	gs.SetVarMode(true)
	gs.SetVarGroup(1, 5)

	assert.Equal(t, clause.GID(5), gs.VarGroup(1))
	assert.Equal(t, clause.Group0, gs.VarGroup(2))
	assert.Equal(t, []clause.Var{1}, gs.VarsOf(5))
	assert.Equal(t, []clause.GID{5}, gs.VarGroupIDs())
	assert.True(t, gs.VarMode())
}

func TestOccurrenceAddRemove(t *testing.T) {
	store := clause.NewStore()
	gs := New(store, true)
	c := mkClause(t, store, 1, -2)
	require.NoError(t, gs.SetClauseGroup(c, 1))
	gs.AddClause(c)

	occ := gs.Occurrence()
	assert.Equal(t, 1, occ.ActiveCount(clause.Lit(1)))
	assert.Equal(t, 1, occ.ActiveCount(clause.Lit(-2)))
	assert.Contains(t, occ.ClausesOf(clause.Lit(1)), c)

	occ.Remove(c)
	assert.Equal(t, 0, occ.ActiveCount(clause.Lit(1)))
	// stale entry remains in the clause list even after removal.
	assert.Contains(t, occ.ClausesOf(clause.Lit(1)), c)
}
