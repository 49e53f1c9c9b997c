package clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLitVarSign(t *testing.T) {
	assert.Equal(t, Var(3), Lit(3).Var())
	assert.Equal(t, Var(3), Lit(-3).Var())
	assert.Equal(t, int8(1), Lit(3).Sign())
	assert.Equal(t, int8(-1), Lit(-3).Sign())
	assert.True(t, Lit(3).IsPos())
	assert.False(t, Lit(-3).IsPos())
	assert.Equal(t, Lit(-3), Lit(3).Not())
}

func TestStoreMakeDedup(t *testing.T) {
	s := NewStore()
	c1, existing1, err := s.Make([]Lit{1, -2}, TautKeep)
	require.NoError(t, err)
	assert.False(t, existing1)

	// same literal set, different order: must return the same clause.
	c2, existing2, err := s.Make([]Lit{-2, 1}, TautKeep)
	require.NoError(t, err)
	assert.True(t, existing2)
	assert.Same(t, c1, c2)
	assert.Len(t, s.All(), 1)
}

func TestStoreMakeSortsAndDedups(t *testing.T) {
	s := NewStore()
	c, _, err := s.Make([]Lit{3, -1, 2, -1}, TautKeep)
	require.NoError(t, err)
	assert.Equal(t, []Lit{-1, 2, 3}, c.Lits())
}

func TestStoreMakeTautPolicies(t *testing.T) {
	s := NewStore()

	c, _, err := s.Make([]Lit{1, -1, 2}, TautStrip)
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.Empty(t, s.All())

	_, _, err = s.Make([]Lit{1, -1, 2}, TautReject)
	assert.ErrorIs(t, err, ErrTautology)

	c, _, err = s.Make([]Lit{1, -1, 2}, TautKeep)
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, []Lit{-1, 1, 2}, c.Lits())
}

func TestClauseShrinkRestore(t *testing.T) {
	s := NewStore()
	c, _, err := s.Make([]Lit{1, 2, 3}, TautKeep)
	require.NoError(t, err)
	require.Equal(t, 3, c.ActiveLen())

	c.Shrink()
	assert.Equal(t, 2, c.ActiveLen())
	assert.Equal(t, []Lit{1, 2}, c.Active())

	c.Restore()
	assert.Equal(t, 3, c.ActiveLen())
	assert.Equal(t, []Lit{1, 2, 3}, c.Active())
}

func TestClauseShrinkToEmptyIsNoop(t *testing.T) {
	s := NewStore()
	c, _, err := s.Make([]Lit{1}, TautKeep)
	require.NoError(t, err)
	c.Shrink()
	assert.Equal(t, 0, c.ActiveLen())
	c.Shrink()
	assert.Equal(t, 0, c.ActiveLen())
}

func TestClauseRemovedFlag(t *testing.T) {
	s := NewStore()
	c, _, err := s.Make([]Lit{1}, TautKeep)
	require.NoError(t, err)
	assert.False(t, c.Removed())
	c.MarkRemoved()
	assert.True(t, c.Removed())
	c.UnmarkRemoved()
	assert.False(t, c.Removed())
}

func TestClauseIsEmpty(t *testing.T) {
	s := NewStore()
	c, _, err := s.Make(nil, TautKeep)
	require.NoError(t, err)
	assert.True(t, c.IsEmpty())
}

func TestClauseGroupAttachment(t *testing.T) {
	s := NewStore()
	c, _, err := s.Make([]Lit{1}, TautKeep)
	require.NoError(t, err)
	assert.False(t, c.Attached())
	c.SetGroup(5)
	assert.True(t, c.Attached())
	assert.Equal(t, GID(5), c.Group())
}
