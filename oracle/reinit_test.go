package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
)

func TestReinitCoreNamesOnlyGroupsWhoseSelectorWasNeeded(t *testing.T) {
	gs := buildConflict(t)
	o := NewReinit()
	require.NoError(t, o.Init(gs))

	outcome, err := o.Test([]clause.GID{1, 2}, nil, Budget{})
	require.NoError(t, err)
	require.Equal(t, Unsat, outcome)
	// group 2 (x1 ∨ x2) is consistent with the conflict between group 0's
	// hard x1 and group 1's -x1; only group 1 should be blamed.
	assert.Equal(t, []clause.GID{1}, o.Core())
}

func TestReinitRebuildsFromScratchEachCall(t *testing.T) {
	store := clause.NewStore()
	gs := groupset.New(store, true)
	add := func(gid clause.GID, lits ...clause.Lit) {
		c, _, err := store.Make(lits, clause.TautKeep)
		require.NoError(t, err)
		require.NoError(t, gs.SetClauseGroup(c, gid))
		gs.AddClause(c)
	}
	add(1, 1)
	add(2, -1)

	o := NewReinit()
	require.NoError(t, o.Init(gs))

	outcome, err := o.Test([]clause.GID{1}, nil, Budget{})
	require.NoError(t, err)
	assert.Equal(t, Sat, outcome)

	// a fresh solver is built for this call — group 2's clause from the
	// previous call must not leak in as stale state.
	outcome, err = o.Test([]clause.GID{1, 2}, nil, Budget{})
	require.NoError(t, err)
	assert.Equal(t, Unsat, outcome)

	outcome, err = o.Test([]clause.GID{1}, nil, Budget{})
	require.NoError(t, err)
	assert.Equal(t, Sat, outcome)
}

func TestReinitActivateDeactivateAreNoops(t *testing.T) {
	gs := buildConflict(t)
	o := NewReinit()
	require.NoError(t, o.Init(gs))
	assert.NoError(t, o.Activate(gs, 1))
	assert.NoError(t, o.Deactivate(1))
}
