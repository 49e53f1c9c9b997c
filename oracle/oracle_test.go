package oracle

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
)

// buildConflict wires a tiny three-group instance: group 0 (hard) asserts
// x1, group 1 asserts -x1, group 2 asserts x1 ∨ x2. Group 1 is the only
// group in direct conflict with the hard background.
func buildConflict(t *testing.T) *groupset.Set {
	t.Helper()
	store := clause.NewStore()
	gs := groupset.New(store, true)
	add := func(gid clause.GID, lits ...clause.Lit) {
		c, _, err := store.Make(lits, clause.TautKeep)
		require.NoError(t, err)
		require.NoError(t, gs.SetClauseGroup(c, gid))
		gs.AddClause(c)
	}
	add(clause.Group0, 1)
	add(1, -1)
	add(2, 1, 2)
	return gs
}

func testOracleSatUnsatTransition(t *testing.T, o Oracle) {
	gs := buildConflict(t)
	require.NoError(t, o.Init(gs))

	outcome, err := o.Test([]clause.GID{1, 2}, nil, Budget{})
	require.NoError(t, err)
	assert.Equal(t, Unsat, outcome)
	assert.Contains(t, o.Core(), clause.GID(1))
	assert.False(t, o.TaintedCore())

	outcome, err = o.Test([]clause.GID{2}, nil, Budget{})
	require.NoError(t, err)
	assert.Equal(t, Sat, outcome)
	model := o.Model()
	assert.True(t, model(1)) // group 0's hard clause still holds
}

func testOracleFinalizeKeepsGroupOutOfCore(t *testing.T, o Oracle) {
	gs := buildConflict(t)
	require.NoError(t, o.Init(gs))
	require.NoError(t, o.Finalize(1))

	outcome, err := o.Test([]clause.GID{2}, nil, Budget{})
	require.NoError(t, err)
	assert.Equal(t, Unsat, outcome)
	assert.NotContains(t, o.Core(), clause.GID(1))
}

func testOracleAssumptionsNarrowTheQuery(t *testing.T, o Oracle) {
	gs := buildConflict(t)
	require.NoError(t, o.Init(gs))

	// group 2 alone is satisfiable; forcing -2 as an assumption on top of
	// the hard x1 clause still leaves x1 to satisfy it.
	outcome, err := o.Test([]clause.GID{2}, []clause.Lit{-2}, Budget{})
	require.NoError(t, err)
	assert.Equal(t, Sat, outcome)
}

func TestIncrementalSatUnsatTransition(t *testing.T) {
	testOracleSatUnsatTransition(t, NewIncremental())
}

func TestIncrementalFinalizeKeepsGroupOutOfCore(t *testing.T) {
	testOracleFinalizeKeepsGroupOutOfCore(t, NewIncremental())
}

func TestIncrementalAssumptionsNarrowTheQuery(t *testing.T) {
	testOracleAssumptionsNarrowTheQuery(t, NewIncremental())
}

func TestIncrementalActivateAfterDeactivate(t *testing.T) {
	gs := buildConflict(t)
	o := NewIncremental()
	require.NoError(t, o.Init(gs))

	outcome, err := o.Test([]clause.GID{1, 2}, nil, Budget{})
	require.NoError(t, err)
	assert.Equal(t, Unsat, outcome)

	require.NoError(t, o.Deactivate(1))
	outcome, err = o.Test([]clause.GID{2}, nil, Budget{})
	require.NoError(t, err)
	assert.Equal(t, Sat, outcome)

	require.NoError(t, o.Activate(gs, 1))
	outcome, err = o.Test([]clause.GID{1, 2}, nil, Budget{})
	require.NoError(t, err)
	assert.Equal(t, Unsat, outcome)
}

func TestIncrementalTestBeforeInitErrors(t *testing.T) {
	o := NewIncremental()
	_, err := o.Test(nil, nil, Budget{})
	assert.Error(t, err)
}

func TestReinitSatUnsatTransition(t *testing.T) {
	testOracleSatUnsatTransition(t, NewReinit())
}

func TestReinitFinalizeKeepsGroupOutOfCore(t *testing.T) {
	testOracleFinalizeKeepsGroupOutOfCore(t, NewReinit())
}

func TestReinitAssumptionsNarrowTheQuery(t *testing.T) {
	testOracleAssumptionsNarrowTheQuery(t, NewReinit())
}

func TestReinitTestBeforeInitErrors(t *testing.T) {
	o := NewReinit()
	_, err := o.Test(nil, nil, Budget{})
	assert.Error(t, err)
}
