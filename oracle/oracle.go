// Package oracle implements the SAT oracle adapter: the boundary between
// the extraction algorithms and a concrete SAT solver. Two backends
// satisfy the same Oracle interface: an incremental one built on gini's
// activation literals, and a re-initialized one that discards and
// rebuilds the solver on every call.
package oracle

import (
	"time"

	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
)

// Outcome uses SAT-competition return codes, exposed verbatim at the
// embedding boundary: Sat and Unsat are definite, Unknown covers a budget
// timeout or other inconclusive result.
type Outcome int

const (
	Unknown Outcome = 0
	Sat     Outcome = 10
	Unsat   Outcome = 20
)

// Budget bounds a single Test call. A zero Budget means unlimited. Only
// CPUTime is enforceable against gini's API (via Try); Conflicts is
// accepted for interface parity but not independently honored, since gini
// exposes no per-call conflict cap.
type Budget struct {
	CPUTime   time.Duration
	Conflicts int
}

// Oracle is the contract every SAT backend must satisfy.
// Implementations are not required to be safe for concurrent use; the
// engine serializes access to a single Oracle per run.
type Oracle interface {
	// Init prepares the oracle to answer queries against gs. Init may be
	// called again after Reset to start a fresh run over the same or an
	// updated group set.
	Init(gs *groupset.Set) error

	// Reset releases any solver-internal state. After Reset, Init must be
	// called again before Test.
	Reset()

	// Test asks whether the clauses of the groups in active, together with
	// every final group (group 0 and any group passed to Finalize) and the
	// literals in assumps, are jointly satisfiable. After Unsat, Core
	// returns the call's core; after Sat, Model returns its assignment.
	//
	// active restricts the query to exactly this set of group ids rather
	// than "every group still in gs" — the deletion/insertion algorithms
	// need to probe a candidate subset without mutating gs itself.
	Test(active []clause.GID, assumps []clause.Lit, budget Budget) (Outcome, error)

	// Core returns the group ids touched by the most recent Unsat result.
	// The result is only a valid unsatisfiable core when TaintedCore is
	// false.
	Core() []clause.GID

	// TaintedCore reports whether one of the caller's extra assumption
	// literals (the assumps of the most recent Test) took part in the
	// conflict behind the most recent Core — such a core may omit groups
	// that are genuinely required.
	TaintedCore() bool

	// Model returns a total assignment from the most recent Sat result.
	Model() func(clause.Lit) bool

	// Activate (re)admits group g's clauses into future Test calls.
	Activate(gs *groupset.Set, g clause.GID) error

	// Deactivate drops group g from the oracle — the deletion policy for
	// unnecessary groups; Activate admits it again. Which groups a single
	// Test call includes is decided by its active argument, so neither
	// call is needed to leave a group out of one query.
	Deactivate(g clause.GID) error

	// Finalize marks g as permanently active: it can no longer be
	// deactivated, and its clauses are never reported in a core — the
	// necessary-group finalization optimization.
	Finalize(g clause.GID) error
}
