// Package engine implements the supervisor and embedding API: the single
// entry point that wires together the clause store, group set, MUS state,
// oracle, scheduler, and extraction driver into the sequence of calls an
// embedder makes (New/InitAll/.../Destroy). The cmd/gmus command is a
// thin cobra shell over this package.
package engine

import (
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/extract"
	"github.com/meelgroup/gmus/groupset"
	"github.com/meelgroup/gmus/musdata"
	"github.com/meelgroup/gmus/oracle"
	"github.com/meelgroup/gmus/schedule"
)

// Order selects the scheduler policy for an extraction run.
type Order int

const (
	OrderLinearMax Order = iota
	OrderLengthLongest
	OrderLengthShortest
	OrderLinearMin
	OrderRandom
)

// Strategy selects which extraction driver compute_gmus runs.
type Strategy int

const (
	StrategyDeletion Strategy = iota
	StrategyInsertion
	StrategyDichotomic
)

// Backend selects which oracle.Oracle implementation backs the run.
type Backend int

const (
	BackendIncremental Backend = iota
	BackendReinit
)

// ExitCode follows SAT-competition process exit conventions, reused for
// ComputeGMUS's and TestSat's in-process return values.
type ExitCode int

const (
	ExitApproximate ExitCode = 0
	ExitSAT         ExitCode = 10
	ExitExact       ExitCode = 20
	ExitError       ExitCode = -1
)

// Config holds every knob set_* exposes. DefaultConfig returns the
// documented defaults (no budgets, deletion strategy, incremental
// backend, refinement and adaptive RR on, rotation on with depth 1).
type Config struct {
	Verbosity         int
	LogPrefix         string
	CPUTimeLimit      time.Duration
	IterLimit         int
	Order             Order
	Strategy          Strategy
	Backend           Backend
	FinalizeNecessary bool
	DeleteUnnecessary bool
	UseRefine         bool
	UseRotation       bool
	RotationDepth     int
	UseRR             bool
	AdaptiveRR        bool
	RandomSeed        int64

	// Degree-based scheduling is configuration-optional and
	// orthogonal to Order: when DegreeSched is not DegreeOff it overrides
	// the Order-selected scheduler.
	DegreeSched    DegreeSched
	DegreeMaxFirst bool
}

// DegreeSched selects the optional degree-based scheduler family.
type DegreeSched int

const (
	// DegreeOff uses the Order-selected scheduler.
	DegreeOff DegreeSched = iota
	// DegreeResGraph orders by explicit resolution-graph degree; the graph
	// is built at the start of the run.
	DegreeResGraph
	// DegreeImplicit approximates degree from occurrence lists without
	// materializing the graph.
	DegreeImplicit
)

// DefaultConfig returns the documented defaults.
func DefaultConfig() Config {
	return Config{
		UseRefine:     true,
		UseRotation:   true,
		RotationDepth: 1,
		AdaptiveRR:    true,
		RandomSeed:    1,
	}
}

// Engine is the supervisor: the single stateful object an embedder drives
// through create/init_all/.../destroy.
type Engine struct {
	cfg Config
	log *log.Entry

	store *clause.Store
	gset  *groupset.Set
	md    *musdata.State
	oc    oracle.Oracle

	running bool
	lastMUS []clause.GID
}

// New creates an engine with the given configuration.
func New(cfg Config) *Engine {
	e := &Engine{cfg: cfg}
	e.log = log.WithField("component", "gmus")
	if cfg.LogPrefix != "" {
		e.log = e.log.WithField("prefix", cfg.LogPrefix)
	}
	e.applyVerbosity()
	return e
}

func (e *Engine) applyVerbosity() {
	switch {
	case e.cfg.Verbosity >= 3:
		log.SetLevel(log.TraceLevel)
	case e.cfg.Verbosity >= 2:
		log.SetLevel(log.DebugLevel)
	case e.cfg.Verbosity >= 1:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.WarnLevel)
	}
}

// SetVerbosity implements set_verbosity.
func (e *Engine) SetVerbosity(level int, prefix string) {
	e.cfg.Verbosity = level
	e.cfg.LogPrefix = prefix
	e.applyVerbosity()
}

// SetCPUTimeLimit implements set_cpu_time_limit; zero means unlimited.
func (e *Engine) SetCPUTimeLimit(d time.Duration) { e.cfg.CPUTimeLimit = d }

// SetIterLimit implements set_iter_limit; zero means unlimited.
func (e *Engine) SetIterLimit(n int) { e.cfg.IterLimit = n }

// SetOrder implements set_order.
func (e *Engine) SetOrder(o Order) { e.cfg.Order = o }

// SetFinalizeNecessaryGroups implements set_finalize_necessary_groups.
func (e *Engine) SetFinalizeNecessaryGroups(v bool) { e.cfg.FinalizeNecessary = v }

// SetDeleteUnnecessaryGroups implements set_delete_unnecessary_groups.
func (e *Engine) SetDeleteUnnecessaryGroups(v bool) { e.cfg.DeleteUnnecessary = v }

// InitAll implements init_all(): allocates the clause store and group set.
// Safe to call again after ResetAll.
func (e *Engine) InitAll() {
	e.store = clause.NewStore()
	e.gset = groupset.New(e.store, true)
	e.log.Debug("initialized clause store and group set")
}

// AddClause implements add_clause: lits are signed non-zero DIMACS
// literals; gid is the caller's requested group (clause.Group0 for
// permanent, clause.UndefGID to request a fresh id). Returns the actual
// group id the clause ended up in — which may differ from gid if an
// identical literal set was already registered.
func (e *Engine) AddClause(lits []clause.Lit, gid clause.GID) (clause.GID, error) {
	if e.gset == nil {
		return 0, fmt.Errorf("engine: add_clause called before init_all")
	}
	c, existing, err := e.store.Make(lits, clause.TautStrip)
	if err != nil {
		return 0, err
	}
	if c == nil {
		// tautological clause, silently stripped (see clause.TautStrip).
		return clause.Group0, nil
	}
	if existing && c.Attached() {
		e.gset.AddClause(c)
		return c.Group(), nil
	}
	if gid == clause.UndefGID || e.gset.VarMode() {
		// Variable-group mode puts every clause in its own singleton
		// clause-group so the oracle can activate exactly the induced
		// subformula; the ids being minimized are the variable-group ids
		// registered via SetVarGroup, which all precede these.
		gid = e.gset.MaxGID() + 1
		if e.gset.GSize() == 0 && !e.gset.VarMode() {
			gid = 1
		}
	}
	if err := e.gset.SetClauseGroup(c, gid); err != nil {
		return 0, err
	}
	e.gset.AddClause(c)
	return c.Group(), nil
}

// SetVarGroupMode toggles whether this run computes a variable-group MUS
// (VGCNF input) rather than a clause-group one. Must be called after
// InitAll and before InitRun.
func (e *Engine) SetVarGroupMode(v bool) {
	if e.gset != nil {
		e.gset.SetVarMode(v)
	}
}

// SetVarGroup assigns variable v to variable-group g, for VGCNF input.
// Must be called after InitAll and before InitRun.
func (e *Engine) SetVarGroup(v clause.Var, g clause.GID) {
	if e.gset != nil {
		e.gset.SetVarGroup(v, g)
	}
}

// InitRun implements init_run(): builds MUS state and the oracle backend
// over whatever has been added via AddClause so far.
func (e *Engine) InitRun() error {
	if e.running {
		return fmt.Errorf("engine: init_run called while already running")
	}
	e.md = musdata.New(e.gset, e.gset.VarMode())
	switch e.cfg.Backend {
	case BackendReinit:
		e.oc = oracle.NewReinit()
	default:
		e.oc = oracle.NewIncremental()
	}
	if err := e.oc.Init(e.gset); err != nil {
		return err
	}
	e.running = true
	return nil
}

// TestSat implements test_sat(): a single oracle call over every group
// currently active (i.e. not removed), with no assumptions.
func (e *Engine) TestSat() ExitCode {
	if !e.running {
		return ExitError
	}
	var active []clause.GID
	for _, g := range e.gset.Groups() {
		if !e.md.IsRemoved(g) {
			active = append(active, g)
		}
	}
	budget := oracle.Budget{}
	if e.cfg.CPUTimeLimit > 0 {
		budget.CPUTime = e.cfg.CPUTimeLimit
	}
	outcome, err := e.oc.Test(active, nil, budget)
	if err != nil {
		e.log.WithError(err).Error("test_sat failed")
		return ExitError
	}
	return ExitCode(outcome)
}

// ComputeGMUS implements compute_gmus(): runs the configured extraction
// strategy to completion or budget exhaustion.
func (e *Engine) ComputeGMUS() ExitCode {
	if !e.running {
		return ExitError
	}
	if e.gset.GSize() == 0 {
		// nothing to extract from, and nothing to solve.
		e.lastMUS = nil
		return ExitExact
	}
	if e.gset.EmptyClause() != nil {
		e.md.MakeEmptyGMUS()
		e.lastMUS = nil
		return ExitExact
	}
	if code := e.TestSat(); code == ExitSAT {
		// a satisfiable union has no MUS to extract.
		e.lastMUS = nil
		return ExitSAT
	}
	if e.gset.VarMode() {
		return e.computeVGMUS()
	}
	groups := candidateOrder(e.gset)
	if len(groups) == 0 { // only group 0, or nothing at all
		e.lastMUS = nil
		return ExitExact
	}
	sched := e.buildScheduler(groups)

	opts := extract.Options{
		UseRefine:     e.cfg.UseRefine,
		UseRotation:   e.cfg.UseRotation,
		RotationDepth: e.cfg.RotationDepth,
		UseRR:         e.cfg.UseRR,
		AdaptiveRR:    e.cfg.AdaptiveRR,
		Finalize:      e.cfg.FinalizeNecessary,
		Delete:        e.cfg.DeleteUnnecessary,
	}
	budget := extract.Budget{MaxSATCalls: e.cfg.IterLimit, CPUTime: e.cfg.CPUTimeLimit}

	var res extract.Result
	switch e.cfg.Strategy {
	case StrategyInsertion:
		res = extract.Insertion(e.md, e.oc, sched, opts, budget)
	case StrategyDichotomic:
		res = extract.Dichotomic(e.md, e.oc, groups, budget)
	default:
		res = extract.Deletion(e.md, e.oc, sched, opts, budget)
	}

	e.lastMUS = res.Necessary
	e.log.WithFields(log.Fields{
		"sat_calls":     res.SATCalls,
		"tainted_cores": res.TaintedCores,
		"status":        res.Status,
	}).Info("compute_gmus finished")

	if res.Status == extract.Approximate {
		return ExitApproximate
	}
	return ExitExact
}

// computeVGMUS runs extract.DeletionVars:
// groups named here are variable groups, not clause groups, so the usual
// clause-group scheduler/oracle wiring does not apply directly.
func (e *Engine) computeVGMUS() ExitCode {
	vgroups := e.gset.VarGroupIDs()
	if len(vgroups) == 0 {
		e.lastMUS = nil
		return ExitExact
	}
	sched := e.buildScheduler(vgroups)
	budget := extract.Budget{MaxSATCalls: e.cfg.IterLimit, CPUTime: e.cfg.CPUTimeLimit}
	res := extract.DeletionVars(e.md, e.oc, sched, budget)
	e.lastMUS = res.Necessary
	e.log.WithFields(log.Fields{
		"sat_calls": res.SATCalls,
		"status":    res.Status,
	}).Info("compute_gmus (variable-group) finished")
	if res.Status == extract.Approximate {
		return ExitApproximate
	}
	return ExitExact
}

// GMUSGroupIDs implements gmus_group_ids(): a read-only borrow valid
// until the next InitRun.
func (e *Engine) GMUSGroupIDs() []clause.GID { return e.lastMUS }

// WriteCompetition dumps the current MUS in SAT-competition style
// ("v g1 ... 0"). Valid after ComputeGMUS, until ResetRun.
func (e *Engine) WriteCompetition(w io.Writer) error {
	if e.md == nil {
		return fmt.Errorf("engine: no extraction run to report")
	}
	return e.md.WriteCompetition(w)
}

// WriteInducedGCNF dumps the induced sub-formula (group 0 plus every
// non-removed group) in GCNF.
func (e *Engine) WriteInducedGCNF(w io.Writer) error {
	if e.md == nil {
		return fmt.Errorf("engine: no extraction run to report")
	}
	return e.md.WriteGCNF(w)
}

// WriteInducedCNF dumps the induced sub-formula's clauses as plain CNF.
func (e *Engine) WriteInducedCNF(w io.Writer) error {
	if e.md == nil {
		return fmt.Errorf("engine: no extraction run to report")
	}
	return e.md.WriteInducedCNF(w)
}

// ResetRun implements reset_run(): tears down the oracle and MUS state and
// rolls back the run's removal flags, keeping the clause store and group
// set intact so a later InitRun starts from the full formula.
func (e *Engine) ResetRun() {
	if e.oc != nil {
		e.oc.Reset()
	}
	if e.gset != nil {
		e.gset.RestoreAll()
	}
	e.oc = nil
	e.md = nil
	e.running = false
	e.lastMUS = nil
}

// ResetAll implements reset_all(): ResetRun plus discarding the clause
// store and group set.
func (e *Engine) ResetAll() {
	e.ResetRun()
	e.store = nil
	e.gset = nil
}

// Destroy implements destroy(): releases everything. The engine must not
// be used afterward.
func (e *Engine) Destroy() {
	e.ResetAll()
}

func (e *Engine) buildScheduler(groups []clause.GID) schedule.Scheduler {
	switch e.cfg.DegreeSched {
	case DegreeResGraph:
		if e.md != nil && !e.gset.VarMode() {
			return schedule.NewResGraphDegree(e.md, groups, e.cfg.DegreeMaxFirst)
		}
	case DegreeImplicit:
		if !e.gset.VarMode() {
			return schedule.NewImplicitDegree(e.gset, groups, e.cfg.DegreeMaxFirst)
		}
	}
	switch e.cfg.Order {
	case OrderLengthLongest, OrderLengthShortest:
		longest := e.cfg.Order == OrderLengthLongest
		return schedule.NewLength(groups, func(g clause.GID) int { return groupLength(e.gset, g) }, longest)
	case OrderLinearMin:
		return schedule.NewLinear(groups, true)
	case OrderRandom:
		return schedule.NewRandom(groups, e.cfg.RandomSeed)
	default:
		return schedule.NewLinear(groups, false)
	}
}

func groupLength(gs *groupset.Set, g clause.GID) int {
	total := 0
	for _, c := range gs.ClausesOf(g) {
		if !c.Removed() {
			total += c.ActiveLen()
		}
	}
	return total
}

// candidateOrder returns every non-zero group id, in the engine's
// insertion order — the base sequence schedulers permute or filter.
func candidateOrder(gs *groupset.Set) []clause.GID {
	var out []clause.GID
	for _, g := range gs.Groups() {
		if g != clause.Group0 {
			out = append(out, g)
		}
	}
	return out
}
