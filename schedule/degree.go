package schedule

import (
	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
	"github.com/meelgroup/gmus/musdata"
)

// NewResGraphDegree builds a degree scheduler over the explicit resolution
// graph: a
// group's priority is the summed graph degree of its non-removed clauses.
// The graph is built on demand, in dynamic mode, so musdata.State keeps it
// in sync as groups are removed and the lazily re-evaluated keys follow.
func NewResGraphDegree(md *musdata.State, groups []clause.GID, maxFirst bool) *DegreeScheduler {
	if !md.HasResGraph() {
		md.BuildResGraph(true)
	}
	rg := md.ResGraph()
	gs := md.GSet()
	degreeOf := func(g clause.GID) int {
		total := 0
		for _, c := range gs.ClausesOf(g) {
			if c.Removed() {
				continue
			}
			if d := rg.Degree(c); d > 0 {
				total += d
			}
		}
		return total
	}
	return NewDegreeScheduler(groups, degreeOf, maxFirst)
}

// NewImplicitDegree builds a degree scheduler over the occurrence-list
// approximation: instead of materializing
// the resolution graph, a clause's degree is bounded from above by the
// number of active clauses containing the negation of each of its
// literals. Cheaper than NewResGraphDegree by the full construction cost,
// at the price of counting tautological resolvents.
func NewImplicitDegree(gs *groupset.Set, groups []clause.GID, maxFirst bool) *DegreeScheduler {
	occ := gs.Occurrence()
	degreeOf := func(g clause.GID) int {
		if occ == nil {
			return 0
		}
		total := 0
		for _, c := range gs.ClausesOf(g) {
			if c.Removed() {
				continue
			}
			for _, l := range c.Active() {
				total += occ.ActiveCount(l.Not())
			}
		}
		return total
	}
	return NewDegreeScheduler(groups, degreeOf, maxFirst)
}
