package musdata

import (
	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/groupset"
)

// ResGraph is the resolution graph: one vertex per clause, one edge per
// pair of clauses whose resolvent (on the pivot variable shared between
// them with opposite polarity) is not itself tautological. Degree-based
// schedulers use vertex degree as a proxy for how "entangled" a
// clause's group is with the rest of the formula.
//
// Construction iterates shared variables and pairs the smaller
// occurrence-list side against the larger; the graph itself is plain
// adjacency maps, which is all this narrow one-off structure needs.
type ResGraph struct {
	adj  map[clause.ID]map[clause.ID]bool
	byID map[clause.ID]*clause.Clause
	rn   []*clause.Clause // neighbours of the most recently removed clause
}

// NewResGraph returns an empty resolution graph.
func NewResGraph() *ResGraph {
	return &ResGraph{
		adj:  make(map[clause.ID]map[clause.ID]bool),
		byID: make(map[clause.ID]*clause.Clause),
	}
}

// Clear empties the graph.
func (g *ResGraph) Clear() {
	g.adj = make(map[clause.ID]map[clause.ID]bool)
	g.byID = make(map[clause.ID]*clause.Clause)
	g.rn = nil
}

// Construct builds the graph from gs's occurrence lists (which must have
// been enabled at groupset.New time). For every variable with clauses on
// both polarities, it pairs each clause on the smaller side against every
// clause on the larger side and adds an edge unless the pair's resolvent
// on that variable would be tautological (shares some other variable with
// opposite polarity).
func (g *ResGraph) Construct(gs *groupset.Set) {
	occ := gs.Occurrence()
	if occ == nil {
		return
	}
	for v := clause.Var(1); v <= gs.MaxVar(); v++ {
		pos := clause.Lit(v)
		neg := pos.Not()
		asP := occ.ActiveCount(pos)
		asN := occ.ActiveCount(neg)
		if asP == 0 || asN == 0 {
			continue
		}
		var l1, l2 []*clause.Clause
		if asP <= asN {
			l1, l2 = occ.ClausesOf(pos), occ.ClausesOf(neg)
		} else {
			l1, l2 = occ.ClausesOf(neg), occ.ClausesOf(pos)
		}
		for _, cl := range l1 {
			if cl.Removed() {
				continue
			}
			g.addVertex(cl)
			for _, ocl := range l2 {
				if ocl.Removed() || tautResolvent(cl, ocl, v) {
					continue
				}
				g.addVertex(ocl)
				g.addEdge(cl, ocl)
			}
		}
	}
}

func (g *ResGraph) addVertex(c *clause.Clause) {
	if _, ok := g.adj[c.ID()]; !ok {
		g.adj[c.ID()] = make(map[clause.ID]bool)
		g.byID[c.ID()] = c
	}
}

func (g *ResGraph) addEdge(a, b *clause.Clause) {
	if a.ID() == b.ID() {
		return
	}
	g.adj[a.ID()][b.ID()] = true
	g.adj[b.ID()][a.ID()] = true
}

// tautResolvent reports whether resolving cl and ocl on pivot would yield a
// tautology — i.e. the two clauses disagree in polarity on some variable
// other than pivot.
func tautResolvent(cl, ocl *clause.Clause, pivot clause.Var) bool {
	signs := make(map[clause.Var]int8, cl.ActiveLen())
	for _, l := range cl.Active() {
		if l.Var() == pivot {
			continue
		}
		signs[l.Var()] = l.Sign()
	}
	for _, l := range ocl.Active() {
		if l.Var() == pivot {
			continue
		}
		if s, ok := signs[l.Var()]; ok && s != l.Sign() {
			return true
		}
	}
	return false
}

// HasClause reports whether c has a vertex in the graph.
func (g *ResGraph) HasClause(c *clause.Clause) bool {
	_, ok := g.adj[c.ID()]
	return ok
}

// Degree returns c's degree in the graph, or -1 if c has no vertex.
func (g *ResGraph) Degree(c *clause.Clause) int {
	n, ok := g.adj[c.ID()]
	if !ok {
		return -1
	}
	return len(n)
}

// Get1Hood appends c's neighbours to hood, returning false if c has no
// vertex.
func (g *ResGraph) Get1Hood(c *clause.Clause, hood []*clause.Clause) ([]*clause.Clause, bool) {
	n, ok := g.adj[c.ID()]
	if !ok {
		return hood, false
	}
	for id := range n {
		hood = append(hood, g.byID[id])
	}
	return hood, true
}

// RemoveClause removes c's vertex (and incident edges) from the graph,
// caching its former neighbours for RemovedNeighbourhood. Returns false if
// c had no vertex.
func (g *ResGraph) RemoveClause(id clause.ID) bool {
	n, ok := g.adj[id]
	if !ok {
		return false
	}
	g.rn = g.rn[:0]
	for nid := range n {
		g.rn = append(g.rn, g.byID[nid])
		delete(g.adj[nid], id)
	}
	delete(g.adj, id)
	delete(g.byID, id)
	return true
}

// RemovedNeighbourhood returns the neighbours of the most recently removed
// clause; each RemoveClause call replaces the previous contents.
func (g *ResGraph) RemovedNeighbourhood() []*clause.Clause { return g.rn }
