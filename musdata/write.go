package musdata

import (
	"bufio"
	"fmt"
	"io"

	"github.com/meelgroup/gmus/clause"
)

// MUSGroups returns the group ids currently reported as the MUS: N plus —
// on an approximate run — every still-untested non-zero group, which is
// reported as necessary for safety. Ascending order.
func (s *State) MUSGroups() []clause.GID {
	var out []clause.GID
	for _, g := range s.gset.Groups() {
		if g == clause.Group0 {
			continue
		}
		if s.IsNecessary(g) || s.IsUntested(g) {
			out = append(out, g)
		}
	}
	return out
}

// WriteCompetition writes the MUS group ids in SAT-competition style
// ("v g1 g2 ... 0").
func (s *State) WriteCompetition(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "v")
	for _, g := range s.MUSGroups() {
		fmt.Fprintf(bw, " %d", g)
	}
	fmt.Fprintln(bw, " 0")
	return bw.Flush()
}

// WriteGCNF writes the induced sub-formula — group 0 plus every
// non-removed group — in GCNF. Removed clauses inside surviving groups
// are skipped too.
func (s *State) WriteGCNF(w io.Writer) error {
	bw := bufio.NewWriter(w)
	maxVar, nClauses, maxGID := s.inducedDims()
	fmt.Fprintf(bw, "p gcnf %d %d %d\n", maxVar, nClauses, maxGID)
	for _, g := range s.gset.Groups() {
		if g != clause.Group0 && s.IsRemoved(g) {
			continue
		}
		for _, c := range s.gset.ClausesOf(g) {
			if c.Removed() {
				continue
			}
			fmt.Fprintf(bw, "{%d} ", g)
			writeLits(bw, c.Active())
		}
	}
	return bw.Flush()
}

// WriteInducedCNF writes the clauses of the non-removed groups as plain
// DIMACS CNF.
func (s *State) WriteInducedCNF(w io.Writer) error {
	bw := bufio.NewWriter(w)
	maxVar, nClauses, _ := s.inducedDims()
	fmt.Fprintf(bw, "p cnf %d %d\n", maxVar, nClauses)
	for _, g := range s.gset.Groups() {
		if g != clause.Group0 && s.IsRemoved(g) {
			continue
		}
		for _, c := range s.gset.ClausesOf(g) {
			if c.Removed() {
				continue
			}
			writeLits(bw, c.Active())
		}
	}
	return bw.Flush()
}

// inducedDims scans the surviving groups once for the header fields.
func (s *State) inducedDims() (maxVar clause.Var, nClauses int, maxGID clause.GID) {
	for _, g := range s.gset.Groups() {
		if g != clause.Group0 && s.IsRemoved(g) {
			continue
		}
		counted := false
		for _, c := range s.gset.ClausesOf(g) {
			if c.Removed() {
				continue
			}
			counted = true
			nClauses++
			for _, l := range c.Active() {
				if l.Var() > maxVar {
					maxVar = l.Var()
				}
			}
		}
		if counted && g > maxGID {
			maxGID = g
		}
	}
	return maxVar, nClauses, maxGID
}

func writeLits(bw *bufio.Writer, lits []clause.Lit) {
	for _, l := range lits {
		fmt.Fprintf(bw, "%d ", l)
	}
	fmt.Fprintln(bw, "0")
}
