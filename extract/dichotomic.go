package extract

import (
	"github.com/meelgroup/gmus/clause"
	"github.com/meelgroup/gmus/musdata"
	"github.com/meelgroup/gmus/oracle"
)

// Dichotomic performs a binary-search reduction over a fixed sequence of
// untested groups: split the sequence at its midpoint, test the
// prefix together with the necessary groups and group 0; if UNSAT, the
// suffix is redundant and the search recurses on the prefix; if SAT, the
// suffix must contain a necessary group and the search recurses there
// instead, adding the prefix to the permanently-active set. Dichotomic
// extraction alone rarely reaches a minimal result — it is normally run
// once to shrink the candidate set before deletion finishes the job.
func Dichotomic(md *musdata.State, o oracle.Oracle, order []clause.GID, budget Budget) Result {
	d := newDeadline(budget)
	seq := make([]clause.GID, 0, len(order))
	for _, g := range order {
		if md.IsUntested(g) {
			seq = append(seq, g)
		}
	}

	base := []clause.GID{clause.Group0}
	base = append(base, necessaryGroups(md)...)

	for len(seq) > 1 && !d.exhausted() {
		mid := len(seq) / 2
		prefix, suffix := seq[:mid], seq[mid:]

		active := append(append([]clause.GID(nil), base...), prefix...)
		outcome, err := o.Test(active, nil, d.callBudget())
		d.satCalls++
		if err != nil {
			break
		}

		switch outcome {
		case oracle.Unsat:
			// prefix alone is already unsatisfiable with the necessary
			// groups: the suffix contributed nothing this probe proved
			// necessary, so it is safe to drop from this search (it may
			// still be tested again by deletion afterwards).
			for _, g := range suffix {
				if md.IsUntested(g) {
					md.MarkRemoved(g, true) // fake: approximated, not proven by refinement here
				}
			}
			seq = prefix
		case oracle.Sat:
			// prefix is satisfiable on its own: whatever makes the full
			// remainder unsatisfiable lies in the suffix, so the prefix's
			// groups are folded into the permanently-active base.
			base = append(base, prefix...)
			seq = suffix
		default:
			d.satCalls-- // an inconclusive probe is left out of the reported SATCalls
			return finalizeResult(md, d, 0)
		}
	}

	return finalizeResult(md, d, 0)
}
