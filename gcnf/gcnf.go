// Package gcnf is the thin input-format collaborator the engine sits
// behind: readers for DIMACS CNF, GCNF, and VGCNF that produce
// already-parsed clauses and group annotations, handed to engine.Engine
// through its narrow AddClause/SetVarGroup surface. This package never
// touches clause.Store or groupset.Set directly.
package gcnf

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/meelgroup/gmus/clause"
)

// ClauseGroup is one parsed clause together with its group annotation.
// CNF input assigns every clause its own fresh group; GCNF input reads
// the group from the clause's "{g}" prefix; VGCNF input sets Group to
// clause.Group0 (variable groups carry the grouping instead, see
// VarGroups).
type ClauseGroup struct {
	Lits  []clause.Lit
	Group clause.GID
}

// Result is what a Parse call returns: every clause in file order, and,
// for VGCNF input, the variable-to-variable-group assignments read from
// "{vg} v1 v2 … 0" header lines. Clauses is nil-safe to range
// over; VarGroups is nil for CNF/GCNF input.
type Result struct {
	Clauses   []ClauseGroup
	VarGroups map[clause.Var]clause.GID
}

// ErrMalformed reports a syntax error in the input:
// a token that is not an integer, a zero literal inside a clause's literal
// run, a negative variable index in a variable-group header, or a
// group-header that doesn't parse as "{g}" or "{vg}".
type ErrMalformed struct {
	Line int
	Msg  string
}

func (e ErrMalformed) Error() string {
	return fmt.Sprintf("gcnf: line %d: %s", e.Line, e.Msg)
}

// ParseCNF reads plain DIMACS CNF: a "p cnf <vars> <clauses>" header
// (skipped — the engine recomputes MaxVar/MaxClauseID itself) followed by
// zero-terminated literal runs, comments starting with 'c'. Each clause
// becomes its own fresh group, numbered from 1 in file order.
func ParseCNF(r io.Reader) (Result, error) {
	var res Result
	next := clause.GID(1)
	err := scanLines(r, func(lineNo int, fields []string) error {
		if len(fields) == 0 {
			return nil
		}
		switch fields[0] {
		case "c":
			return nil
		case "p":
			return nil
		}
		lits, err := parseLits(fields, lineNo)
		if err != nil {
			return err
		}
		// lits may be empty for an explicit "0" line — the empty clause,
		// which the engine short-circuits on.
		res.Clauses = append(res.Clauses, ClauseGroup{Lits: lits, Group: next})
		next++
		return nil
	})
	return res, err
}

// ParseGCNF reads GCNF: each clause line begins with a "{g}" token naming
// its group id; group 0 is permanent background.
func ParseGCNF(r io.Reader) (Result, error) {
	var res Result
	err := scanLines(r, func(lineNo int, fields []string) error {
		if len(fields) == 0 {
			return nil
		}
		switch fields[0] {
		case "c", "p":
			return nil
		}
		gid, rest, err := splitGroupHeader(fields[0], lineNo)
		if err != nil {
			return err
		}
		toks := fields[1:]
		if rest != "" {
			toks = append([]string{rest}, toks...)
		}
		lits, err := parseLits(toks, lineNo)
		if err != nil {
			return err
		}
		// lits may be empty for "{g} 0" — the empty clause.
		res.Clauses = append(res.Clauses, ClauseGroup{Lits: lits, Group: gid})
		return nil
	})
	return res, err
}

// ParseVGCNF reads VGCNF: clauses look like plain CNF (ungrouped — the
// engine assigns variable-group ids per variable instead), interleaved
// with "{vg} v1 v2 … 0" header lines that assign a block of variables to
// variable-group vg. A variable never named by such a header defaults to
// variable-group 0.
func ParseVGCNF(r io.Reader) (Result, error) {
	res := Result{VarGroups: make(map[clause.Var]clause.GID)}
	err := scanLines(r, func(lineNo int, fields []string) error {
		if len(fields) == 0 {
			return nil
		}
		switch fields[0] {
		case "c", "p":
			return nil
		}
		if strings.HasPrefix(fields[0], "{") {
			vg, rest, err := splitGroupHeader(fields[0], lineNo)
			if err != nil {
				return err
			}
			toks := fields[1:]
			if rest != "" {
				toks = append([]string{rest}, toks...)
			}
			return parseVarGroup(vg, toks, lineNo, res.VarGroups)
		}
		lits, err := parseLits(fields, lineNo)
		if err != nil {
			return err
		}
		// VGCNF clauses are not individually grouped: every clause is hard
		// background, and the quantity being minimized is a set of
		// variable-groups tracked separately in VarGroups.
		res.Clauses = append(res.Clauses, ClauseGroup{Lits: lits, Group: clause.Group0})
		return nil
	})
	return res, err
}

func parseVarGroup(vg clause.GID, toks []string, lineNo int, out map[clause.Var]clause.GID) error {
	for _, t := range toks {
		n, err := strconv.Atoi(t)
		if err != nil {
			return ErrMalformed{Line: lineNo, Msg: "variable-group header: " + err.Error()}
		}
		if n == 0 {
			return nil
		}
		if n < 0 {
			return ErrMalformed{Line: lineNo, Msg: "negative variable index in variable-group header"}
		}
		out[clause.Var(n)] = vg
	}
	return nil
}

// splitGroupHeader parses a "{g}" or "{vg}" token, which may be glued to
// the following literal on the same whitespace-split field in some GCNF
// dialects (e.g. "{0}1"); rest carries whatever trailed the closing brace.
func splitGroupHeader(tok string, lineNo int) (clause.GID, string, error) {
	if !strings.HasPrefix(tok, "{") {
		return 0, "", ErrMalformed{Line: lineNo, Msg: "expected group header starting with '{'"}
	}
	close := strings.IndexByte(tok, '}')
	if close < 0 {
		return 0, "", ErrMalformed{Line: lineNo, Msg: "unterminated group header"}
	}
	n, err := strconv.Atoi(tok[1:close])
	if err != nil {
		return 0, "", ErrMalformed{Line: lineNo, Msg: "group header: " + err.Error()}
	}
	if n < 0 {
		return 0, "", ErrMalformed{Line: lineNo, Msg: "negative group id"}
	}
	return clause.GID(n), tok[close+1:], nil
}

// parseLits reads a zero-terminated run of signed literals from fields,
// returning nil if the run is empty (e.g. a bare trailing "0"). A literal
// after the terminating 0 is malformed.
func parseLits(fields []string, lineNo int) ([]clause.Lit, error) {
	var lits []clause.Lit
	for i, f := range fields {
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, ErrMalformed{Line: lineNo, Msg: "literal: " + err.Error()}
		}
		if n == 0 {
			for _, rest := range fields[i+1:] {
				if rest != "" {
					return nil, ErrMalformed{Line: lineNo, Msg: "zero literal inside a clause"}
				}
			}
			return lits, nil
		}
		lits = append(lits, clause.Lit(n))
	}
	return lits, nil
}

// scanLines tokenizes r line by line, skipping blank lines, and hands
// each line's whitespace-split fields to fn along with its 1-based line
// number.
func scanLines(r io.Reader, fn func(lineNo int, fields []string) error) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 8*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if err := fn(lineNo, fields); err != nil {
			return err
		}
	}
	return sc.Err()
}
