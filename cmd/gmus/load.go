package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/meelgroup/gmus/engine"
	"github.com/meelgroup/gmus/gcnf"
)

// loadInto parses path according to format ("cnf", "gcnf", or "vgcnf")
// and feeds every clause through e.AddClause, the way any embedder drives
// the engine: parsing happens here, in the collaborator, never inside the
// engine itself.
func loadInto(e *engine.Engine, path, format string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	var res gcnf.Result
	switch detectFormat(strings.ToLower(format), path) {
	case "cnf":
		res, err = gcnf.ParseCNF(f)
	case "vgcnf":
		res, err = gcnf.ParseVGCNF(f)
	default:
		res, err = gcnf.ParseGCNF(f)
	}
	if err != nil {
		return fmt.Errorf("gmus: parsing %s: %w", path, err)
	}

	e.InitAll()
	if res.VarGroups != nil {
		e.SetVarGroupMode(true)
		for v, g := range res.VarGroups {
			e.SetVarGroup(v, g)
		}
	}
	for _, cg := range res.Clauses {
		if _, err := e.AddClause(cg.Lits, cg.Group); err != nil {
			return fmt.Errorf("gmus: adding clause: %w", err)
		}
	}
	return nil
}

func detectFormat(explicit, path string) string {
	if explicit != "" {
		return explicit
	}
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".vgcnf"):
		return "vgcnf"
	case strings.HasSuffix(lower, ".gcnf"):
		return "gcnf"
	default:
		return "cnf"
	}
}
