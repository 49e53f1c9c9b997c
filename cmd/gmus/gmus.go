package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/meelgroup/gmus/engine"
)

func newGMUSCmd() *cobra.Command {
	var (
		format        string
		strategy      string
		backend       string
		order         string
		cpuLimit      time.Duration
		iterLimit     int
		noRefine      bool
		noRotation    bool
		rotationDepth int
		useRR         bool
		adaptiveRR    bool
		finalize      bool
		deleteUnnec   bool
		seed          int64
		degreeSched   string
		degreeMax     bool
		dump          string
	)
	cmd := &cobra.Command{
		Use:   "gmus <file>",
		Short: "Compute a group-MUS of an unsatisfiable GCNF/VGCNF formula",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := engine.DefaultConfig()
			cfg.CPUTimeLimit = cpuLimit
			cfg.IterLimit = iterLimit
			cfg.UseRefine = !noRefine
			cfg.UseRotation = !noRotation
			cfg.RotationDepth = rotationDepth
			cfg.UseRR = useRR
			cfg.AdaptiveRR = adaptiveRR
			cfg.FinalizeNecessary = finalize
			cfg.DeleteUnnecessary = deleteUnnec
			cfg.RandomSeed = seed
			cfg.Order = parseOrder(order)
			cfg.Strategy = parseStrategy(strategy)
			cfg.Backend = parseBackend(backend)
			cfg.DegreeSched = parseDegreeSched(degreeSched)
			cfg.DegreeMaxFirst = degreeMax

			e := engine.New(cfg)
			if err := loadInto(e, args[0], format); err != nil {
				return err
			}
			if err := e.InitRun(); err != nil {
				return err
			}

			code := e.ComputeGMUS()
			switch code {
			case engine.ExitExact:
				fmt.Println("s EXACT")
			case engine.ExitApproximate:
				fmt.Println("s APPROXIMATE")
			case engine.ExitSAT:
				fmt.Println("s SATISFIABLE")
				os.Exit(int(code))
			default:
				fmt.Println("s ERROR")
				os.Exit(1)
			}
			if err := e.WriteCompetition(os.Stdout); err != nil {
				return err
			}
			switch dump {
			case "gcnf":
				if err := e.WriteInducedGCNF(os.Stdout); err != nil {
					return err
				}
			case "cnf":
				if err := e.WriteInducedCNF(os.Stdout); err != nil {
					return err
				}
			}
			// SAT-competition convention: 20 for an exact MUS, 0 for an
			// approximate one.
			os.Exit(int(code))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "", "input format: cnf, gcnf, or vgcnf (default: guessed from extension)")
	cmd.Flags().StringVar(&strategy, "strategy", "deletion", "extraction strategy: deletion, insertion, or dichotomic")
	cmd.Flags().StringVar(&backend, "backend", "incremental", "oracle backend: incremental or reinit")
	cmd.Flags().StringVar(&order, "order", "linear-max", "scheduler order: linear-max, linear-min, length-longest, length-shortest, random")
	cmd.Flags().DurationVar(&cpuLimit, "cpu-limit", 0, "soft CPU time budget for the whole run; each oracle call gets what remains (0 = none)")
	cmd.Flags().IntVar(&iterLimit, "iter-limit", 0, "hard cap on oracle calls, not on scheduler pops (0 = none)")
	cmd.Flags().BoolVar(&noRefine, "no-refine", false, "disable core refinement")
	cmd.Flags().BoolVar(&noRotation, "no-rotation", false, "disable model rotation")
	cmd.Flags().IntVar(&rotationDepth, "rotation-depth", 1, "model rotation recursion depth")
	cmd.Flags().BoolVar(&useRR, "redundancy-removal", false, "enable the redundancy-removal trick")
	cmd.Flags().BoolVar(&adaptiveRR, "adaptive-rr", true, "re-enable redundancy-removal after a tainted core clears")
	cmd.Flags().BoolVar(&finalize, "finalize-necessary", false, "merge proven-necessary groups into the permanent background")
	cmd.Flags().BoolVar(&deleteUnnec, "delete-unnecessary", false, "physically delete unnecessary groups from the oracle")
	cmd.Flags().Int64Var(&seed, "seed", 1, "random scheduler seed")
	cmd.Flags().StringVar(&degreeSched, "degree-scheduler", "off", "degree-based scheduling: off, res-graph, or implicit (overrides --order)")
	cmd.Flags().BoolVar(&degreeMax, "degree-max", false, "probe highest-degree groups first instead of lowest")
	cmd.Flags().StringVar(&dump, "dump", "", "additionally dump the induced sub-formula: gcnf or cnf")
	return cmd
}

func parseDegreeSched(s string) engine.DegreeSched {
	switch s {
	case "res-graph":
		return engine.DegreeResGraph
	case "implicit":
		return engine.DegreeImplicit
	default:
		return engine.DegreeOff
	}
}

func parseOrder(s string) engine.Order {
	switch s {
	case "length-longest":
		return engine.OrderLengthLongest
	case "length-shortest":
		return engine.OrderLengthShortest
	case "linear-min":
		return engine.OrderLinearMin
	case "random":
		return engine.OrderRandom
	default:
		return engine.OrderLinearMax
	}
}

func parseStrategy(s string) engine.Strategy {
	switch s {
	case "insertion":
		return engine.StrategyInsertion
	case "dichotomic":
		return engine.StrategyDichotomic
	default:
		return engine.StrategyDeletion
	}
}

func parseBackend(s string) engine.Backend {
	switch s {
	case "reinit":
		return engine.BackendReinit
	default:
		return engine.BackendIncremental
	}
}
