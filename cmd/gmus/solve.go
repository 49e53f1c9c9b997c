package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meelgroup/gmus/engine"
)

func newSolveCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "solve <file>",
		Short: "Report whether the union of all groups is satisfiable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e := engine.New(engine.DefaultConfig())
			if err := loadInto(e, args[0], format); err != nil {
				return err
			}
			if err := e.InitRun(); err != nil {
				return err
			}
			switch code := e.TestSat(); code {
			case engine.ExitSAT:
				fmt.Println("s SATISFIABLE")
				os.Exit(10)
			case engine.ExitExact:
				fmt.Println("s UNSATISFIABLE")
				os.Exit(20)
			default:
				fmt.Println("s UNKNOWN")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "", "input format: cnf, gcnf, or vgcnf (default: guessed from extension)")
	return cmd
}
