// Command gmus is the thin CLI shell around the engine package: a cobra
// root command with a debug flag gating logrus's level, and one
// subcommand per top-level operation.
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "gmus",
		Short: "gmus",
		Long:  `A CLI tool to compute a Group-MUS of an unsatisfiable GCNF formula.`,

		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if debug, _ := cmd.Flags().GetBool("debug"); debug {
				log.SetLevel(log.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.AddCommand(newSolveCmd())
	rootCmd.AddCommand(newGMUSCmd())

	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
