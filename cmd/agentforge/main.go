package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
	version = "dev" // Will be set by build flags
)

var rootCmd = &cobra.Command{
	Use:   "agentforge",
	Short: "Deterministic, reproducible agent-based discrete-event simulation runner",
	Long: `AgentForge runs declarative simulation scenarios — seeded agent
populations acting tick by tick against a pluggable world pack — and
writes a byte-stable artifact set so any run can be reproduced exactly
from its scenario and seed.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(matrixCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(reportCmd)
}

// Commands are defined in separate files:
// - runCmd in run.go
// - sweepCmd in sweep.go
// - matrixCmd in matrix.go
// - compareCmd in compare.go
// - reportCmd in report.go

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCodeFor(err))
	}
}
