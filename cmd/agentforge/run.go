package main

import (
	"fmt"
	"os"

	"github.com/jihwankim/agentforge/examples/scenarios"
	"github.com/jihwankim/agentforge/internal/clock"
	"github.com/jihwankim/agentforge/pkg/engine"
	"github.com/jihwankim/agentforge/pkg/rflog"
	"github.com/jihwankim/agentforge/pkg/scenario"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run [scenario-path]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Execute one simulation scenario",
	Long:  `Loads a scenario (YAML file, or the built-in toy scenario with --toy) and runs it to completion.`,
	RunE:  runSimulation,
}

func init() {
	runCmd.Flags().Bool("toy", false, "use the built-in toy-market scenario instead of a file")
	runCmd.Flags().Int64("seed", 0, "override the scenario seed (0 = use scenario's own)")
	runCmd.Flags().Uint64("ticks", 0, "override the scenario tick count (0 = use scenario's own)")
	runCmd.Flags().Float64("tick-seconds", 0, "override simulated seconds per tick (0 = use scenario's own)")
	runCmd.Flags().String("out", "", "output directory (default: reporting.outputDir from config)")
	runCmd.Flags().Bool("ci", false, "CI mode: run id omits the wall-clock timestamp")
	runCmd.Flags().Bool("summary", false, "print the run summary to stdout")
	runCmd.Flags().Bool("json", false, "print machine-readable JSON instead of text")
}

func runSimulation(cmd *cobra.Command, args []string) error {
	useToy, _ := cmd.Flags().GetBool("toy")
	seed, _ := cmd.Flags().GetInt64("seed")
	ticks, _ := cmd.Flags().GetUint64("ticks")
	tickSeconds, _ := cmd.Flags().GetFloat64("tick-seconds")
	outDir, _ := cmd.Flags().GetString("out")
	ci, _ := cmd.Flags().GetBool("ci")
	printSummary, _ := cmd.Flags().GetBool("summary")
	asJSON, _ := cmd.Flags().GetBool("json")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if outDir == "" {
		outDir = cfg.Reporting.OutputDir
	}
	if os.Getenv("CI") == "true" {
		ci = true
	}

	sc, err := resolveScenario(useToy, args)
	if err != nil {
		return &engine.ScenarioLoadError{Msg: "resolve scenario", Err: err}
	}

	logger := rflog.New(rflog.Config{Level: cfg.Framework.LogLevel, Format: rflog.Format(cfg.Framework.LogFormat), Output: os.Stdout})

	p, err := resolvePack(sc.PackName)
	if err != nil {
		return err
	}

	opts := engine.Options{OutDir: outDir, CI: ci, Verbose: verbose}
	if seed != 0 {
		opts.Seed = &seed
	}
	if ticks != 0 {
		opts.Ticks = &ticks
	}
	if tickSeconds != 0 {
		opts.TickSeconds = &tickSeconds
	}

	e := engine.New(logger, clock.Real{})
	result, err := e.Run(sc, p, defaultRegistry(), opts)
	if err != nil {
		return err
	}

	if asJSON {
		printRunResultJSON(result)
	} else if printSummary {
		printRunResultText(result)
	}

	if !result.Success {
		return &assertionFailureError{msg: fmt.Sprintf("run %s: assertions failed", result.RunID)}
	}
	return nil
}

// resolveScenario picks the scenario source: --toy, a positional file
// path, or an error if neither is given.
func resolveScenario(useToy bool, args []string) (*scenario.Scenario, error) {
	if useToy {
		sc, _, err := scenario.LoadGo(scenarios.ToyMarket)
		return sc, err
	}
	if len(args) == 0 {
		return nil, fmt.Errorf("a scenario path or --toy is required")
	}
	sc, _, err := scenario.Load(args[0], nil)
	return sc, err
}

// resolveScenarioFile loads a scenario strictly from a file path,
// returning any non-fatal warnings alongside it (used by matrix, which
// always takes an explicit base scenario file).
func resolveScenarioFile(path string) (*scenario.Scenario, []string, error) {
	return scenario.Load(path, nil)
}
