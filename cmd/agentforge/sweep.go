package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/jihwankim/agentforge/pkg/pack"
	"github.com/jihwankim/agentforge/pkg/rflog"
	"github.com/jihwankim/agentforge/pkg/sweep"
	"github.com/jihwankim/agentforge/pkg/telemetry"
	"github.com/spf13/cobra"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep [scenario-path]",
	Args:  cobra.MaximumNArgs(1),
	Short: "Run one scenario across a set of seeds and aggregate the results",
	RunE:  runSweep,
}

func init() {
	sweepCmd.Flags().Bool("toy", false, "use the built-in toy-market scenario instead of a file")
	sweepCmd.Flags().String("seeds", "", "seed set: a range (1000-1009), list (1,2,3), or count:N:base form")
	sweepCmd.Flags().Uint64("ticks", 0, "override the scenario tick count (0 = use scenario's own)")
	sweepCmd.Flags().String("out", "", "output directory")
	sweepCmd.Flags().Bool("json", false, "print the aggregate report as JSON")
	sweepCmd.Flags().String("metrics-addr", "", "if set, serve Prometheus metrics for this sweep on this address (e.g. :9090)")
	sweepCmd.MarkFlagRequired("seeds")
}

func runSweep(cmd *cobra.Command, args []string) error {
	useToy, _ := cmd.Flags().GetBool("toy")
	seedsExpr, _ := cmd.Flags().GetString("seeds")
	ticks, _ := cmd.Flags().GetUint64("ticks")
	outDir, _ := cmd.Flags().GetString("out")
	asJSON, _ := cmd.Flags().GetBool("json")
	metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if outDir == "" {
		outDir = cfg.Reporting.OutputDir
	}
	ci := cfg.Execution.CI || os.Getenv("CI") == "true"

	sc, err := resolveScenario(useToy, args)
	if err != nil {
		return err
	}
	if ticks != 0 {
		sc.Ticks = ticks
	}

	seeds, err := sweep.ParseSeeds(seedsExpr)
	if err != nil {
		return fmt.Errorf("parse --seeds: %w", err)
	}

	var reg *telemetry.Registry
	if metricsAddr != "" {
		reg = telemetry.NewRegistry()
		srv := &http.Server{Addr: metricsAddr, Handler: reg.Handler()}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				rflog.Global().Error("metrics server stopped", err)
			}
		}()
		defer srv.Close()
	}

	r := sweep.NewRunner(sweep.Config{
		Scenario:    sc,
		PackFactory: func() pack.Pack { p, _ := resolvePack(sc.PackName); return p },
		Registry:    defaultRegistry(),
		Seeds:       seeds,
		OutDir:      outDir,
		CI:          ci,
		LogPath:     filepath.Join(outDir, "sweep_log.jsonl"),
		Telemetry:   reg,
	}, rflog.Global())

	rep, err := r.Run()
	if err != nil {
		return err
	}

	if err := sweep.WriteSummaryCSV(filepath.Join(outDir, "summary.csv"), rep); err != nil {
		return fmt.Errorf("write summary.csv: %w", err)
	}
	if err := sweep.WriteReportMarkdown(filepath.Join(outDir, "report.md"), rep); err != nil {
		return fmt.Errorf("write report.md: %w", err)
	}

	anyFailed := false
	for _, run := range rep.Runs {
		if !run.Success {
			anyFailed = true
		}
	}

	if asJSON {
		data, _ := json.MarshalIndent(rep, "", "  ")
		fmt.Println(string(data))
	}

	if anyFailed {
		return &assertionFailureError{msg: "sweep: at least one seed failed its assertions"}
	}
	return nil
}
