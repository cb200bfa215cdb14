package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/jihwankim/agentforge/pkg/matrix"
	"github.com/jihwankim/agentforge/pkg/pack"
	"github.com/jihwankim/agentforge/pkg/rflog"
	"github.com/jihwankim/agentforge/pkg/sweep"
	"github.com/jihwankim/agentforge/pkg/telemetry"
	"github.com/spf13/cobra"
)

var matrixCmd = &cobra.Command{
	Use:   "matrix scenario-path",
	Args:  cobra.ExactArgs(1),
	Short: "Run a scenario under several named variants across a shared seed set, then compare",
	RunE:  runMatrix,
}

func init() {
	matrixCmd.Flags().String("variants", "", "path to a YAML variants file")
	matrixCmd.Flags().String("seeds", "", "seed set: a range (1000-1009), list (1,2,3), or count:N:base form")
	matrixCmd.Flags().Uint64("ticks", 0, "override the base scenario's tick count; variants that set their own ticks keep them (0 = keep base)")
	matrixCmd.Flags().String("out", "", "output directory")
	matrixCmd.Flags().Bool("json", false, "print the comparison report as JSON")
	matrixCmd.Flags().String("metrics-addr", "", "if set, serve Prometheus metrics for this matrix run on this address (e.g. :9090)")
	matrixCmd.MarkFlagRequired("variants")
	matrixCmd.MarkFlagRequired("seeds")
}

func runMatrix(cmd *cobra.Command, args []string) error {
	variantsPath, _ := cmd.Flags().GetString("variants")
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

	base, _, err := resolveScenarioFile(args[0])
	if err != nil {
		return err
	}
	if ticks != 0 {
		base.Ticks = ticks
	}

	variants, err := matrix.LoadVariantsFile(variantsPath)
	if err != nil {
		return err
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

	r := matrix.NewRunner(matrix.Config{
		Base:        base,
		Variants:    variants,
		PackFactory: func() pack.Pack { p, _ := resolvePack(base.PackName); return p },
		Registry:    defaultRegistry(),
		Seeds:       seeds,
		OutDir:      outDir,
		CI:          ci,
		Telemetry:   reg,
	}, rflog.Global())

	rep, err := r.Run()
	if err != nil {
		return err
	}

	if asJSON {
		data, _ := json.MarshalIndent(rep, "", "  ")
		fmt.Println(string(data))
	} else {
		for _, c := range rep.Comparisons {
			fmt.Printf("%-20s vs %-20s  %-16s  %+.4g -> %+.4g  (%+.2f%%)\n",
				c.VariantA, c.VariantB, c.Metric, c.ValueA, c.ValueB, c.PercentChange)
		}
	}

	wholeVariantFailed := false
	for _, v := range rep.Variants {
		allFailed := len(v.Runs) > 0
		for _, run := range v.Runs {
			if run.Success {
				allFailed = false
			}
		}
		if allFailed {
			wholeVariantFailed = true
		}
	}
	if wholeVariantFailed {
		return &assertionFailureError{msg: "matrix: at least one variant failed every seed"}
	}
	return nil
}
