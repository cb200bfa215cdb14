package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jihwankim/agentforge/pkg/report"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare run-dir-A run-dir-B",
	Args:  cobra.ExactArgs(2),
	Short: "Compare two completed runs: metadata, final metrics, action frequency, and determinism",
	RunE:  runCompare,
}

func init() {
	compareCmd.Flags().Bool("json", false, "print the comparison as JSON instead of Markdown")
	compareCmd.Flags().Float64("threshold", 0, "percent-change threshold above which a metric diff is flagged (0 = report all)")
	compareCmd.Flags().StringP("output", "o", "", "write the Markdown report to this path instead of stdout")
}

func runCompare(cmd *cobra.Command, args []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	outPath, _ := cmd.Flags().GetString("output")

	a, err := report.Load(args[0])
	if err != nil {
		return err
	}
	b, err := report.Load(args[1])
	if err != nil {
		return err
	}

	cmp, err := report.Compare(a, b)
	if err != nil {
		return err
	}

	if threshold > 0 {
		flagged := cmp.MetricDiffs[:0]
		for _, d := range cmp.MetricDiffs {
			fa, aok := d.A.(float64)
			fb, bok := d.B.(float64)
			if !aok || !bok || fa == 0 {
				flagged = append(flagged, d)
				continue
			}
			pct := (fb - fa) / fa * 100
			if pct < 0 {
				pct = -pct
			}
			if pct >= threshold {
				flagged = append(flagged, d)
			}
		}
		cmp.MetricDiffs = flagged
	}

	if asJSON {
		data, _ := json.MarshalIndent(cmp, "", "  ")
		fmt.Println(string(data))
		return nil
	}

	md := report.RenderMarkdown(cmp)
	if outPath != "" {
		return os.WriteFile(outPath, []byte(md), 0o644)
	}
	fmt.Println(md)
	return nil
}
