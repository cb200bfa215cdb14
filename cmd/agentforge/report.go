package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/jihwankim/agentforge/pkg/report"
	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report run-dir",
	Args:  cobra.ExactArgs(1),
	Short: "Render a standalone Markdown report for a single completed run",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringP("output", "o", "", "write the report to this path instead of stdout")
}

func runReport(cmd *cobra.Command, args []string) error {
	outPath, _ := cmd.Flags().GetString("output")

	ra, err := report.Load(args[0])
	if err != nil {
		return err
	}
	fp, err := ra.Fingerprint()
	if err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Run report: %s\n\n", ra.Summary.RunID)
	fmt.Fprintf(&b, "- Scenario: %s\n", ra.Summary.ScenarioName)
	fmt.Fprintf(&b, "- Seed: %d\n", ra.Summary.Seed)
	fmt.Fprintf(&b, "- Ticks: %d\n", ra.Summary.Ticks)
	fmt.Fprintf(&b, "- Success: %v\n", ra.Summary.Success)
	fmt.Fprintf(&b, "- Fingerprint (summary/config/metrics/actions): %s / %s / %s / %s\n\n",
		fp.Summary[:12], fp.ConfigResolved[:12], fp.MetricsCSV[:12], fp.ActionsNDJSON[:12])

	if len(ra.Summary.FailedAssertions) > 0 {
		b.WriteString("## Failed assertions\n\n")
		for _, fa := range ra.Summary.FailedAssertions {
			fmt.Fprintf(&b, "- %s %s %v: %s\n", fa.Metric, fa.Op, fa.Target, fa.Message)
		}
		b.WriteString("\n")
	}

	b.WriteString("## Agent stats\n\n")
	b.WriteString("| agent | type | attempted | succeeded | failed |\n|---|---|---|---|---|\n")
	for _, s := range ra.Summary.AgentStats {
		fmt.Fprintf(&b, "| %s | %s | %d | %d | %d |\n", s.AgentID, s.TypeTag, s.Attempted, s.Succeeded, s.Failed)
	}

	if outPath != "" {
		return os.WriteFile(outPath, []byte(b.String()), 0o644)
	}
	fmt.Println(b.String())
	return nil
}
