package report

import (
	"fmt"
	"strings"
)

// RenderMarkdown produces a deterministic Markdown document for one
// Comparison: run metadata, a determinism verdict, a final-metrics diff
// table, and action-frequency / revert-reason diff tables.
func RenderMarkdown(c *Comparison) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Run comparison\n\n")
	fmt.Fprintf(&b, "- Run A: `%s`\n", c.RunA)
	fmt.Fprintf(&b, "- Run B: `%s`\n", c.RunB)
	fmt.Fprintf(&b, "- Same scenario: %v\n", c.ScenarioMatch)
	fmt.Fprintf(&b, "- Same seed: %v\n", c.SeedMatch)
	fmt.Fprintf(&b, "- Success A/B: %v / %v\n", c.SuccessA, c.SuccessB)
	fmt.Fprintf(&b, "- Deterministic (fingerprints match): %v\n\n", c.Deterministic)

	if !c.Deterministic {
		b.WriteString("## Fingerprint mismatch\n\n")
		b.WriteString("| component | run A | run B |\n|---|---|---|\n")
		fmt.Fprintf(&b, "| summary | %s | %s |\n", c.FingerprintA.Summary, c.FingerprintB.Summary)
		fmt.Fprintf(&b, "| config_resolved | %s | %s |\n", c.FingerprintA.ConfigResolved, c.FingerprintB.ConfigResolved)
		fmt.Fprintf(&b, "| metrics.csv | %s | %s |\n", c.FingerprintA.MetricsCSV, c.FingerprintB.MetricsCSV)
		fmt.Fprintf(&b, "| actions.ndjson | %s | %s |\n\n", c.FingerprintA.ActionsNDJSON, c.FingerprintB.ActionsNDJSON)
	}

	b.WriteString("## Final metrics\n\n")
	b.WriteString("| metric | run A | run B | equal |\n|---|---|---|---|\n")
	for _, d := range c.MetricDiffs {
		fmt.Fprintf(&b, "| %s | %v | %v | %v |\n", d.Name, d.A, d.B, d.Equal)
	}

	b.WriteString("\n## Action frequency\n\n")
	b.WriteString("| action | run A | run B |\n|---|---|---|\n")
	for _, d := range c.ActionFrequency {
		fmt.Fprintf(&b, "| %s | %d | %d |\n", d.Key, d.A, d.B)
	}

	if len(c.RevertReasons) > 0 {
		b.WriteString("\n## Revert reasons\n\n")
		b.WriteString("| reason | run A | run B |\n|---|---|---|\n")
		for _, d := range c.RevertReasons {
			fmt.Fprintf(&b, "| %s | %d | %d |\n", d.Key, d.A, d.B)
		}
	}

	return b.String()
}
