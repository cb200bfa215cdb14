package sweep

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// WriteSummaryCSV writes one row per seed: seed, runId, success, attempted,
// succeeded, failed (summed across agents), plus every aggregated
// metric name as its own column, sorted for stable output.
func WriteSummaryCSV(path string, rep *Report) error {
	metricNames := make([]string, 0, len(rep.Stats))
	for name := range rep.Stats {
		metricNames = append(metricNames, name)
	}
	sort.Strings(metricNames)

	var b strings.Builder
	header := append([]string{"seed", "runId", "success", "attempted", "succeeded", "failed"}, metricNames...)
	b.WriteString(strings.Join(header, ","))
	b.WriteString("\n")

	for _, run := range rep.Runs {
		var attempted, succeeded, failed uint64
		for _, s := range run.AgentStats {
			attempted += s.Attempted
			succeeded += s.Succeeded
			failed += s.Failed
		}
		row := []string{
			strconv.FormatInt(run.Seed, 10),
			run.RunID,
			strconv.FormatBool(run.Success),
			strconv.FormatUint(attempted, 10),
			strconv.FormatUint(succeeded, 10),
			strconv.FormatUint(failed, 10),
		}
		for _, name := range metricNames {
			v, ok := run.FinalMetrics[name]
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, v.CSVField())
		}
		b.WriteString(strings.Join(row, ","))
		b.WriteString("\n")
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}

// WriteReportMarkdown renders a deterministic Markdown summary: scenario
// name, seed count, per-metric stats table, and the worst-runs callout.
func WriteReportMarkdown(path string, rep *Report) error {
	var b strings.Builder
	fmt.Fprintf(&b, "# Sweep report: %s\n\n", rep.ScenarioName)
	fmt.Fprintf(&b, "Seeds: %d\n\n", len(rep.Seeds))

	names := make([]string, 0, len(rep.Stats))
	for name := range rep.Stats {
		names = append(names, name)
	}
	sort.Strings(names)

	b.WriteString("| metric | min | max | mean | stddev | p05 | p50 | p95 |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, name := range names {
		s := rep.Stats[name]
		fmt.Fprintf(&b, "| %s | %.6g | %.6g | %.6g | %.6g | %.6g | %.6g | %.6g |\n",
			name, s.Min, s.Max, s.Mean, s.StdDev, s.P05, s.P50, s.P95)
	}

	b.WriteString("\n## Worst runs by success rate\n\n")
	b.WriteString("| run_id | seed | success_rate |\n")
	b.WriteString("|---|---|---|\n")
	for _, w := range rep.WorstRuns {
		fmt.Fprintf(&b, "| %s | %d | %.4f |\n", w.RunID, w.Seed, w.SuccessRate)
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
