package engine

import (
	"github.com/jihwankim/agentforge/internal/clock"
	"github.com/jihwankim/agentforge/pkg/artifact"
	"github.com/jihwankim/agentforge/pkg/metrics"
	"github.com/jihwankim/agentforge/pkg/scenario"
)

// writeArtifacts emits summary.json, metrics.csv, actions.ndjson, and
// config_resolved.json for a completed run.
func (e *Engine) writeArtifacts(
	w *artifact.Writer,
	result *RunResult,
	collector *metrics.Collector,
	actionLog *artifact.ActionLogWriter,
	sc *scenario.Scenario,
	opts Options,
) error {
	summary := artifact.Summary{
		RunID:            result.RunID,
		ScenarioName:     result.ScenarioName,
		Seed:             result.Seed,
		Ticks:            result.Ticks,
		DurationMs:       result.DurationMs,
		Success:          result.Success,
		FailedAssertions: toArtifactAssertions(result.FailedAssertions),
		FinalMetrics:     metricsToInterfaceMap(result.FinalMetrics),
		AgentStats:       toArtifactAgentStats(result.AgentStats),
		Timestamp:        clock.ISO8601(e.wall.Now()),
	}
	if err := w.WriteSummary(summary); err != nil {
		return &ArtifactWriteError{Err: err}
	}

	if err := w.WriteMetricsCSV(collector); err != nil {
		return &ArtifactWriteError{Err: err}
	}

	if err := w.WriteActions(actionLog); err != nil {
		return &ArtifactWriteError{Err: err}
	}

	resolved := map[string]interface{}{
		"scenario": sc,
		"options": map[string]interface{}{
			"seed":        result.Seed,
			"ticks":       result.Ticks,
			"ci":          opts.CI,
			"verbose":     opts.Verbose,
			"outDir":      opts.OutDir,
		},
	}
	if err := w.WriteConfigResolved(resolved); err != nil {
		return &ArtifactWriteError{Err: err}
	}
	return nil
}

func toArtifactAssertions(verdicts []AssertionVerdict) []artifact.FailedAssertion {
	out := make([]artifact.FailedAssertion, 0, len(verdicts))
	for _, v := range verdicts {
		out = append(out, artifact.FailedAssertion{
			Op: v.Op, Metric: v.Metric, Target: v.Target,
			ActualValue: v.ActualValue, Message: v.Message,
		})
	}
	return out
}

func toArtifactAgentStats(stats []AgentStat) []artifact.AgentStat {
	out := make([]artifact.AgentStat, 0, len(stats))
	for _, s := range stats {
		out = append(out, artifact.AgentStat{
			AgentID: s.AgentID, TypeTag: s.TypeTag,
			Attempted: s.Attempted, Succeeded: s.Succeeded, Failed: s.Failed,
		})
	}
	return out
}
