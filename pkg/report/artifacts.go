// Package report loads a completed run's artifact directory back off
// disk and renders deterministic Markdown comparisons between two runs:
// metadata/KPI/action-frequency diffs, and a fingerprint-based
// determinism check.
package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jihwankim/agentforge/pkg/artifact"
)

// RunArtifacts holds one run directory's parsed and raw artifact bytes.
type RunArtifacts struct {
	Dir               string
	Summary           artifact.Summary
	Actions           []artifact.ActionRecord
	SummaryRaw        []byte
	ConfigResolvedRaw []byte
	MetricsCSVRaw     []byte
	ActionsRaw        []byte
}

// Load reads summary.json, config_resolved.json, metrics.csv, and
// actions.ndjson from dir.
func Load(dir string) (*RunArtifacts, error) {
	ra := &RunArtifacts{Dir: dir}

	var err error
	if ra.SummaryRaw, err = os.ReadFile(filepath.Join(dir, "summary.json")); err != nil {
		return nil, fmt.Errorf("report: read summary.json: %w", err)
	}
	if err := json.Unmarshal(ra.SummaryRaw, &ra.Summary); err != nil {
		return nil, fmt.Errorf("report: parse summary.json: %w", err)
	}
	if ra.ConfigResolvedRaw, err = os.ReadFile(filepath.Join(dir, "config_resolved.json")); err != nil {
		return nil, fmt.Errorf("report: read config_resolved.json: %w", err)
	}
	if ra.MetricsCSVRaw, err = os.ReadFile(filepath.Join(dir, "metrics.csv")); err != nil {
		return nil, fmt.Errorf("report: read metrics.csv: %w", err)
	}
	if ra.ActionsRaw, err = os.ReadFile(filepath.Join(dir, "actions.ndjson")); err != nil {
		return nil, fmt.Errorf("report: read actions.ndjson: %w", err)
	}
	for _, line := range strings.Split(strings.TrimSuffix(string(ra.ActionsRaw), "\n"), "\n") {
		if line == "" {
			continue
		}
		var rec artifact.ActionRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("report: parse actions.ndjson line: %w", err)
		}
		ra.Actions = append(ra.Actions, rec)
	}

	return ra, nil
}

// Fingerprint computes this run's determinism fingerprint.
func (ra *RunArtifacts) Fingerprint() (artifact.Fingerprint, error) {
	return artifact.Compute(ra.SummaryRaw, ra.ConfigResolvedRaw, ra.MetricsCSVRaw, ra.ActionsRaw)
}

// actionFrequency counts actions by name.
func (ra *RunArtifacts) actionFrequency() map[string]int {
	out := map[string]int{}
	for _, rec := range ra.Actions {
		if rec.Action == nil {
			continue
		}
		out[rec.Action.Name]++
	}
	return out
}

// revertReasons counts failed actions by their result error message.
func (ra *RunArtifacts) revertReasons() map[string]int {
	out := map[string]int{}
	for _, rec := range ra.Actions {
		if rec.Result == nil || rec.Result.Ok {
			continue
		}
		reason := rec.Result.Error
		if reason == "" {
			reason = "(unspecified)"
		}
		out[reason]++
	}
	return out
}
