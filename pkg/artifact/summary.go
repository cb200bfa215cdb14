// Package artifact writes the canonical on-disk output set: summary.json,
// metrics.csv, actions.ndjson, config_resolved.json, and the optional
// checkpoints/ directory.
package artifact

import (
	"encoding/json"
	"math/big"
)

// FailedAssertion is one entry of summary.json's failedAssertions array.
type FailedAssertion struct {
	Op          string      `json:"op"`
	Metric      string      `json:"metric"`
	Target      interface{} `json:"target"`
	ActualValue interface{} `json:"actualValue,omitempty"`
	Message     string      `json:"message"`
}

// AgentStat is one entry of summary.json's agentStats array.
type AgentStat struct {
	AgentID   string `json:"agentId"`
	TypeTag   string `json:"typeTag"`
	Attempted uint64 `json:"attempted"`
	Succeeded uint64 `json:"succeeded"`
	Failed    uint64 `json:"failed"`
}

// Summary mirrors summary.json exactly, field order and names per the
// artifact contract: runId, scenarioName, seed, ticks, durationMs,
// success, failedAssertions, finalMetrics, agentStats, timestamp.
type Summary struct {
	RunID            string            `json:"runId"`
	ScenarioName     string            `json:"scenarioName"`
	Seed             int64             `json:"seed"`
	Ticks            uint64            `json:"ticks"`
	DurationMs       int64             `json:"durationMs"`
	Success          bool              `json:"success"`
	FailedAssertions []FailedAssertion `json:"failedAssertions"`
	FinalMetrics     map[string]interface{} `json:"finalMetrics"`
	AgentStats       []AgentStat       `json:"agentStats"`
	// Timestamp is the ISO-8601 wall-clock time of the run; excluded from
	// the determinism fingerprint alongside DurationMs.
	Timestamp string `json:"timestamp"`
}

// MarshalCanonical renders v as two-space-indented JSON with a trailing
// newline, per the artifact contract shared by summary.json and
// config_resolved.json.
func MarshalCanonical(v interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// BigIntJSON renders a *big.Int as its decimal-string JSON representation,
// nil-safe for callers assembling FinalMetrics/BalanceDeltas maps.
func BigIntJSON(v *big.Int) interface{} {
	if v == nil {
		return nil
	}
	return v.String()
}
