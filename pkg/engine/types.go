package engine

import (
	"github.com/jihwankim/agentforge/pkg/agent"
	"github.com/jihwankim/agentforge/pkg/checkpoint"
	"github.com/jihwankim/agentforge/pkg/metrics"
	"github.com/jihwankim/agentforge/pkg/scheduler"
)

// AgentFactory builds one agent instance given its assigned id and
// scenario-supplied params. Scenarios reference agent types by tag; the
// concrete factories live with the agent implementations (examples/agents
// for the reference types) and are supplied to Run via a registry.
type AgentFactory func(id string, params map[string]interface{}) agent.Agent

// Registry maps agent type tags to factories.
type Registry map[string]AgentFactory

// Options are the engine-resolved overrides layered on top of scenario
// defaults, per §4.6: "the engine resolves overrides over scenario
// defaults."
type Options struct {
	Seed        *int64
	Ticks       *uint64
	TickSeconds *float64
	OutDir      string
	CI          bool
	Verbose     bool
	Strategy    scheduler.Strategy // nil -> scheduler.Shuffle{}
	Checkpoints *checkpoint.Config // nil -> scenario's own (if any)
	Probes      *ProbeSet
}

// ProbeSet pairs probe declarations with the sampling cadence the engine
// should apply them at.
type ProbeSet struct {
	EveryTicks uint64
	Probes     []checkpoint.Probe
}

// AgentStat is the runtime per-agent statistics entry included in
// RunResult.
type AgentStat struct {
	AgentID   string
	TypeTag   string
	Attempted uint64
	Succeeded uint64
	Failed    uint64
}

// RunResult is the engine's return value: {run_id, scenario_name, seed,
// ticks, duration_ms, success, failed_assertions, final_metrics,
// agent_stats, output_dir} per the data model, plus ConfigPath and
// Warnings, which Run leaves empty.
type RunResult struct {
	RunID            string
	ScenarioName     string
	Seed             int64
	Ticks            uint64
	DurationMs       int64
	Success          bool
	FailedAssertions []AssertionVerdict
	FinalMetrics     map[string]metrics.Value
	AgentStats       []AgentStat
	OutputDir        string
	ConfigPath       string
	Warnings         []string
}
