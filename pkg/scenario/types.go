// Package scenario declares the immutable scenario shape and its two
// construction paths: a functional-options builder for programmatic
// scenarios, and a YAML loader for file-based ones.
package scenario

// AgentConfig is one entry of a scenario's agent population declaration.
type AgentConfig struct {
	TypeTag string                 `yaml:"typeTag"`
	Count   int                    `yaml:"count"`
	Params  map[string]interface{} `yaml:"params"`
}

// MetricsConfig configures the metrics collector's sampling cadence.
type MetricsConfig struct {
	SampleEveryTicks uint64   `yaml:"sampleEveryTicks"`
	AllowList        []string `yaml:"allowList,omitempty"`
}

// Assertion is one post-run check against final metrics.
type Assertion struct {
	Op     string      `yaml:"op"` // eq, gt, gte, lt, lte
	Metric string      `yaml:"metric"`
	Value  interface{} `yaml:"value"`
}

// CheckpointConfig configures periodic state snapshots.
type CheckpointConfig struct {
	EveryTicks         uint64 `yaml:"everyTicks"`
	IncludeAgentMemory bool   `yaml:"includeAgentMemory"`
	IncludeProbes      bool   `yaml:"includeProbes"`
}

// ProbeConfig declares one probe to sample alongside checkpoints.
type ProbeConfig struct {
	Name   string                 `yaml:"name"`
	Kind   string                 `yaml:"kind"` // computed, call, balance
	Config map[string]interface{} `yaml:"config"`
}

// Scenario is the immutable declaration the engine runs. It names its
// pack by PackName rather than holding a pack value; the CLI resolves
// that name through a registry it owns (examples/packs/toy being the only
// entry shipped with this module).
type Scenario struct {
	Name            string            `yaml:"name"`
	Seed            int64             `yaml:"seed"`
	Ticks           uint64            `yaml:"ticks"`
	TickSeconds     float64           `yaml:"tickSeconds"`
	PackName        string            `yaml:"pack"`
	Agents          []AgentConfig     `yaml:"agents"`
	Metrics         MetricsConfig     `yaml:"metricsConfig"`
	Assertions      []Assertion       `yaml:"assertions"`
	Checkpoints     *CheckpointConfig `yaml:"checkpoints,omitempty"`
	Probes          []ProbeConfig     `yaml:"probes,omitempty"`
	ProbeEveryTicks uint64            `yaml:"probeEveryTicks,omitempty"`
}
