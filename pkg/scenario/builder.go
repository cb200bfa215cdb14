package scenario

import "fmt"

// Option configures a Scenario under construction. Grounded on the
// ecosystem's functional-options convention for building up a config
// value field by field while keeping the zero-value construction path
// closed off.
type Option func(*Scenario)

// WithName sets the scenario's identifier.
func WithName(name string) Option {
	return func(s *Scenario) { s.Name = name }
}

// WithSeed sets the run seed.
func WithSeed(seed int64) Option {
	return func(s *Scenario) { s.Seed = seed }
}

// WithTicks sets the tick budget.
func WithTicks(ticks uint64) Option {
	return func(s *Scenario) { s.Ticks = ticks }
}

// WithTickSeconds sets simulated seconds per tick.
func WithTickSeconds(sec float64) Option {
	return func(s *Scenario) { s.TickSeconds = sec }
}

// WithPack names the pack this scenario runs against.
func WithPack(name string) Option {
	return func(s *Scenario) { s.PackName = name }
}

// WithAgent appends one agent population declaration.
func WithAgent(cfg AgentConfig) Option {
	return func(s *Scenario) { s.Agents = append(s.Agents, cfg) }
}

// WithMetrics sets the metrics collector configuration.
func WithMetrics(cfg MetricsConfig) Option {
	return func(s *Scenario) { s.Metrics = cfg }
}

// WithAssertion appends one post-run assertion.
func WithAssertion(a Assertion) Option {
	return func(s *Scenario) { s.Assertions = append(s.Assertions, a) }
}

// WithCheckpoints enables periodic checkpointing.
func WithCheckpoints(cfg CheckpointConfig) Option {
	return func(s *Scenario) { s.Checkpoints = &cfg }
}

// WithProbes appends probe declarations and sets the sampling cadence.
func WithProbes(everyTicks uint64, probes ...ProbeConfig) Option {
	return func(s *Scenario) {
		s.ProbeEveryTicks = everyTicks
		s.Probes = append(s.Probes, probes...)
	}
}

// defaults applies the scenario defaults named in the spec: seed=1337,
// ticks=100, tick_seconds=86400, metrics.sample_every_ticks=1,
// assertions=[].
func defaults() Scenario {
	return Scenario{
		Seed:        1337,
		Ticks:       100,
		TickSeconds: 86400,
		Metrics:     MetricsConfig{SampleEveryTicks: 1},
		Assertions:  []Assertion{},
	}
}

// New builds and validates a Scenario from options, applying defaults
// first so callers only need to override what they care about.
func New(opts ...Option) (*Scenario, error) {
	s := defaults()
	for _, opt := range opts {
		opt(&s)
	}
	if err := Validate(&s); err != nil {
		return nil, err
	}
	return &s, nil
}

// InvalidScenarioError wraps every fatal validation issue found for a
// scenario, whether built programmatically or loaded from YAML.
type InvalidScenarioError struct {
	Issues []string
}

func (e *InvalidScenarioError) Error() string {
	if len(e.Issues) == 1 {
		return fmt.Sprintf("invalid scenario: %s", e.Issues[0])
	}
	msg := fmt.Sprintf("invalid scenario: %d issues", len(e.Issues))
	for _, issue := range e.Issues {
		msg += "\n  - " + issue
	}
	return msg
}

// Validate checks the structural requirements the spec imposes: a
// non-empty, well-formed name, tick_seconds > 0, and at least one agent
// configuration. Ticks == 0 is a valid, deliberately supported boundary
// case (initialize-only runs), so it is not rejected here.
func Validate(s *Scenario) error {
	var issues []string

	if s.Name == "" {
		issues = append(issues, "name must not be empty")
	} else if !isValidName(s.Name) {
		issues = append(issues, fmt.Sprintf("name %q must match [A-Za-z0-9_-]+", s.Name))
	}
	if s.TickSeconds <= 0 {
		issues = append(issues, "tickSeconds must be > 0")
	}
	if len(s.Agents) == 0 {
		issues = append(issues, "at least one agent configuration is required")
	}
	for i, a := range s.Agents {
		if a.Count < 1 {
			issues = append(issues, fmt.Sprintf("agents[%d].count must be >= 1", i))
		}
		if a.TypeTag == "" {
			issues = append(issues, fmt.Sprintf("agents[%d].typeTag must not be empty", i))
		}
	}
	if s.Metrics.SampleEveryTicks == 0 {
		s.Metrics.SampleEveryTicks = 1
	}
	for i, a := range s.Assertions {
		switch a.Op {
		case "eq", "gt", "gte", "lt", "lte":
		default:
			issues = append(issues, fmt.Sprintf("assertions[%d].op %q is not one of eq,gt,gte,lt,lte", i, a.Op))
		}
		if a.Metric == "" {
			issues = append(issues, fmt.Sprintf("assertions[%d].metric must not be empty", i))
		}
	}

	if len(issues) > 0 {
		return &InvalidScenarioError{Issues: issues}
	}
	return nil
}

func isValidName(name string) bool {
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_' || r == '-':
		default:
			return false
		}
	}
	return true
}
