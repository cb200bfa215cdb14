// Package pack defines the boundary between the engine and the
// simulated world. The core consumes this interface but never implements
// it; concrete packs (the toy market pack under examples/packs/toy, or a
// real protocol model) live outside the core.
package pack

import "github.com/jihwankim/agentforge/pkg/metrics"

// Action is the unit of agent intent delivered to a pack. Id is assembled
// by the calling agent's base behavior as "<agent_id>-<name>-<tick>-<k>",
// never from wall-clock time.
type Action struct {
	ID     string
	Name   string
	Params map[string]interface{}
	// Metadata is opaque to the engine; packs may use it however they like.
	Metadata map[string]interface{}
}

// Event is a side effect a pack reports happened as a consequence of an
// action. The engine does not copy events into actions.ndjson records.
type Event struct {
	Name string
	Args map[string]interface{}
}

// Result is what a pack returns from ExecuteAction. Packs must not panic
// for business-logic failures; Ok=false with Error set is the expected
// shape for a rejected action.
type Result struct {
	Ok            bool
	Error         string
	Events        []Event
	BalanceDeltas map[string]int64
	// GasUsed is nil when a pack does not report gas; pointer distinguishes
	// "not reported" from an explicit zero.
	GasUsed *uint64
	TxHash  string
}

// WorldState is an open, pack-defined snapshot. The engine never
// interprets its keys beyond passing it through to agents and probes.
type WorldState map[string]interface{}

// Pack is the simulated world contract. Implementations must be
// deterministic as a pure function of (initial config, the sequence of
// OnTick/SetCurrentAgent/ExecuteAction calls): any internal randomness
// must be seeded from the run seed, never drawn from an ambient source.
type Pack interface {
	// Initialize prepares or resets all world state. Called once per run
	// before tick 0.
	Initialize() error
	// OnTick advances world time before any agent acts in the tick.
	OnTick(tick uint64, timestamp int64) error
	// SetCurrentAgent informs the pack whose viewpoint follows, so
	// WorldState may return per-agent views.
	SetCurrentAgent(agentID string)
	// WorldState returns a read-only snapshot.
	WorldState() WorldState
	// ExecuteAction mutates world state to reflect action. Must not panic
	// for business-logic failures; return Result{Ok:false, Error:...}.
	ExecuteAction(action Action, agentID string) Result
	// Metrics returns the current tick's metrics snapshot.
	Metrics() map[string]metrics.Value
	// Cleanup releases resources. Must be idempotent.
	Cleanup() error
}

// NopTicker lets a pack opt out of OnTick handling while still
// satisfying Pack — packs that have nothing to do per tick can embed
// NopTicker instead of writing an empty method.
type NopTicker struct{}

// OnTick is a no-op.
func (NopTicker) OnTick(tick uint64, timestamp int64) error { return nil }

// NopAgentAware satisfies SetCurrentAgent for packs with no per-agent view.
type NopAgentAware struct{}

// SetCurrentAgent is a no-op.
func (NopAgentAware) SetCurrentAgent(agentID string) {}
