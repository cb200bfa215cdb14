// Package agent defines the autonomous-decision-maker contract and the
// composable base behavior (memory, cooldowns, params, stats, action-id
// generation) concrete agent types embed rather than reimplement.
package agent

import (
	"github.com/jihwankim/agentforge/pkg/pack"
	"github.com/jihwankim/agentforge/pkg/rng"
)

// Context is the per-agent, per-tick value the engine hands to Step. Rng
// is already scoped to (tick, agent) — agents never derive their own
// top-level generator.
type Context struct {
	Tick      uint64
	Timestamp int64
	Rng       *rng.Source
	Pack      pack.Pack
	World     pack.WorldState
}

// Agent is the contract concrete agent types implement. Initialize and
// Cleanup default to no-ops in types that embed Base and don't override
// them.
type Agent interface {
	ID() string
	TypeTag() string
	Initialize(ctx Context) error
	// Step is the decision function. A nil *pack.Action return skips the
	// tick.
	Step(ctx Context) (*pack.Action, error)
	Cleanup() error

	// Stats exposes the attempted/succeeded/failed counters the engine
	// maintains via RecordSuccess/RecordFailure/RecordSkip.
	Stats() Stats
	RecordSuccess()
	RecordFailure()
	RecordSkip()
}

// Stats tracks per-agent attempt/outcome counts. Invariant I4:
// Attempted == Succeeded + Failed at all times; RecordSkip increments
// none of the three.
type Stats struct {
	Attempted uint64
	Succeeded uint64
	Failed    uint64
}
