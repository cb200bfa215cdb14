package agent

import (
	"fmt"
	"sync/atomic"

	"github.com/jihwankim/agentforge/pkg/pack"
)

// Base is the composable implementation of the helper machinery spec'd
// for agents: memory, cooldowns, typed param reads, action-id generation,
// and stats. Concrete agent types embed Base and implement only Step
// (and, if needed, Initialize/Cleanup) — composition over inheritance,
// per the design notes, keeping the engine's polymorphism surface to a
// single Step call.
type Base struct {
	id      string
	typeTag string
	params  map[string]interface{}

	memory    map[string]interface{}
	cooldowns map[string]uint64 // action name -> tick when available again

	stats Stats

	// idCounter is a per-agent, per-run monotonic counter seeded to zero.
	// It is the "k" in "<agent_id>-<name>-<tick>-<k>"; scope is per-agent
	// rather than process-global, which is still a permissible
	// per-run-deterministic scope and keeps concurrent agents (if ever
	// introduced) from contending on one counter.
	idCounter uint64
}

// NewBase constructs the base behavior for an agent with the given id,
// type tag, and scenario-supplied params.
func NewBase(id, typeTag string, params map[string]interface{}) *Base {
	if params == nil {
		params = map[string]interface{}{}
	}
	return &Base{
		id:        id,
		typeTag:   typeTag,
		params:    params,
		memory:    make(map[string]interface{}),
		cooldowns: make(map[string]uint64),
	}
}

// ID returns the agent's stable identifier "<type_tag>-<index>".
func (b *Base) ID() string { return b.id }

// TypeTag returns the agent's declared type tag.
func (b *Base) TypeTag() string { return b.typeTag }

// Initialize is the default no-op; agent types override it if they need
// one-time setup at tick 0.
func (b *Base) Initialize(ctx Context) error { return nil }

// Cleanup is the default no-op; agent types override it if they hold
// resources to release.
func (b *Base) Cleanup() error { return nil }

// --- Memory ---

// Remember stores value under key, persisted across ticks within a run.
func (b *Base) Remember(key string, value interface{}) {
	b.memory[key] = value
}

// Recall returns the remembered value for key, or def if absent.
func (b *Base) Recall(key string, def interface{}) interface{} {
	if v, ok := b.memory[key]; ok {
		return v
	}
	return def
}

// HasMemory reports whether key has been remembered.
func (b *Base) HasMemory(key string) bool {
	_, ok := b.memory[key]
	return ok
}

// Forget removes a remembered key.
func (b *Base) Forget(key string) {
	delete(b.memory, key)
}

// ClearMemory removes all remembered keys.
func (b *Base) ClearMemory() {
	b.memory = make(map[string]interface{})
}

// --- Cooldowns ---

// SetCooldown marks name unavailable until currentTick+ticksFromNow.
func (b *Base) SetCooldown(name string, ticksFromNow, currentTick uint64) {
	b.cooldowns[name] = currentTick + ticksFromNow
}

// IsOnCooldown reports whether name is still unavailable at currentTick.
func (b *Base) IsOnCooldown(name string, currentTick uint64) bool {
	until, ok := b.cooldowns[name]
	if !ok {
		return false
	}
	return currentTick < until
}

// CooldownRemaining returns the number of ticks left before name becomes
// available again, or 0 if it already is.
func (b *Base) CooldownRemaining(name string, currentTick uint64) uint64 {
	until, ok := b.cooldowns[name]
	if !ok || currentTick >= until {
		return 0
	}
	return until - currentTick
}

// ClearCooldown removes a single action's cooldown entry.
func (b *Base) ClearCooldown(name string) {
	delete(b.cooldowns, name)
}

// ClearAllCooldowns removes every cooldown entry.
func (b *Base) ClearAllCooldowns() {
	b.cooldowns = make(map[string]uint64)
}

// AvailableActions filters candidates down to those not currently on
// cooldown, preserving input order.
func (b *Base) AvailableActions(candidates []string, currentTick uint64) []string {
	out := make([]string, 0, len(candidates))
	for _, name := range candidates {
		if !b.IsOnCooldown(name, currentTick) {
			out = append(out, name)
		}
	}
	return out
}

// MemorySnapshot returns a copy of the agent's current memory map, for
// checkpoint inclusion when a scenario asks for agent memory.
func (b *Base) MemorySnapshot() map[string]interface{} {
	out := make(map[string]interface{}, len(b.memory))
	for k, v := range b.memory {
		out[k] = v
	}
	return out
}

// CooldownSnapshot returns a copy of the agent's active cooldowns, for
// checkpoint inclusion.
func (b *Base) CooldownSnapshot() map[string]uint64 {
	out := make(map[string]uint64, len(b.cooldowns))
	for k, v := range b.cooldowns {
		out[k] = v
	}
	return out
}

// --- Params ---

// Param does a typed read from the scenario-supplied params map,
// returning def if the key is absent or the stored value is not
// assignable to T.
func Param[T any](b *Base, key string, def T) T {
	raw, ok := b.params[key]
	if !ok {
		return def
	}
	if v, ok := raw.(T); ok {
		return v
	}
	return def
}

// ParamRaw returns the raw, untyped param value and whether it was set.
func (b *Base) ParamRaw(key string) (interface{}, bool) {
	v, ok := b.params[key]
	return v, ok
}

// --- Action id ---

// GenerateActionID builds "<agent_id>-<name>-<tick>-<k>" using the
// per-agent monotonic counter, then advances it. The counter starting
// point and scope (per-agent, reset at run start) are the documented,
// permanent parts of the determinism contract for action ids.
func (b *Base) GenerateActionID(name string, tick uint64) string {
	k := atomic.AddUint64(&b.idCounter, 1) - 1
	return fmt.Sprintf("%s-%s-%d-%d", b.id, name, tick, k)
}

// NewAction is a convenience wrapper building a pack.Action with a
// generated id.
func (b *Base) NewAction(name string, tick uint64, params map[string]interface{}) *pack.Action {
	return &pack.Action{
		ID:     b.GenerateActionID(name, tick),
		Name:   name,
		Params: params,
	}
}

// --- Stats ---

// Stats returns a snapshot of the agent's attempt counters.
func (b *Base) Stats() Stats { return b.stats }

// RecordSuccess increments Attempted and Succeeded, preserving I4.
func (b *Base) RecordSuccess() {
	b.stats.Attempted++
	b.stats.Succeeded++
}

// RecordFailure increments Attempted and Failed, preserving I4.
func (b *Base) RecordFailure() {
	b.stats.Attempted++
	b.stats.Failed++
}

// RecordSkip increments none of the counters: a skipped tick (agent
// returned no action) does not count as an attempt.
func (b *Base) RecordSkip() {}
