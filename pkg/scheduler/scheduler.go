// Package scheduler determines per-tick agent execution order. Every
// strategy is a pure function of (strategy, seed, tick, agent-list-order)
// per invariant I3: given the same tick-scoped PRNG and the same input
// order, a strategy always produces the same output order.
package scheduler

import (
	"sort"

	"github.com/jihwankim/agentforge/pkg/rng"
)

// Strategy orders agent ids for one tick. Implementations must never
// mutate the input slice; they return a freshly allocated order.
type Strategy interface {
	Order(tick uint64, agentIDs []string, r *rng.Source) []string
}

// Shuffle implements Fisher-Yates over a freshly copied agent list using
// the tick-scoped PRNG. This is the default strategy.
type Shuffle struct{}

// Order returns a Fisher-Yates permutation of agentIDs.
func (Shuffle) Order(tick uint64, agentIDs []string, r *rng.Source) []string {
	out := append([]string(nil), agentIDs...)
	r.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Rotate starts from a position that increments by one each tick (modulo
// agent count) and takes agents in cyclic order from there. Internal
// state (the running offset) is small and reset between runs by
// constructing a fresh Rotate.
type Rotate struct {
	offset int
}

// Order returns agentIDs rotated by the strategy's current offset, then
// advances the offset for the next call.
func (s *Rotate) Order(tick uint64, agentIDs []string, r *rng.Source) []string {
	n := len(agentIDs)
	if n == 0 {
		return nil
	}
	start := s.offset % n
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = agentIDs[(start+i)%n]
	}
	s.offset++
	return out
}

// PriorityFunc returns a sortable priority for an agent id; higher sorts
// first. Resolution of "what is this agent's priority" is left to the
// caller (scenario-level params), not to the scheduler.
type PriorityFunc func(agentID string) float64

// Priority performs a stable descending sort by a caller-supplied
// priority function. With no function, agents keep their input order.
type Priority struct {
	Fn PriorityFunc
}

// Order returns agentIDs stably sorted descending by Priority.Fn, or
// unchanged if Fn is nil.
func (p Priority) Order(tick uint64, agentIDs []string, r *rng.Source) []string {
	out := append([]string(nil), agentIDs...)
	if p.Fn == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return p.Fn(out[i]) > p.Fn(out[j])
	})
	return out
}
