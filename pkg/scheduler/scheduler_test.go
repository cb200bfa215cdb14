package scheduler_test

import (
	"reflect"
	"testing"

	"github.com/jihwankim/agentforge/pkg/rng"
	"github.com/jihwankim/agentforge/pkg/scheduler"
)

func TestShuffleDeterministicAndPermutation(t *testing.T) {
	agents := []string{"a", "b", "c", "d", "e"}
	run := func() []string {
		top := rng.NewSource(42)
		r := top.Derive(3, "")
		return scheduler.Shuffle{}.Order(3, agents, r)
	}
	first, second := run(), run()
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("shuffle not deterministic: %v vs %v", first, second)
	}
	sorted := append([]string(nil), first...)
	for _, a := range agents {
		found := false
		for _, b := range sorted {
			if a == b {
				found = true
			}
		}
		if !found {
			t.Fatalf("shuffle dropped agent %s: %v", a, sorted)
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	agents := []string{"a", "b", "c"}
	orig := append([]string(nil), agents...)
	top := rng.NewSource(1)
	r := top.Derive(0, "")
	scheduler.Shuffle{}.Order(0, agents, r)
	if !reflect.DeepEqual(agents, orig) {
		t.Fatalf("Order mutated caller's slice: %v", agents)
	}
}

func TestRotateAdvancesOffsetEachTick(t *testing.T) {
	agents := []string{"a", "b", "c"}
	s := &scheduler.Rotate{}
	r := rng.NewSource(1).Derive(0, "")

	first := s.Order(0, agents, r)
	second := s.Order(1, agents, r)
	third := s.Order(2, agents, r)

	if !reflect.DeepEqual(first, []string{"a", "b", "c"}) {
		t.Fatalf("tick 0 order = %v", first)
	}
	if !reflect.DeepEqual(second, []string{"b", "c", "a"}) {
		t.Fatalf("tick 1 order = %v", second)
	}
	if !reflect.DeepEqual(third, []string{"c", "a", "b"}) {
		t.Fatalf("tick 2 order = %v", third)
	}
}

func TestPriorityOrdersDescendingStable(t *testing.T) {
	agents := []string{"a", "b", "c", "d", "e"}
	ranks := map[string]float64{"a": 10, "b": 50, "c": 30, "d": 20, "e": 40}
	strat := scheduler.Priority{Fn: func(id string) float64 { return ranks[id] }}

	r := rng.NewSource(1).Derive(0, "")
	got := strat.Order(0, agents, r)
	want := []string{"b", "e", "c", "d", "a"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Priority order = %v, want %v", got, want)
	}
}

func TestPriorityNoFnPreservesOrder(t *testing.T) {
	agents := []string{"x", "y", "z"}
	r := rng.NewSource(1).Derive(0, "")
	got := scheduler.Priority{}.Order(0, agents, r)
	if !reflect.DeepEqual(got, agents) {
		t.Fatalf("expected identity order with nil Fn, got %v", got)
	}
}
