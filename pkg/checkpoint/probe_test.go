package checkpoint_test

import (
	"fmt"
	"testing"

	"github.com/jihwankim/agentforge/pkg/checkpoint"
	"github.com/jihwankim/agentforge/pkg/metrics"
	"github.com/jihwankim/agentforge/pkg/pack"
)

type fakePack struct {
	world pack.WorldState
	m     map[string]metrics.Value
}

func (f *fakePack) Initialize() error                          { return nil }
func (f *fakePack) OnTick(tick uint64, timestamp int64) error   { return nil }
func (f *fakePack) SetCurrentAgent(agentID string)              {}
func (f *fakePack) WorldState() pack.WorldState                 { return f.world }
func (f *fakePack) ExecuteAction(a pack.Action, id string) pack.Result { return pack.Result{Ok: true} }
func (f *fakePack) Metrics() map[string]metrics.Value           { return f.m }
func (f *fakePack) Cleanup() error                              { return nil }

func TestSamplerComputedProbeSeesEarlierProbe(t *testing.T) {
	p := &fakePack{world: pack.WorldState{}, m: map[string]metrics.Value{}}
	probes := []checkpoint.Probe{
		{Name: "base", Kind: checkpoint.ProbeComputed, Fn: func(pk pack.Pack, already map[string]interface{}) (interface{}, error) {
			return 10, nil
		}},
		{Name: "doubled", Kind: checkpoint.ProbeComputed, Fn: func(pk pack.Pack, already map[string]interface{}) (interface{}, error) {
			base, _ := already["base"].(int)
			return base * 2, nil
		}},
	}
	s := checkpoint.NewSampler(probes, nil)
	got := s.Sample(p)
	if got["doubled"] != 20 {
		t.Fatalf("expected doubled=20 from referencing earlier probe, got %v", got["doubled"])
	}
}

func TestSamplerLaterProbeNotVisibleToEarlier(t *testing.T) {
	p := &fakePack{world: pack.WorldState{}, m: map[string]metrics.Value{}}
	probes := []checkpoint.Probe{
		{Name: "early", Kind: checkpoint.ProbeComputed, Fn: func(pk pack.Pack, already map[string]interface{}) (interface{}, error) {
			_, ok := already["late"]
			if ok {
				return "saw-late", nil
			}
			return "no-late", nil
		}},
		{Name: "late", Kind: checkpoint.ProbeComputed, Fn: func(pk pack.Pack, already map[string]interface{}) (interface{}, error) {
			return 1, nil
		}},
	}
	s := checkpoint.NewSampler(probes, nil)
	got := s.Sample(p)
	if got["early"] != "no-late" {
		t.Fatalf("expected early probe to not see later probe, got %v", got["early"])
	}
}

func TestSamplerFailureBecomesNullAndContinues(t *testing.T) {
	p := &fakePack{world: pack.WorldState{}, m: map[string]metrics.Value{}}
	var warned string
	probes := []checkpoint.Probe{
		{Name: "broken", Kind: checkpoint.ProbeComputed, Fn: func(pk pack.Pack, already map[string]interface{}) (interface{}, error) {
			return nil, fmt.Errorf("boom")
		}},
		{Name: "fine", Kind: checkpoint.ProbeComputed, Fn: func(pk pack.Pack, already map[string]interface{}) (interface{}, error) {
			return "ok", nil
		}},
	}
	s := checkpoint.NewSampler(probes, func(msg string) { warned = msg })
	got := s.Sample(p)
	if got["broken"] != nil {
		t.Fatalf("expected failed probe to be nil, got %v", got["broken"])
	}
	if got["fine"] != "ok" {
		t.Fatalf("expected sampling to continue past a failed probe, got %v", got["fine"])
	}
	if warned == "" {
		t.Fatalf("expected a warning to be logged for the failed probe")
	}
}

func TestSamplerCallProbe(t *testing.T) {
	p := &fakePack{world: pack.WorldState{"pool.reserve": 500}, m: map[string]metrics.Value{}}
	probes := []checkpoint.Probe{
		{Name: "reserve", Kind: checkpoint.ProbeCall, Target: "pool", Method: "reserve"},
	}
	got := checkpoint.NewSampler(probes, nil).Sample(p)
	if got["reserve"] != 500 {
		t.Fatalf("expected call probe to resolve world state key, got %v", got["reserve"])
	}
}

func TestSamplerBalanceProbe(t *testing.T) {
	p := &fakePack{world: pack.WorldState{}, m: map[string]metrics.Value{
		"balance_usdc_alice": metrics.Float(100),
	}}
	probes := []checkpoint.Probe{
		{Name: "alice", Kind: checkpoint.ProbeBalance, Addresses: []string{"alice"}, Token: "usdc"},
	}
	got := checkpoint.NewSampler(probes, nil).Sample(p)
	if got["alice"] != 100.0 {
		t.Fatalf("expected balance probe to resolve, got %v", got["alice"])
	}
}
