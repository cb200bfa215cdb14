package engine_test

import (
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/jihwankim/agentforge/pkg/agent"
	"github.com/jihwankim/agentforge/pkg/artifact"
	"github.com/jihwankim/agentforge/pkg/engine"
	"github.com/jihwankim/agentforge/pkg/metrics"
	"github.com/jihwankim/agentforge/pkg/pack"
	"github.com/jihwankim/agentforge/pkg/scenario"
)

// countingPack is a minimal deterministic pack used only to exercise the
// engine's tick loop: every accepted action increments a counter that
// becomes the "totalVolume" metric, and every "fail" action increments
// the "errors" metric instead.
type countingPack struct {
	volume float64
	errors int64
}

func (p *countingPack) Initialize() error                        { return nil }
func (p *countingPack) OnTick(tick uint64, timestamp int64) error { return nil }
func (p *countingPack) SetCurrentAgent(agentID string)            {}
func (p *countingPack) WorldState() pack.WorldState {
	return pack.WorldState{"volume": p.volume}
}
func (p *countingPack) ExecuteAction(a pack.Action, agentID string) pack.Result {
	if a.Name == "fail" {
		p.errors++
		return pack.Result{Ok: false, Error: "rejected"}
	}
	p.volume++
	return pack.Result{Ok: true}
}
func (p *countingPack) Metrics() map[string]metrics.Value {
	return map[string]metrics.Value{
		"totalVolume": metrics.Float(p.volume),
		"errors":      metrics.Float(float64(p.errors)),
		"gas":         metrics.BigInt(big.NewInt(7)),
	}
}
func (p *countingPack) Cleanup() error { return nil }

// traderAgent quotes once per tick.
type traderAgent struct {
	*agent.Base
}

func newTrader(id string, params map[string]interface{}) agent.Agent {
	return &traderAgent{Base: agent.NewBase(id, "trader", params)}
}

func (a *traderAgent) Step(ctx agent.Context) (*pack.Action, error) {
	return a.NewAction("trade", ctx.Tick, nil), nil
}

// alwaysFailAgent always produces a failing action.
type alwaysFailAgent struct {
	*agent.Base
}

func newAlwaysFail(id string, params map[string]interface{}) agent.Agent {
	return &alwaysFailAgent{Base: agent.NewBase(id, "failer", params)}
}

func (a *alwaysFailAgent) Step(ctx agent.Context) (*pack.Action, error) {
	return a.NewAction("fail", ctx.Tick, nil), nil
}

func baseScenario(t *testing.T, seed int64, ticks uint64, count int) *scenario.Scenario {
	t.Helper()
	sc, err := scenario.New(
		scenario.WithName("toy-market"),
		scenario.WithSeed(seed),
		scenario.WithTicks(ticks),
		scenario.WithTickSeconds(60),
		scenario.WithAgent(scenario.AgentConfig{TypeTag: "trader", Count: count}),
	)
	if err != nil {
		t.Fatalf("scenario.New: %v", err)
	}
	return sc
}

func TestRunDeterministicAcrossRepeats(t *testing.T) {
	reg := engine.Registry{"trader": newTrader}
	sc := baseScenario(t, 12345, 10, 3)

	run := func(dir string) *engine.RunResult {
		e := engine.New(nil, nil)
		res, err := e.Run(sc, &countingPack{}, reg, engine.Options{OutDir: dir, CI: true})
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		return res
	}

	a := run(t.TempDir())
	b := run(t.TempDir())

	if a.RunID != b.RunID {
		t.Fatalf("expected CI mode run ids to match: %q vs %q", a.RunID, b.RunID)
	}
	if len(a.AgentStats) != len(b.AgentStats) {
		t.Fatalf("agent stat count mismatch")
	}
	for i := range a.AgentStats {
		if a.AgentStats[i] != b.AgentStats[i] {
			t.Fatalf("agent stats diverged at %d: %+v vs %+v", i, a.AgentStats[i], b.AgentStats[i])
		}
	}
	fa, _ := a.FinalMetrics["totalVolume"].Float64()
	fb, _ := b.FinalMetrics["totalVolume"].Float64()
	if fa != fb {
		t.Fatalf("final totalVolume diverged: %v vs %v", fa, fb)
	}
}

func TestAttemptedEqualsSucceededPlusFailed(t *testing.T) {
	reg := engine.Registry{"trader": newTrader, "failer": newAlwaysFail}
	sc, err := scenario.New(
		scenario.WithName("mixed"),
		scenario.WithTicks(20),
		scenario.WithTickSeconds(60),
		scenario.WithAgent(scenario.AgentConfig{TypeTag: "trader", Count: 2}),
		scenario.WithAgent(scenario.AgentConfig{TypeTag: "failer", Count: 1}),
	)
	if err != nil {
		t.Fatalf("scenario.New: %v", err)
	}
	e := engine.New(nil, nil)
	res, err := e.Run(sc, &countingPack{}, reg, engine.Options{OutDir: t.TempDir(), CI: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, s := range res.AgentStats {
		if s.Attempted != s.Succeeded+s.Failed {
			t.Fatalf("I4 violated for %s: %+v", s.AgentID, s)
		}
	}
}

func TestAlwaysFailingAgentCompletesRun(t *testing.T) {
	reg := engine.Registry{"failer": newAlwaysFail}
	sc, err := scenario.New(
		scenario.WithName("all-fail"),
		scenario.WithTicks(15),
		scenario.WithTickSeconds(60),
		scenario.WithAgent(scenario.AgentConfig{TypeTag: "failer", Count: 1}),
	)
	if err != nil {
		t.Fatalf("scenario.New: %v", err)
	}
	e := engine.New(nil, nil)
	res, err := e.Run(sc, &countingPack{}, reg, engine.Options{OutDir: t.TempDir(), CI: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	s := res.AgentStats[0]
	if s.Attempted != 15 || s.Failed != 15 || s.Succeeded != 0 {
		t.Fatalf("expected attempted=failed=15, succeeded=0, got %+v", s)
	}
}

func TestZeroTicksSkipsTickBodyAndForcedSample(t *testing.T) {
	reg := engine.Registry{"trader": newTrader}
	sc := baseScenario(t, 1, 0, 1)
	e := engine.New(nil, nil)
	res, err := e.Run(sc, &countingPack{}, reg, engine.Options{OutDir: t.TempDir(), CI: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.FinalMetrics) != 0 {
		t.Fatalf("expected empty final metrics for ticks=0, got %v", res.FinalMetrics)
	}
}

func TestAssertionGtPasses(t *testing.T) {
	reg := engine.Registry{"trader": newTrader}
	sc, err := scenario.New(
		scenario.WithName("toy-market"),
		scenario.WithSeed(1337),
		scenario.WithTicks(10),
		scenario.WithTickSeconds(60),
		scenario.WithAgent(scenario.AgentConfig{TypeTag: "trader", Count: 2}),
		scenario.WithAssertion(scenario.Assertion{Op: "gt", Metric: "totalVolume", Value: 0.0}),
	)
	if err != nil {
		t.Fatalf("scenario.New: %v", err)
	}
	e := engine.New(nil, nil)
	res, err := e.Run(sc, &countingPack{}, reg, engine.Options{OutDir: t.TempDir(), CI: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !res.Success {
		t.Fatalf("expected success=true, failed assertions: %+v", res.FailedAssertions)
	}
}

func TestAssertionEqFailsWithActualValue(t *testing.T) {
	reg := engine.Registry{"trader": newTrader}
	p := &countingPack{errors: 5}
	sc, err := scenario.New(
		scenario.WithName("toy-market"),
		scenario.WithTicks(3),
		scenario.WithTickSeconds(60),
		scenario.WithAgent(scenario.AgentConfig{TypeTag: "trader", Count: 1}),
		scenario.WithAssertion(scenario.Assertion{Op: "eq", Metric: "errors", Value: 0.0}),
	)
	if err != nil {
		t.Fatalf("scenario.New: %v", err)
	}
	e := engine.New(nil, nil)
	res, err := e.Run(sc, p, reg, engine.Options{OutDir: t.TempDir(), CI: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Success {
		t.Fatalf("expected success=false")
	}
	if len(res.FailedAssertions) != 1 {
		t.Fatalf("expected exactly one failed assertion, got %+v", res.FailedAssertions)
	}
	actual, ok := res.FailedAssertions[0].ActualValue.(float64)
	if !ok || actual != 5 {
		t.Fatalf("expected actualValue=5, got %v", res.FailedAssertions[0].ActualValue)
	}
}

func TestActionIDsFollowConventionAndStayBounded(t *testing.T) {
	reg := engine.Registry{"trader": newTrader}
	sc := baseScenario(t, 12345, 10, 2)
	e := engine.New(nil, nil)
	p := &countingPack{}
	res, err := e.Run(sc, p, reg, engine.Options{OutDir: t.TempDir(), CI: true})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	// Every id in the run's action log is "<agent_id>-<name>-<tick>-<k>"
	// with the per-agent counter k below the tick budget (one action per
	// agent per tick).
	data, err := os.ReadFile(filepath.Join(res.OutputDir, "actions.ndjson"))
	if err != nil {
		t.Fatalf("read actions.ndjson: %v", err)
	}
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		var rec artifact.ActionRecord
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			t.Fatalf("parse action record: %v", err)
		}
		prefix := fmt.Sprintf("%s-trade-%d-", rec.AgentID, rec.Tick)
		if rec.Action == nil || !strings.HasPrefix(rec.Action.ID, prefix) {
			t.Fatalf("action id does not follow convention: %+v", rec.Action)
		}
		k, err := strconv.ParseUint(strings.TrimPrefix(rec.Action.ID, prefix), 10, 64)
		if err != nil || k >= sc.Ticks {
			t.Fatalf("action id counter out of bounds: %q", rec.Action.ID)
		}
	}
	// A fresh agent's first id has the same shape.
	b := agent.NewBase("trader-0", "trader", nil)
	id := b.GenerateActionID("trade", 7)
	if !strings.HasPrefix(id, "trader-0-trade-7-") {
		t.Fatalf("unexpected action id shape: %q", id)
	}
}
