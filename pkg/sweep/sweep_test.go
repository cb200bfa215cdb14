package sweep_test

import (
	"path/filepath"
	"testing"

	"github.com/jihwankim/agentforge/pkg/agent"
	"github.com/jihwankim/agentforge/pkg/engine"
	"github.com/jihwankim/agentforge/pkg/metrics"
	"github.com/jihwankim/agentforge/pkg/pack"
	"github.com/jihwankim/agentforge/pkg/scenario"
	"github.com/jihwankim/agentforge/pkg/sweep"
)

func TestParseSeedsRangeForm(t *testing.T) {
	got, err := sweep.ParseSeeds("1000-1004")
	if err != nil {
		t.Fatalf("ParseSeeds: %v", err)
	}
	want := []int64{1000, 1001, 1002, 1003, 1004}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseSeedsListForm(t *testing.T) {
	got, err := sweep.ParseSeeds("5,9,2")
	if err != nil {
		t.Fatalf("ParseSeeds: %v", err)
	}
	want := []int64{5, 9, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestParseSeedsCountForm(t *testing.T) {
	got, err := sweep.ParseSeeds("count:3:100")
	if err != nil {
		t.Fatalf("ParseSeeds: %v", err)
	}
	want := []int64{100, 101, 102}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestComputeStatsPercentileRule(t *testing.T) {
	// n=5: rank = ceil(0.5*5) = ceil(2.5) = 3 -> sorted[2]
	s := sweep.ComputeStats([]float64{1, 2, 3, 4, 5})
	if s.P50 != 3 {
		t.Fatalf("expected p50=3, got %v", s.P50)
	}
	if s.Min != 1 || s.Max != 5 {
		t.Fatalf("unexpected min/max: %+v", s)
	}
}

type countingPack struct{ volume float64 }

func (p *countingPack) Initialize() error                        { return nil }
func (p *countingPack) OnTick(tick uint64, timestamp int64) error { return nil }
func (p *countingPack) SetCurrentAgent(agentID string)            {}
func (p *countingPack) WorldState() pack.WorldState               { return pack.WorldState{} }
func (p *countingPack) ExecuteAction(a pack.Action, agentID string) pack.Result {
	p.volume++
	return pack.Result{Ok: true}
}
func (p *countingPack) Metrics() map[string]metrics.Value {
	return map[string]metrics.Value{"totalVolume": metrics.Float(p.volume)}
}
func (p *countingPack) Cleanup() error { return nil }

type traderAgent struct{ *agent.Base }

func newTrader(id string, params map[string]interface{}) agent.Agent {
	return &traderAgent{Base: agent.NewBase(id, "trader", params)}
}
func (a *traderAgent) Step(ctx agent.Context) (*pack.Action, error) {
	return a.NewAction("trade", ctx.Tick, nil), nil
}

func TestRunnerSweepsAllSeedsAndAggregates(t *testing.T) {
	sc, err := scenario.New(
		scenario.WithName("toy-market"),
		scenario.WithTicks(5),
		scenario.WithTickSeconds(60),
		scenario.WithAgent(scenario.AgentConfig{TypeTag: "trader", Count: 2}),
	)
	if err != nil {
		t.Fatalf("scenario.New: %v", err)
	}

	dir := t.TempDir()
	r := sweep.NewRunner(sweep.Config{
		Scenario:    sc,
		PackFactory: func() pack.Pack { return &countingPack{} },
		Registry:    engine.Registry{"trader": newTrader},
		Seeds:       []int64{1, 2, 3},
		OutDir:      dir,
		CI:          true,
		LogPath:     filepath.Join(dir, "sweep_log.jsonl"),
	}, nil)

	rep, err := r.Run()
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rep.Runs) != 3 {
		t.Fatalf("expected 3 runs, got %d", len(rep.Runs))
	}
	stats, ok := rep.Stats["totalVolume"]
	if !ok {
		t.Fatalf("expected totalVolume in aggregated stats")
	}
	if stats.Mean != 10 {
		t.Fatalf("expected mean totalVolume=10 (2 traders x 5 ticks, deterministic across seeds), got %v", stats.Mean)
	}
	if len(rep.WorstRuns) != 3 {
		t.Fatalf("expected 3 worst-run entries, got %d", len(rep.WorstRuns))
	}

	csvPath := filepath.Join(dir, "summary.csv")
	if err := sweep.WriteSummaryCSV(csvPath, rep); err != nil {
		t.Fatalf("WriteSummaryCSV: %v", err)
	}
	mdPath := filepath.Join(dir, "report.md")
	if err := sweep.WriteReportMarkdown(mdPath, rep); err != nil {
		t.Fatalf("WriteReportMarkdown: %v", err)
	}
}
