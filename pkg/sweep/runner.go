package sweep

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jihwankim/agentforge/internal/clock"
	"github.com/jihwankim/agentforge/pkg/engine"
	"github.com/jihwankim/agentforge/pkg/pack"
	"github.com/jihwankim/agentforge/pkg/rflog"
	"github.com/jihwankim/agentforge/pkg/scenario"
	"github.com/jihwankim/agentforge/pkg/telemetry"
)

// PackFactory builds a fresh pack instance for one run. Packs are
// stateful, so every seed in a sweep gets its own instance.
type PackFactory func() pack.Pack

// Config configures one sweep invocation.
type Config struct {
	Scenario    *scenario.Scenario
	PackFactory PackFactory
	Registry    engine.Registry
	Seeds       []int64
	OutDir      string
	CI          bool
	LogPath     string              // JSONL round log; empty disables it
	Telemetry   *telemetry.Registry // optional; nil disables metric recording
}

// RoundResult is one JSONL entry appended to LogPath, one per seed.
type RoundResult struct {
	Round   int     `json:"round"`
	Seed    int64   `json:"seed"`
	RunID   string  `json:"runId"`
	Success bool    `json:"success"`
	Result  string  `json:"result"`
}

// Report is the full sweep output: one result per seed, per-metric
// statistics, and the three worst runs ranked by the fraction of
// attempted actions that succeeded (summed across agents).
type Report struct {
	ScenarioName string
	Seeds        []int64
	Runs         []*engine.RunResult
	Stats        map[string]MetricStats
	WorstRuns    []WorstRun
}

// WorstRun names a run and its success rate, for the tail-risk callout.
type WorstRun struct {
	RunID       string
	Seed        int64
	SuccessRate float64
}

// Runner executes one scenario across a seed set, grounded on the
// fuzz round-loop shape: a banner, then "[n/total]" progress lines,
// with one JSONL entry appended per round.
type Runner struct {
	cfg    Config
	logger *rflog.Logger
}

// NewRunner builds a Runner.
func NewRunner(cfg Config, logger *rflog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes every seed in order and returns the aggregate Report.
func (r *Runner) Run() (*Report, error) {
	total := len(r.cfg.Seeds)
	fmt.Printf("Sweeping %q over %d seed(s)\n", r.cfg.Scenario.Name, total)
	fmt.Println(strings.Repeat("─", 72))

	runs := make([]*engine.RunResult, 0, total)
	for i, seed := range r.cfg.Seeds {
		fmt.Printf("[%d/%d] seed=%d\n", i+1, total, seed)

		e := engine.New(r.logger, clock.Real{})
		seedCopy := seed
		res, err := e.Run(r.cfg.Scenario, r.cfg.PackFactory(), r.cfg.Registry, engine.Options{
			Seed:   &seedCopy,
			OutDir: r.cfg.OutDir,
			CI:     r.cfg.CI,
		})
		if err != nil {
			return nil, fmt.Errorf("sweep: seed %d: %w", seed, err)
		}
		runs = append(runs, res)

		status := "passed"
		if !res.Success {
			status = "failed"
		}
		fmt.Printf("  -> %s\n", strings.ToUpper(status))

		if r.cfg.Telemetry != nil {
			r.cfg.Telemetry.RecordRun(status)
			r.cfg.Telemetry.TicksProcessed.Add(float64(res.Ticks))
			for _, s := range res.AgentStats {
				r.cfg.Telemetry.ActionsAttempted.Add(float64(s.Attempted))
				r.cfg.Telemetry.ActionsSucceeded.Add(float64(s.Succeeded))
				r.cfg.Telemetry.ActionsFailed.Add(float64(s.Failed))
			}
		}

		if r.cfg.LogPath != "" {
			r.appendLog(RoundResult{
				Round: i + 1, Seed: seed, RunID: res.RunID,
				Success: res.Success, Result: status,
			})
		}
	}

	fmt.Println(strings.Repeat("─", 72))

	return &Report{
		ScenarioName: r.cfg.Scenario.Name,
		Seeds:        r.cfg.Seeds,
		Runs:         runs,
		Stats:        aggregateStats(runs),
		WorstRuns:    worstRuns(runs, 3),
	}, nil
}

func (r *Runner) appendLog(entry RoundResult) {
	if err := os.MkdirAll(filepath.Dir(r.cfg.LogPath), 0o755); err != nil {
		return
	}
	f, err := os.OpenFile(r.cfg.LogPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return
	}
	defer f.Close()
	data, err := json.Marshal(entry)
	if err != nil {
		return
	}
	_, _ = f.WriteString(string(data) + "\n")
}

// aggregateStats computes MetricStats across runs for every metric name
// that appears as a float-coercible final metric in at least one run.
func aggregateStats(runs []*engine.RunResult) map[string]MetricStats {
	values := map[string][]float64{}
	for _, run := range runs {
		for name, v := range run.FinalMetrics {
			f, err := v.AsFloat()
			if err != nil {
				continue
			}
			values[name] = append(values[name], f)
		}
	}
	out := make(map[string]MetricStats, len(values))
	for name, vs := range values {
		out[name] = ComputeStats(vs)
	}
	return out
}

// worstRuns ranks runs by success rate (succeeded attempts / attempted
// attempts, summed across agents) ascending, returning up to n entries.
func worstRuns(runs []*engine.RunResult, n int) []WorstRun {
	out := make([]WorstRun, 0, len(runs))
	for _, run := range runs {
		var attempted, succeeded uint64
		for _, s := range run.AgentStats {
			attempted += s.Attempted
			succeeded += s.Succeeded
		}
		// spec: total_succeeded / max(1, total_attempted) — a run where
		// every agent skipped every tick ranks as tied-for-worst, not as
		// a perfect run.
		rate := float64(succeeded) / float64(max64(1, attempted))
		out = append(out, WorstRun{RunID: run.RunID, Seed: run.Seed, SuccessRate: rate})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SuccessRate < out[j].SuccessRate })
	if len(out) > n {
		out = out[:n]
	}
	return out
}

func max64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}
