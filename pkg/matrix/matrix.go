// Package matrix runs one base scenario under several named variants —
// each a shallow-merge override over the base — across a shared seed
// set, then compares variants pairwise on their averaged metrics.
// Grounded on the same fuzz round-loop idiom as pkg/sweep, generalized
// from "one seed per round" to "one (variant, seed) pair per round."
package matrix

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jihwankim/agentforge/internal/clock"
	"github.com/jihwankim/agentforge/pkg/engine"
	"github.com/jihwankim/agentforge/pkg/rflog"
	"github.com/jihwankim/agentforge/pkg/scenario"
	"github.com/jihwankim/agentforge/pkg/sweep"
	"github.com/jihwankim/agentforge/pkg/telemetry"
)

// Variant names an override applied shallowly over the base scenario.
// Only the fields set here replace the base's; zero-valued fields are
// left untouched (Agents, when non-nil, replaces the base's population
// wholesale rather than merging element-by-element).
type Variant struct {
	Name        string
	Seed        *int64
	Ticks       *uint64
	TickSeconds *float64
	Agents      []scenario.AgentConfig
	Assertions  []scenario.Assertion
}

// Apply returns a new scenario equal to base with this variant's
// non-nil/non-empty fields overlaid, and its Name composed as
// "<base>-<variant_name>" per the naming rule.
func (v Variant) Apply(base *scenario.Scenario) *scenario.Scenario {
	out := *base
	out.Name = fmt.Sprintf("%s-%s", base.Name, v.Name)
	if v.Seed != nil {
		out.Seed = *v.Seed
	}
	if v.Ticks != nil {
		out.Ticks = *v.Ticks
	}
	if v.TickSeconds != nil {
		out.TickSeconds = *v.TickSeconds
	}
	if v.Agents != nil {
		out.Agents = v.Agents
	}
	if v.Assertions != nil {
		out.Assertions = v.Assertions
	}
	return &out
}

// Config configures one matrix invocation.
type Config struct {
	Base        *scenario.Scenario
	Variants    []Variant
	PackFactory sweep.PackFactory
	Registry    engine.Registry
	Seeds       []int64
	OutDir      string
	CI          bool
	Telemetry   *telemetry.Registry // optional; nil disables metric recording
}

// VariantResult holds one variant's runs across the seed set and its
// averaged final metrics.
type VariantResult struct {
	Name           string
	Runs           []*engine.RunResult
	AveragedMetric map[string]float64
}

// Comparison is one pairwise delta between two variants' averaged
// metrics, for every metric name present in either (a metric missing
// from one variant counts as 0 there).
type Comparison struct {
	VariantA, VariantB string
	Metric             string
	ValueA, ValueB     float64
	Delta              float64
	PercentChange      float64 // 100 * (B - A) / |A|; 0 if A and B are 0, 100 if only A is 0
}

// Report is the full matrix output.
type Report struct {
	Variants    []VariantResult
	Comparisons []Comparison
}

// Runner runs a Config's variants × seeds and produces a Report.
type Runner struct {
	cfg    Config
	logger *rflog.Logger
}

// NewRunner builds a Runner.
func NewRunner(cfg Config, logger *rflog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Run executes every variant across every seed, in variant-major order.
func (r *Runner) Run() (*Report, error) {
	total := len(r.cfg.Variants) * len(r.cfg.Seeds)
	fmt.Printf("Matrix: %d variant(s) x %d seed(s) = %d run(s)\n",
		len(r.cfg.Variants), len(r.cfg.Seeds), total)
	fmt.Println(strings.Repeat("─", 72))

	results := make([]VariantResult, 0, len(r.cfg.Variants))
	n := 0
	for _, v := range r.cfg.Variants {
		sc := v.Apply(r.cfg.Base)
		runs := make([]*engine.RunResult, 0, len(r.cfg.Seeds))
		for _, seed := range r.cfg.Seeds {
			n++
			fmt.Printf("[%d/%d] variant=%s seed=%d\n", n, total, v.Name, seed)

			e := engine.New(r.logger, clock.Real{})
			seedCopy := seed
			res, err := e.Run(sc, r.cfg.PackFactory(), r.cfg.Registry, engine.Options{
				Seed:   &seedCopy,
				OutDir: r.cfg.OutDir,
				CI:     r.cfg.CI,
			})
			if err != nil {
				return nil, fmt.Errorf("matrix: variant %s seed %d: %w", v.Name, seed, err)
			}
			runs = append(runs, res)

			if r.cfg.Telemetry != nil {
				status := "passed"
				if !res.Success {
					status = "failed"
				}
				r.cfg.Telemetry.RecordRun(status)
				r.cfg.Telemetry.TicksProcessed.Add(float64(res.Ticks))
				for _, s := range res.AgentStats {
					r.cfg.Telemetry.ActionsAttempted.Add(float64(s.Attempted))
					r.cfg.Telemetry.ActionsSucceeded.Add(float64(s.Succeeded))
					r.cfg.Telemetry.ActionsFailed.Add(float64(s.Failed))
				}
			}
		}
		results = append(results, VariantResult{
			Name:           v.Name,
			Runs:           runs,
			AveragedMetric: averageMetrics(runs),
		})
	}

	fmt.Println(strings.Repeat("─", 72))

	return &Report{
		Variants:    results,
		Comparisons: pairwiseCompare(results),
	}, nil
}

func averageMetrics(runs []*engine.RunResult) map[string]float64 {
	sums := map[string]float64{}
	counts := map[string]int{}
	for _, run := range runs {
		for name, v := range run.FinalMetrics {
			f, err := v.AsFloat()
			if err != nil {
				continue
			}
			sums[name] += f
			counts[name]++
		}
	}
	out := make(map[string]float64, len(sums))
	for name, sum := range sums {
		out[name] = sum / float64(counts[name])
	}
	return out
}

// pairwiseCompare compares every unordered pair of variants on every
// metric present in either, per spec: delta = avg_B - avg_A,
// percent_change = 100*delta/|avg_A| (0 if both averages are 0, 100 if
// avg_A=0 and avg_B!=0).
func pairwiseCompare(results []VariantResult) []Comparison {
	var out []Comparison
	for i := 0; i < len(results); i++ {
		for j := i + 1; j < len(results); j++ {
			a, b := results[i], results[j]
			seen := map[string]bool{}
			names := make([]string, 0)
			for name := range a.AveragedMetric {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
			for name := range b.AveragedMetric {
				if !seen[name] {
					seen[name] = true
					names = append(names, name)
				}
			}
			sort.Strings(names)
			for _, name := range names {
				va, vb := a.AveragedMetric[name], b.AveragedMetric[name]
				delta := vb - va
				pct := percentChange(va, vb, delta)
				out = append(out, Comparison{
					VariantA: a.Name, VariantB: b.Name, Metric: name,
					ValueA: va, ValueB: vb, Delta: delta, PercentChange: pct,
				})
			}
		}
	}
	return out
}

// percentChange implements 100*delta/|avg_A|, with the spec's two
// explicit zero-avg_A special cases.
func percentChange(avgA, avgB, delta float64) float64 {
	if avgA == 0 {
		if avgB == 0 {
			return 0
		}
		return 100
	}
	abs := avgA
	if abs < 0 {
		abs = -abs
	}
	return 100 * delta / abs
}
