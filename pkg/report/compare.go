package report

import (
	"fmt"
	"sort"

	"github.com/jihwankim/agentforge/pkg/artifact"
)

// MetricDiff is one final-metric's values in each run, as rendered
// strings (final metrics may be numbers, big-integer decimal strings,
// or plain strings — compare reports them as-is rather than coercing).
type MetricDiff struct {
	Name  string
	A, B  interface{}
	Equal bool
}

// CountDiff is one key's count (action name or revert reason) in each
// run.
type CountDiff struct {
	Key  string
	A, B int
}

// Comparison is the full two-run comparison result.
type Comparison struct {
	RunA, RunB         string
	ScenarioMatch      bool
	SeedMatch          bool
	SuccessA, SuccessB bool
	MetricDiffs        []MetricDiff
	ActionFrequency    []CountDiff
	RevertReasons      []CountDiff
	FingerprintA       artifact.Fingerprint
	FingerprintB       artifact.Fingerprint
	Deterministic      bool
}

// Compare builds a Comparison between two loaded runs.
func Compare(a, b *RunArtifacts) (*Comparison, error) {
	fpA, err := a.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("report: fingerprint run A: %w", err)
	}
	fpB, err := b.Fingerprint()
	if err != nil {
		return nil, fmt.Errorf("report: fingerprint run B: %w", err)
	}

	return &Comparison{
		RunA:            a.Summary.RunID,
		RunB:            b.Summary.RunID,
		ScenarioMatch:   a.Summary.ScenarioName == b.Summary.ScenarioName,
		SeedMatch:       a.Summary.Seed == b.Summary.Seed,
		SuccessA:        a.Summary.Success,
		SuccessB:        b.Summary.Success,
		MetricDiffs:     diffMetrics(a.Summary.FinalMetrics, b.Summary.FinalMetrics),
		ActionFrequency: diffCounts(a.actionFrequency(), b.actionFrequency()),
		RevertReasons:   diffCounts(a.revertReasons(), b.revertReasons()),
		FingerprintA:    fpA,
		FingerprintB:    fpB,
		Deterministic:   fpA.Equal(fpB),
	}, nil
}

func diffMetrics(a, b map[string]interface{}) []MetricDiff {
	names := unionKeys(a, b)
	out := make([]MetricDiff, 0, len(names))
	for _, name := range names {
		va, vb := a[name], b[name]
		out = append(out, MetricDiff{Name: name, A: va, B: vb, Equal: fmt.Sprint(va) == fmt.Sprint(vb)})
	}
	return out
}

func diffCounts(a, b map[string]int) []CountDiff {
	keys := map[string]struct{}{}
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	out := make([]CountDiff, 0, len(names))
	for _, name := range names {
		out = append(out, CountDiff{Key: name, A: a[name], B: b[name]})
	}
	return out
}

func unionKeys(a, b map[string]interface{}) []string {
	keys := map[string]struct{}{}
	for k := range a {
		keys[k] = struct{}{}
	}
	for k := range b {
		keys[k] = struct{}{}
	}
	names := make([]string, 0, len(keys))
	for k := range keys {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
