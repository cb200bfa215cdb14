package matrix

import "testing"

func TestPercentChangeUsesAbsoluteOfAvgA(t *testing.T) {
	// avg_A negative: percent_change = 100*delta/|avg_A|, not 100*delta/avg_A,
	// so a more-negative avg_B (a bigger swing in the same direction as
	// avg_A) must not flip to a positive percent_change.
	avgA, avgB := -10.0, -20.0
	delta := avgB - avgA // -10
	got := percentChange(avgA, avgB, delta)
	want := 100.0 * delta / 10.0 // |avg_A| = 10
	if got != want {
		t.Fatalf("percentChange(%v, %v, %v) = %v, want %v", avgA, avgB, delta, got, want)
	}
	if got >= 0 {
		t.Fatalf("expected a negative percent_change for a more-negative avg_B, got %v", got)
	}
}

func TestPercentChangeZeroAvgA(t *testing.T) {
	if got := percentChange(0, 0, 0); got != 0 {
		t.Fatalf("percentChange(0,0,0) = %v, want 0", got)
	}
	if got := percentChange(0, 5, 5); got != 100 {
		t.Fatalf("percentChange(0,5,5) = %v, want 100", got)
	}
}

func TestPairwiseCompareUnionsMetricSets(t *testing.T) {
	results := []VariantResult{
		{Name: "a", AveragedMetric: map[string]float64{"shared": 10, "onlyA": 4}},
		{Name: "b", AveragedMetric: map[string]float64{"shared": 20, "onlyB": 6}},
	}
	cmps := pairwiseCompare(results)
	names := map[string]bool{}
	for _, c := range cmps {
		names[c.Metric] = true
	}
	if !names["shared"] || !names["onlyA"] || !names["onlyB"] {
		t.Fatalf("expected union of metric names (shared, onlyA, onlyB), got %+v", names)
	}
}
