// Package sweep runs one scenario across many seeds, collects per-run
// results, and computes aggregate statistics and a tail-risk summary —
// grounded on the fuzz runner's round-loop shape (progress banners,
// per-round JSONL logging) generalized from fault rounds to simulation
// seeds. Seed 0 is an ordinary seed; nothing is auto-generated.
package sweep

import (
	"math"
	"sort"
)

// MetricStats is the min/max/mean/std-dev/percentile summary computed
// across one metric's values over a set of runs.
type MetricStats struct {
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	P05    float64
	P50    float64
	P95    float64
}

// ComputeStats summarizes values. An empty input returns the zero value.
func ComputeStats(values []float64) MetricStats {
	if len(values) == 0 {
		return MetricStats{}
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	mean := sum / float64(len(sorted))

	var variance float64
	for _, v := range sorted {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(sorted))

	return MetricStats{
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		Mean:   mean,
		StdDev: math.Sqrt(variance),
		P05:    percentile(sorted, 0.05),
		P50:    percentile(sorted, 0.50),
		P95:    percentile(sorted, 0.95),
	}
}

// percentile implements the ceiling-then-clamp rank rule decided in
// §9.2(b): rank = ceil(p * n), clamped to [1, n], 1-indexed into the
// sorted copy. This is the permanent default; a different convention
// would be a change to this one function, never to callers.
func percentile(sorted []float64, p float64) float64 {
	n := len(sorted)
	rank := int(math.Ceil(p * float64(n)))
	if rank < 1 {
		rank = 1
	}
	if rank > n {
		rank = n
	}
	return sorted[rank-1]
}
