package rng

import "fmt"

// Error is satisfied by every rng-level error kind; Kind returns a
// stable code so callers and structured logs can branch on it without
// string-matching Error().
type Error interface {
	error
	Kind() string
}

// InvalidRangeError is returned by IntRange when min > max.
type InvalidRangeError struct{ Min, Max int64 }

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("rng: invalid range [%d, %d]: min > max", e.Min, e.Max)
}
func (e *InvalidRangeError) Kind() string { return "InvalidRange" }

// EmptySequenceError is returned by PickIndex when n <= 0.
type EmptySequenceError struct{ N int }

func (e *EmptySequenceError) Error() string {
	return fmt.Sprintf("rng: cannot pick from an empty sequence (n=%d)", e.N)
}
func (e *EmptySequenceError) Kind() string { return "EmptySequence" }

// ZeroWeightError is returned by WeightedIndex when the weights are
// empty or their total is not positive.
type ZeroWeightError struct{ Total float64 }

func (e *ZeroWeightError) Error() string {
	return fmt.Sprintf("rng: weighted pick requires a positive total weight, got %v", e.Total)
}
func (e *ZeroWeightError) Kind() string { return "ZeroWeight" }
