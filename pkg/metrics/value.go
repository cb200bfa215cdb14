// Package metrics implements the tick-indexed metrics collector and the
// heterogeneous metric value type shared across the pack contract, the
// artifact writer, and assertion evaluation.
package metrics

import (
	"fmt"
	"math/big"
	"strconv"
)

// Kind identifies which variant a Value holds.
type Kind int

const (
	// KindFloat holds a float64.
	KindFloat Kind = iota
	// KindBigInt holds a *big.Int.
	KindBigInt
	// KindString holds a string.
	KindString
)

// Value is the three-variant sum type spec'd for metric values: a
// number, a big-integer, or a string. Construction happens only through
// the Float/BigInt/String constructors so a Value is never left in a
// zero state that doesn't correspond to one of the three variants. There
// is no implicit coercion anywhere on the write path — coercion happens
// only through AsFloat, which assertion evaluation (pkg/engine) and the
// sweep/matrix aggregates call when they compare or average values.
type Value struct {
	kind  Kind
	f     float64
	big   *big.Int
	str   string
}

// Float constructs a numeric metric value.
func Float(v float64) Value { return Value{kind: KindFloat, f: v} }

// BigInt constructs a big-integer metric value. The supplied value is not
// retained by reference mutation elsewhere; callers should not mutate it
// after passing it in.
func BigInt(v *big.Int) Value { return Value{kind: KindBigInt, big: v} }

// String constructs a string metric value.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Kind reports which variant this Value holds.
func (v Value) Kind() Kind { return v.kind }

// Float64 returns the float payload and whether the Value held KindFloat.
func (v Value) Float64() (float64, bool) {
	if v.kind != KindFloat {
		return 0, false
	}
	return v.f, true
}

// BigIntValue returns the big-integer payload and whether the Value held
// KindBigInt.
func (v Value) BigIntValue() (*big.Int, bool) {
	if v.kind != KindBigInt {
		return nil, false
	}
	return v.big, true
}

// StringValue returns the string payload and whether the Value held
// KindString.
func (v Value) StringValue() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.str, true
}

// CSVField renders the value the way metrics.csv requires: big integers
// as base-10 strings, floats via a compact decimal form, strings as-is.
func (v Value) CSVField() string {
	switch v.kind {
	case KindBigInt:
		if v.big == nil {
			return ""
		}
		return v.big.String()
	case KindString:
		return v.str
	default:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	}
}

// JSON renders the value for inclusion in a JSON document, matching the
// artifact contract's "big-integers as decimal strings" rule.
func (v Value) JSON() (interface{}, error) {
	switch v.kind {
	case KindBigInt:
		if v.big == nil {
			return nil, nil
		}
		return v.big.String(), nil
	case KindString:
		return v.str, nil
	case KindFloat:
		return v.f, nil
	default:
		return nil, fmt.Errorf("metrics: value has unknown kind %d", v.kind)
	}
}

// AsFloat coerces the value to float64 per the assertion-time coercion
// rule in the engine: big-integer via its mathematical value (lossy past
// 2^53), string parsed as float, number as itself.
func (v Value) AsFloat() (float64, error) {
	switch v.kind {
	case KindFloat:
		return v.f, nil
	case KindBigInt:
		if v.big == nil {
			return 0, fmt.Errorf("metrics: nil big-integer value")
		}
		f := new(big.Float).SetInt(v.big)
		out, _ := f.Float64()
		return out, nil
	case KindString:
		out, err := strconv.ParseFloat(v.str, 64)
		if err != nil {
			return 0, fmt.Errorf("metrics: cannot parse %q as float: %w", v.str, err)
		}
		return out, nil
	default:
		return 0, fmt.Errorf("metrics: value has unknown kind %d", v.kind)
	}
}
