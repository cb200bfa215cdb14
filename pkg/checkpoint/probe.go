// Package checkpoint implements the periodic state-snapshot writer and
// the probe sampler (computed / call / balance probes) that feed it.
package checkpoint

import (
	"fmt"

	"github.com/jihwankim/agentforge/pkg/pack"
)

// ProbeKind identifies which of the three probe shapes a Probe is.
type ProbeKind int

const (
	// ProbeComputed evaluates a pure function of (pack, already-sampled
	// probes this tick). Later probes may reference earlier ones by name.
	ProbeComputed ProbeKind = iota
	// ProbeCall looks up "<target>.<method>" in pack.WorldState().
	ProbeCall
	// ProbeBalance looks up a conventional balance key in pack.Metrics().
	ProbeBalance
)

// ComputedFunc is the signature for a computed probe. already holds the
// values of probes declared earlier in the same sampling pass, keyed by
// probe name.
type ComputedFunc func(p pack.Pack, already map[string]interface{}) (interface{}, error)

// Probe is one configured probe. Exactly one of Fn (for ProbeComputed),
// (Target, Method) (for ProbeCall), or (Addresses, Token) (for
// ProbeBalance) is meaningful, selected by Kind.
type Probe struct {
	Name string
	Kind ProbeKind

	Fn Func

	Target string
	Method string

	Addresses []string
	Token     string
}

// Func is an alias kept for readability at call sites configuring
// ProbeComputed entries.
type Func = ComputedFunc

// Sampler evaluates probes in declaration order, catching any failure so
// that a single bad probe degrades to a null value rather than aborting
// the rest of the sampling pass.
type Sampler struct {
	Probes []Probe
	warn   func(msg string)
}

// NewSampler builds a Sampler. warn, if non-nil, is called with a
// message whenever a probe fails; callers typically wire this to their
// structured logger.
func NewSampler(probes []Probe, warn func(msg string)) *Sampler {
	if warn == nil {
		warn = func(string) {}
	}
	return &Sampler{Probes: probes, warn: warn}
}

// Sample evaluates every configured probe in declaration order against
// p, returning a map of probe name to value (nil on failure). Probes
// declared later may read earlier probes' already-computed values via
// ComputedFunc's `already` argument; a probe depending on one declared
// after it sees no entry for that name (receives absence, per spec).
func (s *Sampler) Sample(p pack.Pack) map[string]interface{} {
	result := make(map[string]interface{}, len(s.Probes))
	for _, probe := range s.Probes {
		val, err := s.evaluate(probe, p, result)
		if err != nil {
			s.warn(fmt.Sprintf("probe %q failed: %v", probe.Name, err))
			result[probe.Name] = nil
			continue
		}
		result[probe.Name] = val
	}
	return result
}

func (s *Sampler) evaluate(probe Probe, p pack.Pack, already map[string]interface{}) (val interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	switch probe.Kind {
	case ProbeComputed:
		if probe.Fn == nil {
			return nil, fmt.Errorf("computed probe %q has no function", probe.Name)
		}
		return probe.Fn(p, already)

	case ProbeCall:
		key := probe.Target + "." + probe.Method
		ws := p.WorldState()
		v, ok := ws[key]
		if !ok {
			return nil, nil
		}
		return v, nil

	case ProbeBalance:
		m := p.Metrics()
		var out []interface{}
		for _, addr := range probe.Addresses {
			key := balanceKey(addr, probe.Token)
			if v, ok := m[key]; ok {
				jv, jerr := v.JSON()
				if jerr != nil {
					return nil, jerr
				}
				out = append(out, jv)
			} else {
				out = append(out, nil)
			}
		}
		if len(probe.Addresses) == 1 {
			return out[0], nil
		}
		return out, nil

	default:
		return nil, fmt.Errorf("unknown probe kind %d", probe.Kind)
	}
}

func balanceKey(addr, token string) string {
	if token == "" {
		return "balance_" + addr
	}
	return "balance_" + token + "_" + addr
}
