package engine

import (
	"fmt"
	"math/big"

	"github.com/jihwankim/agentforge/pkg/metrics"
	"github.com/jihwankim/agentforge/pkg/scenario"
)

// AssertionVerdict is one evaluated assertion, included in summary.json's
// failedAssertions array when it did not pass.
type AssertionVerdict struct {
	Op          string
	Metric      string
	Target      interface{}
	ActualValue interface{}
	Message     string
	Passed      bool
}

// EvaluateAssertions checks every assertion against final, returning the
// full list of verdicts (for logging) and whether all of them passed.
func EvaluateAssertions(assertions []scenario.Assertion, final map[string]metrics.Value) ([]AssertionVerdict, bool) {
	verdicts := make([]AssertionVerdict, 0, len(assertions))
	allPassed := true
	for _, a := range assertions {
		v := evaluateOne(a, final)
		verdicts = append(verdicts, v)
		if !v.Passed {
			allPassed = false
		}
	}
	return verdicts, allPassed
}

func evaluateOne(a scenario.Assertion, final map[string]metrics.Value) AssertionVerdict {
	mv, ok := final[a.Metric]
	if !ok {
		return AssertionVerdict{
			Op:      a.Op,
			Metric:  a.Metric,
			Target:  a.Value,
			Message: fmt.Sprintf("metric %q not found", a.Metric),
			Passed:  false,
		}
	}

	// Design decision (c): prefer an exact big-integer comparison when the
	// metric is a big-integer and the target is representable as an exact
	// integer, rather than always going through a lossy float coercion.
	if bigVal, ok := mv.BigIntValue(); ok {
		if targetInt, exact := exactIntTarget(a.Value); exact {
			passed := compareBigInt(a.Op, bigVal, targetInt)
			return AssertionVerdict{
				Op: a.Op, Metric: a.Metric, Target: a.Value,
				ActualValue: bigVal.String(), Passed: passed,
				Message: failMessage(passed, a),
			}
		}
	}

	actual, err := mv.AsFloat()
	if err != nil {
		return AssertionVerdict{
			Op: a.Op, Metric: a.Metric, Target: a.Value,
			Message: fmt.Sprintf("cannot coerce metric %q to a comparable value: %v", a.Metric, err),
			Passed:  false,
		}
	}
	target, err := toFloat(a.Value)
	if err != nil {
		return AssertionVerdict{
			Op: a.Op, Metric: a.Metric, Target: a.Value,
			ActualValue: actual,
			Message:     fmt.Sprintf("cannot coerce assertion target to a comparable value: %v", err),
			Passed:      false,
		}
	}

	passed := compareFloat(a.Op, actual, target)
	return AssertionVerdict{
		Op: a.Op, Metric: a.Metric, Target: a.Value,
		ActualValue: actual, Passed: passed,
		Message: failMessage(passed, a),
	}
}

func failMessage(passed bool, a scenario.Assertion) string {
	if passed {
		return ""
	}
	return fmt.Sprintf("assertion %s %s %v failed", a.Metric, a.Op, a.Value)
}

func compareFloat(op string, actual, target float64) bool {
	switch op {
	case "eq":
		return actual == target
	case "gt":
		return actual > target
	case "gte":
		return actual >= target
	case "lt":
		return actual < target
	case "lte":
		return actual <= target
	default:
		return false
	}
}

func compareBigInt(op string, actual *big.Int, target *big.Int) bool {
	cmp := actual.Cmp(target)
	switch op {
	case "eq":
		return cmp == 0
	case "gt":
		return cmp > 0
	case "gte":
		return cmp >= 0
	case "lt":
		return cmp < 0
	case "lte":
		return cmp <= 0
	default:
		return false
	}
}

// exactIntTarget reports whether v is exactly representable as a
// *big.Int (an int-kinded Go value, or a float64/string with no
// fractional part), returning that integer when it is.
func exactIntTarget(v interface{}) (*big.Int, bool) {
	switch t := v.(type) {
	case int:
		return big.NewInt(int64(t)), true
	case int64:
		return big.NewInt(t), true
	case float64:
		if t == float64(int64(t)) {
			return big.NewInt(int64(t)), true
		}
	case string:
		if n, ok := new(big.Int).SetString(t, 10); ok {
			return n, true
		}
	}
	return nil, false
}

func toFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		var f float64
		_, err := fmt.Sscanf(t, "%g", &f)
		if err != nil {
			return 0, err
		}
		return f, nil
	default:
		return 0, fmt.Errorf("unsupported assertion target type %T", v)
	}
}
