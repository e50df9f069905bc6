package harness

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// AssertionError is returned when an expectation or assertion fails.
type AssertionError struct {
	Type     string
	Expected string
	Actual   string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s", e.Actual)
	return buf.String()
}

// checkExpectations compares every per-event expectation with the trace.
func checkExpectations(result *Result, expects []EventExpectation) []string {
	var errs []string
	fail := func(typ, expected, actual string) {
		errs = append(errs, (&AssertionError{Type: typ, Expected: expected, Actual: actual}).Error())
	}

	for _, exp := range expects {
		ev, found := result.find(exp.Event)

		if exp.Selected != nil && *exp.Selected != found {
			fail("selected",
				fmt.Sprintf("event %d selected=%t", exp.Event, *exp.Selected),
				fmt.Sprintf("selected=%t", found))
			continue
		}
		if !found {
			if exp.NominalWeight != nil || exp.DefaultWeight != nil || len(exp.RelWeights) > 0 {
				fail("weights",
					fmt.Sprintf("weights for event %d", exp.Event),
					"event not selected")
			}
			continue
		}

		if exp.NominalWeight != nil && !approxEqual(*exp.NominalWeight, ev.NominalWeight, DefaultTolerance) {
			fail("nominal_weight",
				fmt.Sprintf("event %d nominal weight %g", exp.Event, *exp.NominalWeight),
				fmt.Sprintf("%g", ev.NominalWeight))
		}
		if exp.DefaultWeight != nil && !approxEqual(*exp.DefaultWeight, ev.DefaultWeight, DefaultTolerance) {
			fail("default_weight",
				fmt.Sprintf("event %d default weight %g", exp.Event, *exp.DefaultWeight),
				fmt.Sprintf("%g", ev.DefaultWeight))
		}
		for _, name := range sortedNames(exp.RelWeights) {
			want := exp.RelWeights[name]
			got, ok := ev.RelWeights[name]
			switch {
			case !ok:
				fail("rel_weight",
					fmt.Sprintf("event %d variation %s", exp.Event, name),
					"no such variation")
			case !approxEqual(want, got, DefaultTolerance):
				fail("rel_weight",
					fmt.Sprintf("event %d %s = %g", exp.Event, name, want),
					fmt.Sprintf("%g", got))
			}
		}
	}
	return errs
}

// EvaluateAssertions checks run-level assertions against the result.
// Returns one message per failed assertion.
func EvaluateAssertions(result *Result, assertions []Assertion) []string {
	var errs []string
	for _, a := range assertions {
		if err := evaluateAssertion(result, a); err != nil {
			errs = append(errs, err.Error())
		}
	}
	return errs
}

func evaluateAssertion(result *Result, a Assertion) error {
	sum := result.Summary
	switch a.Type {
	case AssertSelectedCount:
		if got := int(sum.EventsSelected); got != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d selected events", a.Count),
				Actual:   fmt.Sprintf("%d selected events", got),
			}
		}
	case AssertCutflow:
		for _, step := range sum.Cutflow {
			if step.Filter != a.Filter {
				continue
			}
			if int(step.Passed) != a.Count {
				return &AssertionError{
					Type:     a.Type,
					Expected: fmt.Sprintf("%d events passing %s", a.Count, a.Filter),
					Actual:   fmt.Sprintf("%d events", step.Passed),
				}
			}
			return nil
		}
		return &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("filter %s in cutflow", a.Filter),
			Actual:   "no such filter",
		}
	case AssertWeightSum:
		tol := a.Tolerance
		if tol == 0 {
			tol = DefaultTolerance
		}
		if !approxEqual(a.Value, sum.WeightSum, tol) {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("weight sum %g ± %g", a.Value, tol),
				Actual:   fmt.Sprintf("%g", sum.WeightSum),
			}
		}
	case AssertVariationCount:
		if got := len(sum.Variations); got != a.Count {
			return &AssertionError{
				Type:     a.Type,
				Expected: fmt.Sprintf("%d variations", a.Count),
				Actual:   fmt.Sprintf("%d variations", got),
			}
		}
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	return nil
}

func approxEqual(want, got, tol float64) bool {
	return math.Abs(want-got) <= tol
}

func sortedNames(m map[string]float64) []string {
	names := make([]string, 0, len(m))
	for k := range m {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
