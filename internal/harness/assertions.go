package harness

import (
	"fmt"
	"strings"
)

// AssertionError is returned when an expectation fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Expectation name for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	if len(e.Trace) > 0 {
		fmt.Fprintf(&buf, "\nFull trace:\n")
		for i, event := range e.Trace {
			fmt.Fprintf(&buf, "  [%d] %s %s: %s\n", i+1, event.Op, event.Attribute, event.Predicate)
		}
	}

	return buf.String()
}

// EvaluateExpect checks a result against the scenario expectations.
// Returns one message per failed expectation.
func EvaluateExpect(result *Result, scenario *Scenario) []string {
	var errs []string
	add := func(err error) {
		if err != nil {
			errs = append(errs, err.Error())
		}
	}

	expect := scenario.Expect
	add(assertError(result, expect.Error))
	if expect.Error != "" {
		return errs
	}

	if expect.Where != nil {
		add(assertWhere(result, *expect.Where))
	}
	if expect.Where != nil || expect.Args != nil {
		add(assertArgs(result, expect.Args))
	}
	if len(scenario.Rows) > 0 {
		add(assertRows(result, expect.Rows))
	}
	return errs
}

func assertError(result *Result, expected string) error {
	switch {
	case expected == "" && result.Error == "":
		return nil
	case expected == "":
		return &AssertionError{
			Type:     "error",
			Expected: "no specification error",
			Actual:   result.Error,
			Trace:    result.Trace,
		}
	case !strings.Contains(result.Error, expected):
		actual := result.Error
		if actual == "" {
			actual = "no error"
		}
		return &AssertionError{
			Type:     "error",
			Expected: fmt.Sprintf("error containing %q", expected),
			Actual:   actual,
			Trace:    result.Trace,
		}
	}
	return nil
}

func assertWhere(result *Result, expected string) error {
	if result.Where == expected {
		return nil
	}
	return &AssertionError{
		Type:     "where",
		Expected: fmt.Sprintf("%q", expected),
		Actual:   fmt.Sprintf("%q", result.Where),
		Trace:    result.Trace,
	}
}

// assertArgs compares arguments by their canonical JSON, so YAML integers
// match int64 values.
func assertArgs(result *Result, expected []any) error {
	if expected == nil {
		expected = []any{}
	}
	want, err := MarshalCanonical(expected)
	if err != nil {
		return fmt.Errorf("expected args: %w", err)
	}
	got, err := MarshalCanonical(result.Args)
	if err != nil {
		return fmt.Errorf("actual args: %w", err)
	}
	if string(want) == string(got) {
		return nil
	}
	return &AssertionError{
		Type:     "args",
		Expected: string(want),
		Actual:   string(got),
		Trace:    result.Trace,
	}
}

func assertRows(result *Result, expected []string) error {
	if strings.Join(expected, ",") == strings.Join(result.Rows, ",") && len(expected) == len(result.Rows) {
		return nil
	}
	return &AssertionError{
		Type:     "rows",
		Expected: fmt.Sprintf("%v", expected),
		Actual:   fmt.Sprintf("%v", result.Rows),
		Trace:    result.Trace,
	}
}
