package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"
)

// Snapshot captures the observable outcome of a scenario.
// All fields use canonical JSON serialization for deterministic comparison.
type Snapshot struct {
	ScenarioName string
	Result       *Result
}

// toCanonicalMap converts a Snapshot to a map[string]any for canonical JSON
// serialization. Validation errors and the pass flag are not part of the
// snapshot.
func (s *Snapshot) toCanonicalMap() map[string]any {
	trace := make([]any, len(s.Result.Trace))
	for i, event := range s.Result.Trace {
		trace[i] = map[string]any{
			"op":        event.Op,
			"attribute": event.Attribute,
			"predicate": event.Predicate,
		}
	}

	out := map[string]any{
		"scenario_name": s.ScenarioName,
		"where":         s.Result.Where,
		"args":          s.Result.Args,
		"trace":         trace,
	}
	if s.Result.Rows != nil {
		out["rows"] = s.Result.Rows
	}
	if s.Result.Error != "" {
		out["error"] = s.Result.Error
	}
	if len(s.Result.Warnings) > 0 {
		out["warnings"] = s.Result.Warnings
	}
	return out
}

// Marshal renders the snapshot as canonical JSON followed by a newline.
func (s *Snapshot) Marshal() ([]byte, error) {
	data, err := MarshalCanonical(s.toCanonicalMap())
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// RunWithGolden executes a scenario, fails the test on unmet expectations
// and compares the snapshot against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, msg := range result.Errors {
		t.Error(msg)
	}

	return AssertGolden(t, scenario.Name, result)
}

// AssertGolden compares a result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, scenarioName string, result *Result) error {
	t.Helper()

	snapshot := Snapshot{ScenarioName: scenarioName, Result: result}
	data, err := snapshot.Marshal()
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenarioName, data)

	return nil
}
