package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/roach88/condition/condition"
)

// Scenario defines a synthesizer test scenario.
type Scenario struct {
	// Name uniquely identifies this scenario and its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Schema is the path of the CUE entity schema.
	// Relative paths are resolved against the scenario file location.
	Schema string `yaml:"schema"`

	// Entity names the schema entity the predicate is built for.
	Entity string `yaml:"entity"`

	// Probe holds the example values. Null and missing keys are absent.
	Probe map[string]any `yaml:"probe"`

	// Steps are applied to one Condition in order.
	Steps []Step `yaml:"steps"`

	// Rows are seeded into the entity table before selecting.
	// Keys are attribute names; every row must carry the entity key.
	Rows []map[string]any `yaml:"rows,omitempty"`

	// Expect is the expected outcome.
	Expect Expect `yaml:"expect"`
}

// Step is one clause call on the accumulator.
type Step struct {
	// Clause is "and" (ClauseAnd) or "or" (ClauseOr).
	Clause string `yaml:"clause"`

	// Predicates are built and passed to the clause call.
	Predicates []PredicateStep `yaml:"predicates"`
}

// PredicateStep builds one or more predicates.
type PredicateStep struct {
	// Op is a bulk op (equals, likes, or_equal), between, or an operator
	// name accepted by condition.ParseOperator.
	Op string `yaml:"op"`

	// Name is the attribute of between and operator ops.
	Name string `yaml:"name,omitempty"`

	// From is the probe property valuing an operator op. Default: Name.
	From string `yaml:"from,omitempty"`

	// Include restricts a bulk op to these attributes. A nil Include means
	// the key is absent; an empty one keeps no attribute.
	Include []string `yaml:"include,omitempty"`

	// Exclude removes these attributes from a bulk op. Nil when absent.
	Exclude []string `yaml:"exclude,omitempty"`
}

// Expect specifies the expected outcome of a scenario.
type Expect struct {
	// Where is the expected WHERE SQL. Nil skips the check; "" expects no
	// restriction.
	Where *string `yaml:"where,omitempty"`

	// Args are the expected bound arguments.
	Args []any `yaml:"args,omitempty"`

	// Rows are the expected matching keys. Checked when rows are seeded.
	Rows []string `yaml:"rows,omitempty"`

	// Error is a substring of the expected specification error.
	Error string `yaml:"error,omitempty"`
}

// Step clause and bulk op names.
const (
	ClauseAnd = "and"
	ClauseOr  = "or"

	OpEquals  = "equals"
	OpLikes   = "likes"
	OpOrEqual = "or_equal"
	OpBetween = "between"
)

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Parse YAML with strict field validation (catches typos like "step:" vs "steps:")
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Resolve the schema path relative to the scenario BEFORE validation
	if scenario.Schema != "" && !filepath.IsAbs(scenario.Schema) {
		scenario.Schema = filepath.Join(filepath.Dir(path), scenario.Schema)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml scenario in dir, ordered by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("failed to list scenarios: %w", err)
	}

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Schema == "" {
		return fmt.Errorf("schema is required")
	}
	if _, err := os.Stat(s.Schema); os.IsNotExist(err) {
		return fmt.Errorf("schema file not found: %s", s.Schema)
	}

	if s.Entity == "" {
		return fmt.Errorf("entity is required")
	}

	if len(s.Steps) == 0 {
		return fmt.Errorf("steps list is required and must be non-empty")
	}

	for i, step := range s.Steps {
		if err := validateStep(i, &step); err != nil {
			return err
		}
	}

	if len(s.Rows) > 0 && s.Expect.Error != "" {
		return fmt.Errorf("expect: rows cannot be checked when an error is expected")
	}

	return nil
}

func validateStep(index int, step *Step) error {
	if step.Clause != ClauseAnd && step.Clause != ClauseOr {
		return fmt.Errorf("steps[%d]: clause must be %q or %q, got %q", index, ClauseAnd, ClauseOr, step.Clause)
	}
	if len(step.Predicates) == 0 {
		return fmt.Errorf("steps[%d]: predicates list is required and must be non-empty", index)
	}
	for j, p := range step.Predicates {
		if err := validatePredicate(&p); err != nil {
			return fmt.Errorf("steps[%d].predicates[%d]: %w", index, j, err)
		}
	}
	return nil
}

func validatePredicate(p *PredicateStep) error {
	switch p.Op {
	case "":
		return fmt.Errorf("op is required")
	case OpEquals, OpLikes:
		if p.Include != nil && p.Exclude != nil {
			return fmt.Errorf("%s: include and exclude are mutually exclusive", p.Op)
		}
	case OpOrEqual:
		if p.Include == nil {
			return fmt.Errorf("%s: include is required", p.Op)
		}
	case OpBetween:
		if p.Name == "" {
			return fmt.Errorf("%s: name is required", p.Op)
		}
	default:
		if _, err := condition.ParseOperator(p.Op); err != nil {
			return err
		}
		if p.Name == "" {
			return fmt.Errorf("%s: name is required", p.Op)
		}
	}
	return nil
}
