package harness

import (
	"errors"
	"fmt"

	"github.com/roach88/condition/condition"
	"github.com/roach88/condition/criteria"
	"github.com/roach88/condition/metamodel"
)

// ErrInvalidStep is wrapped by specification errors caused by a malformed
// step rather than by the metamodel.
var ErrInvalidStep = errors.New("invalid step")

// Probe is the probe type of harness scenarios.
type Probe = map[string]any

// LoadEntity compiles the scenario schema and returns its entity.
func (s *Scenario) LoadEntity() (*metamodel.Entity, error) {
	schema, err := metamodel.LoadFile(s.Schema)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	e, ok := schema.Entity(s.Entity)
	if !ok {
		return nil, fmt.Errorf("entity %q not found in %s", s.Entity, s.Schema)
	}
	return e, nil
}

// Specification returns the specification described by the scenario: a
// fresh Condition over the probe with the steps applied in order.
func (s *Scenario) Specification(opts ...condition.Option) criteria.Specification {
	probe := s.Probe
	if probe == nil {
		probe = Probe{}
	}

	return func(root criteria.Root, query criteria.Query, cb criteria.Builder) (criteria.Predicate, error) {
		var stepErr error
		hook := func(_ criteria.Root, _ criteria.Query, _ criteria.Builder, c *condition.Condition[Probe]) {
			for i, step := range s.Steps {
				preds, err := buildPredicates(c, step.Predicates)
				if err != nil {
					stepErr = fmt.Errorf("%w: step %d: %v", ErrInvalidStep, i, err)
					return
				}
				if step.Clause == ClauseOr {
					c.ClauseOr(preds...)
				} else {
					c.ClauseAnd(preds...)
				}
			}
		}

		p, err := condition.SpecifyWith(probe, opts, hook)(root, query, cb)
		if stepErr != nil {
			return nil, stepErr
		}
		return p, err
	}
}

// buildPredicates evaluates the predicate steps of one clause.
func buildPredicates(c *condition.Condition[Probe], steps []PredicateStep) ([]criteria.Predicate, error) {
	var out []criteria.Predicate
	for _, p := range steps {
		switch p.Op {
		case OpEquals:
			switch {
			case p.Include != nil:
				out = append(out, c.EqualsInclude(p.Include...)...)
			case p.Exclude != nil:
				out = append(out, c.EqualsExclude(p.Exclude...)...)
			default:
				out = append(out, c.Equals()...)
			}
		case OpLikes:
			switch {
			case p.Include != nil:
				out = append(out, c.LikesInclude(p.Include...)...)
			case p.Exclude != nil:
				out = append(out, c.LikesExclude(p.Exclude...)...)
			default:
				out = append(out, c.Likes()...)
			}
		case OpOrEqual:
			out = append(out, c.OrEqualInclude(p.Include...))
		case OpBetween:
			out = append(out, c.Between(p.Name))
		default:
			op, err := condition.ParseOperator(p.Op)
			if err != nil {
				return nil, err
			}
			from := p.From
			if from == "" {
				from = p.Name
			}
			out = append(out, c.PredicateFrom(op, p.Name, from))
		}
	}
	return out, nil
}
