package condition

import (
	"fmt"

	"github.com/roach88/condition/criteria"
)

// Operator selects the comparison a per-attribute predicate performs.
type Operator int

const (
	OpEqual Operator = iota
	OpLikeContains
	OpLikePrefix
	OpLikeSuffix
	OpGreaterThan
	OpGreaterThanOrEqualTo
	OpLessThan
	OpLessThanOrEqualTo
)

var operatorNames = [...]string{
	OpEqual:                "EQ",
	OpLikeContains:         "LIKE_CONTAINS",
	OpLikePrefix:           "LIKE_PREFIX",
	OpLikeSuffix:           "LIKE_SUFFIX",
	OpGreaterThan:          "GT",
	OpGreaterThanOrEqualTo: "GE",
	OpLessThan:             "LT",
	OpLessThanOrEqualTo:    "LE",
}

// String returns the operator name, e.g. "EQ" or "LIKE_PREFIX".
func (op Operator) String() string {
	if op < 0 || int(op) >= len(operatorNames) {
		return fmt.Sprintf("Operator(%d)", int(op))
	}
	return operatorNames[op]
}

// ParseOperator is the inverse of Operator.String.
func ParseOperator(name string) (Operator, error) {
	for i, n := range operatorNames {
		if n == name {
			return Operator(i), nil
		}
	}
	return 0, fmt.Errorf("unknown operator %q", name)
}

// PredicateFunc builds a predicate comparing a column to a probe value.
type PredicateFunc func(x criteria.Expression, v any) criteria.Predicate

// dispatch maps each operator to the builder method it calls.
var dispatch = [...]func(cb criteria.Builder) PredicateFunc{
	OpEqual: func(cb criteria.Builder) PredicateFunc { return cb.Equal },
	OpLikeContains: func(cb criteria.Builder) PredicateFunc {
		return func(x criteria.Expression, v any) criteria.Predicate {
			return cb.Like(x, "%"+fmt.Sprint(v)+"%")
		}
	},
	OpLikePrefix: func(cb criteria.Builder) PredicateFunc {
		return func(x criteria.Expression, v any) criteria.Predicate {
			return cb.Like(x, fmt.Sprint(v)+"%")
		}
	},
	OpLikeSuffix: func(cb criteria.Builder) PredicateFunc {
		return func(x criteria.Expression, v any) criteria.Predicate {
			return cb.Like(x, "%"+fmt.Sprint(v))
		}
	},
	OpGreaterThan:          func(cb criteria.Builder) PredicateFunc { return cb.GreaterThan },
	OpGreaterThanOrEqualTo: func(cb criteria.Builder) PredicateFunc { return cb.GreaterThanOrEqualTo },
	OpLessThan:             func(cb criteria.Builder) PredicateFunc { return cb.LessThan },
	OpLessThanOrEqualTo:    func(cb criteria.Builder) PredicateFunc { return cb.LessThanOrEqualTo },
}

// Bind returns the predicate function of op on cb, or nil for an unknown
// operator.
func (op Operator) Bind(cb criteria.Builder) PredicateFunc {
	if op < 0 || int(op) >= len(dispatch) {
		return nil
	}
	return dispatch[op](cb)
}
