// Package squirrelhost implements the criteria contract on top of
// github.com/Masterminds/squirrel.
//
// Predicates are squirrel Sqlizers; roots and columns come from package
// metamodel. Select and Where run a criteria.Specification against an entity and
// return squirrel builders ready for execution.
package squirrelhost

import (
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/condition/criteria"
	"github.com/roach88/condition/metamodel"
)

// Predicate is a criteria.Predicate backed by a squirrel Sqlizer.
type Predicate struct {
	sq.Sqlizer
}

// String renders the predicate with its arguments inlined.
func (p Predicate) String() string {
	return sq.DebugSqlizer(p.Sqlizer)
}

// Sqlizer returns the squirrel form of a predicate produced by Builder.
// Foreign predicates yield a Sqlizer whose ToSql fails.
func Sqlizer(p criteria.Predicate) sq.Sqlizer {
	switch v := p.(type) {
	case Predicate:
		return v.Sqlizer
	case sq.Sqlizer:
		return v
	default:
		return invalid{err: fmt.Errorf("squirrelhost: foreign predicate %T", p)}
	}
}

type invalid struct {
	err error
}

func (i invalid) ToSql() (string, []any, error) {
	return "", nil, i.err
}

// Builder is the squirrel predicate factory.
type Builder struct{}

// And implements criteria.Builder.
func (Builder) And(restrictions ...criteria.Predicate) criteria.Predicate {
	and := make(sq.And, 0, len(restrictions))
	for _, p := range restrictions {
		and = append(and, Sqlizer(p))
	}
	return Predicate{and}
}

// Or implements criteria.Builder.
func (Builder) Or(restrictions ...criteria.Predicate) criteria.Predicate {
	or := make(sq.Or, 0, len(restrictions))
	for _, p := range restrictions {
		or = append(or, Sqlizer(p))
	}
	return Predicate{or}
}

// Equal implements criteria.Builder. A nil v renders IS NULL.
func (Builder) Equal(x criteria.Expression, v any) criteria.Predicate {
	return Predicate{sq.Eq{x.Name(): v}}
}

// Like implements criteria.Builder.
func (Builder) Like(x criteria.Expression, pattern string) criteria.Predicate {
	return Predicate{sq.Like{x.Name(): pattern}}
}

// GreaterThan implements criteria.Builder.
func (Builder) GreaterThan(x criteria.Expression, v any) criteria.Predicate {
	return Predicate{sq.Gt{x.Name(): v}}
}

// GreaterThanOrEqualTo implements criteria.Builder.
func (Builder) GreaterThanOrEqualTo(x criteria.Expression, v any) criteria.Predicate {
	return Predicate{sq.GtOrEq{x.Name(): v}}
}

// LessThan implements criteria.Builder.
func (Builder) LessThan(x criteria.Expression, v any) criteria.Predicate {
	return Predicate{sq.Lt{x.Name(): v}}
}

// LessThanOrEqualTo implements criteria.Builder.
func (Builder) LessThanOrEqualTo(x criteria.Expression, v any) criteria.Predicate {
	return Predicate{sq.LtOrEq{x.Name(): v}}
}

// Where runs spec against e. A nil Sqlizer with a nil error means the
// specification added no restriction.
func Where(e *metamodel.Entity, spec criteria.Specification) (sq.Sqlizer, error) {
	p, err := spec(metamodel.NewRoot(e), metamodel.Query{Table: e.Table()}, Builder{})
	if err != nil {
		return nil, fmt.Errorf("specification for %s: %w", e.Name(), err)
	}
	if p == nil {
		return nil, nil
	}
	return Sqlizer(p), nil
}

// Select builds a SELECT over the entity table restricted by spec.
// With no columns it selects *.
func Select(e *metamodel.Entity, spec criteria.Specification, columns ...string) (sq.SelectBuilder, error) {
	if len(columns) == 0 {
		columns = []string{"*"}
	}
	b := sq.Select(columns...).From(e.Table())

	where, err := Where(e, spec)
	if err != nil {
		return b, err
	}
	if where != nil {
		b = b.Where(where)
	}
	return b, nil
}

// ToSQL renders a predicate. A nil predicate renders as the empty string.
func ToSQL(p criteria.Predicate) (string, []any, error) {
	if p == nil {
		return "", nil, nil
	}
	return Sqlizer(p).ToSql()
}
