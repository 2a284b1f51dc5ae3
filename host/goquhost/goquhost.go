// Package goquhost implements the criteria contract on top of
// github.com/doug-martin/goqu/v9.
//
// Predicates are goqu boolean expressions over quoted identifiers. Dataset
// applies a criteria.Specification to a goqu SelectDataset in any
// registered dialect; the sqlite3 dialect is registered by this package.
package goquhost

import (
	"fmt"
	"strings"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"

	"github.com/roach88/condition/criteria"
	"github.com/roach88/condition/metamodel"
)

// renderPrefix is stripped from a rendered probe dataset to leave the WHERE
// expression.
const renderPrefix = `SELECT * FROM "t" WHERE `

// Predicate is a criteria.Predicate backed by a goqu expression.
type Predicate struct {
	exp.Expression
}

// String renders the predicate in the default dialect with values inlined.
func (p Predicate) String() string {
	sql, _, err := goqu.From("t").Where(p.Expression).ToSQL()
	if err != nil {
		return fmt.Sprintf("[ToSQL error: %v]", err)
	}
	return strings.TrimPrefix(sql, renderPrefix)
}

// Expression returns the goqu form of a predicate produced by Builder.
// Predicates from other hosts are embedded as SQL literals of their String
// rendering.
func Expression(p criteria.Predicate) exp.Expression {
	switch v := p.(type) {
	case Predicate:
		return v.Expression
	case exp.Expression:
		return v
	default:
		return goqu.L(p.String())
	}
}

// Builder is the goqu predicate factory.
type Builder struct{}

func expressions(restrictions []criteria.Predicate) []exp.Expression {
	out := make([]exp.Expression, len(restrictions))
	for i, p := range restrictions {
		out[i] = Expression(p)
	}
	return out
}

// And implements criteria.Builder.
func (Builder) And(restrictions ...criteria.Predicate) criteria.Predicate {
	return Predicate{goqu.And(expressions(restrictions)...)}
}

// Or implements criteria.Builder.
func (Builder) Or(restrictions ...criteria.Predicate) criteria.Predicate {
	return Predicate{goqu.Or(expressions(restrictions)...)}
}

// Equal implements criteria.Builder. A nil v renders IS NULL.
func (Builder) Equal(x criteria.Expression, v any) criteria.Predicate {
	return Predicate{goqu.C(x.Name()).Eq(v)}
}

// Like implements criteria.Builder.
func (Builder) Like(x criteria.Expression, pattern string) criteria.Predicate {
	return Predicate{goqu.C(x.Name()).Like(pattern)}
}

// GreaterThan implements criteria.Builder.
func (Builder) GreaterThan(x criteria.Expression, v any) criteria.Predicate {
	return Predicate{goqu.C(x.Name()).Gt(v)}
}

// GreaterThanOrEqualTo implements criteria.Builder.
func (Builder) GreaterThanOrEqualTo(x criteria.Expression, v any) criteria.Predicate {
	return Predicate{goqu.C(x.Name()).Gte(v)}
}

// LessThan implements criteria.Builder.
func (Builder) LessThan(x criteria.Expression, v any) criteria.Predicate {
	return Predicate{goqu.C(x.Name()).Lt(v)}
}

// LessThanOrEqualTo implements criteria.Builder.
func (Builder) LessThanOrEqualTo(x criteria.Expression, v any) criteria.Predicate {
	return Predicate{goqu.C(x.Name()).Lte(v)}
}

// Dataset builds a prepared SELECT over the entity table restricted by
// spec. An empty dialect uses goqu's default dialect.
func Dataset(dialect string, e *metamodel.Entity, spec criteria.Specification) (*goqu.SelectDataset, error) {
	var ds *goqu.SelectDataset
	if dialect == "" {
		ds = goqu.From(e.Table())
	} else {
		ds = goqu.Dialect(dialect).From(e.Table())
	}
	ds = ds.Prepared(true)

	p, err := spec(metamodel.NewRoot(e), metamodel.Query{Table: e.Table()}, Builder{})
	if err != nil {
		return ds, fmt.Errorf("specification for %s: %w", e.Name(), err)
	}
	if p != nil {
		ds = ds.Where(Expression(p))
	}
	return ds, nil
}
