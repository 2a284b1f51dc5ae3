package condition

import (
	"github.com/roach88/condition/criteria"
	"github.com/roach88/condition/introspect"
)

// Predicate builds the op predicate for one attribute from its own probe
// value. Absent values and unknown names yield nil.
func (c *Condition[T]) Predicate(op Operator, name string) criteria.Predicate {
	return c.PredicateFrom(op, name, name)
}

// PredicateFrom builds an op predicate on attribute name whose operand is
// read from the probe property of valueName.
func (c *Condition[T]) PredicateFrom(op Operator, name, valueName string) criteria.Predicate {
	a, ok := c.Accessor(valueName)
	if !ok {
		return nil
	}
	return c.apply(op.String(), true, name, a, op.Bind(c.cb))
}

// apply is the single emission path of per-attribute predicates.
func (c *Condition[T]) apply(op string, ignoreNull bool, column string, a Accessor, fn PredicateFunc) criteria.Predicate {
	if fn == nil {
		return nil
	}
	v, ok := c.read(a)
	if !ok && ignoreNull {
		return nil
	}
	x := c.expression(column)
	if x == nil {
		return nil
	}
	p := fn(x, v)
	c.trace(op, column, p)
	return p
}

// Equal emits name = value.
func (c *Condition[T]) Equal(name string) criteria.Predicate {
	return c.Predicate(OpEqual, name)
}

// GreaterThan emits name > value.
func (c *Condition[T]) GreaterThan(name string) criteria.Predicate {
	return c.Predicate(OpGreaterThan, name)
}

// GreaterThanFrom emits name > the probe value of valueName.
func (c *Condition[T]) GreaterThanFrom(name, valueName string) criteria.Predicate {
	return c.PredicateFrom(OpGreaterThan, name, valueName)
}

// GreaterThanOrEqualTo emits name >= value.
func (c *Condition[T]) GreaterThanOrEqualTo(name string) criteria.Predicate {
	return c.Predicate(OpGreaterThanOrEqualTo, name)
}

// GreaterThanOrEqualToFrom emits name >= the probe value of valueName.
func (c *Condition[T]) GreaterThanOrEqualToFrom(name, valueName string) criteria.Predicate {
	return c.PredicateFrom(OpGreaterThanOrEqualTo, name, valueName)
}

// LessThan emits name < value.
func (c *Condition[T]) LessThan(name string) criteria.Predicate {
	return c.Predicate(OpLessThan, name)
}

// LessThanFrom emits name < the probe value of valueName.
func (c *Condition[T]) LessThanFrom(name, valueName string) criteria.Predicate {
	return c.PredicateFrom(OpLessThan, name, valueName)
}

// LessThanOrEqualTo emits name <= value.
func (c *Condition[T]) LessThanOrEqualTo(name string) criteria.Predicate {
	return c.Predicate(OpLessThanOrEqualTo, name)
}

// LessThanOrEqualToFrom emits name <= the probe value of valueName.
func (c *Condition[T]) LessThanOrEqualToFrom(name, valueName string) criteria.Predicate {
	return c.PredicateFrom(OpLessThanOrEqualTo, name, valueName)
}

// Between emits the half-open range start <= name < end. The bounds are
// read from the probe properties name+"Start" and name+"End".
func (c *Condition[T]) Between(name string) criteria.Predicate {
	return c.BetweenValues(name, c.value(name+"Start"), c.value(name+"End"))
}

// BetweenValues emits start <= name < end with explicit bounds. A missing
// end yields name >= start and a missing start yields name < end. It
// returns nil when both bounds are absent.
func (c *Condition[T]) BetweenValues(name string, start, end any) criteria.Predicate {
	s, hasStart := introspect.Present(start).Get()
	e, hasEnd := introspect.Present(end).Get()
	if !hasStart && !hasEnd {
		return nil
	}

	x := c.expression(name)
	if x == nil {
		return nil
	}

	var p criteria.Predicate
	switch {
	case !hasStart:
		p = c.cb.LessThan(x, e)
	case !hasEnd:
		p = c.cb.GreaterThanOrEqualTo(x, s)
	default:
		p = c.MergeAnd(c.cb.GreaterThanOrEqualTo(x, s), c.cb.LessThan(x, e))
	}
	c.trace("BETWEEN", name, p)
	return p
}

// Like emits a.Name LIKE %value%.
func (c *Condition[T]) Like(a Accessor) criteria.Predicate {
	return c.pattern(OpLikeContains, a)
}

// LikeStart emits a.Name LIKE value%.
func (c *Condition[T]) LikeStart(a Accessor) criteria.Predicate {
	return c.pattern(OpLikePrefix, a)
}

// LikeEnd emits a.Name LIKE %value.
func (c *Condition[T]) LikeEnd(a Accessor) criteria.Predicate {
	return c.pattern(OpLikeSuffix, a)
}

func (c *Condition[T]) pattern(op Operator, a Accessor) criteria.Predicate {
	if a.Descriptor == nil {
		return nil
	}
	return c.apply(op.String(), true, a.Name, a, op.Bind(c.cb))
}

// PropertyPredicate builds a custom predicate for one attribute. With
// ignoreNull false, an absent value is passed to fn as nil.
func (c *Condition[T]) PropertyPredicate(ignoreNull bool, name string, fn PredicateFunc) criteria.Predicate {
	a, ok := c.Accessor(name)
	if !ok {
		return nil
	}
	return c.apply("CUSTOM", ignoreNull, name, a, fn)
}
