package condition

import "github.com/roach88/condition/criteria"

// Equals emits one equality predicate per attribute with a present value.
func (c *Condition[T]) Equals() []criteria.Predicate {
	return c.each(c.Accessors(nil), OpEqual)
}

// EqualsInclude is Equals restricted to the named attributes.
func (c *Condition[T]) EqualsInclude(names ...string) []criteria.Predicate {
	return c.each(c.accessorsInclude(names), OpEqual)
}

// EqualsExclude is Equals over every attribute except the named ones.
func (c *Condition[T]) EqualsExclude(names ...string) []criteria.Predicate {
	return c.each(c.accessorsExclude(names), OpEqual)
}

// Likes emits one contains-pattern predicate per attribute with a present
// value.
func (c *Condition[T]) Likes() []criteria.Predicate {
	return c.each(c.Accessors(nil), OpLikeContains)
}

// LikesInclude is Likes restricted to the named attributes.
func (c *Condition[T]) LikesInclude(names ...string) []criteria.Predicate {
	return c.each(c.accessorsInclude(names), OpLikeContains)
}

// LikesExclude is Likes over every attribute except the named ones.
func (c *Condition[T]) LikesExclude(names ...string) []criteria.Predicate {
	return c.each(c.accessorsExclude(names), OpLikeContains)
}

// OrEqualInclude is the disjunction of EqualsInclude(names...). It returns
// nil when every named value is absent.
func (c *Condition[T]) OrEqualInclude(names ...string) criteria.Predicate {
	return c.MergeOr(c.EqualsInclude(names...)...)
}

// PropertiesPredicate applies fn to every attribute. See PropertyPredicate
// for ignoreNull.
func (c *Condition[T]) PropertiesPredicate(ignoreNull bool, fn PredicateFunc) []criteria.Predicate {
	return c.PropertiesPredicateFilter(nil, ignoreNull, fn)
}

// PropertiesPredicateInclude is PropertiesPredicate restricted to the named
// attributes.
func (c *Condition[T]) PropertiesPredicateInclude(ignoreNull bool, fn PredicateFunc, names ...string) []criteria.Predicate {
	return c.PropertiesPredicateFilter(IncludePredicate(names...), ignoreNull, fn)
}

// PropertiesPredicateExclude is PropertiesPredicate over every attribute
// except the named ones.
func (c *Condition[T]) PropertiesPredicateExclude(ignoreNull bool, fn PredicateFunc, names ...string) []criteria.Predicate {
	return c.PropertiesPredicateFilter(ExcludePredicate(names...), ignoreNull, fn)
}

// PropertiesPredicateFilter applies fn to the attributes kept by keep. A nil
// keep selects every attribute.
func (c *Condition[T]) PropertiesPredicateFilter(keep func(Accessor) bool, ignoreNull bool, fn PredicateFunc) []criteria.Predicate {
	accessors := c.Accessors(keep)
	out := make([]criteria.Predicate, 0, len(accessors))
	for _, a := range accessors {
		if p := c.apply("CUSTOM", ignoreNull, a.Name, a, fn); p != nil {
			out = append(out, p)
		}
	}
	return out
}

func (c *Condition[T]) each(accessors []Accessor, op Operator) []criteria.Predicate {
	fn := op.Bind(c.cb)
	out := make([]criteria.Predicate, 0, len(accessors))
	for _, a := range accessors {
		if p := c.apply(op.String(), true, a.Name, a, fn); p != nil {
			out = append(out, p)
		}
	}
	return out
}
