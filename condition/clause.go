package condition

import "github.com/roach88/condition/criteria"

// ClauseAnd conjoins the non-nil restrictions onto the accumulated
// predicate. With no non-nil restriction the accumulator is unchanged.
func (c *Condition[T]) ClauseAnd(restrictions ...criteria.Predicate) *Condition[T] {
	and := c.MergeAnd(restrictions...)
	if and == nil {
		return c
	}
	if c.predicate == nil {
		c.predicate = and
	} else {
		c.predicate = c.cb.And(c.predicate, and)
	}
	return c
}

// ClauseOr disjoins the non-nil restrictions onto the accumulated
// predicate. With no non-nil restriction the accumulator is unchanged.
func (c *Condition[T]) ClauseOr(restrictions ...criteria.Predicate) *Condition[T] {
	or := c.MergeOr(restrictions...)
	if or == nil {
		return c
	}
	if c.predicate == nil {
		c.predicate = or
	} else {
		c.predicate = c.cb.Or(c.predicate, or)
	}
	return c
}

// MergeAnd returns the conjunction of the non-nil restrictions, or nil when
// there are none. The accumulator is not touched.
func (c *Condition[T]) MergeAnd(restrictions ...criteria.Predicate) criteria.Predicate {
	return mergeAnd(c.cb, restrictions)
}

// MergeOr returns the disjunction of the non-nil restrictions, or nil when
// there are none. The accumulator is not touched.
func (c *Condition[T]) MergeOr(restrictions ...criteria.Predicate) criteria.Predicate {
	return mergeOr(c.cb, restrictions)
}

// ToPredicate returns the accumulated predicate, nil if no clause was added.
func (c *Condition[T]) ToPredicate() criteria.Predicate {
	return c.predicate
}

func mergeAnd(cb criteria.Builder, restrictions []criteria.Predicate) criteria.Predicate {
	preds := compact(restrictions)
	if len(preds) == 0 {
		return nil
	}
	return cb.And(preds...)
}

func mergeOr(cb criteria.Builder, restrictions []criteria.Predicate) criteria.Predicate {
	preds := compact(restrictions)
	if len(preds) == 0 {
		return nil
	}
	return cb.Or(preds...)
}

// compact returns restrictions without nil elements. The input is not
// modified.
func compact(restrictions []criteria.Predicate) []criteria.Predicate {
	out := make([]criteria.Predicate, 0, len(restrictions))
	for _, p := range restrictions {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}
