package condition

import "github.com/roach88/condition/criteria"

// ConditionSpecification is the entity-style hook. It adds clauses to c; the
// accumulated predicate is harvested by the caller.
type ConditionSpecification[T any] func(root criteria.Root, query criteria.Query, cb criteria.Builder, c *Condition[T])

// Predicates is the ordered predicate list handed to a parallel-style hook.
type Predicates []criteria.Predicate

// Add appends predicates to the list.
func (p *Predicates) Add(preds ...criteria.Predicate) {
	*p = append(*p, preds...)
}

// ParallelSpecification is the parallel-style hook. Apply appends
// predicates; MergePredicate combines them into the query predicate.
type ParallelSpecification interface {
	Apply(root criteria.Root, query criteria.Query, cb criteria.Builder, predicates *Predicates)
	MergePredicate(cb criteria.Builder, predicates Predicates) criteria.Predicate
}

// ParallelSpecificationSupport provides the default merge: the conjunction
// of the non-nil predicates, nil when there are none. Embed it to implement
// ParallelSpecification with only an Apply method.
type ParallelSpecificationSupport struct{}

// MergePredicate implements ParallelSpecification.
func (ParallelSpecificationSupport) MergePredicate(cb criteria.Builder, predicates Predicates) criteria.Predicate {
	return mergeAnd(cb, predicates)
}

// ParallelFunc adapts a function to ParallelSpecification with the default
// conjunctive merge.
type ParallelFunc func(root criteria.Root, query criteria.Query, cb criteria.Builder, predicates *Predicates)

// Apply implements ParallelSpecification.
func (f ParallelFunc) Apply(root criteria.Root, query criteria.Query, cb criteria.Builder, predicates *Predicates) {
	f(root, query, cb, predicates)
}

// MergePredicate implements ParallelSpecification.
func (f ParallelFunc) MergePredicate(cb criteria.Builder, predicates Predicates) criteria.Predicate {
	return mergeAnd(cb, predicates)
}

type anyOf struct {
	ParallelFunc
}

func (anyOf) MergePredicate(cb criteria.Builder, predicates Predicates) criteria.Predicate {
	return mergeOr(cb, predicates)
}

// AnyOf adapts a function to ParallelSpecification with a disjunctive
// merge.
func AnyOf(fn ParallelFunc) ParallelSpecification {
	return anyOf{ParallelFunc: fn}
}

// Of creates a Condition bound to probe.
func Of[T any](root criteria.Root, query criteria.Query, cb criteria.Builder, probe T, opts ...Option) *Condition[T] {
	return New[T](root, query, cb, opts...).SetModel(probe)
}

// Specify returns a Specification that runs hooks, in order, on a fresh
// Condition bound to probe and returns the accumulated predicate.
func Specify[T any](probe T, hooks ...ConditionSpecification[T]) criteria.Specification {
	return SpecifyWith(probe, nil, hooks...)
}

// SpecifyWith is Specify with options for every Condition it creates.
//
// The returned Specification fails with the first error the root returned
// while the hooks ran.
func SpecifyWith[T any](probe T, opts []Option, hooks ...ConditionSpecification[T]) criteria.Specification {
	return func(root criteria.Root, query criteria.Query, cb criteria.Builder) (criteria.Predicate, error) {
		c := Of(root, query, cb, probe, opts...)
		for _, hook := range hooks {
			hook(root, query, cb, c)
		}
		if err := c.Err(); err != nil {
			return nil, err
		}
		return c.ToPredicate(), nil
	}
}

// SpecifyParallel returns a Specification that calls spec with a fresh
// predicate list and returns its merge.
func SpecifyParallel(spec ParallelSpecification) criteria.Specification {
	return func(root criteria.Root, query criteria.Query, cb criteria.Builder) (criteria.Predicate, error) {
		var predicates Predicates
		spec.Apply(root, query, cb, &predicates)
		return spec.MergePredicate(cb, predicates), nil
	}
}
