// Package criteria defines the contract of a criteria-style query builder
// as consumed by package condition.
//
// The types here describe the host side of a query compilation: the row
// reference (Root), the query node (Query) and the predicate factory
// (Builder). Package condition never renders SQL itself; it only calls
// Builder methods and hands the resulting Predicate tree back to the host.
//
// ARCHITECTURE:
//
//	[probe] → [condition.Condition] → [criteria.Builder] → [host SQL]
//
// Two hosts ship with this module:
//   - host/squirrelhost: predicates are squirrel Sqlizers
//   - host/goquhost: predicates are goqu expressions
//
// PREDICATE OWNERSHIP:
//
// Predicates are immutable from the caller's point of view. And and Or
// return a fresh node; they never modify their operands. A nil Predicate
// means "no restriction" and must never be passed to a Builder method.
//
// ROOT ERRORS:
//
// Root.Get returns an error wrapping ErrUnknownAttribute for names that the
// metamodel does not know. Callers use this to classify transient
// attributes (see condition.IsTransient).
package criteria
