// Package condition synthesizes criteria predicates from a populated probe.
//
// A Condition is bound to one query context (root, query, builder) and one
// probe. It walks the persistent attributes of the root's entity, reads the
// probe's value for each attribute and emits predicates through the
// builder, skipping attributes whose value is absent.
//
// ARCHITECTURE:
//
//	Specify(probe, hooks...) ─┐
//	                          ├─→ Condition ─→ criteria.Builder ─→ Predicate
//	SpecifyParallel(spec) ────┘
//
// Operation Groups:
// 1. Per-attribute: Equal, GreaterThan, Between, Like, ... (one name)
// 2. Bulk: Equals, EqualsInclude, Likes, ... (one predicate per attribute)
// 3. Clause accumulation: ClauseAnd, ClauseOr
// 4. Terminal export: ToPredicate
//
// Every named per-attribute operation is an alias for Predicate(op, name)
// with an Operator from the dispatch table.
//
// ABSENT VALUES:
//
// An attribute whose probe value is absent (nil, nil pointer, invalid
// sql.Null*) yields no predicate. PropertyPredicate and PropertiesPredicate
// take an ignoreNull flag; with ignoreNull false an absent value is passed
// to the predicate function as a literal nil. Comparative and pattern
// operations always skip absent values.
//
// Bulk operations never return nil elements. ClauseAnd and ClauseOr drop nil
// arguments and do nothing when none remain, so an empty AND/OR node is
// never built.
//
// NAME RESOLUTION:
//
// Attribute names are resolved against probe properties with the
// Boolean-getter correction: an attribute named isActive is read from the
// probe property active. When the corrected name has no property, the raw
// name is tried.
//
// ERRORS:
//
// Unknown properties and failed getters never fail a query. A failed getter
// is logged at Warn and treated as absent. The first error returned by
// Root.Get is kept on the Condition (Err) and returned by the
// Specification built with Specify.
//
// LIFETIME:
//
// A Condition is created per Specification invocation and must not be
// retained afterwards. It is not safe for concurrent use.
package condition
