// Package harness runs declarative scenarios against the condition
// synthesizer.
//
// A scenario names a CUE entity schema, a probe, a sequence of clause steps
// and the expected outcome. The harness builds the predicate through the
// squirrel host, seeds the rows into an in-memory SQLite store and checks
// which rows the predicate selects.
//
// # Scenario Format
//
//	name: between_both
//	description: "Both bounds present yield a half-open range"
//	schema: ../schemas/people.cue
//	entity: Person
//	probe:
//	  ageStart: 18
//	  ageEnd: 65
//	steps:
//	  - clause: and
//	    predicates:
//	      - op: between
//	        name: age
//	rows:
//	  - {id: p1, age: 17}
//	  - {id: p2, age: 18}
//	expect:
//	  where: "((age >= ? AND age < ?))"
//	  args: [18, 65]
//	  rows: [p2]
//
// The schema path is relative to the scenario file. Seed rows must carry
// the entity key so results are reproducible.
//
// # Predicate Ops
//
//   - equals, likes: bulk ops over every attribute, or the include/exclude
//     list; an explicit empty include keeps no attribute
//   - or_equal: disjunction of equalities over the include list
//   - between: half-open range read from <name>Start and <name>End
//   - EQ, LIKE_CONTAINS, LIKE_PREFIX, LIKE_SUFFIX, GT, GE, LT, LE: one
//     attribute, valued from the probe property "from" when given
//
// # Expectations
//
//   - where: exact SQL of the WHERE expression ("" means no restriction)
//   - args: bound arguments in order
//   - rows: keys of the matching seed rows, ordered by key
//   - error: substring of the expected specification error
//
// # Golden Snapshots
//
// RunWithGolden serializes the result (WHERE text, args, rows and the
// predicate trace) as canonical JSON and compares it with
// testdata/golden/{name}.golden. Regenerate with:
//
//	go test ./internal/harness -update
package harness
