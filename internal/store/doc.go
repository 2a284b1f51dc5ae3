// Package store provides a SQLite fixture database for round-trip tests of
// synthesized predicates.
//
// A Store creates one table per metamodel.Entity, seeds rows and selects
// the keys of rows matching a squirrel predicate. Every table created is
// recorded in the fixture_tables catalog together with its row count.
//
// # Column Types
//
//	string        → TEXT
//	int*, uint*   → INTEGER
//	bool          → INTEGER (0/1)
//	float*        → REAL
//	[]byte        → BLOB
//	anything else → TEXT
//
// Pointer types map like their element type and are nullable. The key
// column is TEXT PRIMARY KEY unless the key attribute declares a type.
//
// # Deterministic Query Results
//
// SelectKeys orders by the key column (COLLATE BINARY) so results are
// identical across runs.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait on lock contention
//   - foreign_keys=ON
package store
