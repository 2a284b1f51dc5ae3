package store

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/condition/condition"
	"github.com/roach88/condition/criteria"
	"github.com/roach88/condition/host/squirrelhost"
	"github.com/roach88/condition/metamodel"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	// Verify file was created
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Memory(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open(:memory:) failed: %v", err)
	}
	defer s.Close()

	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM fixture_tables").Scan(&count); err != nil {
		t.Errorf("query failed: %v", err)
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		s.Close()
	}

	s, err := Open(path)
	if err != nil {
		t.Fatalf("final Open() failed: %v", err)
	}
	defer s.Close()

	columns := getTableColumns(t, s.db, "fixture_tables")
	for _, col := range []string{"entity", "table_name", "key_column", "row_count"} {
		if !contains(columns, col) {
			t.Errorf("fixture_tables missing column %q", col)
		}
	}
}

func TestOpen_InvalidPath(t *testing.T) {
	_, err := Open("/nonexistent/dir/test.db")
	if err == nil {
		t.Error("expected error for invalid path, got nil")
	}
}

func TestOpen_NewerSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := s.db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	s.Close()

	_, err = Open(path)
	if err == nil {
		t.Fatal("expected error for newer schema version")
	}
	if !strings.Contains(err.Error(), "newer than supported version 1") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestClose_NilDB(t *testing.T) {
	s := &Store{db: nil}
	if err := s.Close(); err != nil {
		t.Errorf("Close() on nil db should not error: %v", err)
	}
}

func TestDB_ReturnsUnderlyingConnection(t *testing.T) {
	s := openTestStore(t)

	db := s.DB()
	if db == nil {
		t.Fatal("DB() returned nil")
	}
	if err := db.Ping(); err != nil {
		t.Errorf("DB() connection not usable: %v", err)
	}
}

func TestPragma_FileDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer s.Close()

	testCases := []struct {
		pragma   string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"}, // NORMAL
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
		{"user_version", "1"},
	}

	for _, tc := range testCases {
		t.Run(tc.pragma, func(t *testing.T) {
			if err := s.verifyPragma(tc.pragma, tc.expected); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestColumnType(t *testing.T) {
	testCases := []struct {
		typ      reflect.Type
		expected string
	}{
		{reflect.TypeOf(""), "TEXT"},
		{reflect.TypeOf(0), "INTEGER"},
		{reflect.TypeOf(uint8(0)), "INTEGER"},
		{reflect.TypeOf(true), "INTEGER"},
		{reflect.TypeOf(1.5), "REAL"},
		{reflect.TypeOf([]byte(nil)), "BLOB"},
		{reflect.TypeOf((*int)(nil)), "INTEGER"},
		{reflect.TypeOf([]string(nil)), "TEXT"},
		{nil, "TEXT"},
	}

	for _, tc := range testCases {
		if got := columnType(tc.typ); got != tc.expected {
			t.Errorf("columnType(%v) = %q, expected %q", tc.typ, got, tc.expected)
		}
	}
}

func TestCreateTable_Columns(t *testing.T) {
	s := openTestStore(t)
	e := peopleEntity(t)

	if err := s.CreateTable(context.Background(), e); err != nil {
		t.Fatalf("CreateTable() failed: %v", err)
	}
	// Second call is a no-op.
	if err := s.CreateTable(context.Background(), e); err != nil {
		t.Fatalf("second CreateTable() failed: %v", err)
	}

	columns := getTableColumns(t, s.db, "people")
	expected := []string{"id", "name", "age", "is_active"}
	if !reflect.DeepEqual(columns, expected) {
		t.Errorf("columns = %v, expected %v", columns, expected)
	}

	tables, err := s.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables() failed: %v", err)
	}
	if len(tables) != 1 {
		t.Fatalf("expected 1 catalog entry, got %d", len(tables))
	}
	want := TableInfo{Entity: "Person", Table: "people", KeyColumn: "id"}
	if tables[0] != want {
		t.Errorf("catalog = %+v, expected %+v", tables[0], want)
	}
}

func TestCreateTable_DeclaredKey(t *testing.T) {
	s := openTestStore(t)
	e, err := metamodel.NewEntity("Tag", []*metamodel.Attribute{
		metamodel.NewAttribute("code", reflect.TypeOf(0), ""),
		metamodel.NewAttribute("label", reflect.TypeOf(""), ""),
	}, metamodel.WithKey("code"))
	if err != nil {
		t.Fatalf("NewEntity() failed: %v", err)
	}

	if err := s.CreateTable(context.Background(), e); err != nil {
		t.Fatalf("CreateTable() failed: %v", err)
	}

	columns := getTableColumns(t, s.db, "tag")
	if !reflect.DeepEqual(columns, []string{"code", "label"}) {
		t.Errorf("columns = %v", columns)
	}

	keys, err := s.Insert(context.Background(), e, map[string]any{"code": 7, "label": "seven"})
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if !reflect.DeepEqual(keys, []string{"7"}) {
		t.Errorf("keys = %v", keys)
	}
}

func TestInsert_GeneratesKeys(t *testing.T) {
	s := openTestStore(t)
	e := peopleEntity(t)
	mustCreate(t, s, e)

	keys, err := s.Insert(context.Background(), e,
		map[string]any{"id": "p1", "name": "alice"},
		map[string]any{"name": "bob"},
	)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys, got %d", len(keys))
	}
	if keys[0] != "p1" {
		t.Errorf("keys[0] = %q, expected p1", keys[0])
	}
	if len(keys[1]) != 36 {
		t.Errorf("keys[1] = %q, expected a UUID", keys[1])
	}

	tables, err := s.Tables(context.Background())
	if err != nil {
		t.Fatalf("Tables() failed: %v", err)
	}
	if tables[0].RowCount != 2 {
		t.Errorf("row_count = %d, expected 2", tables[0].RowCount)
	}
}

func TestInsert_UnknownAttribute(t *testing.T) {
	s := openTestStore(t)
	e := peopleEntity(t)
	mustCreate(t, s, e)

	_, err := s.Insert(context.Background(), e, map[string]any{"nickname": "al"})
	if err == nil {
		t.Fatal("expected error for unknown attribute")
	}
	if !strings.Contains(err.Error(), "unknown attribute Person.nickname") {
		t.Errorf("unexpected error: %v", err)
	}

	// Failed batch leaves the table empty.
	keys, err := s.SelectKeys(context.Background(), e, nil)
	if err != nil {
		t.Fatalf("SelectKeys() failed: %v", err)
	}
	if len(keys) != 0 {
		t.Errorf("expected no rows, got %v", keys)
	}
}

func TestSelectKeys_OrderedByKey(t *testing.T) {
	s := openTestStore(t)
	e := peopleEntity(t)
	mustCreate(t, s, e)
	seedPeople(t, s, e)

	keys, err := s.SelectKeys(context.Background(), e, sq.Eq{"is_active": true})
	if err != nil {
		t.Fatalf("SelectKeys() failed: %v", err)
	}
	expected := []string{"p18", "p65", "p66"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("keys = %v, expected %v", keys, expected)
	}
}

type ageProbe struct {
	AgeStart *int
	AgeEnd   *int
	Name     string
}

func ptr[T any](v T) *T { return &v }

func TestRoundTrip_BetweenIsHalfOpen(t *testing.T) {
	s := openTestStore(t)
	e := peopleEntity(t)
	mustCreate(t, s, e)
	seedPeople(t, s, e)

	testCases := []struct {
		name     string
		probe    ageProbe
		expected []string
	}{
		{"both bounds", ageProbe{AgeStart: ptr(18), AgeEnd: ptr(65)}, []string{"p18", "p40"}},
		{"start only", ageProbe{AgeStart: ptr(65)}, []string{"p65", "p66"}},
		{"end only", ageProbe{AgeEnd: ptr(18)}, []string{"p17"}},
		{"no bounds", ageProbe{}, []string{"p17", "p18", "p40", "p65", "p66"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			spec := condition.SpecifyWith(tc.probe, quiet(),
				func(_ criteria.Root, _ criteria.Query, _ criteria.Builder, c *condition.Condition[ageProbe]) {
					c.ClauseAnd(c.Between("age"))
				})

			where, err := squirrelhost.Where(e, spec)
			if err != nil {
				t.Fatalf("Where() failed: %v", err)
			}
			keys, err := s.SelectKeys(context.Background(), e, where)
			if err != nil {
				t.Fatalf("SelectKeys() failed: %v", err)
			}
			if !reflect.DeepEqual(keys, tc.expected) {
				t.Errorf("keys = %v, expected %v", keys, tc.expected)
			}
		})
	}
}

func TestRoundTrip_LikeAndOr(t *testing.T) {
	s := openTestStore(t)
	e := peopleEntity(t)
	mustCreate(t, s, e)
	seedPeople(t, s, e)

	spec := condition.SpecifyWith(ageProbe{Name: "ar", AgeStart: ptr(66)}, quiet(),
		func(_ criteria.Root, _ criteria.Query, _ criteria.Builder, c *condition.Condition[ageProbe]) {
			c.ClauseAnd(c.LikesInclude("name")...)
			c.ClauseOr(c.GreaterThanOrEqualToFrom("age", "ageStart"))
		})

	where, err := squirrelhost.Where(e, spec)
	if err != nil {
		t.Fatalf("Where() failed: %v", err)
	}
	keys, err := s.SelectKeys(context.Background(), e, where)
	if err != nil {
		t.Fatalf("SelectKeys() failed: %v", err)
	}
	expected := []string{"p40", "p66"}
	if !reflect.DeepEqual(keys, expected) {
		t.Errorf("keys = %v, expected %v", keys, expected)
	}
}

// Test helpers

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func quiet() []condition.Option {
	return []condition.Option{condition.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}
}

func peopleEntity(t *testing.T) *metamodel.Entity {
	t.Helper()
	e, err := metamodel.NewEntity("Person", []*metamodel.Attribute{
		metamodel.NewAttribute("name", reflect.TypeOf(""), ""),
		metamodel.NewAttribute("age", reflect.TypeOf(0), ""),
		metamodel.NewAttribute("isActive", reflect.TypeOf(false), ""),
	}, metamodel.WithTable("people"))
	if err != nil {
		t.Fatalf("NewEntity() failed: %v", err)
	}
	return e
}

func mustCreate(t *testing.T, s *Store, e *metamodel.Entity) {
	t.Helper()
	if err := s.CreateTable(context.Background(), e); err != nil {
		t.Fatalf("CreateTable() failed: %v", err)
	}
}

func seedPeople(t *testing.T, s *Store, e *metamodel.Entity) {
	t.Helper()
	_, err := s.Insert(context.Background(), e,
		map[string]any{"id": "p17", "name": "bob", "age": 17, "isActive": false},
		map[string]any{"id": "p18", "name": "alice", "age": 18, "isActive": true},
		map[string]any{"id": "p40", "name": "carol", "age": 40, "isActive": false},
		map[string]any{"id": "p65", "name": "dave", "age": 65, "isActive": true},
		map[string]any{"id": "p66", "name": "erin", "age": 66, "isActive": true},
	)
	if err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}
}

func getTableColumns(t *testing.T, db *sql.DB, table string) []string {
	t.Helper()

	rows, err := db.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		t.Fatalf("failed to get table info for %q: %v", table, err)
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dfltValue, &pk); err != nil {
			t.Fatalf("failed to scan column info: %v", err)
		}
		columns = append(columns, name)
	}
	return columns
}

func contains(slice []string, s string) bool {
	for _, v := range slice {
		if v == s {
			return true
		}
	}
	return false
}
