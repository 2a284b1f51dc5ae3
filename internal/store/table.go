package store

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"sort"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/roach88/condition/metamodel"
)

// columnType maps a Go type to a SQLite column type.
func columnType(t reflect.Type) string {
	if t == nil {
		return "TEXT"
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Bool:
		return "INTEGER"
	case reflect.Float32, reflect.Float64:
		return "REAL"
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return "BLOB"
		}
	}
	return "TEXT"
}

// CreateTable creates the table for e and records it in the catalog.
// Creating the same entity twice is a no-op.
func (s *Store) CreateTable(ctx context.Context, e *metamodel.Entity) error {
	key := e.KeyColumn()

	defs := make([]string, 0, len(e.Attributes())+1)
	if _, declared := e.Attribute(e.Key()); !declared {
		defs = append(defs, fmt.Sprintf("%s TEXT PRIMARY KEY", key))
	}
	for _, attr := range e.Attributes() {
		a := attr.(*metamodel.Attribute)
		def := fmt.Sprintf("%s %s", a.Column(), columnType(a.Type()))
		if a.Column() == key {
			def += " PRIMARY KEY"
		}
		defs = append(defs, def)
	}

	ddl := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)", e.Table(), strings.Join(defs, ",\n    "))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table %s: %w", e.Table(), err)
	}

	_, err = sq.Insert("fixture_tables").
		Options("OR IGNORE").
		Columns("entity", "table_name", "key_column").
		Values(e.Name(), e.Table(), key).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return fmt.Errorf("record table %s: %w", e.Table(), err)
	}

	return tx.Commit()
}

// Insert seeds rows into the table of e. Row keys are attribute names.
// Rows without a key value get a random UUID. Returns the row keys in
// input order.
func (s *Store) Insert(ctx context.Context, e *metamodel.Entity, rows ...map[string]any) ([]string, error) {
	if len(rows) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	keys := make([]string, 0, len(rows))
	for i, row := range rows {
		key, ok := row[e.Key()]
		if !ok || key == nil {
			key = uuid.NewString()
		}
		keys = append(keys, fmt.Sprint(key))

		columns := []string{e.KeyColumn()}
		values := []any{key}
		for _, name := range sortedNames(row) {
			if name == e.Key() {
				continue
			}
			a, ok := e.Attribute(name)
			if !ok {
				return nil, fmt.Errorf("row %d: unknown attribute %s.%s", i, e.Name(), name)
			}
			columns = append(columns, a.Column())
			values = append(values, row[name])
		}

		_, err := sq.Insert(e.Table()).
			Columns(columns...).
			Values(values...).
			RunWith(tx).
			ExecContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("insert row %d into %s: %w", i, e.Table(), err)
		}
	}

	_, err = sq.Update("fixture_tables").
		Set("row_count", sq.Expr("row_count + ?", len(rows))).
		Where(sq.Eq{"entity": e.Name()}).
		RunWith(tx).
		ExecContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("update row count for %s: %w", e.Name(), err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return keys, nil
}

func sortedNames(row map[string]any) []string {
	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SelectKeys returns the keys of the rows of e matching where, ordered by
// key. A nil where selects every row.
func (s *Store) SelectKeys(ctx context.Context, e *metamodel.Entity, where sq.Sqlizer) ([]string, error) {
	b := sq.Select(e.KeyColumn()).
		From(e.Table()).
		OrderBy(e.KeyColumn() + " COLLATE BINARY")
	if where != nil {
		b = b.Where(where)
	}

	rows, err := b.RunWith(s.db).QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("select keys from %s: %w", e.Table(), err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var key sql.NullString
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan key: %w", err)
		}
		keys = append(keys, key.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate keys: %w", err)
	}
	return keys, nil
}

// TableInfo is a catalog entry.
type TableInfo struct {
	Entity    string
	Table     string
	KeyColumn string
	RowCount  int64
}

// Tables lists the catalog ordered by entity name.
func (s *Store) Tables(ctx context.Context) ([]TableInfo, error) {
	rows, err := sq.Select("entity", "table_name", "key_column", "row_count").
		From("fixture_tables").
		OrderBy("entity COLLATE BINARY").
		RunWith(s.db).
		QueryContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()

	var out []TableInfo
	for rows.Next() {
		var info TableInfo
		if err := rows.Scan(&info.Entity, &info.Table, &info.KeyColumn, &info.RowCount); err != nil {
			return nil, fmt.Errorf("scan table: %w", err)
		}
		out = append(out, info)
	}
	return out, rows.Err()
}
