package metamodel

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/roach88/condition/criteria"
	"github.com/roach88/condition/introspect"
)

// DefaultKey is the key attribute of entities that do not name one.
const DefaultKey = "id"

// Attribute is a persistent attribute mapped to a column.
type Attribute struct {
	name   string
	column string
	typ    reflect.Type
}

// NewAttribute creates an attribute. An empty column defaults to the
// snake_case form of name.
func NewAttribute(name string, typ reflect.Type, column string) *Attribute {
	if column == "" {
		column = Snake(name)
	}
	return &Attribute{name: name, column: column, typ: typ}
}

// Name implements criteria.Attribute.
func (a *Attribute) Name() string { return a.name }

// Type implements criteria.Attribute.
func (a *Attribute) Type() reflect.Type { return a.typ }

// Column is the SQL column of the attribute.
func (a *Attribute) Column() string { return a.column }

// Entity is a mapped entity: a table and its ordered attributes.
type Entity struct {
	name   string
	table  string
	key    string
	attrs  []criteria.Attribute
	byName map[string]*Attribute
}

// EntityOption configures NewEntity.
type EntityOption func(*Entity)

// WithTable sets the table name. Default: snake_case of the entity name.
func WithTable(table string) EntityOption {
	return func(e *Entity) {
		e.table = table
	}
}

// WithKey names the key attribute. Default: DefaultKey.
func WithKey(key string) EntityOption {
	return func(e *Entity) {
		e.key = key
	}
}

// NewEntity creates an entity from attributes in declaration order.
func NewEntity(name string, attrs []*Attribute, opts ...EntityOption) (*Entity, error) {
	if name == "" {
		return nil, fmt.Errorf("entity name is required")
	}

	e := &Entity{
		name:   name,
		table:  Snake(name),
		key:    DefaultKey,
		attrs:  make([]criteria.Attribute, 0, len(attrs)),
		byName: make(map[string]*Attribute, len(attrs)),
	}
	for _, opt := range opts {
		opt(e)
	}

	columns := make(map[string]string, len(attrs))
	for _, a := range attrs {
		if a.name == "" {
			return nil, fmt.Errorf("entity %s: attribute name is required", name)
		}
		if _, dup := e.byName[a.name]; dup {
			return nil, fmt.Errorf("entity %s: duplicate attribute %q", name, a.name)
		}
		if other, dup := columns[a.column]; dup {
			return nil, fmt.Errorf("entity %s: attributes %q and %q share column %q", name, other, a.name, a.column)
		}
		columns[a.column] = a.name
		e.byName[a.name] = a
		e.attrs = append(e.attrs, a)
	}

	return e, nil
}

// Name implements criteria.EntityType.
func (e *Entity) Name() string { return e.name }

// Attributes implements criteria.EntityType.
func (e *Entity) Attributes() []criteria.Attribute { return e.attrs }

// Table is the SQL table of the entity.
func (e *Entity) Table() string { return e.table }

// Key is the key attribute name. It need not be declared as an attribute.
func (e *Entity) Key() string { return e.key }

// KeyColumn is the column of the key attribute.
func (e *Entity) KeyColumn() string {
	if a, ok := e.byName[e.key]; ok {
		return a.column
	}
	return Snake(e.key)
}

// Attribute looks up an attribute by name.
func (e *Entity) Attribute(name string) (*Attribute, bool) {
	a, ok := e.byName[name]
	return a, ok
}

// Columns returns the attribute columns in declaration order.
func (e *Entity) Columns() []string {
	out := make([]string, len(e.attrs))
	for i, a := range e.attrs {
		out[i] = a.(*Attribute).column
	}
	return out
}

// Tabler lets a struct name its own table for FromStruct.
type Tabler interface {
	TableName() string
}

// FromStruct derives an entity from the exported fields of a struct.
//
// Attribute names follow the probe property names of package introspect, so
// a struct can serve as both the entity and the probe. The db tag sets the
// column; a db or condition tag of "-" excludes the field.
//
//	type User struct {
//	    ID       string `db:"id"`
//	    IsActive bool   `db:"is_active"` // attribute isActive
//	}
func FromStruct(v any, opts ...EntityOption) (*Entity, error) {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("entity from %T: not a struct", v)
	}

	var attrs []*Attribute
	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name := introspect.Decapitalize(sf.Name)
		if tag, ok := sf.Tag.Lookup(introspect.TagName); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		column := ""
		if tag, ok := sf.Tag.Lookup("db"); ok {
			if tag == "-" {
				continue
			}
			column, _, _ = strings.Cut(tag, ",")
		}
		attrs = append(attrs, NewAttribute(name, sf.Type, column))
	}

	if tabler, ok := v.(Tabler); ok {
		opts = append([]EntityOption{WithTable(tabler.TableName())}, opts...)
	}
	return NewEntity(t.Name(), attrs, opts...)
}

// Snake converts a camelCase or PascalCase name to snake_case.
// Runs of capitals are kept together: UserID → user_id, HTTPServer → http_server.
func Snake(name string) string {
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 {
				prev := runes[i-1]
				nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
				if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
					b.WriteByte('_')
				}
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
