package metamodel

import (
	"fmt"
	"os"
	"reflect"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"
)

// CompileError is a schema error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Schema is a set of compiled entities keyed by name.
type Schema struct {
	entities map[string]*Entity
}

// Entity returns the entity with the given name.
func (s *Schema) Entity(name string) (*Entity, bool) {
	e, ok := s.entities[name]
	return e, ok
}

// Entities returns all entities sorted by name.
func (s *Schema) Entities() []*Entity {
	out := make([]*Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// LoadFile compiles the entity schema in a CUE file.
func LoadFile(path string) (*Schema, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read schema: %w", err)
	}
	return Compile(src, path)
}

// Compile compiles CUE source declaring entities:
//
//	entity: User: {
//	    table: "users"       // optional, default snake_case name
//	    key:   "id"          // optional, default "id"
//	    attributes: {
//	        id:       string
//	        age:      int
//	        isActive: {type: bool, column: "is_active"}
//	    }
//	}
//
// Attribute types are string, int, float, bool or bytes. Attributes keep
// their declaration order.
func Compile(src []byte, filename string) (*Schema, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(src, cue.Filename(filename))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	schema := &Schema{entities: make(map[string]*Entity)}

	entityVal := v.LookupPath(cue.ParsePath("entity"))
	if !entityVal.Exists() {
		return schema, nil
	}

	iter, err := entityVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		e, err := compileEntity(iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		schema.entities[e.name] = e
	}

	return schema, nil
}

func compileEntity(name string, v cue.Value) (*Entity, error) {
	var opts []EntityOption

	if tableVal := v.LookupPath(cue.ParsePath("table")); tableVal.Exists() {
		table, err := tableVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		opts = append(opts, WithTable(table))
	}
	if keyVal := v.LookupPath(cue.ParsePath("key")); keyVal.Exists() {
		key, err := keyVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		opts = append(opts, WithKey(key))
	}

	attrsVal := v.LookupPath(cue.ParsePath("attributes"))
	if !attrsVal.Exists() {
		return nil, &CompileError{
			Field:   fmt.Sprintf("entity.%s.attributes", name),
			Message: "attributes are required",
			Pos:     v.Pos(),
		}
	}

	iter, err := attrsVal.Fields()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var attrs []*Attribute
	for iter.Next() {
		attr, err := compileAttribute(name, iter.Label(), iter.Value())
		if err != nil {
			return nil, err
		}
		attrs = append(attrs, attr)
	}
	if len(attrs) == 0 {
		return nil, &CompileError{
			Field:   fmt.Sprintf("entity.%s.attributes", name),
			Message: "at least one attribute is required",
			Pos:     attrsVal.Pos(),
		}
	}

	e, err := NewEntity(name, attrs, opts...)
	if err != nil {
		return nil, &CompileError{
			Field:   fmt.Sprintf("entity.%s", name),
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return e, nil
}

// compileAttribute accepts a bare type (age: int) or a struct with type and
// optional column.
func compileAttribute(entity, name string, v cue.Value) (*Attribute, error) {
	field := fmt.Sprintf("entity.%s.attributes.%s", entity, name)

	if v.IncompleteKind() != cue.StructKind {
		typ, err := attributeType(field, v)
		if err != nil {
			return nil, err
		}
		return NewAttribute(name, typ, ""), nil
	}

	typeVal := v.LookupPath(cue.ParsePath("type"))
	if !typeVal.Exists() {
		return nil, &CompileError{
			Field:   field + ".type",
			Message: "attribute type is required",
			Pos:     v.Pos(),
		}
	}
	typ, err := attributeType(field, typeVal)
	if err != nil {
		return nil, err
	}

	column := ""
	if columnVal := v.LookupPath(cue.ParsePath("column")); columnVal.Exists() {
		column, err = columnVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
	}

	return NewAttribute(name, typ, column), nil
}

// attributeType maps a CUE kind to the Go type of the attribute value.
func attributeType(field string, v cue.Value) (reflect.Type, error) {
	switch v.IncompleteKind() {
	case cue.StringKind:
		return reflect.TypeOf(""), nil
	case cue.IntKind:
		return reflect.TypeOf(int64(0)), nil
	case cue.FloatKind, cue.NumberKind:
		return reflect.TypeOf(float64(0)), nil
	case cue.BoolKind:
		return reflect.TypeOf(false), nil
	case cue.BytesKind:
		return reflect.TypeOf([]byte(nil)), nil
	default:
		return nil, &CompileError{
			Field:   field,
			Message: fmt.Sprintf("unsupported type kind: %v", v.IncompleteKind()),
			Pos:     v.Pos(),
		}
	}
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
