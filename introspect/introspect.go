package introspect

import (
	"fmt"
	"reflect"
	"sort"
	"unicode"
	"unicode/utf8"
)

// TagName is the struct tag that overrides property names.
const TagName = "condition"

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Projector is implemented by probes that expose their criteria values as
// a map instead of through fields and getters.
type Projector interface {
	Project() map[string]any
}

// ReadError reports a property whose getter failed.
type ReadError struct {
	Property string
	Err      error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("read property %q: %v", e.Property, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}

// PropertyDescriptor describes one readable probe property.
type PropertyDescriptor struct {
	// Name is the bean property name.
	Name string

	// Type is the declared type of the property. For map probes it is the
	// dynamic type of the value, or the empty interface type for nil values.
	Type reflect.Type

	read func(probe any) (any, error)
}

// Read reads the property from probe.
func (d *PropertyDescriptor) Read(probe any) (result Value) {
	if d == nil || d.read == nil {
		return Absent()
	}

	defer func() {
		if r := recover(); r != nil {
			result = Failed(&ReadError{Property: d.Name, Err: fmt.Errorf("panic: %v", r)})
		}
	}()

	v, err := d.read(probe)
	if err != nil {
		return Failed(&ReadError{Property: d.Name, Err: err})
	}
	return normalize(v)
}

// Introspector resolves property descriptors for probes.
//
// Struct property tables are computed once per type and kept for the
// lifetime of the Introspector. An Introspector is not safe for concurrent use.
type Introspector struct {
	tables map[reflect.Type]map[string]*PropertyDescriptor
}

// New creates an Introspector with an empty cache.
func New() *Introspector {
	return &Introspector{
		tables: make(map[reflect.Type]map[string]*PropertyDescriptor),
	}
}

// Descriptor returns the descriptor for a property name, or nil when the
// probe has no such property.
func (in *Introspector) Descriptor(probe any, name string) *PropertyDescriptor {
	return in.properties(probe)[name]
}

// Descriptors returns all properties of probe sorted by name.
func (in *Introspector) Descriptors(probe any) []*PropertyDescriptor {
	table := in.properties(probe)
	out := make([]*PropertyDescriptor, 0, len(table))
	for _, d := range table {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (in *Introspector) properties(probe any) map[string]*PropertyDescriptor {
	switch p := probe.(type) {
	case nil:
		return nil
	case Projector:
		return mapProperties(p.Project(), func(probe any) map[string]any {
			return probe.(Projector).Project()
		})
	case map[string]any:
		return mapProperties(p, func(probe any) map[string]any {
			return probe.(map[string]any)
		})
	}

	t := reflect.TypeOf(probe)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}

	if table, ok := in.tables[t]; ok {
		return table
	}
	table := structProperties(t)
	in.tables[t] = table
	return table
}

// mapProperties builds descriptors for every key of m. The lookup function
// re-reads the map from the probe passed to Read.
func mapProperties(m map[string]any, lookup func(any) map[string]any) map[string]*PropertyDescriptor {
	table := make(map[string]*PropertyDescriptor, len(m))
	for key, v := range m {
		key := key
		typ := reflect.TypeOf(v)
		if typ == nil {
			typ = reflect.TypeOf((*any)(nil)).Elem()
		}
		table[key] = &PropertyDescriptor{
			Name: key,
			Type: typ,
			read: func(probe any) (any, error) {
				return lookup(probe)[key], nil
			},
		}
	}
	return table
}

func structProperties(t reflect.Type) map[string]*PropertyDescriptor {
	table := make(map[string]*PropertyDescriptor)

	for _, sf := range reflect.VisibleFields(t) {
		if !sf.IsExported() || sf.Anonymous {
			continue
		}
		name := Decapitalize(sf.Name)
		if tag, ok := sf.Tag.Lookup(TagName); ok {
			if tag == "-" {
				continue
			}
			if tag != "" {
				name = tag
			}
		}
		index := sf.Index
		table[name] = &PropertyDescriptor{
			Name: name,
			Type: sf.Type,
			read: func(probe any) (any, error) {
				rv, err := structValue(probe)
				if err != nil {
					return nil, err
				}
				fv, err := rv.FieldByIndexErr(index)
				if err != nil {
					return nil, err
				}
				return fv.Interface(), nil
			},
		}
	}

	// Plain getters first so that Get/Is forms win on collisions.
	pt := reflect.PointerTo(t)
	var prefixed []reflect.Method
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		if !isGetter(m.Type) {
			continue
		}
		if _, ok := getterProperty(m); ok {
			prefixed = append(prefixed, m)
		}
		name := Decapitalize(m.Name)
		table[name] = methodDescriptor(name, m)
	}
	for _, m := range prefixed {
		name, _ := getterProperty(m)
		table[name] = methodDescriptor(name, m)
	}

	return table
}

func methodDescriptor(name string, m reflect.Method) *PropertyDescriptor {
	methodName := m.Name
	return &PropertyDescriptor{
		Name: name,
		Type: m.Type.Out(0),
		read: func(probe any) (any, error) {
			rv, err := structValue(probe)
			if err != nil {
				return nil, err
			}
			out := rv.Addr().MethodByName(methodName).Call(nil)
			if len(out) == 2 && !out[1].IsNil() {
				return nil, out[1].Interface().(error)
			}
			return out[0].Interface(), nil
		},
	}
}

// isGetter reports whether a method type (receiver included) takes no
// arguments and returns (v) or (v, error).
func isGetter(mt reflect.Type) bool {
	if mt.NumIn() != 1 {
		return false
	}
	switch mt.NumOut() {
	case 1:
		return true
	case 2:
		return mt.Out(1) == errorType
	default:
		return false
	}
}

// getterProperty derives the property name of Get<X> and Is<X> getters.
// Is<X> only counts for boolean results.
func getterProperty(m reflect.Method) (string, bool) {
	if rest, ok := cutUpper(m.Name, "Get"); ok {
		return Decapitalize(rest), true
	}
	if rest, ok := cutUpper(m.Name, "Is"); ok && m.Type.Out(0).Kind() == reflect.Bool {
		return Decapitalize(rest), true
	}
	return "", false
}

func cutUpper(s, prefix string) (string, bool) {
	if len(s) <= len(prefix) || s[:len(prefix)] != prefix {
		return "", false
	}
	rest := s[len(prefix):]
	r, _ := utf8.DecodeRuneInString(rest)
	if !unicode.IsUpper(r) {
		return "", false
	}
	return rest, true
}

// structValue returns an addressable struct value for probe.
func structValue(probe any) (reflect.Value, error) {
	rv := reflect.ValueOf(probe)
	if !rv.IsValid() {
		return reflect.Value{}, fmt.Errorf("nil probe")
	}
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return reflect.Value{}, fmt.Errorf("nil %s probe", rv.Type())
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("probe of kind %s is not a struct", rv.Kind())
	}
	if !rv.CanAddr() {
		cp := reflect.New(rv.Type()).Elem()
		cp.Set(rv)
		rv = cp
	}
	return rv, nil
}

// Decapitalize lower-cases the first rune of s unless the first two runes
// are both upper case (URL stays URL, Name becomes name).
func Decapitalize(s string) string {
	if s == "" {
		return s
	}
	first, size := utf8.DecodeRuneInString(s)
	if second, _ := utf8.DecodeRuneInString(s[size:]); unicode.IsUpper(first) && unicode.IsUpper(second) {
		return s
	}
	return string(unicode.ToLower(first)) + s[size:]
}

// PropertyName maps an attribute name to the bean property that holds its
// value. Boolean attributes named is<Upper><rest> are read through the
// <lower><rest> property: isActive → active.
func PropertyName(attribute string) string {
	if rest, ok := cutUpper(attribute, "is"); ok {
		r, size := utf8.DecodeRuneInString(rest)
		return string(unicode.ToLower(r)) + rest[size:]
	}
	return attribute
}
