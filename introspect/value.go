package introspect

import (
	"database/sql/driver"
	"fmt"
	"reflect"
)

// Value is the outcome of reading a probe property.
type Value struct {
	v       any
	present bool
	err     error
}

// Present wraps a non-absent value. Nil-like inputs still normalize to absent.
func Present(v any) Value {
	return normalize(v)
}

// Absent returns a Value with nothing in it.
func Absent() Value {
	return Value{}
}

// Failed returns an absent Value that records why the read failed.
func Failed(err error) Value {
	return Value{err: err}
}

// Get returns the value and whether it is present.
func (v Value) Get() (any, bool) {
	return v.v, v.present
}

// Interface returns the value, or nil when absent.
func (v Value) Interface() any {
	return v.v
}

// IsPresent reports whether the value is present.
func (v Value) IsPresent() bool {
	return v.present
}

// Err returns the read failure, if any. Absent values without a failure
// return nil.
func (v Value) Err() error {
	return v.err
}

// String implements fmt.Stringer.
func (v Value) String() string {
	switch {
	case v.err != nil:
		return fmt.Sprintf("<failed: %v>", v.err)
	case !v.present:
		return "<absent>"
	default:
		return fmt.Sprint(v.v)
	}
}

func normalize(v any) Value {
	if v == nil {
		return Absent()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return Absent()
		}
	}

	if valuer, ok := v.(driver.Valuer); ok {
		return resolveValuer(valuer)
	}

	if rv.Kind() == reflect.Pointer {
		return normalize(rv.Elem().Interface())
	}

	return Value{v: v, present: true}
}

// resolveValuer converts a driver.Valuer into its driver value.
// sql.NullString{Valid: false} and friends are absent.
func resolveValuer(valuer driver.Valuer) (result Value) {
	defer func() {
		if r := recover(); r != nil {
			result = Failed(fmt.Errorf("driver value panicked: %v", r))
		}
	}()

	dv, err := valuer.Value()
	if err != nil {
		return Failed(fmt.Errorf("driver value: %w", err))
	}
	if dv == nil {
		return Absent()
	}
	return Value{v: dv, present: true}
}
