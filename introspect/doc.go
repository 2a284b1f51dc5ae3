// Package introspect resolves probe properties by name and reads their
// values.
//
// A property is the bean-style view of a probe attribute. Three probe
// shapes are supported:
//
//   - Structs (or pointers to structs). Exported fields become properties
//     under their decapitalized name (Name → name, URL → URL). Zero-argument
//     methods returning (v) or (v, error) are getters: GetName → name,
//     IsActive (bool result) → active, and a plain Name method → name.
//     Getters shadow fields of the same property name.
//   - map[string]any. Every key is a property.
//   - Any type implementing Projector. The projection is read as a map.
//
// Struct tags override the field property name:
//
//	type Person struct {
//	    FullName string `condition:"name"`
//	    Secret   string `condition:"-"`
//	}
//
// VALUES:
//
// Read never panics and never returns a raw error. The result is a Value
// that is present, absent, or absent because the read failed. Nil pointers,
// nil interfaces, nil maps and slices, and driver.Valuer implementations
// yielding nil are absent. Non-nil pointers are dereferenced and
// driver.Valuer implementations are resolved to their driver value.
package introspect
