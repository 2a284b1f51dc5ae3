package condition

import (
	"github.com/roach88/condition/criteria"
	"github.com/roach88/condition/introspect"
)

// IncludePredicate keeps accessors whose attribute name is one of names.
// An empty list keeps nothing.
func IncludePredicate(names ...string) func(Accessor) bool {
	set := nameSet(names)
	return func(a Accessor) bool {
		_, ok := set[a.Name]
		return ok
	}
}

// ExcludePredicate drops accessors whose attribute name is one of names.
// An empty list drops nothing.
func ExcludePredicate(names ...string) func(Accessor) bool {
	set := nameSet(names)
	return func(a Accessor) bool {
		_, ok := set[a.Name]
		return !ok
	}
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// PropertyValue reads a probe property.
func PropertyValue(probe any, d *introspect.PropertyDescriptor) introspect.Value {
	return d.Read(probe)
}

// IsTransient reports whether name is not a persistent attribute of root,
// i.e. root.Get fails for it.
func IsTransient(root criteria.Root, name string) bool {
	_, err := root.Get(name)
	return err != nil
}
