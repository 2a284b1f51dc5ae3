package criteria

import (
	"errors"
	"reflect"
)

// ErrUnknownAttribute is wrapped by Root.Get when a name has no persistent
// attribute in the root's entity.
var ErrUnknownAttribute = errors.New("unknown attribute")

// Predicate is a node in the host's boolean expression tree.
//
// String returns a SQL-equivalent rendering for diagnostics and logs.
type Predicate interface {
	String() string
}

// Expression is a typed column reference produced by Root.Get.
type Expression interface {
	// Name is the column the expression refers to.
	Name() string
}

// Attribute describes one persistent attribute of an entity.
type Attribute interface {
	Name() string
	Type() reflect.Type
}

// EntityType is the host metamodel view of a mapped entity.
//
// Attributes returns the persistent attributes in a stable order. The
// returned slice must not be modified by callers.
type EntityType interface {
	Name() string
	Attributes() []Attribute
}

// Root is the row reference of a query.
type Root interface {
	// Get returns the column expression for a persistent attribute name.
	Get(name string) (Expression, error)

	// Model returns the entity descriptor of the rows this root ranges over.
	Model() EntityType
}

// Query is the query node under compilation.
type Query interface {
	// From names the source table of the query.
	From() string
}

// Builder is the predicate factory.
//
// Builders must not retain or modify their arguments.
type Builder interface {
	And(restrictions ...Predicate) Predicate
	Or(restrictions ...Predicate) Predicate

	// Equal compares x to v. A nil v compares against SQL NULL.
	Equal(x Expression, v any) Predicate
	Like(x Expression, pattern string) Predicate
	GreaterThan(x Expression, v any) Predicate
	GreaterThanOrEqualTo(x Expression, v any) Predicate
	LessThan(x Expression, v any) Predicate
	LessThanOrEqualTo(x Expression, v any) Predicate
}

// Specification is the host callback that produces the WHERE predicate of
// a query. A nil Predicate with a nil error means no WHERE contribution.
type Specification func(root Root, query Query, cb Builder) (Predicate, error)
