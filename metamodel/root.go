package metamodel

import (
	"fmt"

	"github.com/roach88/condition/criteria"
)

// Column is the expression of one attribute column.
type Column struct {
	Attribute string
	Column    string
}

// Name implements criteria.Expression. It returns the column.
func (c Column) Name() string { return c.Column }

// Root is a criteria.Root over an entity. Hosts share it since only the
// predicates differ between them.
type Root struct {
	entity *Entity
}

// NewRoot creates a Root over e.
func NewRoot(e *Entity) *Root {
	return &Root{entity: e}
}

// Get resolves a persistent attribute to its column. Unknown names wrap
// criteria.ErrUnknownAttribute.
func (r *Root) Get(name string) (criteria.Expression, error) {
	a, ok := r.entity.Attribute(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s.%s", criteria.ErrUnknownAttribute, r.entity.Name(), name)
	}
	return Column{Attribute: name, Column: a.Column()}, nil
}

// Model implements criteria.Root.
func (r *Root) Model() criteria.EntityType {
	return r.entity
}

// Entity returns the entity the root ranges over.
func (r *Root) Entity() *Entity {
	return r.entity
}

// Query is the query node over one table.
type Query struct {
	Table string
}

// From implements criteria.Query.
func (q Query) From() string { return q.Table }
