package condition

import (
	"context"
	"log/slog"

	"github.com/roach88/condition/criteria"
	"github.com/roach88/condition/introspect"
)

// objectClass is the property name reserved for type identity. It is never
// turned into a predicate even if a metamodel lists it.
const objectClass = "class"

// Accessor pairs an attribute name with the probe property holding its
// value.
type Accessor struct {
	// Name is the attribute (and column) name.
	Name string

	// Descriptor reads the value from the probe.
	Descriptor *introspect.PropertyDescriptor
}

// Condition is the predicate synthesizer for one probe and one query
// context.
type Condition[T any] struct {
	root  criteria.Root
	query criteria.Query
	cb    criteria.Builder

	model T
	ready bool

	attributes []criteria.Attribute // lazily loaded from root.Model()
	loaded     bool

	predicate criteria.Predicate
	err       error

	logger       *slog.Logger
	introspector *introspect.Introspector
}

type config struct {
	logger       *slog.Logger
	introspector *introspect.Introspector
}

// Option configures a Condition.
type Option func(*config)

// WithLogger sets the logger for getter failures and predicate traces.
//
// Default: slog.Default()
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// WithIntrospector shares a property introspector between conditions.
//
// Default: a fresh introspect.New() per Condition.
func WithIntrospector(in *introspect.Introspector) Option {
	return func(c *config) {
		c.introspector = in
	}
}

// New creates a Condition without a probe. SetModel must be called before
// any predicate operation.
func New[T any](root criteria.Root, query criteria.Query, cb criteria.Builder, opts ...Option) *Condition[T] {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}
	if cfg.introspector == nil {
		cfg.introspector = introspect.New()
	}

	return &Condition[T]{
		root:         root,
		query:        query,
		cb:           cb,
		logger:       cfg.logger,
		introspector: cfg.introspector,
	}
}

// SetModel binds the probe.
func (c *Condition[T]) SetModel(model T) *Condition[T] {
	c.model = model
	c.ready = true
	return c
}

// Model returns the bound probe.
func (c *Condition[T]) Model() T {
	return c.model
}

// Root returns the row reference of the query.
func (c *Condition[T]) Root() criteria.Root {
	return c.root
}

// Query returns the query node.
func (c *Condition[T]) Query() criteria.Query {
	return c.query
}

// Builder returns the predicate factory.
func (c *Condition[T]) Builder() criteria.Builder {
	return c.cb
}

// Err returns the first error returned by the root while building
// predicates.
func (c *Condition[T]) Err() error {
	return c.err
}

// Accessor resolves the probe property for an attribute name.
//
// Returns false when the probe has no matching property or no probe is
// bound.
func (c *Condition[T]) Accessor(name string) (Accessor, bool) {
	if !c.ready {
		return Accessor{}, false
	}

	property := introspect.PropertyName(name)
	if d := c.introspector.Descriptor(c.model, property); d != nil {
		return Accessor{Name: name, Descriptor: d}, true
	}
	if property != name {
		if d := c.introspector.Descriptor(c.model, name); d != nil {
			return Accessor{Name: name, Descriptor: d}, true
		}
	}
	return Accessor{}, false
}

// loadAttributes returns the entity attributes, reading them from the root
// on first use.
func (c *Condition[T]) loadAttributes() []criteria.Attribute {
	if !c.loaded {
		if model := c.root.Model(); model != nil {
			c.attributes = model.Attributes()
		}
		c.loaded = true
	}
	return c.attributes
}

// Accessors enumerates the accessors of every persistent attribute that the
// probe can supply, in metamodel order. keep filters the result; nil keeps
// everything. IncludePredicate and ExcludePredicate are ready-made filters.
func (c *Condition[T]) Accessors(keep func(Accessor) bool) []Accessor {
	attrs := c.loadAttributes()
	out := make([]Accessor, 0, len(attrs))
	for _, attr := range attrs {
		a, ok := c.Accessor(attr.Name())
		if !ok || a.Descriptor.Name == objectClass {
			continue
		}
		if keep != nil && !keep(a) {
			continue
		}
		if IsTransient(c.root, a.Name) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func (c *Condition[T]) accessorsInclude(names []string) []Accessor {
	return c.Accessors(IncludePredicate(names...))
}

func (c *Condition[T]) accessorsExclude(names []string) []Accessor {
	return c.Accessors(ExcludePredicate(names...))
}

// read returns the probe value behind an accessor. Getter failures are
// logged and reported as absent.
func (c *Condition[T]) read(a Accessor) (any, bool) {
	v := a.Descriptor.Read(c.model)
	if err := v.Err(); err != nil {
		c.logger.Warn("probe property read failed",
			"attribute", a.Name,
			"property", a.Descriptor.Name,
			"error", err)
	}
	return v.Get()
}

// value reads the probe value for a name, or nil when the name has no
// property.
func (c *Condition[T]) value(name string) any {
	a, ok := c.Accessor(name)
	if !ok {
		return nil
	}
	v, _ := c.read(a)
	return v
}

// expression resolves a column through the root. The first root error is
// kept and the call yields nil.
func (c *Condition[T]) expression(name string) criteria.Expression {
	x, err := c.root.Get(name)
	if err != nil {
		if c.err == nil {
			c.err = err
		}
		return nil
	}
	return x
}

// trace logs an emitted predicate at Debug.
func (c *Condition[T]) trace(op string, name string, p criteria.Predicate) {
	if p == nil || !c.logger.Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	c.logger.Debug("predicate", "op", op, "attribute", name, "predicate", p.String())
}
