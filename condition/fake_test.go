package condition

import (
	"fmt"
	"io"
	"log/slog"
	"reflect"
	"strings"

	"github.com/roach88/condition/criteria"
)

// The fake host renders predicates as SQL-like strings with inlined
// literals so tests can compare whole trees.

type fakePredicate string

func (p fakePredicate) String() string { return string(p) }

type fakeExpr string

func (x fakeExpr) Name() string { return string(x) }

type fakeAttr struct {
	name string
	typ  reflect.Type
}

func (a fakeAttr) Name() string       { return a.name }
func (a fakeAttr) Type() reflect.Type { return a.typ }

type fakeEntity struct {
	attrs []criteria.Attribute
}

func (e fakeEntity) Name() string                     { return "fake" }
func (e fakeEntity) Attributes() []criteria.Attribute { return e.attrs }

type fakeRoot struct {
	entity    fakeEntity
	transient map[string]bool
	gets      []string
	loads     int
}

// newFakeRoot creates a root whose entity has the given attributes in order.
func newFakeRoot(names ...string) *fakeRoot {
	r := &fakeRoot{transient: map[string]bool{}}
	for _, n := range names {
		r.entity.attrs = append(r.entity.attrs, fakeAttr{name: n, typ: reflect.TypeOf((*any)(nil)).Elem()})
	}
	return r
}

// withTransient lists names in the model that Get rejects.
func (r *fakeRoot) withTransient(names ...string) *fakeRoot {
	for _, n := range names {
		r.entity.attrs = append(r.entity.attrs, fakeAttr{name: n, typ: reflect.TypeOf("")})
		r.transient[n] = true
	}
	return r
}

func (r *fakeRoot) Get(name string) (criteria.Expression, error) {
	r.gets = append(r.gets, name)
	if r.transient[name] {
		return nil, fmt.Errorf("%w: %s is transient", criteria.ErrUnknownAttribute, name)
	}
	for _, a := range r.entity.attrs {
		if a.Name() == name {
			return fakeExpr(name), nil
		}
	}
	return nil, fmt.Errorf("%w: %s", criteria.ErrUnknownAttribute, name)
}

func (r *fakeRoot) Model() criteria.EntityType {
	r.loads++
	return r.entity
}

type fakeQuery struct{}

func (fakeQuery) From() string { return "fake" }

type fakeBuilder struct{}

func (fakeBuilder) And(ps ...criteria.Predicate) criteria.Predicate { return join(" AND ", ps) }
func (fakeBuilder) Or(ps ...criteria.Predicate) criteria.Predicate  { return join(" OR ", ps) }

func (fakeBuilder) Equal(x criteria.Expression, v any) criteria.Predicate {
	if v == nil {
		return fakePredicate(x.Name() + " IS NULL")
	}
	return binary(x, "=", v)
}

func (fakeBuilder) Like(x criteria.Expression, pattern string) criteria.Predicate {
	return binary(x, "LIKE", pattern)
}

func (fakeBuilder) GreaterThan(x criteria.Expression, v any) criteria.Predicate {
	return binary(x, ">", v)
}

func (fakeBuilder) GreaterThanOrEqualTo(x criteria.Expression, v any) criteria.Predicate {
	return binary(x, ">=", v)
}

func (fakeBuilder) LessThan(x criteria.Expression, v any) criteria.Predicate {
	return binary(x, "<", v)
}

func (fakeBuilder) LessThanOrEqualTo(x criteria.Expression, v any) criteria.Predicate {
	return binary(x, "<=", v)
}

func join(sep string, ps []criteria.Predicate) criteria.Predicate {
	parts := make([]string, len(ps))
	for i, p := range ps {
		if p == nil {
			panic("nil predicate passed to builder")
		}
		parts[i] = p.String()
	}
	return fakePredicate("(" + strings.Join(parts, sep) + ")")
}

func binary(x criteria.Expression, op string, v any) criteria.Predicate {
	return fakePredicate(fmt.Sprintf("%s %s %s", x.Name(), op, literal(v)))
}

func literal(v any) string {
	if s, ok := v.(string); ok {
		return "'" + s + "'"
	}
	return fmt.Sprint(v)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestCondition binds probe to a fake query context over attrs.
func newTestCondition[T any](probe T, attrs ...string) (*Condition[T], *fakeRoot) {
	root := newFakeRoot(attrs...)
	return Of(root, fakeQuery{}, fakeBuilder{}, probe, WithLogger(discardLogger())), root
}

func render(ps []criteria.Predicate) []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}
