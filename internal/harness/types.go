package harness

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// TraceEvent is one predicate emitted by the synthesizer while a scenario
// ran.
type TraceEvent struct {
	Op        string `json:"op"`
	Attribute string `json:"attribute"`
	Predicate string `json:"predicate"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every expectation matched.
	Pass bool `json:"pass"`

	// Where is the WHERE SQL, empty when the specification added nothing.
	Where string `json:"where"`

	// Args are the bound arguments of Where.
	Args []any `json:"args"`

	// Rows are the keys of the seed rows matching Where. Nil when no
	// rows were seeded.
	Rows []string `json:"rows,omitempty"`

	// Error is the specification error, if any.
	Error string `json:"error,omitempty"`

	// Trace lists emitted predicates in order.
	Trace []TraceEvent `json:"trace"`

	// Warnings are synthesizer warnings such as getter failures.
	Warnings []string `json:"warnings,omitempty"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
// Used as the starting point for test execution.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Args:   []any{},
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// recorder is a slog.Handler that collects synthesizer records into a
// Result. Predicate traces become TraceEvents; records at Warn and above
// become warnings.
type recorder struct {
	result *Result
	attrs  []slog.Attr
}

func newRecorder(result *Result) *recorder {
	return &recorder{result: result}
}

func (r *recorder) Enabled(context.Context, slog.Level) bool {
	return true
}

func (r *recorder) Handle(_ context.Context, rec slog.Record) error {
	fields := make(map[string]string, rec.NumAttrs()+len(r.attrs))
	var order []string
	collect := func(a slog.Attr) bool {
		if _, seen := fields[a.Key]; !seen {
			order = append(order, a.Key)
		}
		fields[a.Key] = a.Value.String()
		return true
	}
	for _, a := range r.attrs {
		collect(a)
	}
	rec.Attrs(collect)

	switch {
	case rec.Message == "predicate":
		r.result.Trace = append(r.result.Trace, TraceEvent{
			Op:        fields["op"],
			Attribute: fields["attribute"],
			Predicate: fields["predicate"],
		})
	case rec.Level >= slog.LevelWarn:
		var b strings.Builder
		b.WriteString(rec.Message)
		for _, k := range order {
			fmt.Fprintf(&b, " %s=%s", k, fields[k])
		}
		r.result.Warnings = append(r.result.Warnings, b.String())
	}
	return nil
}

func (r *recorder) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := &recorder{result: r.result, attrs: make([]slog.Attr, 0, len(r.attrs)+len(attrs))}
	next.attrs = append(next.attrs, r.attrs...)
	next.attrs = append(next.attrs, attrs...)
	return next
}

func (r *recorder) WithGroup(string) slog.Handler {
	return r
}
