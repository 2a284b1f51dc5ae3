package harness

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	sq "github.com/Masterminds/squirrel"

	"github.com/roach88/condition/condition"
	"github.com/roach88/condition/host/squirrelhost"
	"github.com/roach88/condition/internal/store"
	"github.com/roach88/condition/metamodel"
)

// Harness is the scenario execution engine.
type Harness struct {
	logger *slog.Logger
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogger sets the logger for harness progress messages.
//
// Default: discard
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) {
		h.logger = logger
	}
}

// New creates a Harness.
func New(opts ...Option) *Harness {
	h := &Harness{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)), // Suppress logs in tests
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Run executes a scenario with a default Harness.
func Run(scenario *Scenario) (*Result, error) {
	return New().Run(context.Background(), scenario)
}

// Run executes a scenario and returns the result.
//
// Each scenario runs in a fresh in-memory database for isolation.
//
// Execution flow:
// 1. Load the entity from the CUE schema
// 2. Build the specification from the probe and steps
// 3. Render the WHERE clause through the squirrel host
// 4. Seed rows and select the matching keys
// 5. Evaluate the expectations
//
// A specification error is part of the result. Errors are returned only
// when the scenario itself cannot be executed.
func (h *Harness) Run(ctx context.Context, scenario *Scenario) (*Result, error) {
	e, err := scenario.LoadEntity()
	if err != nil {
		return nil, err
	}

	result := NewResult()
	spec := scenario.Specification(condition.WithLogger(slog.New(newRecorder(result))))

	where, err := squirrelhost.Where(e, spec)
	switch {
	case errors.Is(err, ErrInvalidStep):
		return nil, err
	case err != nil:
		result.Error = err.Error()
		h.logger.Info("specification failed", "scenario", scenario.Name, "error", err)
	case where != nil:
		sql, args, err := where.ToSql()
		if err != nil {
			return nil, fmt.Errorf("failed to render where: %w", err)
		}
		result.Where = sql
		if args != nil {
			result.Args = args
		}
	}

	if len(scenario.Rows) > 0 && result.Error == "" {
		rows, err := h.selectRows(ctx, e, scenario.Rows, where)
		if err != nil {
			return nil, err
		}
		result.Rows = rows
	}

	for _, msg := range EvaluateExpect(result, scenario) {
		result.AddError(msg)
	}

	h.logger.Info("scenario completed",
		"scenario", scenario.Name,
		"where", result.Where,
		"predicates", len(result.Trace),
		"pass", result.Pass,
	)
	return result, nil
}

// selectRows seeds rows into a fresh in-memory store and returns the keys
// matching where.
func (h *Harness) selectRows(ctx context.Context, e *metamodel.Entity, rows []map[string]any, where sq.Sqlizer) ([]string, error) {
	for i, row := range rows {
		if row[e.Key()] == nil {
			return nil, fmt.Errorf("rows[%d]: key %q is required", i, e.Key())
		}
	}

	st, err := store.Open(":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to create in-memory store: %w", err)
	}
	defer st.Close()

	if err := st.CreateTable(ctx, e); err != nil {
		return nil, fmt.Errorf("failed to create table: %w", err)
	}
	if _, err := st.Insert(ctx, e, rows...); err != nil {
		return nil, fmt.Errorf("failed to seed rows: %w", err)
	}

	keys, err := st.SelectKeys(ctx, e, where)
	if err != nil {
		return nil, fmt.Errorf("failed to select rows: %w", err)
	}
	if keys == nil {
		keys = []string{}
	}
	return keys, nil
}
