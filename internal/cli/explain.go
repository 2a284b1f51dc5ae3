package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/condition/condition"
	"github.com/roach88/condition/host/goquhost"
	"github.com/roach88/condition/host/squirrelhost"
	"github.com/roach88/condition/internal/harness"
)

// Supported query builder hosts.
const (
	HostSquirrel = "squirrel"
	HostGoqu     = "goqu"
)

// ExplainOptions holds flags for the explain command.
type ExplainOptions struct {
	*RootOptions
	Host    string // query builder host
	Dialect string // goqu dialect
}

// ExplainResult describes the clause synthesized for one scenario.
type ExplainResult struct {
	Scenario string               `json:"scenario"`
	Entity   string               `json:"entity"`
	Table    string               `json:"table"`
	Host     string               `json:"host"`
	SQL      string               `json:"sql"`
	SQLArgs  []any                `json:"sql_args"`
	Where    string               `json:"where"`
	Args     []any                `json:"args"`
	Trace    []harness.TraceEvent `json:"trace"`
	Rows     []string             `json:"rows,omitempty"`
	Warnings []string             `json:"warnings,omitempty"`
}

// RenderText implements TextRenderer.
func (r ExplainResult) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Scenario: %s\n", r.Scenario)
	fmt.Fprintf(w, "Entity:   %s (%s)\n", r.Entity, r.Table)
	fmt.Fprintf(w, "Host:     %s\n", r.Host)
	fmt.Fprintf(w, "SQL:      %s\n", r.SQL)
	fmt.Fprintf(w, "Args:     %v\n", r.SQLArgs)

	where := r.Where
	if where == "" {
		where = "(no restriction)"
	}
	fmt.Fprintf(w, "Where:    %s\n", where)

	if len(r.Trace) > 0 {
		fmt.Fprintln(w, "Predicates:")
		for i, ev := range r.Trace {
			fmt.Fprintf(w, "  [%d] %s %s: %s\n", i, ev.Op, ev.Attribute, ev.Predicate)
		}
	}
	if r.Rows != nil {
		fmt.Fprintf(w, "Rows:     %s\n", strings.Join(r.Rows, ", "))
	}
	for _, warn := range r.Warnings {
		fmt.Fprintf(w, "Warning:  %s\n", warn)
	}
}

// NewExplainCommand creates the explain command.
func NewExplainCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExplainOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "explain <scenario.yaml>",
		Short: "Show the WHERE clause a scenario synthesizes",
		Long: `Build the specification described by a scenario and render it.

Prints the full SELECT statement in the chosen host, the WHERE clause,
every emitted predicate and, when the scenario seeds rows, the keys the
clause selects.

Exit codes:
  0 - Clause rendered
  1 - The specification failed
  2 - Command error (invalid scenario, unknown host, etc.)

Examples:
  condition explain ./scenarios/between.yaml
  condition explain ./scenarios/between.yaml --host goqu
  condition explain ./scenarios/between.yaml --format json -v`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Host, "host", HostSquirrel, "query builder host (squirrel|goqu)")
	cmd.Flags().StringVar(&opts.Dialect, "dialect", "sqlite3", "goqu dialect")

	return cmd
}

func runExplain(opts *ExplainOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)
	logger := out.Logger()

	if opts.Host != HostSquirrel && opts.Host != HostGoqu {
		return NewExitError(ExitCommandError,
			fmt.Sprintf("invalid host %q: must be %s or %s", opts.Host, HostSquirrel, HostGoqu))
	}

	scenario, err := harness.LoadScenario(path)
	if err != nil {
		_ = out.Error("E_LOAD", err.Error(), map[string]string{"file": path})
		return WrapExitError(ExitCommandError, "failed to load scenario", err)
	}
	e, err := scenario.LoadEntity()
	if err != nil {
		_ = out.Error("E_SCHEMA", err.Error(), map[string]string{"schema": scenario.Schema})
		return WrapExitError(ExitCommandError, "failed to load entity", err)
	}

	result, err := harness.New(harness.WithLogger(logger)).Run(cmd.Context(), scenario)
	if err != nil {
		_ = out.Error("E_SCENARIO", err.Error(), nil)
		return WrapExitError(ExitCommandError, "failed to run scenario", err)
	}
	if result.Error != "" {
		_ = out.Error("E_SPECIFICATION", result.Error, map[string]string{"scenario": scenario.Name})
		return NewExitError(ExitFailure, result.Error)
	}

	spec := scenario.Specification(condition.WithLogger(logger))
	explained := ExplainResult{
		Scenario: scenario.Name,
		Entity:   e.Name(),
		Table:    e.Table(),
		Host:     opts.Host,
		Where:    result.Where,
		Args:     result.Args,
		Trace:    result.Trace,
		Rows:     result.Rows,
		Warnings: result.Warnings,
	}

	switch opts.Host {
	case HostGoqu:
		ds, err := goquhost.Dataset(opts.Dialect, e, spec)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to build dataset", err)
		}
		explained.SQL, explained.SQLArgs, err = ds.ToSQL()
		if err != nil {
			return WrapExitError(ExitFailure, "failed to render dataset", err)
		}
	default:
		b, err := squirrelhost.Select(e, spec, e.Columns()...)
		if err != nil {
			return WrapExitError(ExitFailure, "failed to build select", err)
		}
		explained.SQL, explained.SQLArgs, err = b.ToSql()
		if err != nil {
			return WrapExitError(ExitFailure, "failed to render select", err)
		}
	}
	if explained.SQLArgs == nil {
		explained.SQLArgs = []any{}
	}

	return out.Success(explained)
}
