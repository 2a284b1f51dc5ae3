package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/condition/metamodel"
)

// EntityInfo describes one compiled entity.
type EntityInfo struct {
	Name       string          `json:"name"`
	Table      string          `json:"table"`
	Key        string          `json:"key"`
	Attributes []AttributeInfo `json:"attributes"`
}

// AttributeInfo describes one entity attribute.
type AttributeInfo struct {
	Name   string `json:"name"`
	Column string `json:"column"`
	Type   string `json:"type"`
}

// EntitiesResult lists the entities of a schema file.
type EntitiesResult struct {
	Schema   string       `json:"schema"`
	Entities []EntityInfo `json:"entities"`
}

// RenderText implements TextRenderer.
func (r EntitiesResult) RenderText(w io.Writer) {
	if len(r.Entities) == 0 {
		fmt.Fprintf(w, "No entities in %s.\n", r.Schema)
		return
	}
	for i, e := range r.Entities {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s (table %s, key %s)\n", e.Name, e.Table, e.Key)
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "  ATTRIBUTE\tCOLUMN\tTYPE")
		for _, a := range e.Attributes {
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", a.Name, a.Column, a.Type)
		}
		tw.Flush()
	}
}

// NewEntitiesCommand creates the entities command.
func NewEntitiesCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entities <schema.cue>",
		Short: "List the entities of a CUE schema",
		Long: `Compile a CUE entity schema and list its entities with their
tables, keys and attribute columns.

Examples:
  condition entities ./schemas/people.cue
  condition entities ./schemas/people.cue --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntities(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runEntities(opts *RootOptions, path string, cmd *cobra.Command) error {
	out := opts.formatter(cmd)

	schema, err := metamodel.LoadFile(path)
	if err != nil {
		_ = out.Error("E_SCHEMA", err.Error(), map[string]string{"schema": path})
		return WrapExitError(ExitCommandError, "failed to load schema", err)
	}

	result := EntitiesResult{Schema: path, Entities: []EntityInfo{}}
	for _, e := range schema.Entities() {
		info := EntityInfo{
			Name:       e.Name(),
			Table:      e.Table(),
			Key:        e.Key(),
			Attributes: make([]AttributeInfo, 0, len(e.Attributes())),
		}
		for _, attr := range e.Attributes() {
			a := attr.(*metamodel.Attribute)
			info.Attributes = append(info.Attributes, AttributeInfo{
				Name:   a.Name(),
				Column: a.Column(),
				Type:   typeName(a),
			})
		}
		result.Entities = append(result.Entities, info)
	}

	return out.Success(result)
}

func typeName(a *metamodel.Attribute) string {
	if a.Type() == nil {
		return "any"
	}
	return a.Type().String()
}
