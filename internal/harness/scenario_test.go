package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
entity: Person: {
	table: "people"
	attributes: {
		id:   string
		name: string
		age:  int
	}
}
`

// writeScenario writes a schema and a scenario into a temp dir and returns
// the scenario path.
func writeScenario(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "people.cue"), []byte(testSchema), 0644))
	path := filepath.Join(dir, "scenario.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadScenario_Valid(t *testing.T) {
	path := writeScenario(t, `
name: valid
description: Loads a scenario
schema: people.cue
entity: Person
probe:
  name: alice
steps:
  - clause: and
    predicates:
      - op: equals
        include: [name]
rows:
  - {id: p1, name: alice}
expect:
  where: "(name = ?)"
  args: [alice]
  rows: [p1]
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	assert.Equal(t, "valid", s.Name)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "people.cue"), s.Schema)
	assert.Equal(t, "Person", s.Entity)
	assert.Equal(t, map[string]any{"name": "alice"}, s.Probe)
	require.Len(t, s.Steps, 1)
	assert.Equal(t, ClauseAnd, s.Steps[0].Clause)
	assert.Equal(t, []string{"name"}, s.Steps[0].Predicates[0].Include)
	require.NotNil(t, s.Expect.Where)
	assert.Equal(t, "(name = ?)", *s.Expect.Where)
	assert.Equal(t, []string{"p1"}, s.Expect.Rows)
}

func TestLoadScenario_UnknownField(t *testing.T) {
	path := writeScenario(t, `
name: typo
description: Misspelled field
schema: people.cue
entity: Person
step:
  - clause: and
`)

	_, err := LoadScenario(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestLoadScenario_FileNotFound(t *testing.T) {
	_, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read scenario file")
}

func TestLoadScenario_EmptyIncludeIsKept(t *testing.T) {
	path := writeScenario(t, `
name: empty_include
description: An explicit empty include list
schema: people.cue
entity: Person
steps:
  - clause: and
    predicates:
      - op: equals
        include: []
      - op: likes
`)

	s, err := LoadScenario(path)
	require.NoError(t, err)

	preds := s.Steps[0].Predicates
	assert.NotNil(t, preds[0].Include)
	assert.Empty(t, preds[0].Include)
	assert.Nil(t, preds[1].Include)
}

func TestLoadScenario_Validation(t *testing.T) {
	testCases := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name:    "missing name",
			body:    "description: d\nschema: people.cue\nentity: Person\nsteps: [{clause: and, predicates: [{op: equals}]}]\n",
			wantErr: "name is required",
		},
		{
			name:    "missing description",
			body:    "name: n\nschema: people.cue\nentity: Person\nsteps: [{clause: and, predicates: [{op: equals}]}]\n",
			wantErr: "description is required",
		},
		{
			name:    "missing schema file",
			body:    "name: n\ndescription: d\nschema: nope.cue\nentity: Person\nsteps: [{clause: and, predicates: [{op: equals}]}]\n",
			wantErr: "schema file not found",
		},
		{
			name:    "missing entity",
			body:    "name: n\ndescription: d\nschema: people.cue\nsteps: [{clause: and, predicates: [{op: equals}]}]\n",
			wantErr: "entity is required",
		},
		{
			name:    "no steps",
			body:    "name: n\ndescription: d\nschema: people.cue\nentity: Person\n",
			wantErr: "steps list is required",
		},
		{
			name:    "bad clause",
			body:    "name: n\ndescription: d\nschema: people.cue\nentity: Person\nsteps: [{clause: xor, predicates: [{op: equals}]}]\n",
			wantErr: `steps[0]: clause must be "and" or "or", got "xor"`,
		},
		{
			name:    "empty predicates",
			body:    "name: n\ndescription: d\nschema: people.cue\nentity: Person\nsteps: [{clause: and, predicates: []}]\n",
			wantErr: "steps[0]: predicates list is required",
		},
		{
			name:    "unknown op",
			body:    "name: n\ndescription: d\nschema: people.cue\nentity: Person\nsteps: [{clause: and, predicates: [{op: NE, name: age}]}]\n",
			wantErr: `steps[0].predicates[0]: unknown operator "NE"`,
		},
		{
			name:    "operator without name",
			body:    "name: n\ndescription: d\nschema: people.cue\nentity: Person\nsteps: [{clause: and, predicates: [{op: GT}]}]\n",
			wantErr: "GT: name is required",
		},
		{
			name:    "between without name",
			body:    "name: n\ndescription: d\nschema: people.cue\nentity: Person\nsteps: [{clause: and, predicates: [{op: between}]}]\n",
			wantErr: "between: name is required",
		},
		{
			name:    "or_equal without include",
			body:    "name: n\ndescription: d\nschema: people.cue\nentity: Person\nsteps: [{clause: or, predicates: [{op: or_equal}]}]\n",
			wantErr: "or_equal: include is required",
		},
		{
			name:    "include and exclude",
			body:    "name: n\ndescription: d\nschema: people.cue\nentity: Person\nsteps: [{clause: and, predicates: [{op: likes, include: [a], exclude: [b]}]}]\n",
			wantErr: "include and exclude are mutually exclusive",
		},
		{
			name:    "rows with expected error",
			body:    "name: n\ndescription: d\nschema: people.cue\nentity: Person\nsteps: [{clause: and, predicates: [{op: equals}]}]\nrows: [{id: p1}]\nexpect: {error: boom}\n",
			wantErr: "rows cannot be checked when an error is expected",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadScenario(writeScenario(t, tc.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid scenario")
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestLoadDir_Ordered(t *testing.T) {
	scenarios, err := LoadDir("testdata/scenarios")
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(scenarios), 6)

	assert.Equal(t, "equals_single", scenarios[0].Name)
	assert.Equal(t, "between_both", scenarios[1].Name)
}
