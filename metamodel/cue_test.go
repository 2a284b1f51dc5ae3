package metamodel

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const peopleSchema = `
entity: Person: {
	table: "people"
	attributes: {
		id:       string
		name:     string
		age:      int
		score:    float
		isActive: {type: bool, column: "active_flag"}
	}
}

entity: Tag: {
	key: "label"
	attributes: {
		label: string
	}
}
`

func TestCompile(t *testing.T) {
	schema, err := Compile([]byte(peopleSchema), "people.cue")
	require.NoError(t, err)

	entities := schema.Entities()
	require.Len(t, entities, 2)
	assert.Equal(t, "Person", entities[0].Name())
	assert.Equal(t, "Tag", entities[1].Name())

	person, ok := schema.Entity("Person")
	require.True(t, ok)
	assert.Equal(t, "people", person.Table())
	assert.Equal(t, []string{"id", "name", "age", "score", "active_flag"}, person.Columns())

	testCases := []struct {
		attr string
		want reflect.Type
	}{
		{"id", reflect.TypeOf("")},
		{"age", reflect.TypeOf(int64(0))},
		{"score", reflect.TypeOf(float64(0))},
		{"isActive", reflect.TypeOf(false)},
	}
	for _, tc := range testCases {
		t.Run(tc.attr, func(t *testing.T) {
			a, ok := person.Attribute(tc.attr)
			require.True(t, ok)
			assert.Equal(t, tc.want, a.Type())
		})
	}

	tag, ok := schema.Entity("Tag")
	require.True(t, ok)
	assert.Equal(t, "tag", tag.Table())
	assert.Equal(t, "label", tag.Key())
	assert.Equal(t, "label", tag.KeyColumn())
}

func TestCompile_NoEntities(t *testing.T) {
	schema, err := Compile([]byte(`other: 1`), "empty.cue")
	require.NoError(t, err)
	assert.Empty(t, schema.Entities())
}

func TestCompile_Errors(t *testing.T) {
	testCases := []struct {
		name      string
		src       string
		wantField string
		wantMsg   string
	}{
		{
			name:      "missing attributes",
			src:       `entity: X: {table: "x"}`,
			wantField: "entity.X.attributes",
			wantMsg:   "attributes are required",
		},
		{
			name:      "empty attributes",
			src:       `entity: X: {attributes: {}}`,
			wantField: "entity.X.attributes",
			wantMsg:   "at least one attribute is required",
		},
		{
			name:      "unsupported kind",
			src:       `entity: X: {attributes: {tags: [...string]}}`,
			wantField: "entity.X.attributes.tags",
			wantMsg:   "unsupported type kind: list",
		},
		{
			name:      "struct without type",
			src:       `entity: X: {attributes: {a: {column: "c"}}}`,
			wantField: "entity.X.attributes.a.type",
			wantMsg:   "attribute type is required",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Compile([]byte(tc.src), "bad.cue")
			require.Error(t, err)

			var compileErr *CompileError
			require.ErrorAs(t, err, &compileErr)
			assert.Equal(t, tc.wantField, compileErr.Field)
			assert.Equal(t, tc.wantMsg, compileErr.Message)
		})
	}
}

func TestCompile_SyntaxError(t *testing.T) {
	_, err := Compile([]byte(`entity: {`), "broken.cue")
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.Equal(t, "cue", compileErr.Field)
	assert.Contains(t, err.Error(), "broken.cue")
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.cue")
	require.NoError(t, os.WriteFile(path, []byte(peopleSchema), 0o644))

	schema, err := LoadFile(path)
	require.NoError(t, err)
	_, ok := schema.Entity("Person")
	assert.True(t, ok)

	_, err = LoadFile(filepath.Join(dir, "missing.cue"))
	assert.ErrorContains(t, err, "read schema")
}

func TestCompileError_Error(t *testing.T) {
	err := &CompileError{Field: "entity.X", Message: "bad"}
	assert.Equal(t, "entity.X: bad", err.Error())
}
