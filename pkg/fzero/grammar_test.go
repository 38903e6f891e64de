package fzero

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGrammarJSON(t *testing.T) {
	g, err := ParseGrammarJSON([]byte(`{"<start>": [["<start>", "a"], ["b"]]}`))
	require.NoError(t, err)
	assert.Equal(t, Grammar{"<start>": {{"<start>", "a"}, {"b"}}}, g)
}

func TestParseGrammarJSONDuplicateKey(t *testing.T) {
	// A map decode would silently keep one of the two definitions.
	_, err := ParseGrammarJSON([]byte(`{"<start>": [["a"]], "<start>": [["b"]]}`))
	assert.ErrorIs(t, err, ErrDuplicateProduction)
}

func TestParseGrammarJSONNestedKeysNotDuplicates(t *testing.T) {
	// Only top-level production names count; repeated strings inside
	// alternatives are fine.
	g, err := ParseGrammarJSON([]byte(`{"<start>": [["a", "a"], ["a"]], "<a>": [["a"]]}`))
	require.NoError(t, err)
	assert.Len(t, g, 2)
}

func TestParseGrammarJSONNotAnObject(t *testing.T) {
	_, err := ParseGrammarJSON([]byte(`[["a"]]`))
	assert.Error(t, err)
}

func TestParseGrammarYAML(t *testing.T) {
	data := []byte("\"<start>\":\n  - [\"<start>\", \"a\"]\n  - [\"b\"]\n")
	g, err := ParseGrammarYAML(data)
	require.NoError(t, err)
	assert.Equal(t, Grammar{"<start>": {{"<start>", "a"}, {"b"}}}, g)
}

func TestLoadGrammarFileByExtension(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "g.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"<start>": [["b"]]}`), 0o644))
	g, err := LoadGrammarFile(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, Grammar{"<start>": {{"b"}}}, g)

	yamlPath := filepath.Join(dir, "g.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("\"<start>\":\n  - [\"b\"]\n"), 0o644))
	g, err = LoadGrammarFile(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, Grammar{"<start>": {{"b"}}}, g)
}

func TestLoadGrammarFileMissing(t *testing.T) {
	_, err := LoadGrammarFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestProductionsSortedOrder(t *testing.T) {
	g := Grammar{
		"<z>":     {{"z"}},
		"<start>": {{"<z>"}},
		"<a>":     {{"a"}},
	}
	prods := g.Productions()
	require.Len(t, prods, 3)
	assert.Equal(t, "<a>", prods[0].Name)
	assert.Equal(t, "<start>", prods[1].Name)
	assert.Equal(t, "<z>", prods[2].Name)
}
