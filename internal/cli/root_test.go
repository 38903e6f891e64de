package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeGrammar(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grammar.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func runRoot(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootVersion(t *testing.T) {
	out, _, err := runRoot(t, "--version")
	require.NoError(t, err)
	assert.Equal(t, "fzero-go 0.1.0\n", out)
}

func TestRootRequiresGrammarFile(t *testing.T) {
	_, _, err := runRoot(t)
	assert.Error(t, err)
}

func TestRootGenerateCount(t *testing.T) {
	path := writeGrammar(t, `{"<start>": [["<start>", "a"], ["b"]]}`)
	out, errOut, err := runRoot(t, path, "-n", "3", "-d", "50")
	require.NoError(t, err)
	assert.Equal(t, "b\nba\nbaaa\n", out)
	assert.Contains(t, errOut, "Loaded grammar")
	assert.Contains(t, errOut, "Compiled grammar")
}

func TestRootDefaultPrintsSource(t *testing.T) {
	path := writeGrammar(t, `{"<start>": [["b"]]}`)
	out, _, err := runRoot(t, path)
	require.NoError(t, err)
	assert.Contains(t, out, "package main")
	assert.Contains(t, out, `f.emit("b")`)
}

func TestRootEmitsSourceFile(t *testing.T) {
	path := writeGrammar(t, `{"<start>": [["b"]]}`)
	outPath := filepath.Join(t.TempDir(), "fuzzer.go")

	_, errOut, err := runRoot(t, path, "-o", outPath)
	require.NoError(t, err)
	assert.Contains(t, errOut, "Generated Go source file")

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "package main")
}

func TestRootMissingStart(t *testing.T) {
	path := writeGrammar(t, `{"<other>": [["b"]]}`)
	_, _, err := runRoot(t, path)
	assert.Error(t, err)
}

func TestRootMissingFile(t *testing.T) {
	_, _, err := runRoot(t, filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRootRejectsBadDepth(t *testing.T) {
	path := writeGrammar(t, `{"<start>": [["b"]]}`)
	_, _, err := runRoot(t, path, "-d", "0")
	assert.Error(t, err)
}
