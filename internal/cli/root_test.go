package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/coltype/internal/cli/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := NewRootCmd()

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"check", "parse", "truncate", "dialects", "catalog", "columns", "serve", "version", "completion"} {
		assert.Contains(t, names, want)
	}

	for _, flag := range []string{"config", "dialect", "strict", "max-depth", "state", "verbose", "output"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRootCommand_FlagsReachCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	out, _, err := run(t, "-o", "json", "-d", "presto", "truncate", `row("a" int, "b" array(varchar))`)
	require.NoError(t, err)

	var results []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "row(...)", results[0]["label"])
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "coltype.yaml"), []byte(`dialect: presto
output: json
dialects:
  - name: spark
    nested_keywords: [array, map, struct]
`), 0o600))

	out, _, err := run(t, "check", `row("a" int)`)
	require.NoError(t, err)
	assert.Contains(t, out, `"nested": true`)

	out, _, err = run(t, "-d", "spark", "check", "struct<a:int>")
	require.NoError(t, err)
	assert.Contains(t, out, `"nested": true`)
}

func TestRootCommand_InvalidConfig(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, err := run(t, "-d", "oracle", "check", "array<int>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown dialect "oracle"`)

	_, _, err = run(t, "-o", "yaml", "check", "array<int>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output mode")

	_, _, err = run(t, "--max-depth=-1", "check", "array<int>")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_depth must be positive")
}

func TestRootCommand_ImportAndList(t *testing.T) {
	catalogDir := testutil.SetupTestCatalog(t)
	t.Chdir(t.TempDir())
	state := filepath.Join(t.TempDir(), "state.db")

	_, _, err := run(t, "--state", state, "-o", "json", "catalog", "import", filepath.Join(catalogDir, "catalog.yaml"))
	require.NoError(t, err)

	out, _, err := run(t, "--state", state, "-o", "json", "columns", "--nested-only", "sales.orders")
	require.NoError(t, err)

	var cols []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &cols))
	require.Len(t, cols, 2)
	assert.Equal(t, "lines", cols[0]["name"])
	assert.Equal(t, "array<...>", cols[0]["truncated"])
}

func TestRootCommand_VerboseLogsToStderr(t *testing.T) {
	t.Chdir(t.TempDir())

	out, errOut, err := run(t, "-v", "-o", "text", "parse", "array<int>")
	require.NoError(t, err)
	assert.Contains(t, out, "array<...>")
	assert.Contains(t, errOut, "parsed nested type")
}

func TestCompletionCommand(t *testing.T) {
	out, _, err := run(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "coltype")

	_, _, err = run(t, "completion", "tcsh")
	assert.Error(t, err)
}
