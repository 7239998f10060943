package commands_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/sqlsift/internal/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the CLI with the given args and returns stdout.
func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := cli.NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestExtractFromStdin(t *testing.T) {
	out, err := execute(t, "SELECT * FROM b JOIN a ON a.id = b.id", "extract")
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", out)
}

func TestExtractFromFiles(t *testing.T) {
	dir := t.TempDir()
	first := writeFile(t, dir, "first.sql", "SELECT * FROM orders")
	second := writeFile(t, dir, "second.sql", "SELECT * FROM users JOIN Orders o ON o.id = users.id")

	out, err := execute(t, "", "extract", first, second)
	require.NoError(t, err)
	// Dedup across files keeps the first-seen casing
	assert.Equal(t, "orders\nusers\n", out)
}

func TestExtractJSONOutput(t *testing.T) {
	out, err := execute(t, "SELECT * FROM t", "extract", "-o", "json")
	require.NoError(t, err)

	var resp struct {
		Tables []string `json:"tables"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, []string{"t"}, resp.Tables)
}

func TestExtractTableOutput(t *testing.T) {
	out, err := execute(t, "SELECT * FROM t", "extract", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "TABLE")
	assert.Contains(t, out, "t")
	assert.Contains(t, out, "(1 tables)")
}

func TestExtractReport(t *testing.T) {
	out, err := execute(t, "WITH c AS (SELECT * FROM src) SELECT * FROM c", "extract", "--report")
	require.NoError(t, err)
	assert.Contains(t, out, "cte\tc")
	assert.Contains(t, out, "source\tsrc")
	assert.Contains(t, out, "1 statements, 1 source tables")
}

func TestExtractDefaultDatabaseFlag(t *testing.T) {
	out, err := execute(t, "USE prod; SELECT * FROM t; SELECT * FROM u",
		"extract", "--default-database", "default")
	require.NoError(t, err)
	assert.Equal(t, "prod.t\nprod.u\n", out)
}

func TestExtractMissingFile(t *testing.T) {
	_, err := execute(t, "", "extract", filepath.Join(t.TempDir(), "missing.sql"))
	assert.Error(t, err)
}

func TestExtractInvalidOutputFormat(t *testing.T) {
	_, err := execute(t, "SELECT 1", "extract", "-o", "xml")
	assert.Error(t, err)
}

func TestScanThenTables(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.sql", "SELECT * FROM orders JOIN users ON orders.uid = users.id")
	writeFile(t, dir, "b.hql", "INSERT OVERWRITE TABLE daily SELECT * FROM orders")
	writeFile(t, dir, "notes.txt", "SELECT * FROM ignored")
	indexPath := filepath.Join(t.TempDir(), "index.db")

	out, err := execute(t, "", "scan", dir, "--index", indexPath)
	require.NoError(t, err)
	assert.Contains(t, out, "scanned 2 files, 3 source tables")

	out, err = execute(t, "", "tables", "--index", indexPath)
	require.NoError(t, err)
	assert.Equal(t, "daily\t1\norders\t2\nusers\t1\n", out)

	out, err = execute(t, "", "tables", "orders", "--index", indexPath)
	require.NoError(t, err)
	assert.Equal(t,
		filepath.Join(dir, "a.sql")+"\n"+filepath.Join(dir, "b.hql")+"\n",
		out)
}

func TestTablesWithoutIndex(t *testing.T) {
	_, err := execute(t, "", "tables", "--index", filepath.Join(t.TempDir(), "none.db"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sqlsift scan")
}

func TestScanMissingDirectory(t *testing.T) {
	_, err := execute(t, "", "scan", filepath.Join(t.TempDir(), "missing"),
		"--index", filepath.Join(t.TempDir(), "index.db"))
	assert.Error(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlsift v")
}
