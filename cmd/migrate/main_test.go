package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRootCommands(t *testing.T) {
	names := make([]string, 0)
	for _, c := range newRootCmd().Commands() {
		names = append(names, c.Name())
	}
	for _, want := range []string{"up", "down", "step", "goto", "version", "force", "drop", "create", "list"} {
		assert.Contains(t, names, want)
	}
}

func TestCreateAndList(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "create", "add invoice index", "Index invoices by status", "--path", dir)
	require.NoError(t, err)
	_, err = run(t, "create", "add_logo_column", "--path", dir)
	require.NoError(t, err)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4)
	assert.FileExists(t, filepath.Join(dir, "000001_add_invoice_index.up.sql"))
	assert.FileExists(t, filepath.Join(dir, "000002_add_logo_column.down.sql"))

	out, err := run(t, "list", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "000001_add_invoice_index")
	assert.Contains(t, out, "000002_add_logo_column")
}

func TestArgumentValidation(t *testing.T) {
	dir := t.TempDir()

	_, err := run(t, "create", "--path", dir)
	assert.Error(t, err)

	_, err = run(t, "step", "--path", dir)
	assert.Error(t, err)

	_, err = run(t, "up", "extra", "--path", dir)
	assert.Error(t, err)
}

func TestResolveMigrationsPath(t *testing.T) {
	dir := t.TempDir()

	got, err := resolveMigrationsPath(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	got, err = resolveMigrationsPath("")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}
