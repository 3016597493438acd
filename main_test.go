package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdxmph/family-contacts/internal/config"
	"github.com/pdxmph/family-contacts/internal/contact"
)

// setupWorkspace writes a config using the file backend under a temp dir
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	cfg := config.Default()
	cfg.Storage.Backend = "file"
	cfg.Storage.Path = filepath.Join(dir, "data", "contacts.json")
	cfg.Export.Dir = dir
	cfg.Log.Path = filepath.Join(dir, "family-contacts.log")
	require.NoError(t, cfg.SaveTo(filepath.Join(dir, "config.toml")))
	return dir
}

func runCLI(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()
	listSearch, listFilter, listSort = "", "", ""

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--config", filepath.Join(dir, "config.toml")}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

func TestListShowsDefaults(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := runCLI(t, dir, "list")
	require.NoError(t, err)
	for _, name := range []string{"Abba", "Amma", "Dada", "Bon", "Chacha"} {
		assert.Contains(t, out, name)
	}
	assert.Contains(t, out, "Total 5 • Called 0 • Not Called 5")
}

func TestListFilterAndSearch(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := runCLI(t, dir, "list", "--filter", "called")
	require.NoError(t, err)
	assert.Contains(t, out, "No contacts match.")

	out, err = runCLI(t, dir, "list", "--search", "uncle")
	require.NoError(t, err)
	assert.Contains(t, out, "Chacha")
	assert.NotContains(t, out, "Abba")

	_, err = runCLI(t, dir, "list", "--sort", "age")
	assert.Error(t, err)
}

func TestExportImportReset(t *testing.T) {
	dir := setupWorkspace(t)

	out, err := runCLI(t, dir, "export")
	require.NoError(t, err)
	backup := filepath.Join(dir, contact.ExportFileName)
	assert.Contains(t, out, backup)
	_, err = os.Stat(backup)
	require.NoError(t, err)

	doc := `[{"id":"x1","name":"Nana","relation":"Grandfather","phones":["+8801755555555"],"status":"called","callCount":2}]`
	path := filepath.Join(dir, "mine.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	out, err = runCLI(t, dir, "import", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 1 contacts")

	out, err = runCLI(t, dir, "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Nana")
	assert.Contains(t, out, "Total 1 • Called 1 • Not Called 0")

	_, err = runCLI(t, dir, "reset")
	require.NoError(t, err)
	out, err = runCLI(t, dir, "list", "--filter", "not_called")
	require.NoError(t, err)
	assert.Contains(t, out, "Nana")
}

func TestImportRejectsInvalidFile(t *testing.T) {
	dir := setupWorkspace(t)
	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0644))

	_, err := runCLI(t, dir, "import", path)
	assert.ErrorIs(t, err, contact.ErrInvalidImport)

	_, err = runCLI(t, dir, "import")
	assert.Error(t, err, "a path is required")
}
