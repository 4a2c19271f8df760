package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modlink/pkg/testutil"
)

// setupGameDir lays out a storage directory with the given mods under a
// temp dir and points the CLI at it through environment overrides.
func setupGameDir(t *testing.T, mods ...string) string {
	t.Helper()
	dir := t.TempDir()

	for _, mod := range mods {
		modDir := filepath.Join(dir, "Mods", mod)
		require.NoError(t, os.MkdirAll(modDir, 0755))
		manifest := testutil.ManifestXML(mod, mod, "1.0", "tester")
		require.NoError(t, os.WriteFile(filepath.Join(modDir, "package.xml"), []byte(manifest), 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Package"), 0755))

	t.Setenv("MODLINK_STORAGE_DIR", filepath.Join(dir, "Mods"))
	t.Setenv("MODLINK_PACKAGE_DIR", filepath.Join(dir, "Package"))
	t.Setenv("MODLINK_LOAD_ORDER_FILE", filepath.Join(dir, "loadorder.txt"))
	t.Setenv("MODLINK_TRASH_DIR", filepath.Join(dir, ".trash"))
	return dir
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestActivateApplyCreatesLink(t *testing.T) {
	dir := setupGameDir(t, "Alpha", "Beta")

	_, err := runCommand(t, "activate", "Alpha")
	require.NoError(t, err)
	_, err = runCommand(t, "apply")
	require.NoError(t, err)

	linkPath := filepath.Join(dir, "Package", "001_Alpha")
	info, err := os.Lstat(linkPath)
	require.NoError(t, err)
	require.NotZero(t, info.Mode()&os.ModeSymlink, "entry must be a symlink")

	target, err := os.Readlink(linkPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Mods", "Alpha"), target)

	data, err := os.ReadFile(filepath.Join(dir, "loadorder.txt"))
	require.NoError(t, err)
	assert.Equal(t, "Alpha,1\n", string(data))
}

func TestApplyDryRunTouchesNothing(t *testing.T) {
	dir := setupGameDir(t, "Alpha")

	_, err := runCommand(t, "activate", "Alpha")
	require.NoError(t, err)
	out, err := runCommand(t, "apply", "--dry-run")
	require.NoError(t, err)

	assert.Contains(t, out, "Dry run")
	_, err = os.Lstat(filepath.Join(dir, "Package", "001_Alpha"))
	assert.True(t, os.IsNotExist(err), "dry run must not create links")
}

func TestListShowsActiveAndAvailable(t *testing.T) {
	setupGameDir(t, "Alpha", "Beta")

	_, err := runCommand(t, "activate", "Beta")
	require.NoError(t, err)
	out, err := runCommand(t, "list")
	require.NoError(t, err)

	assert.Contains(t, out, "Load Order (Active)")
	assert.Contains(t, out, "Beta")
	assert.Contains(t, out, "Available")
	assert.Contains(t, out, "Alpha")
}

func TestActivateUnknownModFails(t *testing.T) {
	setupGameDir(t, "Alpha")

	_, err := runCommand(t, "activate", "Nope")
	require.Error(t, err)
}

func TestHelpTopicsListing(t *testing.T) {
	setupGameDir(t)

	out, err := runCommand(t, "help", "topics")
	require.NoError(t, err)
	assert.Contains(t, out, "load-order")
	assert.Contains(t, out, "links")
	assert.Contains(t, out, "config")
}
