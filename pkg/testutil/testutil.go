// Package testutil provides helpers for building mod trees on an in-memory
// filesystem so registry, store and engine behavior can be tested without
// touching the real disk.
package testutil

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"modlink/pkg/filesystem"
	"modlink/pkg/types"
)

// NewMemoryFS returns a types.FS backed by an afero MemMapFs. Symlinks are
// simulated as files holding the target path, which is enough for the
// engine's create/read/remove cycle.
func NewMemoryFS() types.FS {
	return filesystem.NewAferoFS(afero.NewMemMapFs())
}

// ManifestXML renders a minimal package.xml with the given fields.
func ManifestXML(title, id, version, author string) string {
	return fmt.Sprintf(`<?xml version="1.0" encoding="utf-8"?>
<package>
  <title>%s</title>
  <id>%s</id>
  <version>%s</version>
  <author>%s</author>
  <description>test mod</description>
</package>
`, title, id, version, author)
}

// WriteMod creates a mod folder under storageDir. A non-empty manifest is
// written as package.xml; pass "" for a bare folder.
func WriteMod(t *testing.T, fsys types.FS, storageDir, folder, manifest string) {
	t.Helper()

	modDir := filepath.Join(storageDir, folder)
	require.NoError(t, fsys.MkdirAll(modDir, 0755))
	// A marker file keeps the folder non-empty even without a manifest.
	require.NoError(t, fsys.WriteFile(filepath.Join(modDir, "content.txt"), []byte("data"), 0644))

	if manifest != "" {
		require.NoError(t, fsys.WriteFile(filepath.Join(modDir, "package.xml"), []byte(manifest), 0644))
	}
}

// ActiveIDs extracts the ordered mod ids from entries.
func ActiveIDs(entries []types.LoadOrderEntry) []string {
	ids := make([]string, len(entries))
	for i, entry := range entries {
		ids[i] = entry.ModID
	}
	return ids
}
