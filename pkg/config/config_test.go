package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"modlink/pkg/config"
	"modlink/pkg/errors"
	"modlink/pkg/testutil"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	assert.Equal(t, "Mods", cfg.StorageDir)
	assert.Equal(t, "Package", cfg.PackageDir)
	assert.Equal(t, "loadorder.txt", cfg.LoadOrderFile)
	assert.Contains(t, cfg.IgnoredPackages, "_Elona")
	assert.Contains(t, cfg.PreviewExtensions, ".png")
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	fsys := testutil.NewMemoryFS()

	cfg, err := config.Load(fsys, "/modlink.toml")
	require.NoError(t, err)
	assert.Equal(t, config.Default().StorageDir, cfg.StorageDir)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	raw := `
storage_dir = "/games/elin/Mods"
package_dir = "/games/elin/Package"
ignored_packages = ["_Elona"]
`
	require.NoError(t, fsys.WriteFile("/modlink.toml", []byte(raw), 0644))

	cfg, err := config.Load(fsys, "/modlink.toml")
	require.NoError(t, err)
	assert.Equal(t, "/games/elin/Mods", cfg.StorageDir)
	assert.Equal(t, "/games/elin/Package", cfg.PackageDir)
	assert.Equal(t, []string{"_Elona"}, cfg.IgnoredPackages)
	assert.Equal(t, "loadorder.txt", cfg.LoadOrderFile, "unset keys keep defaults")
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.WriteFile("/modlink.toml", []byte(`storage_dir = "/from-file"`), 0644))
	t.Setenv("MODLINK_STORAGE_DIR", "/from-env")

	cfg, err := config.Load(fsys, "/modlink.toml")
	require.NoError(t, err)
	assert.Equal(t, "/from-env", cfg.StorageDir)
}

func TestLoad_MalformedFile(t *testing.T) {
	fsys := testutil.NewMemoryFS()
	require.NoError(t, fsys.WriteFile("/modlink.toml", []byte(`storage_dir = [broken`), 0644))

	_, err := config.Load(fsys, "/modlink.toml")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrConfigParse))
}

func TestIsIgnored(t *testing.T) {
	cfg := config.Default()

	assert.True(t, cfg.IsIgnored("_Elona"))
	assert.True(t, cfg.IsIgnored("Mod_Slot"))
	assert.False(t, cfg.IsIgnored("SomeMod"))
	assert.True(t, cfg.IgnoredSet()["_Lang_Chinese"])
}
