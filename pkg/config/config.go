package config

import (
	"os"

	"github.com/caarlos0/env/v11"
	toml "github.com/pelletier/go-toml/v2"

	"modlink/pkg/errors"
	"modlink/pkg/logging"
	"modlink/pkg/types"
)

// DefaultConfigFile is looked up in the working directory when no explicit
// config path is given.
const DefaultConfigFile = "modlink.toml"

// Config holds the directory layout and scan settings. Values come from
// defaults, then an optional TOML file, then MODLINK_* environment variables,
// in increasing priority.
type Config struct {
	// StorageDir holds one subdirectory per mod. Read-only for modlink
	// except for the trash command.
	StorageDir string `toml:"storage_dir" env:"MODLINK_STORAGE_DIR"`

	// PackageDir is where the game loads packages from. Owned by the
	// reconciliation engine; only links it created are ever removed.
	PackageDir string `toml:"package_dir" env:"MODLINK_PACKAGE_DIR"`

	// LoadOrderFile persists the active order and enabled flags.
	LoadOrderFile string `toml:"load_order_file" env:"MODLINK_LOAD_ORDER_FILE"`

	// TrashDir receives mod folders removed via the trash command.
	TrashDir string `toml:"trash_dir" env:"MODLINK_TRASH_DIR"`

	// IgnoredPackages are package-dir entries the engine must never touch,
	// typically the game's own bundled packages.
	IgnoredPackages []string `toml:"ignored_packages" env:"MODLINK_IGNORED_PACKAGES"`

	// PreviewExtensions are the image extensions probed for a mod preview.
	PreviewExtensions []string `toml:"preview_extensions"`
}

// Default returns the stock Elin layout.
func Default() Config {
	return Config{
		StorageDir:    "Mods",
		PackageDir:    "Package",
		LoadOrderFile: "loadorder.txt",
		TrashDir:      ".trash",
		IgnoredPackages: []string{
			"_Elona",
			"_Lang_Chinese",
			"Mod_FixedPackageLoader",
			"Mod_Slot",
		},
		PreviewExtensions: []string{".jpg", ".png", ".webp", ".jpeg", ".bmp"},
	}
}

// Load builds the effective configuration: defaults, overlaid by the TOML
// file at path if it exists, overlaid by environment variables. A missing
// file is not an error; a malformed one is.
func Load(fsys types.FS, path string) (Config, error) {
	logger := logging.GetLogger("config")
	cfg := Default()

	data, err := fsys.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, errors.Wrap(err, errors.ErrConfigParse, "failed to parse config file").
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	case os.IsNotExist(err):
		logger.Trace().Str("path", path).Msg("No config file, using defaults")
	default:
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "cannot read config file").
			WithDetail("path", path)
	}

	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.Wrap(err, errors.ErrConfigLoad, "invalid environment override")
	}

	return cfg, nil
}

// IsIgnored reports whether a package-dir entry name is off-limits.
func (c Config) IsIgnored(name string) bool {
	for _, ignored := range c.IgnoredPackages {
		if name == ignored {
			return true
		}
	}
	return false
}

// IgnoredSet returns the ignored package names as a set.
func (c Config) IgnoredSet() map[string]bool {
	set := make(map[string]bool, len(c.IgnoredPackages))
	for _, name := range c.IgnoredPackages {
		set[name] = true
	}
	return set
}
