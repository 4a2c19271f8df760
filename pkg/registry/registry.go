// Package registry discovers mod folders in the storage directory and
// produces an immutable catalog of descriptors. Scanning is read-only and
// safe to repeat; it never mutates load-order state.
package registry

import (
	"os"
	"path/filepath"
	"sort"
	"strings"

	"modlink/pkg/config"
	"modlink/pkg/errors"
	"modlink/pkg/logging"
	"modlink/pkg/manifest"
	"modlink/pkg/types"
)

// Scan reads the immediate subdirectories of storageDir and returns a catalog
// of descriptors, sorted by folder name for reproducibility. A mod with a
// missing or corrupt manifest is synthesized from its folder name; only an
// unreadable storage directory is fatal.
func Scan(fsys types.FS, storageDir string, cfg config.Config) (*types.Catalog, error) {
	logger := logging.GetLogger("registry")
	logger.Trace().Str("dir", storageDir).Msg("Scanning storage directory")

	info, err := fsys.Stat(storageDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStorageAccess, "cannot access storage directory").
			WithDetail("path", storageDir)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrInvalidInput, "storage path is not a directory").
			WithDetail("path", storageDir)
	}

	entries, err := fsys.ReadDir(storageDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrStorageAccess, "cannot read storage directory").
			WithDetail("path", storageDir)
	}

	var mods []types.Mod
	for _, entry := range entries {
		name := entry.Name()

		if !entry.IsDir() {
			continue
		}
		if strings.HasPrefix(name, ".") {
			logger.Trace().Str("name", name).Msg("Skipping hidden directory")
			continue
		}

		mod := loadMod(fsys, filepath.Join(storageDir, name), name, cfg)
		mods = append(mods, mod)
		logger.Trace().Str("id", mod.ID).Str("title", mod.Title).Msg("Found mod")
	}

	sort.Slice(mods, func(i, j int) bool {
		return mods[i].ID < mods[j].ID
	})

	logger.Info().Int("count", len(mods)).Msg("Scan complete")
	return types.NewCatalog(mods), nil
}

// loadMod builds a descriptor for one mod folder. The folder name is the
// identity; manifest fields are display metadata only, so a manifest edit
// can never orphan a load-order entry.
func loadMod(fsys types.FS, modPath, folderName string, cfg config.Config) types.Mod {
	logger := logging.GetLogger("registry")

	abs, err := filepath.Abs(modPath)
	if err != nil {
		abs = modPath
	}

	mod := types.Mod{
		ID:         folderName,
		Title:      folderName,
		SourcePath: abs,
	}

	data, err := fsys.ReadFile(filepath.Join(modPath, manifest.Filename))
	switch {
	case err == nil:
		meta, perr := manifest.Parse(data)
		if perr != nil {
			// Keep the synthesized descriptor and move on.
			logger.Warn().Err(perr).Str("mod", folderName).Msg("Corrupt manifest, using folder name")
			break
		}
		if meta.Title != "" {
			mod.Title = meta.Title
		}
		mod.Author = meta.Author
		mod.Version = meta.Version
		mod.Description = meta.Description
		mod.ManifestValid = true
	case os.IsNotExist(err):
		logger.Debug().Str("mod", folderName).Msg("No manifest, using folder name")
	default:
		logger.Warn().Err(err).Str("mod", folderName).Msg("Cannot read manifest, using folder name")
	}

	mod.PreviewPath = findPreview(fsys, modPath, cfg.PreviewExtensions)
	return mod
}

// findPreview returns the first file in the mod folder whose name contains
// "preview" and carries a known image extension.
func findPreview(fsys types.FS, modPath string, exts []string) string {
	entries, err := fsys.ReadDir(modPath)
	if err != nil {
		return ""
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.Contains(strings.ToLower(name), "preview") {
			continue
		}
		ext := strings.ToLower(filepath.Ext(name))
		for _, known := range exts {
			if ext == known {
				return filepath.Join(modPath, name)
			}
		}
	}
	return ""
}
