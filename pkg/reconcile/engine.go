// Package reconcile makes the package directory match the declared load
// order. It is the only writer of that directory: it enumerates the links it
// owns, computes the desired set from scratch, and applies the difference,
// collecting per-item failures instead of aborting.
package reconcile

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"modlink/pkg/errors"
	"modlink/pkg/logging"
	"modlink/pkg/types"
)

// Link names embed the 1-based position among enabled entries as a
// zero-padded prefix, so the load order is recoverable from a plain
// directory listing. Anything not matching this scheme is foreign and is
// never removed.
const positionWidth = 3

var (
	ownedName    = regexp.MustCompile(`^[0-9]{3}_`)
	invalidChars = regexp.MustCompile(`[<>:"/\\|?*]`)
)

// Engine reconciles the package directory against a load-order state.
type Engine struct {
	fs      types.FS
	ignored map[string]bool
}

// New creates an engine. Entries named in ignored are never touched even if
// they happen to match the link naming scheme.
func New(fsys types.FS, ignored map[string]bool) *Engine {
	return &Engine{fs: fsys, ignored: ignored}
}

// LinkName returns the on-disk name for a mod at the given 1-based position.
func LinkName(position int, modID string) string {
	return fmt.Sprintf("%0*d_%s", positionWidth, position, sanitizeName(modID))
}

// sanitizeName strips characters that are invalid in filenames on common
// filesystems. An id reduced to nothing gets an Unknown placeholder.
func sanitizeName(id string) string {
	clean := strings.TrimSpace(invalidChars.ReplaceAllString(id, ""))
	if clean == "" {
		clean = "Unknown"
	}
	return clean
}

// Owned reports whether a package-dir entry name belongs to the engine's
// naming scheme and is not on the ignore list.
func (e *Engine) Owned(name string) bool {
	return ownedName.MatchString(name) && !e.ignored[name]
}

type desiredLink struct {
	name   string
	target string
	modID  string
}

// desired computes the full target link set from scratch. Positions count
// only enabled, resolvable entries so the on-disk sequence is dense.
// Unknown ids were pruned upstream; they are skipped again here defensively.
func (e *Engine) desired(state types.LoadOrderState, catalog *types.Catalog) []desiredLink {
	logger := logging.GetLogger("reconcile")

	var links []desiredLink
	pos := 0
	for _, entry := range state.Entries {
		if !entry.Enabled {
			continue
		}
		mod, ok := catalog.Get(entry.ModID)
		if !ok {
			logger.Warn().Str("mod", entry.ModID).Msg("Entry references unknown mod, skipping")
			continue
		}
		pos++
		links = append(links, desiredLink{
			name:   LinkName(pos, mod.ID),
			target: mod.SourcePath,
			modID:  mod.ID,
		})
	}
	return links
}

// existing enumerates the links the engine owns under packageDir. Foreign
// entries and ignored names are excluded. An owned name that turns out to be
// a real directory is left alone: the engine deletes links, never mod data.
func (e *Engine) existing(packageDir string) ([]types.LinkRecord, error) {
	logger := logging.GetLogger("reconcile")

	entries, err := e.fs.ReadDir(packageDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPackageAccess, "cannot read package directory").
			WithDetail("path", packageDir)
	}

	var records []types.LinkRecord
	for _, entry := range entries {
		name := entry.Name()
		if !e.Owned(name) {
			continue
		}

		full := filepath.Join(packageDir, name)
		info, err := e.fs.Lstat(full)
		if err != nil {
			logger.Warn().Err(err).Str("name", name).Msg("Cannot stat package entry")
			continue
		}
		if info.IsDir() {
			logger.Warn().Str("name", name).Msg("Owned name is a real directory, leaving it alone")
			continue
		}

		target, err := e.fs.Readlink(full)
		if err != nil {
			// Unreadable link target: keep the record with an empty target
			// so the diff repoints or removes it.
			logger.Warn().Err(err).Str("name", name).Msg("Cannot read link target")
		}
		records = append(records, types.LinkRecord{Name: name, Target: target})
	}
	return records, nil
}

// Apply reconciles packageDir with the given state. Individual link
// operations that fail are recorded in the result and processing continues;
// only an unusable package directory is fatal. Cancellation is honored
// between operations, never mid-operation.
func (e *Engine) Apply(ctx context.Context, state types.LoadOrderState, catalog *types.Catalog, packageDir string, dryRun bool) (types.ApplyResult, error) {
	logger := logging.GetLogger("reconcile")
	result := types.ApplyResult{DryRun: dryRun}

	if !dryRun {
		if err := e.fs.MkdirAll(packageDir, 0755); err != nil {
			return result, errors.Wrap(err, errors.ErrPackageAccess, "cannot create package directory").
				WithDetail("path", packageDir)
		}
	}

	records, err := e.existing(packageDir)
	if err != nil {
		if dryRun {
			// A missing directory diffs as empty in dry-run mode.
			records = nil
		} else {
			return result, err
		}
	}

	existing := make(map[string]string, len(records))
	for _, rec := range records {
		existing[rec.Name] = rec.Target
	}

	desired := e.desired(state, catalog)
	desiredNames := make(map[string]bool, len(desired))
	for _, link := range desired {
		desiredNames[link.name] = true
	}

	// Stale links first, so renumbered names are free before recreation.
	for _, rec := range records {
		if desiredNames[rec.Name] {
			continue
		}
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if dryRun {
			result.Removed = append(result.Removed, rec.Name)
			continue
		}
		if err := e.fs.Remove(filepath.Join(packageDir, rec.Name)); err != nil {
			logger.Error().Err(err).Str("name", rec.Name).Msg("Failed to remove stale link")
			result.Failures = append(result.Failures, types.LinkFailure{
				ModID: modIDFromName(rec.Name),
				Name:  rec.Name,
				Op:    types.LinkOpDelete,
				Err:   errors.Wrap(err, errors.ErrLinkDelete, "failed to remove link"),
			})
			continue
		}
		result.Removed = append(result.Removed, rec.Name)
	}

	for _, link := range desired {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		target, present := existing[link.name]
		if present && target == link.target {
			result.Unchanged = append(result.Unchanged, link.name)
			continue
		}

		full := filepath.Join(packageDir, link.name)

		// Repointed link: delete then recreate so there is never a window
		// with two links for one mod, only one op where the name is absent.
		if present {
			if dryRun {
				result.Removed = append(result.Removed, link.name)
			} else if err := e.fs.Remove(full); err != nil {
				logger.Error().Err(err).Str("name", link.name).Msg("Failed to remove repointed link")
				result.Failures = append(result.Failures, types.LinkFailure{
					ModID: link.modID,
					Name:  link.name,
					Op:    types.LinkOpDelete,
					Err:   errors.Wrap(err, errors.ErrLinkDelete, "failed to remove link"),
				})
				continue
			} else {
				result.Removed = append(result.Removed, link.name)
			}
		}

		if dryRun {
			result.Created = append(result.Created, link.name)
			continue
		}
		if err := e.fs.Symlink(link.target, full); err != nil {
			logger.Error().Err(err).Str("name", link.name).Str("target", link.target).Msg("Failed to create link")
			result.Failures = append(result.Failures, types.LinkFailure{
				ModID: link.modID,
				Name:  link.name,
				Op:    types.LinkOpCreate,
				Err:   errors.Wrap(err, errors.ErrLinkCreate, "failed to create link"),
			})
			continue
		}
		result.Created = append(result.Created, link.name)
	}

	logger.Info().
		Int("created", len(result.Created)).
		Int("removed", len(result.Removed)).
		Int("unchanged", len(result.Unchanged)).
		Int("failed", len(result.Failures)).
		Bool("dryRun", dryRun).
		Msg("Reconciliation complete")
	return result, nil
}

// modIDFromName recovers the id portion of an owned link name. Best effort:
// sanitization is not reversible, but in practice ids rarely contain the
// stripped characters.
func modIDFromName(name string) string {
	return name[positionWidth+1:]
}
