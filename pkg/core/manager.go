// Package core orchestrates the registry, load-order model, store and
// reconciliation engine behind one Manager. Commands talk to the Manager;
// the Manager decides when state hits disk.
package core

import (
	"context"
	"sync"

	"modlink/pkg/config"
	"modlink/pkg/errors"
	"modlink/pkg/loadorder"
	"modlink/pkg/logging"
	"modlink/pkg/reconcile"
	"modlink/pkg/registry"
	"modlink/pkg/trash"
	"modlink/pkg/types"
)

// Manager ties the components together. A single mutex serializes scans,
// mutations and applies: a second request queues behind the first, never
// interleaves with it.
type Manager struct {
	mu     sync.Mutex
	fs     types.FS
	cfg    config.Config
	engine *reconcile.Engine
	model  *loadorder.Model
}

// NewManager creates a manager over the given filesystem and configuration.
// Call Refresh before using the model.
func NewManager(fsys types.FS, cfg config.Config) *Manager {
	return &Manager{
		fs:     fsys,
		cfg:    cfg,
		engine: reconcile.New(fsys, cfg.IgnoredSet()),
	}
}

// Refresh scans the storage directory, merges the persisted order into the
// model on first run, and prunes entries whose mod folder is gone. The
// pruned ids are returned so the caller can surface them.
func (m *Manager) Refresh(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	catalog, err := registry.Scan(m.fs, m.cfg.StorageDir, m.cfg)
	if err != nil {
		return nil, err
	}

	if m.model == nil {
		state, err := loadorder.Load(m.fs, m.cfg.LoadOrderFile)
		if err != nil {
			return nil, err
		}
		m.model = loadorder.New(catalog, state)
	} else {
		m.model.SetCatalog(catalog)
	}

	pruned := m.model.PruneDangling(catalog.IDs())
	return pruned, nil
}

// Apply reconciles the package directory against the current model state and
// then persists the load order. Persistence runs regardless of link results
// so the declared order is never lost; its error is carried in the result
// rather than masking link failures.
func (m *Manager) Apply(ctx context.Context, dryRun bool) (types.ApplyResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	logger := logging.GetLogger("core")
	if m.model == nil {
		return types.ApplyResult{}, errors.New(errors.ErrInternal, "apply before refresh")
	}

	state := m.model.State()
	result, err := m.engine.Apply(ctx, state, m.model.Catalog(), m.cfg.PackageDir, dryRun)
	if err != nil {
		return result, err
	}

	if !dryRun {
		if serr := loadorder.Save(m.fs, m.cfg.LoadOrderFile, state); serr != nil {
			logger.Error().Err(serr).Msg("Load order applied but persistence failed")
			result.PersistErr = serr
		}
	}
	return result, nil
}

// SaveState persists the current model state without reconciling. Mutating
// commands call this so an edit survives the process.
func (m *Manager) SaveState() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.model == nil {
		return errors.New(errors.ErrInternal, "save before refresh")
	}
	return loadorder.Save(m.fs, m.cfg.LoadOrderFile, m.model.State())
}

// Activate adds a mod to the load order at the given index (negative
// appends).
func (m *Manager) Activate(modID string, at int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model.Activate(modID, at)
}

// Deactivate removes a mod from the load order.
func (m *Manager) Deactivate(modID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model.Deactivate(modID)
}

// Move relocates an active mod to a new position.
func (m *Manager) Move(modID string, to int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model.Move(modID, to)
}

// SetEnabled flips the enabled flag on an active mod.
func (m *Manager) SetEnabled(modID string, enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model.SetEnabled(modID, enabled)
}

// Active returns the ordered active entries.
func (m *Manager) Active() []types.LoadOrderEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model.Active()
}

// Available returns the mods not in the load order.
func (m *Manager) Available() []types.Mod {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model.Available()
}

// Lookup resolves a mod id against the catalog.
func (m *Manager) Lookup(modID string) (types.Mod, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.model.Catalog().Get(modID)
}

// Trash moves a mod folder into the trash directory. If the mod was active
// it is deactivated first; the next Apply removes any stale link.
func (m *Manager) Trash(modID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	mod, ok := m.model.Catalog().Get(modID)
	if !ok {
		return "", errors.New(errors.ErrModNotFound, "unknown mod").
			WithDetail("mod", modID)
	}

	dest, err := trash.Move(m.fs, m.cfg.TrashDir, mod.SourcePath)
	if err != nil {
		return "", err
	}

	// Drop the entry if present; NotActive is fine here.
	if derr := m.model.Deactivate(modID); derr != nil && !errors.IsErrorCode(derr, errors.ErrNotActive) {
		return dest, derr
	}
	return dest, nil
}
