package loadorder

import (
	"modlink/pkg/errors"
	"modlink/pkg/logging"
	"modlink/pkg/types"
)

// Model is the single source of truth for the load order. It merges the
// registry catalog with the persisted state and exposes the mutations the
// front end invokes. All operations are pure in-memory transformations;
// nothing here touches disk.
//
// Invariant: each mod id appears at most once in the active order, and the
// active ids plus Available() partition the catalog exactly.
type Model struct {
	catalog *types.Catalog
	entries []types.LoadOrderEntry
}

// New builds a model from a scanned catalog and loaded state. Dangling
// entries are kept until PruneDangling is called, so a mod that is
// temporarily missing keeps its position across restarts.
func New(catalog *types.Catalog, state types.LoadOrderState) *Model {
	entries := make([]types.LoadOrderEntry, len(state.Entries))
	copy(entries, state.Entries)
	return &Model{catalog: catalog, entries: entries}
}

// SetCatalog swaps in a fresh catalog after a rescan.
func (m *Model) SetCatalog(catalog *types.Catalog) {
	m.catalog = catalog
}

// Activate moves a mod from the available partition into the active order at
// the given index; a negative index appends. The entry starts enabled.
func (m *Model) Activate(modID string, at int) error {
	if m.indexOf(modID) >= 0 {
		return errors.New(errors.ErrAlreadyActive, "mod is already in the load order").
			WithDetail("mod", modID)
	}
	if !m.catalog.Has(modID) {
		return errors.New(errors.ErrModNotFound, "unknown mod").
			WithDetail("mod", modID)
	}

	entry := types.LoadOrderEntry{ModID: modID, Enabled: true}
	if at < 0 || at >= len(m.entries) {
		m.entries = append(m.entries, entry)
	} else {
		m.entries = append(m.entries[:at], append([]types.LoadOrderEntry{entry}, m.entries[at:]...)...)
	}

	logger := logging.GetLogger("loadorder.model")
	logger.Debug().
		Str("mod", modID).Int("at", at).Msg("Activated mod")
	return nil
}

// Deactivate removes a mod from the active order. The enabled flag is
// discarded; reactivating later defaults to enabled.
func (m *Model) Deactivate(modID string) error {
	i := m.indexOf(modID)
	if i < 0 {
		return errors.New(errors.ErrNotActive, "mod is not in the load order").
			WithDetail("mod", modID)
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)

	logger := logging.GetLogger("loadorder.model")
	logger.Debug().
		Str("mod", modID).Msg("Deactivated mod")
	return nil
}

// Move relocates an active entry to a new position; all other entries keep
// their relative order. Out-of-range targets clamp rather than fail, since
// front-end drop targets are approximate.
func (m *Model) Move(modID string, to int) error {
	i := m.indexOf(modID)
	if i < 0 {
		return errors.New(errors.ErrNotActive, "mod is not in the load order").
			WithDetail("mod", modID)
	}

	if to < 0 {
		to = 0
	}
	if to > len(m.entries)-1 {
		to = len(m.entries) - 1
	}
	if to == i {
		return nil
	}

	entry := m.entries[i]
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
	m.entries = append(m.entries[:to], append([]types.LoadOrderEntry{entry}, m.entries[to:]...)...)

	logger := logging.GetLogger("loadorder.model")
	logger.Debug().
		Str("mod", modID).Int("from", i).Int("to", to).Msg("Moved mod")
	return nil
}

// SetEnabled toggles the flag on an active entry. The entry keeps its link
// slot in the order; only link creation is withheld while disabled.
func (m *Model) SetEnabled(modID string, enabled bool) error {
	i := m.indexOf(modID)
	if i < 0 {
		return errors.New(errors.ErrNotActive, "mod is not in the load order").
			WithDetail("mod", modID)
	}
	m.entries[i].Enabled = enabled
	return nil
}

// PruneDangling drops active entries whose id is absent from known and
// returns the pruned ids, so stale references are never applied to disk as
// broken links.
func (m *Model) PruneDangling(known map[string]bool) []string {
	var pruned []string
	kept := m.entries[:0]
	for _, entry := range m.entries {
		if known[entry.ModID] {
			kept = append(kept, entry)
		} else {
			pruned = append(pruned, entry.ModID)
		}
	}
	m.entries = kept

	if len(pruned) > 0 {
		logger := logging.GetLogger("loadorder.model")
		logger.Info().
			Strs("mods", pruned).Msg("Pruned dangling load-order entries")
	}
	return pruned
}

// Active returns a copy of the ordered active entries.
func (m *Model) Active() []types.LoadOrderEntry {
	entries := make([]types.LoadOrderEntry, len(m.entries))
	copy(entries, m.entries)
	return entries
}

// Available returns the catalog mods not present in the active order, in
// catalog (scan) order.
func (m *Model) Available() []types.Mod {
	active := make(map[string]bool, len(m.entries))
	for _, entry := range m.entries {
		active[entry.ModID] = true
	}

	var available []types.Mod
	for _, mod := range m.catalog.Mods() {
		if !active[mod.ID] {
			available = append(available, mod)
		}
	}
	return available
}

// State returns a snapshot suitable for persisting or reconciling.
func (m *Model) State() types.LoadOrderState {
	return types.LoadOrderState{Entries: m.Active()}
}

// Catalog returns the current catalog.
func (m *Model) Catalog() *types.Catalog {
	return m.catalog
}

func (m *Model) indexOf(modID string) int {
	for i, entry := range m.entries {
		if entry.ModID == modID {
			return i
		}
	}
	return -1
}
