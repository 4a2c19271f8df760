package types

// Mod describes one discovered mod folder inside the storage directory.
// The ID is always the folder name: folder identity, not manifest content,
// decides identity, so load-order entries stay valid across manifest edits.
type Mod struct {
	// ID is the stable identifier, equal to the folder name.
	ID string

	// Title is the display name from the manifest, falling back to ID.
	Title string

	// Author, Version and Description come from the manifest and may be empty.
	Author      string
	Version     string
	Description string

	// SourcePath is the absolute path of the mod folder in the storage dir.
	SourcePath string

	// PreviewPath is the path of a preview image inside the folder, if any.
	PreviewPath string

	// ManifestValid reports whether a package.xml was found and parsed.
	ManifestValid bool
}

// Catalog is the result of a registry scan, keyed by Mod.ID.
type Catalog struct {
	mods []Mod
	byID map[string]int
}

// NewCatalog builds a catalog from a scan result. Order is preserved.
func NewCatalog(mods []Mod) *Catalog {
	byID := make(map[string]int, len(mods))
	for i, m := range mods {
		byID[m.ID] = i
	}
	return &Catalog{mods: mods, byID: byID}
}

// Mods returns all descriptors in scan order.
func (c *Catalog) Mods() []Mod {
	return c.mods
}

// Get returns the descriptor for id, if known.
func (c *Catalog) Get(id string) (Mod, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Mod{}, false
	}
	return c.mods[i], true
}

// Has reports whether id is known to the catalog.
func (c *Catalog) Has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Len returns the number of known mods.
func (c *Catalog) Len() int {
	return len(c.mods)
}

// IDs returns the set of known mod ids.
func (c *Catalog) IDs() map[string]bool {
	ids := make(map[string]bool, len(c.mods))
	for _, m := range c.mods {
		ids[m.ID] = true
	}
	return ids
}

// LoadOrderEntry is one line of persisted load-order state. An entry can be
// active (present in the order, installed as a link) yet disabled, in which
// case the link is withheld but the position is kept.
type LoadOrderEntry struct {
	ModID   string
	Enabled bool
}

// LoadOrderState is the ordered sequence of active entries. Sequence index is
// the load order; there is no separate position field.
type LoadOrderState struct {
	Entries []LoadOrderEntry
}

// Clone returns a deep copy of the state.
func (s LoadOrderState) Clone() LoadOrderState {
	entries := make([]LoadOrderEntry, len(s.Entries))
	copy(entries, s.Entries)
	return LoadOrderState{Entries: entries}
}

// LinkRecord is one symbolic link currently present under the package
// directory, read live from the filesystem at reconciliation time.
type LinkRecord struct {
	Name   string
	Target string
}

// LinkOp identifies the filesystem operation a link failure occurred in.
type LinkOp string

const (
	LinkOpCreate LinkOp = "create"
	LinkOpDelete LinkOp = "delete"
)

// LinkFailure records a single failed link operation. Failures never abort
// the surrounding apply; they are collected and reported.
type LinkFailure struct {
	ModID string
	Name  string
	Op    LinkOp
	Err   error
}

// ApplyResult reports what a reconciliation pass did. Created, Removed and
// Unchanged list link names; Failures carries per-item errors. PersistErr is
// the outcome of writing the load-order file afterwards and is tracked
// separately so link results are never masked by a save failure.
type ApplyResult struct {
	Created    []string
	Removed    []string
	Unchanged  []string
	Failures   []LinkFailure
	Pruned     []string
	DryRun     bool
	PersistErr error
}

// Changed reports whether the pass performed (or, in dry-run, would perform)
// any filesystem operation.
func (r ApplyResult) Changed() bool {
	return len(r.Created) > 0 || len(r.Removed) > 0
}

// OK reports whether every link operation succeeded.
func (r ApplyResult) OK() bool {
	return len(r.Failures) == 0
}
