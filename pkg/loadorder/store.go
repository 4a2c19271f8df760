// Package loadorder holds the persisted load-order file and the in-memory
// model the UI layer mutates. Order in the file IS the load order; the store
// never sorts.
package loadorder

import (
	"fmt"
	"os"
	"strings"

	"modlink/pkg/errors"
	"modlink/pkg/logging"
	"modlink/pkg/types"
)

// Line format: "<modId>,1" enabled, "<modId>,0" disabled. A bare "<modId>"
// is read as enabled so hand-edited files keep working.

// Load reads the persisted load order. A missing file is a first run and
// yields an empty state. Entries referencing unknown mods pass through
// untouched; pruning is the model's decision, not the store's.
func Load(fsys types.FS, path string) (types.LoadOrderState, error) {
	logger := logging.GetLogger("loadorder.store")

	data, err := fsys.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logger.Debug().Str("path", path).Msg("No load-order file, starting empty")
			return types.LoadOrderState{}, nil
		}
		return types.LoadOrderState{}, errors.Wrap(err, errors.ErrPersistence, "cannot read load-order file").
			WithDetail("path", path)
	}

	var state types.LoadOrderState
	seen := make(map[string]bool)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		id := line
		enabled := true
		if i := strings.LastIndex(line, ","); i >= 0 {
			id = line[:i]
			enabled = line[i+1:] == "1"
		}
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		state.Entries = append(state.Entries, types.LoadOrderEntry{ModID: id, Enabled: enabled})
	}

	logger.Debug().Int("entries", len(state.Entries)).Str("path", path).Msg("Loaded load order")
	return state, nil
}

// Save writes the load order in exact list order, atomically via a temp file
// rename so a crash never leaves a truncated order behind.
func Save(fsys types.FS, path string, state types.LoadOrderState) error {
	logger := logging.GetLogger("loadorder.store")

	var b strings.Builder
	for _, entry := range state.Entries {
		flag := "0"
		if entry.Enabled {
			flag = "1"
		}
		fmt.Fprintf(&b, "%s,%s\n", entry.ModID, flag)
	}

	tmp := path + ".tmp"
	if err := fsys.WriteFile(tmp, []byte(b.String()), 0644); err != nil {
		return errors.Wrap(err, errors.ErrPersistence, "cannot write load-order file").
			WithDetail("path", tmp)
	}
	if err := fsys.Rename(tmp, path); err != nil {
		return errors.Wrap(err, errors.ErrPersistence, "cannot replace load-order file").
			WithDetail("path", path)
	}

	logger.Debug().Int("entries", len(state.Entries)).Str("path", path).Msg("Saved load order")
	return nil
}
