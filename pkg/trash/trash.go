// Package trash implements reversible mod deletion: folders are moved into
// a trash directory instead of being unlinked, so a removal can be undone by
// hand. The next scan + prune cycle drops the corresponding load-order entry
// and its link.
package trash

import (
	"fmt"
	"path/filepath"
	"time"

	"modlink/pkg/errors"
	"modlink/pkg/logging"
	"modlink/pkg/types"
)

// Move relocates sourcePath into trashDir under a timestamped name and
// returns the destination. The source is renamed, never copied, so the
// operation is atomic on a single filesystem.
func Move(fsys types.FS, trashDir, sourcePath string) (string, error) {
	logger := logging.GetLogger("trash")

	if _, err := fsys.Stat(sourcePath); err != nil {
		return "", errors.Wrap(err, errors.ErrNotFound, "mod folder does not exist").
			WithDetail("path", sourcePath)
	}

	if err := fsys.MkdirAll(trashDir, 0755); err != nil {
		return "", errors.Wrap(err, errors.ErrTrashMove, "cannot create trash directory").
			WithDetail("path", trashDir)
	}

	base := filepath.Base(sourcePath)
	stamp := time.Now().Format("20060102-150405")
	dest := filepath.Join(trashDir, fmt.Sprintf("%s.%s", base, stamp))
	for n := 1; ; n++ {
		if _, err := fsys.Stat(dest); err != nil {
			break
		}
		dest = filepath.Join(trashDir, fmt.Sprintf("%s.%s-%d", base, stamp, n))
	}

	if err := fsys.Rename(sourcePath, dest); err != nil {
		return "", errors.Wrap(err, errors.ErrTrashMove, "cannot move mod folder to trash").
			WithDetail("source", sourcePath).
			WithDetail("dest", dest)
	}

	logger.Info().Str("mod", base).Str("dest", dest).Msg("Moved mod folder to trash")
	return dest, nil
}
