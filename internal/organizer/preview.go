package organizer

import (
	"context"
	"path/filepath"
	"slices"

	"autotitle/internal/media"
)

// Preview forecasts the operations Reconcile would perform for items under
// root without touching disk. Operations are returned in execution order
// with duplicates removed. When opts.RenameFiles is set, files are assumed
// to carry their canonical names by the time they move.
func Preview(items []media.ScanItem, root string, opts Options) []FolderOp {
	if !opts.Enabled {
		return nil
	}
	e := newEngine(newMemFS(), root, opts, nil)
	var ops []FolderOp
	seen := make(map[FolderOp]struct{})
	e.emit = func(op FolderOp, err error) {
		if err != nil {
			return
		}
		if _, dup := seen[op]; dup {
			return
		}
		seen[op] = struct{}{}
		ops = append(ops, op)
	}
	if opts.RenameFiles {
		e.destName = func(item *media.ScanItem, current string) string {
			if item.Resolved() {
				return item.CanonicalName
			}
			return filepath.Base(current)
		}
	}
	e.run(context.Background(), slices.Clone(items))
	return ops
}
