package workflow

import (
	"fmt"
	"path/filepath"
	"strings"

	"autotitle/internal/media"
)

// Plan is the outcome of Scan: every discovered file with its resolution,
// before anything on disk changes.
type Plan struct {
	RunID      string
	Root       string
	Items      []media.ScanItem
	CacheReady bool
}

// Override assigns name to the item at path, marking it manually resolved.
// The original extension is appended when name has none.
func (p *Plan) Override(path, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("override for %q: empty name", path)
	}
	if strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("override for %q: name must not contain path separators", path)
	}
	idx := p.find(path)
	if idx < 0 {
		return fmt.Errorf("override: no scanned file matches %q", path)
	}
	item := &p.Items[idx]
	if filepath.Ext(name) == "" {
		name += filepath.Ext(item.OriginalPath)
	}
	item.CanonicalName = name
	item.TargetPath = filepath.Join(filepath.Dir(item.OriginalPath), name)
	item.Status = media.StatusResolved
	item.Provenance = media.ProvenanceManual
	item.Err = nil
	return nil
}

// find matches an absolute path, a path relative to the root, or a bare
// file name when it is unambiguous.
func (p *Plan) find(path string) int {
	clean := filepath.Clean(path)
	if !filepath.IsAbs(clean) {
		clean = filepath.Join(p.Root, clean)
	}
	byName := -1
	matches := 0
	for i, item := range p.Items {
		if item.OriginalPath == clean {
			return i
		}
		if filepath.Base(item.OriginalPath) == path {
			byName = i
			matches++
		}
	}
	if matches == 1 {
		return byName
	}
	return -1
}

// Counts summarizes item outcomes.
type Counts struct {
	Total        int
	Resolved     int
	Unresolved   int
	Errors       int
	ByProvenance map[media.Provenance]int
}

// CountItems tallies items by status and provenance.
func CountItems(items []media.ScanItem) Counts {
	c := Counts{Total: len(items), ByProvenance: make(map[media.Provenance]int)}
	for _, item := range items {
		switch {
		case item.Status == media.StatusError:
			c.Errors++
		case item.Resolved() && item.Status != media.StatusUnresolved:
			c.Resolved++
			c.ByProvenance[item.Provenance]++
		default:
			c.Unresolved++
		}
	}
	return c
}
