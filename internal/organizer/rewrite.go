package organizer

import (
	"path/filepath"
	"strings"
)

type rewrite struct {
	from string
	to   string
}

// RewriteMap records directory renames performed during one run.
type RewriteMap struct {
	entries []rewrite
}

// Add records that everything under from now lives under to.
func (m *RewriteMap) Add(from, to string) {
	from, to = filepath.Clean(from), filepath.Clean(to)
	if from == to {
		return
	}
	m.entries = append(m.entries, rewrite{from: from, to: to})
}

// Len returns the number of recorded rewrites. A path observed after n
// rewrites is brought up to date with ApplySince(path, n).
func (m *RewriteMap) Len() int { return len(m.entries) }

// Apply resolves a path observed before any rewrite through every recorded
// rewrite in the order they happened.
func (m *RewriteMap) Apply(path string) string {
	return m.ApplySince(path, 0)
}

// ApplySince resolves path through the rewrites recorded after the first
// gen, each applied once in order.
func (m *RewriteMap) ApplySince(path string, gen int) string {
	if path == "" || gen >= len(m.entries) {
		return path
	}
	path = filepath.Clean(path)
	for _, rw := range m.entries[max(gen, 0):] {
		if hasPathPrefix(path, rw.from) {
			path = rw.to + path[len(rw.from):]
		}
	}
	return path
}

func hasPathPrefix(path, prefix string) bool {
	if path == prefix {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	if strings.HasSuffix(prefix, string(filepath.Separator)) {
		return true
	}
	return path[len(prefix)] == filepath.Separator
}
