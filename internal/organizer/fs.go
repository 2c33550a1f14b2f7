package organizer

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"autotitle/internal/fileutil"
)

type dirEntry struct {
	name  string
	isDir bool
}

// fileSystem is the set of mutations the reconciliation engine performs.
// The OS implementation touches disk; memFS simulates them for Preview.
type fileSystem interface {
	readDir(dir string) ([]dirEntry, error)
	exists(path string) bool
	isDir(path string) bool
	rename(src, dst string) error
	mkdir(path string) error
	move(src, dst string) error
	removeEmpty(dir string) (bool, error)
}

type osFS struct{}

func (osFS) readDir(dir string) ([]dirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]dirEntry, 0, len(entries))
	for _, entry := range entries {
		out = append(out, dirEntry{name: entry.Name(), isDir: entry.IsDir()})
	}
	return out, nil
}

func (osFS) exists(path string) bool { return fileutil.Exists(path) }

func (osFS) isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func (osFS) rename(src, dst string) error { return fileutil.Rename(src, dst) }

func (osFS) mkdir(path string) error { return os.MkdirAll(path, 0o755) }

func (osFS) move(src, dst string) error { return fileutil.MoveNoReplace(src, dst) }

func (osFS) removeEmpty(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	if len(entries) > 0 {
		return false, nil
	}
	if err := os.Remove(dir); err != nil {
		return false, fmt.Errorf("remove %q: %w", dir, err)
	}
	return true, nil
}

// memFS overlays simulated mutations on the real tree. Directory contents
// are read from disk the first time they are needed; renamed nodes keep
// their real location so their descendants still load correctly.
type memFS struct {
	root *memNode
}

type memNode struct {
	name     string
	isDir    bool
	realPath string
	loaded   bool
	children map[string]*memNode
}

func newMemFS() *memFS {
	sep := string(filepath.Separator)
	return &memFS{root: &memNode{name: sep, isDir: true, realPath: sep}}
}

func (m *memFS) load(n *memNode) {
	if n.loaded {
		return
	}
	n.loaded = true
	n.children = make(map[string]*memNode)
	if n.realPath == "" {
		return
	}
	entries, err := os.ReadDir(n.realPath)
	if err != nil {
		return
	}
	for _, entry := range entries {
		n.children[entry.Name()] = &memNode{
			name:     entry.Name(),
			isDir:    entry.IsDir(),
			realPath: filepath.Join(n.realPath, entry.Name()),
		}
	}
}

func splitPath(path string) []string {
	path = filepath.Clean(path)
	path = path[len(filepath.VolumeName(path)):]
	var parts []string
	for _, part := range strings.Split(path, string(filepath.Separator)) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return parts
}

func (m *memFS) lookup(path string) *memNode {
	node := m.root
	for _, part := range splitPath(path) {
		if !node.isDir {
			return nil
		}
		m.load(node)
		next, ok := node.children[part]
		if !ok {
			return nil
		}
		node = next
	}
	return node
}

func (m *memFS) readDir(dir string) ([]dirEntry, error) {
	node := m.lookup(dir)
	if node == nil || !node.isDir {
		return nil, fmt.Errorf("read %q: %w", dir, fs.ErrNotExist)
	}
	m.load(node)
	out := make([]dirEntry, 0, len(node.children))
	for name, child := range node.children {
		out = append(out, dirEntry{name: name, isDir: child.isDir})
	}
	return out, nil
}

func (m *memFS) exists(path string) bool { return m.lookup(path) != nil }

func (m *memFS) isDir(path string) bool {
	node := m.lookup(path)
	return node != nil && node.isDir
}

func (m *memFS) detach(src string) (*memNode, *memNode, error) {
	parent := m.lookup(filepath.Dir(src))
	if parent == nil || !parent.isDir {
		return nil, nil, fmt.Errorf("move %q: %w", src, fs.ErrNotExist)
	}
	m.load(parent)
	node, ok := parent.children[filepath.Base(src)]
	if !ok {
		return nil, nil, fmt.Errorf("move %q: %w", src, fs.ErrNotExist)
	}
	return parent, node, nil
}

func (m *memFS) rename(src, dst string) error {
	parent, node, err := m.detach(src)
	if err != nil {
		return err
	}
	dstParent := m.lookup(filepath.Dir(dst))
	if dstParent == nil || !dstParent.isDir {
		return fmt.Errorf("rename to %q: %w", dst, fs.ErrNotExist)
	}
	m.load(dstParent)
	if _, taken := dstParent.children[filepath.Base(dst)]; taken {
		return fmt.Errorf("rename to %q: %w", dst, fs.ErrExist)
	}
	delete(parent.children, node.name)
	node.name = filepath.Base(dst)
	dstParent.children[node.name] = node
	return nil
}

func (m *memFS) mkdir(path string) error {
	node := m.root
	for _, part := range splitPath(path) {
		m.load(node)
		next, ok := node.children[part]
		if !ok {
			next = &memNode{name: part, isDir: true, loaded: true, children: make(map[string]*memNode)}
			node.children[part] = next
		}
		if !next.isDir {
			return fmt.Errorf("mkdir %q: %w", path, fs.ErrExist)
		}
		node = next
	}
	return nil
}

func (m *memFS) move(src, dst string) error {
	if m.exists(dst) {
		return fileutil.ErrDestinationExists
	}
	return m.rename(src, dst)
}

func (m *memFS) removeEmpty(dir string) (bool, error) {
	parent, node, err := m.detach(dir)
	if err != nil {
		return false, nil
	}
	m.load(node)
	if len(node.children) > 0 {
		return false, nil
	}
	delete(parent.children, node.name)
	return true, nil
}
