package workflow

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrRunInProgress reports that another apply holds the run lock.
var ErrRunInProgress = errors.New("another autotitle apply is already running")

func (m *Manager) lockPath() string {
	for _, p := range []string{m.cfg.Paths.JournalDB, m.cfg.Paths.CacheFile} {
		if p != "" {
			return filepath.Join(filepath.Dir(p), "apply.lock")
		}
	}
	return filepath.Join(os.TempDir(), "autotitle-apply.lock")
}

func (m *Manager) acquireRunLock() (*flock.Flock, error) {
	path := m.lockPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	lock := flock.New(path)
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}
	return lock, nil
}
