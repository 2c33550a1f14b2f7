package organizer

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"autotitle/internal/media"
)

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(filepath.Base(path)), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func settled(path, canonical string) media.ScanItem {
	return media.ScanItem{
		OriginalPath:  path,
		CurrentPath:   path,
		CanonicalName: canonical,
		Status:        media.StatusOK,
	}
}

func defaultOptions() Options {
	return Options{Enabled: true, TitleCase: true, SeasonFolderTemplate: "{Title} - Season {N}", RenameFiles: true}
}

func assertExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected %s to exist: %v", path, err)
	}
}

func assertMissing(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err == nil {
		t.Fatalf("expected %s to be gone", path)
	}
}

func dirNames(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	var names []string
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names
}

type recordedOp struct {
	op  FolderOp
	err error
}

type memoryRecorder struct {
	ops []recordedOp
}

func (r *memoryRecorder) Record(_ context.Context, op FolderOp, err error) {
	r.ops = append(r.ops, recordedOp{op: op, err: err})
}
