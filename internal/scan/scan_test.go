package scan_test

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"autotitle/internal/media"
	"autotitle/internal/scan"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, nil, 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestFilesFindsVideosRecursively(t *testing.T) {
	root := t.TempDir()
	for _, rel := range []string{
		"b.mkv",
		"a/Show.S01E01.MKV",
		"a/deeper/clip.mp4",
		"a/notes.txt",
		"a/Show.S01E01.srt",
		"movie.Avi",
		"x.wmv",
		"y.mov",
	} {
		writeFile(t, filepath.Join(root, rel))
	}

	files, err := scan.Files(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	var rel []string
	for _, f := range files {
		r, _ := filepath.Rel(root, f)
		rel = append(rel, filepath.ToSlash(r))
	}
	want := []string{"a/Show.S01E01.MKV", "a/deeper/clip.mp4", "b.mkv", "movie.Avi", "x.wmv", "y.mov"}
	if !slices.Equal(rel, want) {
		t.Fatalf("got %v, want %v", rel, want)
	}
}

func TestItemsArePending(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one.mkv"))

	items, err := scan.Items(context.Background(), root, nil)
	if err != nil {
		t.Fatalf("Items: %v", err)
	}
	if len(items) != 1 || items[0].Status != media.StatusPending || !filepath.IsAbs(items[0].OriginalPath) {
		t.Fatalf("unexpected items %+v", items)
	}
}

func TestFilesMissingRoot(t *testing.T) {
	if _, err := scan.Files(context.Background(), filepath.Join(t.TempDir(), "nope"), nil); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestFilesCanceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "one.mkv"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := scan.Files(ctx, root, nil); err == nil {
		t.Fatal("expected cancellation error")
	}
}
