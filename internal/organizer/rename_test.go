package organizer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"autotitle/internal/fileutil"
	"autotitle/internal/media"
)

func resolved(path, canonical string) media.ScanItem {
	return media.ScanItem{OriginalPath: path, CanonicalName: canonical, Status: media.StatusResolved}
}

func TestRenameInPlaceWithCompanions(t *testing.T) {
	dir := t.TempDir()
	file := touch(t, filepath.Join(dir, "adventure.time.s02e06.mkv"))
	touch(t, filepath.Join(dir, "adventure.time.s02e06.srt"))
	rec := &memoryRecorder{}
	items := []media.ScanItem{resolved(file, "Adventure Time - S02E06.mkv")}

	stats := NewRenamer(nil, rec).RenameInPlace(context.Background(), items)

	want := filepath.Join(dir, "Adventure Time - S02E06.mkv")
	assertExists(t, want)
	assertExists(t, filepath.Join(dir, "Adventure Time - S02E06.srt"))
	assertMissing(t, file)
	if stats.FilesRenamed != 1 || items[0].Status != media.StatusRenamed || items[0].CurrentPath != want {
		t.Fatalf("unexpected result stats=%+v item=%+v", stats, items[0])
	}
	if len(rec.ops) != 2 {
		t.Fatalf("expected file and companion recorded, got %+v", rec.ops)
	}
}

func TestRenameInPlaceStatuses(t *testing.T) {
	dir := t.TempDir()
	already := touch(t, filepath.Join(dir, "Show - S01E01.mkv"))
	blocked := touch(t, filepath.Join(dir, "show.s01e02.mkv"))
	touch(t, filepath.Join(dir, "Show - S01E02.mkv"))
	skipped := touch(t, filepath.Join(dir, "mystery.mkv"))
	items := []media.ScanItem{
		resolved(already, "Show - S01E01.mkv"),
		resolved(blocked, "Show - S01E02.mkv"),
		{OriginalPath: skipped, Status: media.StatusUnresolved},
	}

	stats := NewRenamer(nil, nil).RenameInPlace(context.Background(), items)

	if stats.FilesRenamed != 0 {
		t.Fatalf("expected no renames, got %+v", stats)
	}
	if items[0].Status != media.StatusOK {
		t.Fatalf("expected ok, got %s", items[0].Status)
	}
	if items[1].Status != media.StatusError || !errors.Is(items[1].Err, fileutil.ErrDestinationExists) {
		t.Fatalf("expected collision, got %s %v", items[1].Status, items[1].Err)
	}
	assertExists(t, blocked)
	if items[2].Status != media.StatusUnresolved {
		t.Fatalf("unresolved item touched: %+v", items[2])
	}
}

func TestRenameInPlaceCaseOnly(t *testing.T) {
	dir := t.TempDir()
	file := touch(t, filepath.Join(dir, "show - s01e01.mkv"))
	items := []media.ScanItem{resolved(file, "Show - S01E01.mkv")}

	stats := NewRenamer(nil, nil).RenameInPlace(context.Background(), items)

	if stats.FilesRenamed != 1 {
		t.Fatalf("expected rename, got %+v (%v)", stats, items[0].Err)
	}
	if got := dirNames(t, dir); len(got) != 1 || got[0] != "Show - S01E01.mkv" {
		t.Fatalf("unexpected contents %v", got)
	}
}

func TestRenameInPlaceCaseOnlyKeepsExactSibling(t *testing.T) {
	dir := t.TempDir()
	original := filepath.Join(dir, "Halo - S01E01.mkv")
	duplicate := filepath.Join(dir, "halo - s01e01.mkv")
	if err := os.WriteFile(original, []byte("ORIGINAL"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(duplicate, []byte("DUPLICATE"), 0o644); err != nil {
		t.Fatal(err)
	}
	if names := dirNames(t, dir); len(names) != 2 {
		t.Skip("filesystem folds case")
	}
	items := []media.ScanItem{
		resolved(original, "Halo - S01E01.mkv"),
		resolved(duplicate, "Halo - S01E01.mkv"),
	}

	stats := NewRenamer(nil, nil).RenameInPlace(context.Background(), items)

	if stats.FilesRenamed != 0 {
		t.Fatalf("expected no renames, got %+v", stats)
	}
	if items[0].Status != media.StatusOK {
		t.Fatalf("expected exact name to stay ok, got %s", items[0].Status)
	}
	if items[1].Status != media.StatusError || !errors.Is(items[1].Err, fileutil.ErrDestinationExists) {
		t.Fatalf("expected collision, got %s %v", items[1].Status, items[1].Err)
	}
	data, err := os.ReadFile(original)
	if err != nil || string(data) != "ORIGINAL" {
		t.Fatalf("original overwritten: %q %v", data, err)
	}
	if got := dirNames(t, dir); len(got) != 2 || got[1] != "halo - s01e01.mkv" {
		t.Fatalf("unexpected contents %v", got)
	}
}
