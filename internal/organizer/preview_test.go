package organizer

import (
	"path/filepath"
	"slices"
	"testing"

	"autotitle/internal/media"
)

func TestPreviewForecastsWithoutTouchingDisk(t *testing.T) {
	base := t.TempDir()
	root := filepath.Join(base, "halo")
	file := touch(t, filepath.Join(root, "season 1", "halo.s01e01.mkv"))
	items := []media.ScanItem{{OriginalPath: file, CanonicalName: "Halo - S01E01.mkv", Status: media.StatusResolved}}

	ops := Preview(items, root, defaultOptions())

	showDir := filepath.Join(base, "Halo")
	want := []FolderOp{
		{Action: ActionRename, Source: root, Destination: showDir, Reason: ReasonShowCase},
		{Action: ActionCreate, Destination: filepath.Join(showDir, "Halo - Season 1"), Reason: ReasonNewSeason},
		{
			Action:      ActionMove,
			Source:      filepath.Join(showDir, "season 1", "halo.s01e01.mkv"),
			Destination: filepath.Join(showDir, "Halo - Season 1", "Halo - S01E01.mkv"),
			Reason:      ReasonSeasonFolder,
		},
		{Action: ActionRemove, Source: filepath.Join(showDir, "season 1"), Reason: ReasonEmptied},
	}
	if !slices.Equal(ops, want) {
		t.Fatalf("unexpected ops:\n got %+v\nwant %+v", ops, want)
	}

	assertExists(t, file)
	if got := dirNames(t, base); !slices.Equal(got, []string{"halo"}) {
		t.Fatalf("preview mutated disk: %v", got)
	}
	if items[0].Status != media.StatusResolved || items[0].CurrentPath != "" {
		t.Fatalf("preview mutated items: %+v", items[0])
	}
}

func TestPreviewDeduplicatesFolderCreation(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Downloads")
	a := touch(t, filepath.Join(root, "Show - S01E01.mkv"))
	b := touch(t, filepath.Join(root, "Show - S01E02.mkv"))
	items := []media.ScanItem{settled(a, "Show - S01E01.mkv"), settled(b, "Show - S01E02.mkv")}

	ops := Preview(items, root, defaultOptions())

	creates := 0
	moves := 0
	for _, op := range ops {
		switch op.Action {
		case ActionCreate:
			creates++
		case ActionMove:
			moves++
		}
	}
	if creates != 2 || moves != 2 {
		t.Fatalf("expected 2 creates and 2 moves, got %+v", ops)
	}
}

func TestPreviewDisabled(t *testing.T) {
	opts := defaultOptions()
	opts.Enabled = false
	if ops := Preview([]media.ScanItem{settled("/x/Show - S01E01.mkv", "Show - S01E01.mkv")}, "/x", opts); ops != nil {
		t.Fatalf("expected no ops, got %+v", ops)
	}
}

func TestMemFSOverlay(t *testing.T) {
	base := t.TempDir()
	touch(t, filepath.Join(base, "a", "b", "file.mkv"))
	m := newMemFS()

	if err := m.rename(filepath.Join(base, "a"), filepath.Join(base, "A")); err != nil {
		t.Fatalf("rename: %v", err)
	}
	if !m.exists(filepath.Join(base, "A", "b", "file.mkv")) {
		t.Fatal("expected descendant to resolve through renamed node")
	}
	if m.exists(filepath.Join(base, "a")) {
		t.Fatal("old name should be gone from the overlay")
	}
	if err := m.mkdir(filepath.Join(base, "A", "new", "deeper")); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if !m.isDir(filepath.Join(base, "A", "new", "deeper")) {
		t.Fatal("expected created dir")
	}
	removed, err := m.removeEmpty(filepath.Join(base, "A", "b"))
	if err != nil || removed {
		t.Fatalf("non-empty dir must stay: removed=%v err=%v", removed, err)
	}
	assertExists(t, filepath.Join(base, "a", "b", "file.mkv"))
}
