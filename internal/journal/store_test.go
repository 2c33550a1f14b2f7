package journal_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"autotitle/internal/journal"
	"autotitle/internal/media"
	"autotitle/internal/organizer"
)

func openStore(t *testing.T) *journal.Store {
	t.Helper()
	store, err := journal.Open(filepath.Join(t.TempDir(), "nested", "journal.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	if err := store.BeginRun(ctx, "run-1", "/media/halo", started); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	rec := store.Recorder("run-1", nil)
	rec.Record(ctx, organizer.FolderOp{Action: organizer.ActionRename, Source: "/media/halo", Destination: "/media/Halo", Reason: organizer.ReasonShowCase}, nil)
	rec.Record(ctx, organizer.FolderOp{Action: organizer.ActionMove, Source: "/a", Destination: "/b", Reason: organizer.ReasonSeasonFolder}, errors.New("boom"))

	run := journal.Run{
		ID:         "run-1",
		Root:       "/media/Halo",
		FinishedAt: started.Add(time.Minute),
		Scanned:    3,
		Resolved:   2,
		Errors:     1,
		Stats:      media.Stats{FoldersCreated: 1, FoldersRenamed: 1, FilesMoved: 1, FilesRenamed: 1},
	}
	if err := store.FinishRun(ctx, run); err != nil {
		t.Fatalf("FinishRun: %v", err)
	}

	runs, err := store.Runs(ctx, 10)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected one run, got %d", len(runs))
	}
	got := runs[0]
	if got.Root != "/media/Halo" || !got.Finished() || got.Stats != run.Stats || got.Scanned != 3 || got.Errors != 1 {
		t.Fatalf("unexpected run %+v", got)
	}
	if !got.StartedAt.Equal(started) {
		t.Fatalf("started_at round trip: %v", got.StartedAt)
	}

	ops, err := store.Operations(ctx, "run-1")
	if err != nil {
		t.Fatalf("Operations: %v", err)
	}
	if len(ops) != 2 || ops[0].Action != "rename" || ops[1].Error != "boom" {
		t.Fatalf("unexpected ops %+v", ops)
	}

	byPrefix, err := store.GetRun(ctx, "run-")
	if err != nil || byPrefix == nil || byPrefix.ID != "run-1" {
		t.Fatalf("GetRun prefix: %v %+v", err, byPrefix)
	}
	missing, err := store.GetRun(ctx, "zzz")
	if err != nil || missing != nil {
		t.Fatalf("expected nil for unknown run, got %+v %v", missing, err)
	}
}

func TestRunsNewestFirstAndPrune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"old", "mid", "new"} {
		if err := store.BeginRun(ctx, id, "/r", base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("BeginRun %s: %v", id, err)
		}
	}
	runs, err := store.Runs(ctx, 2)
	if err != nil {
		t.Fatalf("Runs: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "new" || runs[1].ID != "mid" {
		t.Fatalf("unexpected order %+v", runs)
	}
	pruned, err := store.Prune(ctx, base.Add(90*time.Minute))
	if err != nil || pruned != 2 {
		t.Fatalf("Prune: %d %v", pruned, err)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	store, err := journal.Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := store.BeginRun(context.Background(), "r", "/x", time.Now()); err != nil {
		t.Fatalf("BeginRun: %v", err)
	}
	_ = store.Close()

	reopened, err := journal.Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.Runs(context.Background(), 0)
	if err != nil || len(runs) != 1 {
		t.Fatalf("expected persisted run, got %v %v", runs, err)
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("stamp version: %v", err)
	}
	_ = db.Close()

	if _, err := journal.Open(path); !errors.Is(err, journal.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestBeginRunRequiresID(t *testing.T) {
	store := openStore(t)
	if err := store.BeginRun(context.Background(), " ", "/x", time.Now()); err == nil {
		t.Fatal("expected error for empty id")
	}
}
