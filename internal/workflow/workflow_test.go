package workflow_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/gofrs/flock"

	"autotitle/internal/config"
	"autotitle/internal/journal"
	"autotitle/internal/media"
	"autotitle/internal/online"
	"autotitle/internal/organizer"
	"autotitle/internal/workflow"
)

type stubSearcher struct{ links []string }

func (s stubSearcher) Search(context.Context, string) ([]string, error) { return s.links, nil }

type stubFetcher struct{ records map[string]online.Record }

func (f stubFetcher) Fetch(_ context.Context, id string) (online.Record, error) {
	rec, ok := f.records[id]
	if !ok {
		return online.Record{}, online.ErrNotFound
	}
	rec.ID = id
	return rec, nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Default()
	state := t.TempDir()
	cfg.Paths.CacheFile = filepath.Join(state, "knowledge.json")
	cfg.Paths.JournalDB = filepath.Join(state, "journal.db")
	cfg.Paths.LogDir = filepath.Join(state, "logs")
	cfg.Knowledge.Sources = nil
	cfg.Knowledge.RefreshOnStart = false
	cfg.Identify.SearchMode = config.SearchOffline
	cfg.Identify.CacheWaitSeconds = 2
	return &cfg
}

func newManager(t *testing.T, cfg *config.Config, opts ...workflow.Option) *workflow.Manager {
	t.Helper()
	m, err := workflow.NewManager(cfg, nil, opts...)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(m.Close)
	return m
}

func touch(t *testing.T, path string) string {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestScanAndApplyFixesRootCase(t *testing.T) {
	cfg := testConfig(t)
	store, err := journal.Open(cfg.Paths.JournalDB)
	if err != nil {
		t.Fatalf("journal: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	m := newManager(t, cfg, workflow.WithJournal(store))

	base := t.TempDir()
	root := filepath.Join(base, "halo")
	touch(t, filepath.Join(root, "season 1", "halo.s01e01.mkv"))

	ctx := context.Background()
	plan, err := m.Scan(ctx, root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !plan.CacheReady {
		t.Fatal("expected empty-source population to raise readiness")
	}
	if len(plan.Items) != 1 || plan.Items[0].CanonicalName != "Halo - S01E01.mkv" {
		t.Fatalf("unexpected plan %+v", plan.Items)
	}

	report, err := m.Apply(ctx, plan)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := filepath.Join(base, "Halo", "Halo - Season 1", "Halo - S01E01.mkv")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected %s: %v", want, err)
	}
	if report.Root != filepath.Join(base, "Halo") {
		t.Fatalf("unexpected root %s", report.Root)
	}
	wantStats := media.Stats{FoldersCreated: 1, FoldersRenamed: 1, FilesMoved: 1, FilesRenamed: 1}
	if report.Stats != wantStats {
		t.Fatalf("stats %+v, want %+v", report.Stats, wantStats)
	}

	runs, err := store.Runs(ctx, 5)
	if err != nil || len(runs) != 1 || runs[0].ID != plan.RunID || runs[0].Stats != wantStats {
		t.Fatalf("journal runs %+v %v", runs, err)
	}
	ops, err := store.Operations(ctx, plan.RunID)
	if err != nil || len(ops) < 4 {
		t.Fatalf("journal ops %+v %v", ops, err)
	}
}

func TestScanOnlineKeepsPunctuation(t *testing.T) {
	cfg := testConfig(t)
	cfg.Identify.SearchMode = config.SearchOnline
	searcher := stubSearcher{links: []string{"https://www.imdb.com/title/tt15248880/"}}
	fetcher := stubFetcher{records: map[string]online.Record{
		"tt15248880": {Title: "Adventure Time: Fionna & Cake", Year: 2023, Kind: "tv series"},
	}}
	m := newManager(t, cfg, workflow.WithProviders(searcher, fetcher))

	root := filepath.Join(t.TempDir(), "Downloads")
	touch(t, filepath.Join(root, "Adventure.Time.Fionna.Cake.S02E06.The.Bird.in.the.Clock.1080p.HEVC.x265-MeGusta.mkv"))

	plan, err := m.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	item := plan.Items[0]
	if item.CanonicalName != "Adventure Time: Fionna & Cake - S02E06.mkv" || item.Provenance != media.ProvenanceOnline {
		t.Fatalf("unexpected item %+v", item)
	}

	if _, err := m.Apply(context.Background(), plan); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	show := "Adventure Time: Fionna & Cake"
	want := filepath.Join(root, show, show+" - Season 2", show+" - S02E06.mkv")
	if _, err := os.Stat(want); err != nil {
		t.Fatalf("expected %s: %v", want, err)
	}
}

func TestPreviewLeavesDiskUntouched(t *testing.T) {
	cfg := testConfig(t)
	m := newManager(t, cfg)
	root := filepath.Join(t.TempDir(), "Downloads")
	file := touch(t, filepath.Join(root, "Adventure Time - S01E01.mkv"))

	plan, err := m.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	ops := m.Preview(plan)

	var actions []organizer.Action
	for _, op := range ops {
		actions = append(actions, op.Action)
	}
	want := []organizer.Action{organizer.ActionCreate, organizer.ActionCreate, organizer.ActionMove}
	if !slices.Equal(actions, want) {
		t.Fatalf("actions %v, want %v (%+v)", actions, want, ops)
	}
	if _, err := os.Stat(file); err != nil {
		t.Fatalf("preview moved the file: %v", err)
	}
}

func TestPreviewIncludesInPlaceRenames(t *testing.T) {
	cfg := testConfig(t)
	cfg.Organize.Enabled = false
	m := newManager(t, cfg)
	root := filepath.Join(t.TempDir(), "lib")
	touch(t, filepath.Join(root, "halo.s01e02.mkv"))

	plan, err := m.Scan(context.Background(), root)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	ops := m.Preview(plan)
	if len(ops) != 1 || ops[0].Action != organizer.ActionRenameFile || filepath.Base(ops[0].Destination) != "Halo - S01E02.mkv" {
		t.Fatalf("unexpected ops %+v", ops)
	}
}

func TestApplyRefusesConcurrentRun(t *testing.T) {
	cfg := testConfig(t)
	m := newManager(t, cfg)
	lockPath := filepath.Join(filepath.Dir(cfg.Paths.JournalDB), "apply.lock")
	held := flock.New(lockPath)
	ok, err := held.TryLock()
	if err != nil || !ok {
		t.Fatalf("prelock: %v %v", ok, err)
	}
	defer func() { _ = held.Unlock() }()

	_, err = m.Apply(context.Background(), &workflow.Plan{Root: t.TempDir()})
	if !errors.Is(err, workflow.ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
}

func TestPlanOverride(t *testing.T) {
	root := "/media/lib"
	plan := &workflow.Plan{Root: root, Items: []media.ScanItem{
		{OriginalPath: filepath.Join(root, "a", "clip.mkv"), Status: media.StatusUnresolved},
		{OriginalPath: filepath.Join(root, "b", "dup.mkv"), Status: media.StatusUnresolved},
		{OriginalPath: filepath.Join(root, "c", "dup.mkv"), Status: media.StatusUnresolved},
	}}

	if err := plan.Override("clip.mkv", "Heat (1995)"); err != nil {
		t.Fatalf("Override: %v", err)
	}
	got := plan.Items[0]
	if got.CanonicalName != "Heat (1995).mkv" || got.Provenance != media.ProvenanceManual || got.Status != media.StatusResolved {
		t.Fatalf("unexpected item %+v", got)
	}
	if err := plan.Override("dup.mkv", "X"); err == nil {
		t.Fatal("ambiguous bare name should fail")
	}
	if err := plan.Override("b/dup.mkv", "X.mkv"); err != nil {
		t.Fatalf("relative path override: %v", err)
	}
	if err := plan.Override("clip.mkv", "a/b"); err == nil {
		t.Fatal("separators should be rejected")
	}
}

func TestCountItems(t *testing.T) {
	counts := workflow.CountItems([]media.ScanItem{
		{CanonicalName: "A - S01E01.mkv", Status: media.StatusMoved, Provenance: media.ProvenanceLocal},
		{CanonicalName: "B.mkv", Status: media.StatusResolved, Provenance: media.ProvenanceOnline},
		{Status: media.StatusUnresolved},
		{CanonicalName: "C.mkv", Status: media.StatusError},
	})
	if counts.Total != 4 || counts.Resolved != 2 || counts.Unresolved != 1 || counts.Errors != 1 {
		t.Fatalf("unexpected counts %+v", counts)
	}
	if counts.ByProvenance[media.ProvenanceOnline] != 1 {
		t.Fatalf("provenance tally %+v", counts.ByProvenance)
	}
}

func TestBuildProviders(t *testing.T) {
	cfg := config.Default()
	cfg.Identify.SearchMode = config.SearchOffline
	s, f, err := workflow.BuildProviders(&cfg)
	if err != nil || s != nil || f != nil {
		t.Fatalf("offline should build nothing: %v %v %v", s, f, err)
	}

	cfg.Identify.SearchMode = config.SearchAuto
	s, f, err = workflow.BuildProviders(&cfg)
	if err != nil {
		t.Fatalf("BuildProviders: %v", err)
	}
	if _, ok := s.(*online.DuckDuckGo); !ok {
		t.Fatalf("expected DuckDuckGo searcher, got %T", s)
	}
	if _, ok := f.(*online.IMDb); !ok {
		t.Fatalf("expected IMDb fetcher, got %T", f)
	}

	cfg.TMDB.APIKey = "key"
	_, f, err = workflow.BuildProviders(&cfg)
	if err != nil {
		t.Fatalf("BuildProviders: %v", err)
	}
	if _, ok := f.(*online.TMDB); !ok {
		t.Fatalf("expected TMDB fetcher, got %T", f)
	}
}
