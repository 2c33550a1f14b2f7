package identification

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"autotitle/internal/config"
	"autotitle/internal/knowledge"
	"autotitle/internal/media"
	"autotitle/internal/online"
)

type stubSearcher struct {
	links   []string
	err     error
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]string, error) {
	s.queries = append(s.queries, query)
	return s.links, s.err
}

type stubFetcher struct {
	records map[string]online.Record
	calls   []string
}

func (f *stubFetcher) Fetch(_ context.Context, id string) (online.Record, error) {
	f.calls = append(f.calls, id)
	rec, ok := f.records[id]
	if !ok {
		return online.Record{}, online.ErrNotFound
	}
	rec.ID = id
	return rec, nil
}

func offlineOptions() Options {
	opts := DefaultOptions()
	opts.SearchMode = config.SearchOffline
	return opts
}

func TestResolveOnlineScenarioKeepsPunctuation(t *testing.T) {
	index := knowledge.New("", nil)
	searcher := &stubSearcher{links: []string{"https://www.imdb.com/title/tt15248880/"}}
	fetcher := &stubFetcher{records: map[string]online.Record{
		"tt15248880": {Title: "Adventure Time: Fionna & Cake", Year: 2023, Kind: "tv series"},
	}}
	opts := DefaultOptions()
	opts.SearchMode = config.SearchOnline
	r := NewResolver(index, searcher, fetcher, opts, nil)

	path := filepath.Join("/library", "Adventure Time", "Adventure.Time.Fionna.Cake.S02E06.The.Bird.in.the.Clock.1080p.HEVC.x265-MeGusta.mkv")
	res := r.Resolve(context.Background(), path)
	if !res.Resolved() {
		t.Fatal("expected a resolution")
	}
	if res.Names[0] != "Adventure Time: Fionna & Cake - S02E06.mkv" {
		t.Fatalf("unexpected canonical name %q", res.Names[0])
	}
	if res.Provenance != media.ProvenanceOnline {
		t.Fatalf("unexpected provenance %q", res.Provenance)
	}
	if got := index.Search("Adventure Time Fionna and Cake", 0, knowledge.FilterNone); got != nil {
		t.Fatalf("different key should not match: %+v", got)
	}
	if got := index.Search("adventure time fionna cake", 2023, knowledge.FilterEpisode); len(got) != 1 {
		t.Fatalf("expected fetched record to be learned, got %+v", got)
	}
}

func TestCanonicalNameFromMockedIdentity(t *testing.T) {
	opts := DefaultOptions()
	id := media.Identity{Title: "Adventure Time: Fionna & Cake", Kind: media.KindSeries, Season: 2, Episode: 6}
	if got := opts.CanonicalName(id, ".mkv"); got != "Adventure Time: Fionna & Cake - S02E06.mkv" {
		t.Fatalf("unexpected name %q", got)
	}
	movie := media.Identity{Title: "inception", Year: 2010, Kind: media.KindMovie}
	if got := opts.CanonicalName(movie, ".mp4"); got != "Inception (2010).mp4" {
		t.Fatalf("unexpected movie name %q", got)
	}
	opts.TitleCase = false
	if got := opts.CanonicalName(movie, ".mp4"); got != "inception (2010).mp4" {
		t.Fatalf("title case disabled should keep casing, got %q", got)
	}
	show := media.Identity{Title: "Severance", Kind: media.KindSeries}
	if got := opts.CanonicalName(show, ".mkv"); got != "Severance.mkv" {
		t.Fatalf("series without episode should keep title only, got %q", got)
	}
}

func TestResolveLocalFastPath(t *testing.T) {
	r := NewResolver(nil, nil, nil, offlineOptions(), nil)
	res := r.Resolve(context.Background(), "/x/Halo.S01E01.mkv")
	if !res.Resolved() || res.Names[0] != "Halo - S01E01.mkv" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Provenance != media.ProvenanceLocal {
		t.Fatalf("expected local provenance, got %q", res.Provenance)
	}
}

func TestResolveUsesFolderTitleAndCache(t *testing.T) {
	index := knowledge.New("", nil)
	if _, err := index.Learn(knowledge.Entry{Title: "Breaking Bad", Year: 2008, ID: "tt0903747", Kind: knowledge.KindTVSeries}); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(index, nil, nil, offlineOptions(), nil)
	res := r.Resolve(context.Background(), filepath.Join("/shows", "Breaking Bad", "Season 1", "S01E02.mkv"))
	if !res.Resolved() || res.Names[0] != "Breaking Bad - S01E02.mkv" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Provenance != media.ProvenanceKnowledge {
		t.Fatalf("expected knowledge provenance, got %q", res.Provenance)
	}
}

func TestResolveFolderTitleWithColdCache(t *testing.T) {
	tests := map[string]string{
		filepath.Join("/shows", "Breaking Bad", "Season 1", "S01E02.mkv"): "Breaking Bad - S01E02.mkv",
		filepath.Join("/shows", "Severance", "1x03.mkv"):                  "Severance - S01E03.mkv",
	}
	for path, want := range tests {
		r := NewResolver(knowledge.New("", nil), nil, nil, offlineOptions(), nil)
		res := r.Resolve(context.Background(), path)
		if !res.Resolved() || res.Names[0] != want {
			t.Fatalf("Resolve(%q) = %+v, want %q", path, res, want)
		}
		if res.Provenance != media.ProvenanceLocal {
			t.Fatalf("expected local provenance for %q, got %q", path, res.Provenance)
		}
	}
}

func TestResolveDirectoryMemo(t *testing.T) {
	r := NewResolver(nil, nil, nil, offlineOptions(), nil)
	first := r.Resolve(context.Background(), "/downloads/Show.Name.S01E01.mkv")
	if !first.Resolved() {
		t.Fatal("expected first file to resolve locally")
	}
	second := r.Resolve(context.Background(), "/downloads/S01E02.mkv")
	if !second.Resolved() || second.Names[0] != "Show Name - S01E02.mkv" {
		t.Fatalf("expected memoized title, got %+v", second)
	}
	if second.Provenance != media.ProvenanceSibling {
		t.Fatalf("expected sibling provenance, got %q", second.Provenance)
	}

	r.ResetMemo()
	if again := r.Resolve(context.Background(), "/downloads/S01E03.mkv"); again.Resolved() {
		t.Fatalf("memo should be cleared, got %+v", again)
	}
}

func TestResolveRawFilenameProbe(t *testing.T) {
	index := knowledge.New("", nil)
	if _, err := index.Learn(knowledge.Entry{Title: "Amélie", Year: 2001, ID: "tt0211915", Kind: knowledge.KindMovie}); err != nil {
		t.Fatal(err)
	}
	r := NewResolver(index, nil, nil, offlineOptions(), nil)
	res := r.Resolve(context.Background(), "/media/Amelie.mkv")
	if !res.Resolved() || res.Names[0] != "Amélie (2001).mkv" {
		t.Fatalf("unexpected result %+v", res)
	}
	if res.Identities[0].ExternalID != "tt0211915" {
		t.Fatalf("unexpected identity %+v", res.Identities[0])
	}
}

func TestResolveOfflineNeverSearches(t *testing.T) {
	searcher := &stubSearcher{links: []string{"https://www.imdb.com/title/tt0000001/"}}
	fetcher := &stubFetcher{}
	r := NewResolver(knowledge.New("", nil), searcher, fetcher, offlineOptions(), nil)
	res := r.Resolve(context.Background(), "/downloads/xyzzy.mkv")
	if res.Resolved() {
		t.Fatalf("expected unresolved, got %+v", res)
	}
	if len(searcher.queries) != 0 {
		t.Fatalf("offline mode issued queries: %v", searcher.queries)
	}
}

func TestOnlineLookupDedupesCapsAndLearns(t *testing.T) {
	links := []string{}
	records := map[string]online.Record{}
	for i := 1; i <= 7; i++ {
		id := fmt.Sprintf("tt000000%d", i)
		links = append(links, "https://www.imdb.com/title/"+id+"/", "https://m.imdb.com/title/"+id+"/")
		records[id] = online.Record{Title: fmt.Sprintf("Mystery %d", i), Year: 2000 + i, Kind: "movie"}
	}
	searcher := &stubSearcher{links: links}
	fetcher := &stubFetcher{records: records}
	index := knowledge.New("", nil)
	opts := DefaultOptions()
	r := NewResolver(index, searcher, fetcher, opts, nil)

	res := r.Resolve(context.Background(), "/films/Mystery.Film.mkv")
	if res.Provenance != media.ProvenanceOnline {
		t.Fatalf("expected online provenance, got %+v", res)
	}
	if len(fetcher.calls) != 5 {
		t.Fatalf("expected 5 unique fetches, got %v", fetcher.calls)
	}
	if len(res.Identities) != 5 {
		t.Fatalf("expected 5 candidates, got %d", len(res.Identities))
	}
	if stats := index.Stats(); stats.Entries != 5 {
		t.Fatalf("expected every fetched record learned, got %d", stats.Entries)
	}
	if len(searcher.queries) == 0 || searcher.queries[0] != "Mystery Film movie imdb" {
		t.Fatalf("unexpected first query %v", searcher.queries)
	}
}

func TestOnlineSearchFailureFallsThrough(t *testing.T) {
	searcher := &stubSearcher{err: errors.New("network down")}
	r := NewResolver(knowledge.New("", nil), searcher, &stubFetcher{}, DefaultOptions(), nil)
	res := r.Resolve(context.Background(), "/downloads/xyzzy.mkv")
	if res.Resolved() {
		t.Fatalf("expected unresolved, got %+v", res)
	}
	if len(searcher.queries) == 0 {
		t.Fatal("expected online tier to be attempted")
	}
}

func TestResolveItemSetsStatus(t *testing.T) {
	r := NewResolver(nil, nil, nil, offlineOptions(), nil)
	item := &media.ScanItem{OriginalPath: "/tv/Halo/halo.s01e01.mkv"}
	r.ResolveItem(context.Background(), item)
	if item.Status != media.StatusResolved || item.CanonicalName != "Halo - S01E01.mkv" {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.TargetPath != "/tv/Halo/Halo - S01E01.mkv" {
		t.Fatalf("unexpected target %q", item.TargetPath)
	}

	unresolved := &media.ScanItem{OriginalPath: "/downloads/xyzzy.mkv"}
	r.ResolveItem(context.Background(), unresolved)
	if unresolved.Status != media.StatusUnresolved || unresolved.CanonicalName != "" {
		t.Fatalf("unexpected unresolved item %+v", unresolved)
	}
}

func TestResolveLocalRejectsShortTitles(t *testing.T) {
	r := NewResolver(nil, nil, nil, offlineOptions(), nil)
	if _, ok := r.ResolveLocal(parseFields("X", 1, 2), ".mkv"); ok {
		t.Fatal("single-letter title should be rejected")
	}
	name, ok := r.ResolveLocal(parseFields("The.Office.720p", 3, 4), ".mkv")
	if !ok || name != "The Office - S03E04.mkv" {
		t.Fatalf("unexpected local name %q %v", name, ok)
	}
}
