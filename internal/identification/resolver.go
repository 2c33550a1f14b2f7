package identification

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"

	"autotitle/internal/config"
	"autotitle/internal/knowledge"
	"autotitle/internal/logging"
	"autotitle/internal/media"
	"autotitle/internal/online"
	"autotitle/internal/parse"
)

// Index is the knowledge cache surface the resolver needs.
type Index interface {
	Search(title string, year int, filter knowledge.KindFilter) []knowledge.Entry
	Learn(entry knowledge.Entry) (bool, error)
}

// Result is the ranked outcome of resolving one path.
type Result struct {
	Identities []media.Identity
	Names      []string
	Provenance media.Provenance
}

// Resolved reports whether any candidate was produced.
func (r Result) Resolved() bool { return len(r.Names) > 0 }

// request carries everything strategies read about one file.
type request struct {
	path   string
	dir    string
	ext    string
	hint   media.Kind
	fields parse.Fields
	// title is the cleaned parsed title, empty when unusable.
	title string
	// rawTitle is the cleaned whole stem.
	rawTitle string
	// lookupTitle is title, else the memoized or folder-derived title.
	lookupTitle string
	lookupYear  int
}

type strategy struct {
	name       string
	provenance media.Provenance
	run        func(ctx context.Context, req *request) []media.Identity
}

// Resolver runs the identification cascade.
type Resolver struct {
	index    Index
	searcher online.SearchProvider
	fetcher  online.RecordFetcher
	opts     Options
	logger   *slog.Logger

	mu   sync.Mutex
	memo map[string]string

	strategies []strategy
}

// NewResolver builds a resolver. index, searcher, and fetcher may be nil; a
// nil searcher or fetcher disables the online tier.
func NewResolver(index Index, searcher online.SearchProvider, fetcher online.RecordFetcher, opts Options, logger *slog.Logger) *Resolver {
	opts.normalize()
	r := &Resolver{
		index:    index,
		searcher: searcher,
		fetcher:  fetcher,
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "identification"),
		memo:     make(map[string]string),
	}
	r.strategies = []strategy{
		{name: "raw_filename_probe", provenance: media.ProvenanceKnowledge, run: r.rawProbe},
		{name: "local_parse", provenance: media.ProvenanceLocal, run: r.localParse},
		{name: "directory_memo", provenance: media.ProvenanceSibling, run: r.directoryMemo},
		{name: "knowledge_cache", provenance: media.ProvenanceKnowledge, run: r.cacheLookup},
		{name: "online_search", provenance: media.ProvenanceOnline, run: r.onlineLookup},
		{name: "folder_title", provenance: media.ProvenanceLocal, run: r.folderTitle},
	}
	return r
}

// Options returns the effective options.
func (r *Resolver) Options() Options { return r.opts }

// Resolve returns ranked candidates for path. In online search mode the
// online tier runs even when an offline tier succeeded, and its candidates
// rank first.
func (r *Resolver) Resolve(ctx context.Context, path string) Result {
	req := r.newRequest(path)

	var result Result
	for _, s := range r.strategies {
		if s.provenance == media.ProvenanceOnline && !r.onlineAllowed() {
			continue
		}
		ids := s.run(ctx, req)
		if len(ids) == 0 {
			continue
		}
		result = Result{Identities: ids, Provenance: s.provenance}
		r.logger.Debug("identity resolved",
			logging.String(logging.FieldDecisionType, "resolver_tier"),
			logging.String("decision_result", s.name),
			logging.String("path", path),
			logging.Int("candidates", len(ids)))
		break
	}

	if r.opts.SearchMode == config.SearchOnline && result.Provenance != media.ProvenanceOnline && r.onlineAllowed() {
		if ids := r.onlineLookup(ctx, req); len(ids) > 0 {
			result = Result{
				Identities: append(ids, result.Identities...),
				Provenance: media.ProvenanceOnline,
			}
		}
	}

	if len(result.Identities) == 0 {
		r.logger.Debug("identity unresolved",
			logging.String(logging.FieldDecisionType, "resolver_tier"),
			logging.String("decision_result", "none"),
			logging.String("path", path))
		return Result{}
	}
	result.Names = r.opts.candidateNames(result.Identities, req.ext)
	r.remember(req.dir, result.Identities[0])
	return result
}

// ResolveItem resolves item in place, setting its canonical name, target
// path, candidates, status, and provenance.
func (r *Resolver) ResolveItem(ctx context.Context, item *media.ScanItem) {
	res := r.Resolve(ctx, item.OriginalPath)
	item.Candidates = res.Identities
	item.Options = res.Names
	if !res.Resolved() {
		item.CanonicalName = ""
		item.TargetPath = ""
		item.Status = media.StatusUnresolved
		item.Provenance = media.ProvenanceNone
		return
	}
	item.CanonicalName = res.Names[0]
	item.TargetPath = filepath.Join(filepath.Dir(item.OriginalPath), item.CanonicalName)
	item.Status = media.StatusResolved
	item.Provenance = res.Provenance
}

// ResolveLocal is the fast path alone: it names a file from parsed fields
// without any lookup.
func (r *Resolver) ResolveLocal(fields parse.Fields, ext string) (string, bool) {
	title, ok := usableTitle(fields.Title, r.opts.MinTitleLength)
	if !ok {
		return "", false
	}
	id, ok := localIdentity(title, fields)
	if !ok {
		return "", false
	}
	return r.opts.CanonicalName(id, ext), true
}

// ResetMemo forgets directory titles from earlier files.
func (r *Resolver) ResetMemo() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.memo = make(map[string]string)
}

func (r *Resolver) onlineAllowed() bool {
	return r.opts.SearchMode != config.SearchOffline && r.searcher != nil && r.fetcher != nil
}

func (r *Resolver) newRequest(path string) *request {
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	hint := InferKind(path, r.opts.MediaType)
	fields := parse.Parse(path, hint)

	req := &request{
		path:   path,
		dir:    filepath.Dir(path),
		ext:    ext,
		hint:   hint,
		fields: fields,
	}
	req.rawTitle, _ = usableTitle(strings.TrimSuffix(base, ext), r.opts.MinTitleLength)
	if title, ok := usableTitle(fields.Title, r.opts.MinTitleLength); ok {
		req.title = title
	}
	req.lookupTitle, req.lookupYear = req.title, fields.Year
	if req.lookupTitle == "" {
		if memo := r.recall(req.dir); memo != "" && fields.HasEpisode() {
			req.lookupTitle = memo
		} else if title, year := FallbackTitle(path, hint); title != "" {
			req.lookupTitle = title
			if req.lookupYear == 0 {
				req.lookupYear = year
			}
		}
	}
	return req
}

func (r *Resolver) recall(dir string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.memo[dir]
}

func (r *Resolver) remember(dir string, id media.Identity) {
	if id.Kind != media.KindSeries || strings.TrimSpace(id.Title) == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.memo[dir]; !ok {
		r.memo[dir] = id.Title
	}
}

func localIdentity(title string, f parse.Fields) (media.Identity, bool) {
	switch {
	case f.HasEpisode():
		return media.Identity{Title: title, Kind: media.KindSeries, Season: f.Season, Episode: f.Episode, Year: f.Year}, true
	case f.Kind == media.KindMovie && f.Year > 0:
		return media.Identity{Title: title, Kind: media.KindMovie, Year: f.Year}, true
	default:
		return media.Identity{}, false
	}
}

func (r *Resolver) rawProbe(_ context.Context, req *request) []media.Identity {
	if r.index == nil || req.rawTitle == "" || req.fields.HasEpisode() {
		return nil
	}
	return r.fromEntries(r.index.Search(req.rawTitle, 0, r.filterFor(req)), req)
}

func (r *Resolver) localParse(_ context.Context, req *request) []media.Identity {
	if req.title == "" {
		return nil
	}
	id, ok := localIdentity(req.title, req.fields)
	if !ok {
		return nil
	}
	return []media.Identity{id}
}

func (r *Resolver) directoryMemo(_ context.Context, req *request) []media.Identity {
	if req.title != "" || !req.fields.HasEpisode() {
		return nil
	}
	title := r.recall(req.dir)
	if title == "" {
		return nil
	}
	return []media.Identity{{Title: title, Kind: media.KindSeries, Season: req.fields.Season, Episode: req.fields.Episode}}
}

// folderTitle names a title-less episode after its show folder when no
// lookup knew the title.
func (r *Resolver) folderTitle(_ context.Context, req *request) []media.Identity {
	if req.title != "" || !req.fields.HasEpisode() {
		return nil
	}
	folder, year := FallbackTitle(req.path, req.hint)
	title, ok := usableTitle(folder, r.opts.MinTitleLength)
	if !ok {
		return nil
	}
	id, _ := localIdentity(title, req.fields)
	if id.Year == 0 {
		id.Year = year
	}
	return []media.Identity{id}
}

func (r *Resolver) cacheLookup(_ context.Context, req *request) []media.Identity {
	if r.index == nil || req.lookupTitle == "" {
		return nil
	}
	return r.fromEntries(r.index.Search(req.lookupTitle, req.lookupYear, r.filterFor(req)), req)
}

func (r *Resolver) filterFor(req *request) knowledge.KindFilter {
	switch {
	case req.fields.HasEpisode() || req.fields.Kind == media.KindSeries:
		return knowledge.FilterEpisode
	case req.fields.Kind == media.KindMovie:
		return knowledge.FilterMovie
	default:
		return knowledge.FilterNone
	}
}

func (r *Resolver) fromEntries(entries []knowledge.Entry, req *request) []media.Identity {
	ids := make([]media.Identity, 0, len(entries))
	for _, e := range entries {
		ids = append(ids, r.withEpisode(e.Identity(), req))
	}
	return ids
}

// withEpisode carries parsed season/episode numbers onto a looked-up identity.
func (r *Resolver) withEpisode(id media.Identity, req *request) media.Identity {
	if req.fields.HasEpisode() {
		id.Season = req.fields.Season
		id.Episode = req.fields.Episode
		id.Kind = media.KindSeries
	}
	if id.Kind == media.KindUnknown {
		id.Kind = req.fields.Kind
	}
	return id
}
