package identification

import (
	"context"
	"errors"
	"strconv"

	"autotitle/internal/knowledge"
	"autotitle/internal/logging"
	"autotitle/internal/media"
	"autotitle/internal/online"
)

// onlineQueries builds the type-qualified and bare queries for title, most
// specific first. A known year adds year-less fallbacks.
func onlineQueries(title string, year int, kind media.Kind) []string {
	suffix := ""
	switch kind {
	case media.KindSeries:
		suffix = " tv series"
	case media.KindMovie:
		suffix = " movie"
	}
	bases := []string{title}
	if year > 0 {
		bases = []string{title + " " + strconv.Itoa(year), title}
	}
	queries := make([]string, 0, 2*len(bases))
	for _, base := range bases {
		if suffix != "" {
			queries = append(queries, base+suffix)
		}
	}
	queries = append(queries, bases...)
	return queries
}

func (r *Resolver) onlineLookup(ctx context.Context, req *request) []media.Identity {
	if req.lookupTitle == "" {
		return nil
	}
	kind := req.fields.Kind
	if req.fields.HasEpisode() {
		kind = media.KindSeries
	}

	seen := make(map[string]struct{})
	var records []online.Record
	for _, q := range onlineQueries(req.lookupTitle, req.lookupYear, kind) {
		if ctx.Err() != nil || len(records) >= r.opts.MaxOnlineCandidates {
			break
		}
		links, err := r.searcher.Search(ctx, q+" imdb")
		if err != nil {
			logging.WarnWithContext(r.logger, "online search failed", "online_search_failed",
				logging.String("query", q),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check network access or switch identify.search_mode to offline"),
				logging.String(logging.FieldImpact, "this query contributes no candidates"))
			continue
		}
		for _, link := range links {
			if len(records) >= r.opts.MaxOnlineCandidates {
				break
			}
			id := online.ExtractIMDbID(link)
			if id == "" {
				continue
			}
			if _, dup := seen[id]; dup {
				continue
			}
			seen[id] = struct{}{}
			rec, err := r.fetcher.Fetch(ctx, id)
			if err != nil {
				if !errors.Is(err, online.ErrNotFound) {
					r.logger.Debug("record fetch failed", logging.String("id", id), logging.Error(err))
				}
				continue
			}
			records = append(records, rec)
			r.learn(rec)
		}
	}

	ids := make([]media.Identity, 0, len(records))
	for _, rec := range records {
		id := media.Identity{
			Title:      rec.Title,
			Year:       rec.Year,
			Kind:       media.KindFromCatalog(rec.Kind),
			ExternalID: rec.ID,
		}
		ids = append(ids, r.withEpisode(id, req))
	}
	return ids
}

// learn records a fetched record in the index whether or not it is chosen.
func (r *Resolver) learn(rec online.Record) {
	if r.index == nil {
		return
	}
	kind := rec.Kind
	if kind == "" {
		kind = knowledge.KindUnknown
	}
	entry := knowledge.Entry{Title: rec.Title, Year: knowledge.Year(rec.Year), ID: rec.ID, Kind: kind}
	if _, err := r.index.Learn(entry); err != nil {
		logging.WarnWithContext(r.logger, "failed to learn title", "knowledge_learn_failed",
			logging.String("title", rec.Title),
			logging.String("id", rec.ID),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check permissions on the knowledge cache file"),
			logging.String(logging.FieldImpact, "the title will be looked up online again next run"))
	}
}
