package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"autotitle/internal/logging"
	"autotitle/internal/online"
)

// Bulk list formats.
const (
	FormatTop250    = "top250"
	FormatPopularTV = "popular_tv"
	FormatTop1000   = "top1000"
)

// Source is one bulk reference list.
type Source struct {
	Name   string
	URL    string
	Format string
}

// SourceResult describes the outcome of fetching one source.
type SourceResult struct {
	Name    string
	Fetched int
	Added   int
	Err     error
}

// HTTPDoer is the subset of *http.Client used for bulk fetches.
type HTTPDoer interface {
	Do(*http.Request) (*http.Response, error)
}

// maxSourceBytes bounds a single bulk list download.
const maxSourceBytes = 32 << 20

// Populate fetches every source in order, merging and persisting after each
// one. A failing source is logged and skipped. Readiness is raised when all
// sources have been attempted, regardless of their outcome.
func (c *Cache) Populate(ctx context.Context, client HTTPDoer, sources []Source) []SourceResult {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	defer c.markReady()

	if c.Loaded() {
		c.logger.Info("refreshing knowledge cache in background", logging.Int("sources", len(sources)))
	} else {
		c.logger.Info("populating knowledge cache", logging.Int("sources", len(sources)))
	}

	results := make([]SourceResult, 0, len(sources))
	for _, src := range sources {
		if ctx.Err() != nil {
			results = append(results, SourceResult{Name: src.Name, Err: ctx.Err()})
			continue
		}
		res := SourceResult{Name: src.Name}
		entries, err := fetchSource(ctx, client, src)
		if err != nil {
			res.Err = err
			logging.WarnWithContext(c.logger, "knowledge source failed", "knowledge_source_failed",
				logging.String("source", src.Name),
				logging.String("url", src.URL),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check network access or the source URL in [knowledge].sources"),
				logging.String(logging.FieldImpact, "titles from this list are unavailable offline"))
			results = append(results, res)
			continue
		}
		res.Fetched = len(entries)
		added, err := c.merge(entries)
		res.Added = added
		if err != nil {
			res.Err = err
			logging.WarnWithContext(c.logger, "knowledge cache save failed", "knowledge_save_failed",
				logging.String("source", src.Name),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check permissions on the cache directory"),
				logging.String(logging.FieldImpact, "entries stay in memory and are retried on the next save"))
		}
		c.logger.Info("knowledge source merged",
			logging.String("source", src.Name),
			logging.Int("fetched", res.Fetched),
			logging.Int("added", added))
		results = append(results, res)
	}

	stats := c.Stats()
	c.logger.Info("knowledge cache population complete",
		logging.Int("keys", stats.Keys),
		logging.Int("entries", stats.Entries))
	return results
}

func fetchSource(ctx context.Context, client HTTPDoer, src Source) ([]Entry, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", src.Name, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: unexpected status %s", src.Name, resp.Status)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSourceBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", src.Name, err)
	}
	return ParseSource(src.Format, body)
}

// ParseSource decodes a bulk list body in the given format.
func ParseSource(format string, body []byte) ([]Entry, error) {
	switch format {
	case FormatTop250:
		return parseTop250(body)
	case FormatPopularTV:
		return parsePopularTV(body)
	case FormatTop1000:
		return parseTop1000(body)
	default:
		return nil, fmt.Errorf("unsupported source format %q", format)
	}
}

func parseTop250(body []byte) ([]Entry, error) {
	var items []struct {
		Name          string `json:"name"`
		DatePublished string `json:"datePublished"`
		URL           string `json:"url"`
		Type          string `json:"@type"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode top250 list: %w", err)
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		id := online.ExtractIMDbID(item.URL)
		if strings.TrimSpace(item.Name) == "" || id == "" {
			continue
		}
		kind := KindMovie
		if strings.EqualFold(item.Type, "TVSeries") {
			kind = KindTVSeries
		}
		entries = append(entries, Entry{Title: item.Name, Year: parseYear(item.DatePublished), ID: id, Kind: kind})
	}
	return entries, nil
}

func parsePopularTV(body []byte) ([]Entry, error) {
	var items []struct {
		ShowName string `json:"Show Name"`
		Link     string `json:"Link"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode popular tv list: %w", err)
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		id := online.ExtractIMDbID(item.Link)
		if strings.TrimSpace(item.ShowName) == "" || id == "" {
			continue
		}
		entries = append(entries, Entry{Title: item.ShowName, ID: id, Kind: KindTVSeries})
	}
	return entries, nil
}

func parseTop1000(body []byte) ([]Entry, error) {
	var items []struct {
		ID    json.Number `json:"Id"`
		Title string      `json:"Title"`
		Year  Year        `json:"Year"`
	}
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, fmt.Errorf("decode top1000 list: %w", err)
	}
	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		rank := strings.TrimSpace(item.ID.String())
		if strings.TrimSpace(item.Title) == "" || rank == "" {
			continue
		}
		if _, err := strconv.Atoi(rank); err != nil {
			continue
		}
		// The list carries a rank, not an IMDb id.
		entries = append(entries, Entry{Title: item.Title, Year: item.Year, ID: "sb_" + rank, Kind: KindMovie})
	}
	return entries, nil
}
