package knowledge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"autotitle/internal/fileutil"
	"autotitle/internal/logging"
)

// KindFilter restricts Search results by kind.
type KindFilter string

const (
	FilterNone    KindFilter = ""
	FilterMovie   KindFilter = "movie"
	FilterEpisode KindFilter = "episode"
)

// maxResults caps Search output.
const maxResults = 3

// Cache is the in-memory title index backed by a JSON file.
type Cache struct {
	path     string
	logger   *slog.Logger
	fileLock *flock.Flock

	mu    sync.RWMutex
	index map[string][]Entry

	loaded    bool
	readyOnce sync.Once
	ready     chan struct{}
}

// New creates a cache bound to path. Call Load to read existing data. An
// empty path yields a memory-only cache.
func New(path string, logger *slog.Logger) *Cache {
	c := &Cache{
		path:   strings.TrimSpace(path),
		logger: logging.NewComponentLogger(logger, "knowledge"),
		index:  make(map[string][]Entry),
		ready:  make(chan struct{}),
	}
	if c.path != "" {
		c.fileLock = flock.New(c.path + ".lock")
	}
	return c
}

// Path returns the backing file path.
func (c *Cache) Path() string { return c.path }

// Load reads the persisted index and reports whether data existed. A missing
// file is a fresh start; an unreadable or corrupt file is logged and the
// cache starts empty.
func (c *Cache) Load() bool {
	if c.path == "" {
		return false
	}
	index, err := readIndex(c.path)
	if err != nil {
		logging.WarnWithContext(c.logger, "failed to load knowledge cache", "knowledge_load_failed",
			logging.Error(err),
			logging.String("path", c.path),
			logging.String(logging.FieldErrorHint, "delete the cache file or run `autotitle cache populate`"),
			logging.String(logging.FieldImpact, "lookups start empty until population completes"))
		return false
	}
	if len(index) == 0 {
		return false
	}

	c.mu.Lock()
	for key, bucket := range index {
		for _, e := range bucket {
			c.insertLocked(key, e)
		}
	}
	c.loaded = true
	keys := len(c.index)
	c.mu.Unlock()

	c.markReady()
	c.logger.Info("knowledge cache loaded",
		logging.Int("keys", keys),
		logging.String("path", c.path))
	return true
}

// Loaded reports whether Load found existing data.
func (c *Cache) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func readIndex(path string) (map[string][]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read cache file: %w", err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, nil
	}
	var index map[string][]Entry
	if err := json.Unmarshal(data, &index); err != nil {
		return nil, fmt.Errorf("parse cache file: %w", err)
	}
	return index, nil
}

func (c *Cache) markReady() {
	c.readyOnce.Do(func() { close(c.ready) })
}

// Ready reports whether the readiness flag has been raised.
func (c *Cache) Ready() bool {
	select {
	case <-c.ready:
		return true
	default:
		return false
	}
}

// WaitUntilReady blocks until the cache is ready, timeout elapses, or ctx is
// done. A non-positive timeout only checks the current state.
func (c *Cache) WaitUntilReady(ctx context.Context, timeout time.Duration) bool {
	if c.Ready() || timeout <= 0 {
		return c.Ready()
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-c.ready:
		return true
	case <-timer.C:
		return false
	case <-ctx.Done():
		return false
	}
}

// Learn inserts a confirmed entry and persists the index. It reports whether
// the entry was new; learning an existing id is a no-op.
func (c *Cache) Learn(entry Entry) (bool, error) {
	entry.Title = strings.TrimSpace(entry.Title)
	entry.ID = strings.TrimSpace(entry.ID)
	if entry.Title == "" || entry.ID == "" {
		return false, errors.New("learn requires a title and an id")
	}
	if entry.Kind == "" {
		entry.Kind = KindUnknown
	}
	key := NormalizeKey(entry.Title)
	if key == "" {
		return false, fmt.Errorf("title %q normalizes to an empty key", entry.Title)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.insertLocked(key, entry) {
		return false, nil
	}
	if err := c.saveLocked(); err != nil {
		return true, fmt.Errorf("persist knowledge cache: %w", err)
	}
	c.logger.Debug("learned title",
		logging.String("title", entry.Title),
		logging.Int("year", int(entry.Year)),
		logging.String("id", entry.ID),
		logging.String("kind", entry.Kind))
	return true, nil
}

// merge inserts a batch under one lock acquisition and persists once.
func (c *Cache) merge(entries []Entry) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	added := 0
	for _, e := range entries {
		e.Title = strings.TrimSpace(e.Title)
		e.ID = strings.TrimSpace(e.ID)
		if e.Title == "" || e.ID == "" {
			continue
		}
		if e.Kind == "" {
			e.Kind = KindUnknown
		}
		key := NormalizeKey(e.Title)
		if key == "" {
			continue
		}
		if c.insertLocked(key, e) {
			added++
		}
	}
	if added == 0 {
		return 0, nil
	}
	return added, c.saveLocked()
}

func (c *Cache) insertLocked(key string, entry Entry) bool {
	for _, existing := range c.index[key] {
		if existing.ID == entry.ID {
			return false
		}
	}
	c.index[key] = append(c.index[key], entry)
	return true
}

func (c *Cache) saveLocked() error {
	if c.path == "" {
		return nil
	}
	data, err := json.MarshalIndent(c.index, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}
	if err := c.fileLock.Lock(); err != nil {
		return fmt.Errorf("lock cache file: %w", err)
	}
	defer func() { _ = c.fileLock.Unlock() }()
	return fileutil.WriteFileAtomic(c.path, data, 0o644)
}

// Search returns up to three entries for title ranked by year proximity.
// A zero year scores every candidate neutrally. It returns nil when the key
// is absent or every candidate is filtered out.
func (c *Cache) Search(title string, year int, filter KindFilter) []Entry {
	key := NormalizeKey(title)
	if key == "" {
		return nil
	}
	c.mu.RLock()
	bucket := append([]Entry(nil), c.index[key]...)
	c.mu.RUnlock()
	if len(bucket) == 0 {
		return nil
	}

	type scored struct {
		entry Entry
		score int
	}
	candidates := make([]scored, 0, len(bucket))
	for _, e := range bucket {
		if filter == FilterMovie && !isMovieLike(e.Kind) {
			continue
		}
		// FilterEpisode is permissive: the index stores show-level kinds.
		candidates = append(candidates, scored{entry: e, score: YearScore(year, int(e.Year))})
	}
	if len(candidates) == 0 {
		return nil
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].entry.Year != candidates[j].entry.Year {
			return candidates[i].entry.Year > candidates[j].entry.Year
		}
		return candidates[i].entry.ID < candidates[j].entry.ID
	})
	if len(candidates) > maxResults {
		candidates = candidates[:maxResults]
	}
	out := make([]Entry, len(candidates))
	for i, cand := range candidates {
		out[i] = cand.entry
	}
	return out
}

// YearScore rates how well a candidate year matches the wanted year.
func YearScore(want, have int) int {
	if want <= 0 || have <= 0 {
		return 5
	}
	diff := want - have
	if diff < 0 {
		diff = -diff
	}
	switch {
	case diff == 0:
		return 10
	case diff == 1:
		return 8
	case diff == 2:
		return 5
	default:
		return 1
	}
}

// Stats summarizes the index.
type Stats struct {
	Keys    int
	Entries int
	ByKind  map[string]int
}

// Stats returns key, entry, and per-kind counts.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	s := Stats{Keys: len(c.index), ByKind: make(map[string]int)}
	for _, bucket := range c.index {
		s.Entries += len(bucket)
		for _, e := range bucket {
			s.ByKind[e.Kind]++
		}
	}
	return s
}
