package workflow

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"autotitle/internal/config"
	"autotitle/internal/identification"
	"autotitle/internal/journal"
	"autotitle/internal/knowledge"
	"autotitle/internal/logging"
	"autotitle/internal/online"
)

// Manager coordinates scanning, resolution, and reconciliation.
type Manager struct {
	cfg          *config.Config
	logger       *slog.Logger
	cache        *knowledge.Cache
	resolver     *identification.Resolver
	journal      *journal.Store
	sourceClient knowledge.HTTPDoer

	mu         sync.Mutex
	populating bool
	popCancel  context.CancelFunc
	popWG      sync.WaitGroup
}

// Option configures optional Manager behavior.
type Option func(*managerOptions)

type managerOptions struct {
	providersSet bool
	searcher     online.SearchProvider
	fetcher      online.RecordFetcher
	journal      *journal.Store
	sourceClient knowledge.HTTPDoer
	cache        *knowledge.Cache
}

// WithProviders replaces the configured online providers. Passing nils
// disables the online tier.
func WithProviders(searcher online.SearchProvider, fetcher online.RecordFetcher) Option {
	return func(o *managerOptions) {
		o.providersSet = true
		o.searcher = searcher
		o.fetcher = fetcher
	}
}

// WithJournal records apply runs in store.
func WithJournal(store *journal.Store) Option {
	return func(o *managerOptions) { o.journal = store }
}

// WithSourceClient overrides the HTTP client used for bulk cache sources.
func WithSourceClient(client knowledge.HTTPDoer) Option {
	return func(o *managerOptions) { o.sourceClient = client }
}

// WithCache supplies an already-loaded Knowledge Cache.
func WithCache(cache *knowledge.Cache) Option {
	return func(o *managerOptions) { o.cache = cache }
}

// NewManager loads the Knowledge Cache and builds the resolver.
func NewManager(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Manager, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	options := &managerOptions{}
	for _, opt := range opts {
		opt(options)
	}

	searcher, fetcher := options.searcher, options.fetcher
	if !options.providersSet {
		var err error
		searcher, fetcher, err = BuildProviders(cfg)
		if err != nil {
			return nil, err
		}
	}

	cache := options.cache
	if cache == nil {
		cache = knowledge.New(cfg.Paths.CacheFile, logger)
		cache.Load()
	}
	sourceClient := options.sourceClient
	if sourceClient == nil {
		sourceClient = &http.Client{Timeout: cfg.OnlineTimeout() * 4}
	}

	return &Manager{
		cfg:          cfg,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		cache:        cache,
		resolver:     identification.NewResolver(cache, searcher, fetcher, identification.OptionsFromConfig(cfg), logger),
		journal:      options.journal,
		sourceClient: sourceClient,
	}, nil
}

// Cache exposes the Knowledge Cache.
func (m *Manager) Cache() *knowledge.Cache { return m.cache }

// Close stops background population and waits for it to exit.
func (m *Manager) Close() {
	m.mu.Lock()
	cancel := m.popCancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.popWG.Wait()
}
