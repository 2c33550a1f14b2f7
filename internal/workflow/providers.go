package workflow

import (
	"fmt"
	"strings"

	"autotitle/internal/config"
	"autotitle/internal/online"
)

// BuildProviders constructs the online search provider and record fetcher
// from cfg. Offline mode returns nil providers. A TMDB API key selects the
// TMDB fetcher; otherwise IMDb title pages are used.
func BuildProviders(cfg *config.Config) (online.SearchProvider, online.RecordFetcher, error) {
	if cfg.Identify.SearchMode == config.SearchOffline {
		return nil, nil, nil
	}
	client := online.NewClient(
		online.WithRate(cfg.Identify.OnlineRatePerSecond),
		online.WithUserAgent(cfg.Online.UserAgent),
		online.WithTimeout(cfg.OnlineTimeout()),
	)
	searcher, err := online.NewDuckDuckGo(client, cfg.Online.SearchURL, cfg.Identify.MaxOnlineCandidates*2)
	if err != nil {
		return nil, nil, fmt.Errorf("search provider: %w", err)
	}
	if key := strings.TrimSpace(cfg.TMDB.APIKey); key != "" {
		fetcher, err := online.NewTMDB(client, key, cfg.TMDB.BaseURL, cfg.TMDB.Language)
		if err != nil {
			return nil, nil, fmt.Errorf("tmdb fetcher: %w", err)
		}
		return searcher, fetcher, nil
	}
	fetcher, err := online.NewIMDb(client, cfg.Online.IMDbBaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("imdb fetcher: %w", err)
	}
	return searcher, fetcher, nil
}
