package config

import "time"

const (
	defaultConfigPath           = "~/.config/autotitle/config.toml"
	defaultCacheFile            = "~/.cache/autotitle/knowledge.json"
	defaultLogDir               = "~/.local/share/autotitle/logs"
	defaultJournalDB            = "~/.local/share/autotitle/journal.db"
	defaultFileTemplate         = "{Title} - S{season}E{episode}"
	defaultMovieTemplate        = "{Title} ({year})"
	defaultSeasonFolderTemplate = "{Title} - Season {N}"
	defaultCacheWaitSeconds     = 30
	defaultMinTitleLength       = 2
	defaultMaxOnlineCandidates  = 5
	defaultOnlineRatePerSecond  = 1.0
	defaultSearchURL            = "https://html.duckduckgo.com/html/"
	defaultIMDbBaseURL          = "https://www.imdb.com"
	defaultUserAgent            = "Mozilla/5.0 (X11; Linux x86_64) autotitle/dev"
	defaultOnlineTimeoutSeconds = 15
	defaultTMDBBaseURL          = "https://api.themoviedb.org/3"
	defaultTMDBLanguage         = "en-US"
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Bulk list formats understood by the knowledge package.
const (
	SourceFormatTop250    = "top250"
	SourceFormatPopularTV = "popular_tv"
	SourceFormatTop1000   = "top1000"
)

// DefaultKnowledgeSources lists the bulk reference lists fetched on startup.
func DefaultKnowledgeSources() []KnowledgeSource {
	return []KnowledgeSource{
		{Name: "Top 250 Movies", URL: "https://raw.githubusercontent.com/movie-monk-b0t/top250/master/top250.json", Format: SourceFormatTop250},
		{Name: "Popular TV", URL: "https://raw.githubusercontent.com/crazyuploader/IMDb_Top_50/main/data/top50/shows.json", Format: SourceFormatPopularTV},
		{Name: "Top 1000 Movies", URL: "https://raw.githubusercontent.com/softbreak/IMDB-Top-1000-Json/main/movies.json", Format: SourceFormatTop1000},
	}
}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			CacheFile: defaultCacheFile,
			LogDir:    defaultLogDir,
			JournalDB: defaultJournalDB,
		},
		Rename: Rename{
			Enabled:       true,
			TitleCase:     true,
			FileTemplate:  defaultFileTemplate,
			MovieTemplate: defaultMovieTemplate,
		},
		Organize: Organize{
			Enabled:              true,
			TitleCase:            true,
			SeasonFolderTemplate: defaultSeasonFolderTemplate,
		},
		Identify: Identify{
			MediaType:           MediaTypeAuto,
			SearchMode:          SearchAuto,
			CacheWaitSeconds:    defaultCacheWaitSeconds,
			MinTitleLength:      defaultMinTitleLength,
			MaxOnlineCandidates: defaultMaxOnlineCandidates,
			OnlineRatePerSecond: defaultOnlineRatePerSecond,
		},
		Online: Online{
			SearchURL:      defaultSearchURL,
			IMDbBaseURL:    defaultIMDbBaseURL,
			UserAgent:      defaultUserAgent,
			TimeoutSeconds: defaultOnlineTimeoutSeconds,
		},
		TMDB: TMDB{
			BaseURL:  defaultTMDBBaseURL,
			Language: defaultTMDBLanguage,
		},
		Knowledge: Knowledge{
			RefreshOnStart: true,
			Sources:        DefaultKnowledgeSources(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// CacheWait returns the bounded startup wait for Knowledge Cache readiness.
func (c *Config) CacheWait() time.Duration {
	return time.Duration(c.Identify.CacheWaitSeconds) * time.Second
}

// OnlineTimeout returns the per-request timeout for online providers.
func (c *Config) OnlineTimeout() time.Duration {
	return time.Duration(c.Online.TimeoutSeconds) * time.Second
}
