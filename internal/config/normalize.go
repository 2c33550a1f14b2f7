package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTemplates()
	c.normalizeIdentify()
	c.normalizeOnline()
	c.normalizeTMDB()
	c.normalizeKnowledge()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.CacheFile) == "" {
		c.Paths.CacheFile = defaultCacheFile
	}
	if c.Paths.CacheFile, err = expandPath(c.Paths.CacheFile); err != nil {
		return fmt.Errorf("paths.cache_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.JournalDB) == "" {
		c.Paths.JournalDB = defaultJournalDB
	}
	if c.Paths.JournalDB, err = expandPath(c.Paths.JournalDB); err != nil {
		return fmt.Errorf("paths.journal_db: %w", err)
	}
	return nil
}

func (c *Config) normalizeTemplates() {
	c.Rename.FileTemplate = strings.TrimSpace(c.Rename.FileTemplate)
	if c.Rename.FileTemplate == "" {
		c.Rename.FileTemplate = defaultFileTemplate
	}
	c.Rename.MovieTemplate = strings.TrimSpace(c.Rename.MovieTemplate)
	if c.Rename.MovieTemplate == "" {
		c.Rename.MovieTemplate = defaultMovieTemplate
	}
	c.Organize.SeasonFolderTemplate = strings.TrimSpace(c.Organize.SeasonFolderTemplate)
	if c.Organize.SeasonFolderTemplate == "" {
		c.Organize.SeasonFolderTemplate = defaultSeasonFolderTemplate
	}
}

func (c *Config) normalizeIdentify() {
	c.Identify.MediaType = strings.ToLower(strings.TrimSpace(c.Identify.MediaType))
	switch c.Identify.MediaType {
	case "":
		c.Identify.MediaType = MediaTypeAuto
	case "movies", "film":
		c.Identify.MediaType = MediaTypeMovie
	case "series", "show", "shows", "episode":
		c.Identify.MediaType = MediaTypeTV
	}
	c.Identify.SearchMode = strings.ToLower(strings.TrimSpace(c.Identify.SearchMode))
	switch c.Identify.SearchMode {
	case "":
		c.Identify.SearchMode = SearchAuto
	case "offline-only", "local":
		c.Identify.SearchMode = SearchOffline
	case "deep", "forced-online", "forced":
		c.Identify.SearchMode = SearchOnline
	}
	if c.Identify.CacheWaitSeconds < 0 {
		c.Identify.CacheWaitSeconds = 0
	}
	if c.Identify.MinTitleLength <= 0 {
		c.Identify.MinTitleLength = defaultMinTitleLength
	}
	if c.Identify.MaxOnlineCandidates <= 0 {
		c.Identify.MaxOnlineCandidates = defaultMaxOnlineCandidates
	}
	if c.Identify.OnlineRatePerSecond <= 0 {
		c.Identify.OnlineRatePerSecond = defaultOnlineRatePerSecond
	}
}

func (c *Config) normalizeOnline() {
	c.Online.SearchURL = strings.TrimSpace(c.Online.SearchURL)
	if c.Online.SearchURL == "" {
		c.Online.SearchURL = defaultSearchURL
	}
	c.Online.IMDbBaseURL = strings.TrimRight(strings.TrimSpace(c.Online.IMDbBaseURL), "/")
	if c.Online.IMDbBaseURL == "" {
		c.Online.IMDbBaseURL = defaultIMDbBaseURL
	}
	c.Online.UserAgent = strings.TrimSpace(c.Online.UserAgent)
	if c.Online.UserAgent == "" {
		c.Online.UserAgent = defaultUserAgent
	}
	if c.Online.TimeoutSeconds <= 0 {
		c.Online.TimeoutSeconds = defaultOnlineTimeoutSeconds
	}
}

func (c *Config) normalizeTMDB() {
	c.TMDB.APIKey = strings.TrimSpace(c.TMDB.APIKey)
	if c.TMDB.APIKey == "" {
		if value, ok := os.LookupEnv("TMDB_API_KEY"); ok {
			c.TMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.TMDB.BaseURL = strings.TrimSpace(c.TMDB.BaseURL)
	if c.TMDB.BaseURL == "" {
		c.TMDB.BaseURL = defaultTMDBBaseURL
	}
	c.TMDB.Language = strings.TrimSpace(c.TMDB.Language)
}

func (c *Config) normalizeKnowledge() {
	sources := make([]KnowledgeSource, 0, len(c.Knowledge.Sources))
	for _, src := range c.Knowledge.Sources {
		src.Name = strings.TrimSpace(src.Name)
		src.URL = strings.TrimSpace(src.URL)
		src.Format = strings.ToLower(strings.TrimSpace(src.Format))
		if src.URL == "" {
			continue
		}
		if src.Name == "" {
			src.Name = src.URL
		}
		sources = append(sources, src)
	}
	c.Knowledge.Sources = sources
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
