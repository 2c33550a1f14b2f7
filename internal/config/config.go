package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Media type overrides accepted by [identify].media_type.
const (
	MediaTypeAuto  = "auto"
	MediaTypeMovie = "movie"
	MediaTypeTV    = "tv"
)

// Search depth modes accepted by [identify].search_mode.
const (
	SearchOffline = "offline"
	SearchAuto    = "auto"
	SearchOnline  = "online"
)

// Paths contains file and directory locations.
type Paths struct {
	CacheFile string `toml:"cache_file"`
	LogDir    string `toml:"log_dir"`
	JournalDB string `toml:"journal_db"`
}

// Rename controls in-place renaming of media files to their canonical names.
type Rename struct {
	Enabled       bool   `toml:"enabled"`
	TitleCase     bool   `toml:"title_case"`
	FileTemplate  string `toml:"file_template"`
	MovieTemplate string `toml:"movie_template"`
}

// Organize controls the show/season folder reconciliation.
type Organize struct {
	Enabled              bool   `toml:"enabled"`
	TitleCase            bool   `toml:"title_case"`
	SeasonFolderTemplate string `toml:"season_folder_template"`
}

// Identify tunes the identity resolver cascade.
type Identify struct {
	MediaType           string  `toml:"media_type"`
	SearchMode          string  `toml:"search_mode"`
	CacheWaitSeconds    int     `toml:"cache_wait_seconds"`
	MinTitleLength      int     `toml:"min_title_length"`
	MaxOnlineCandidates int     `toml:"max_online_candidates"`
	OnlineRatePerSecond float64 `toml:"online_rate_per_second"`
}

// Online configures the web search provider and the IMDb record fetcher.
type Online struct {
	SearchURL      string `toml:"search_url"`
	IMDbBaseURL    string `toml:"imdb_base_url"`
	UserAgent      string `toml:"user_agent"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// TMDB contains optional configuration for The Movie Database record fetcher.
// When an API key is present it replaces the IMDb page fetcher.
type TMDB struct {
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Language string `toml:"language"`
}

// KnowledgeSource describes one bulk reference list used to seed the cache.
type KnowledgeSource struct {
	Name   string `toml:"name"`
	URL    string `toml:"url"`
	Format string `toml:"format"`
}

// Knowledge configures background population of the Knowledge Cache.
type Knowledge struct {
	RefreshOnStart bool              `toml:"refresh_on_start"`
	Sources        []KnowledgeSource `toml:"sources"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for autotitle.
type Config struct {
	Paths     Paths     `toml:"paths"`
	Rename    Rename    `toml:"rename"`
	Organize  Organize  `toml:"organize"`
	Identify  Identify  `toml:"identify"`
	Online    Online    `toml:"online"`
	TMDB      TMDB      `toml:"tmdb"`
	Knowledge Knowledge `toml:"knowledge"`
	Logging   Logging   `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		if err := toml.NewDecoder(file).Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("autotitle.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	return toml.Marshal(c)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// Sample returns the annotated sample configuration.
func Sample() []byte { return []byte(sampleConfig) }

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
