package identification

import (
	"strings"

	"autotitle/internal/config"
)

// Options tunes a Resolver.
type Options struct {
	// MediaType is config.MediaTypeAuto, MediaTypeMovie, or MediaTypeTV.
	MediaType string
	// SearchMode is config.SearchOffline, SearchAuto, or SearchOnline.
	SearchMode          string
	MinTitleLength      int
	MaxOnlineCandidates int
	FileTemplate        string
	MovieTemplate       string
	TitleCase           bool
}

// DefaultOptions mirrors the configuration defaults.
func DefaultOptions() Options {
	cfg := config.Default()
	return OptionsFromConfig(&cfg)
}

// OptionsFromConfig extracts resolver options from cfg.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		MediaType:           cfg.Identify.MediaType,
		SearchMode:          cfg.Identify.SearchMode,
		MinTitleLength:      cfg.Identify.MinTitleLength,
		MaxOnlineCandidates: cfg.Identify.MaxOnlineCandidates,
		FileTemplate:        cfg.Rename.FileTemplate,
		MovieTemplate:       cfg.Rename.MovieTemplate,
		TitleCase:           cfg.Rename.TitleCase,
	}
}

func (o *Options) normalize() {
	o.MediaType = strings.ToLower(strings.TrimSpace(o.MediaType))
	if o.MediaType == "" {
		o.MediaType = config.MediaTypeAuto
	}
	o.SearchMode = strings.ToLower(strings.TrimSpace(o.SearchMode))
	if o.SearchMode == "" {
		o.SearchMode = config.SearchAuto
	}
	if o.MinTitleLength <= 0 {
		o.MinTitleLength = 2
	}
	if o.MaxOnlineCandidates <= 0 {
		o.MaxOnlineCandidates = 5
	}
	if strings.TrimSpace(o.FileTemplate) == "" {
		o.FileTemplate = "{Title} - S{season}E{episode}"
	}
	if strings.TrimSpace(o.MovieTemplate) == "" {
		o.MovieTemplate = "{Title} ({year})"
	}
}
