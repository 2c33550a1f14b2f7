package config

import (
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateIdentify(); err != nil {
		return err
	}
	if err := c.validateTemplates(); err != nil {
		return err
	}
	if err := c.validateKnowledge(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateIdentify() error {
	switch c.Identify.MediaType {
	case MediaTypeAuto, MediaTypeMovie, MediaTypeTV:
	default:
		return fmt.Errorf("identify.media_type: unsupported value %q (want auto, movie, or tv)", c.Identify.MediaType)
	}
	switch c.Identify.SearchMode {
	case SearchOffline, SearchAuto, SearchOnline:
	default:
		return fmt.Errorf("identify.search_mode: unsupported value %q (want offline, auto, or online)", c.Identify.SearchMode)
	}
	return nil
}

func (c *Config) validateTemplates() error {
	if !containsAny(c.Organize.SeasonFolderTemplate, "{N}", "{season}") {
		return fmt.Errorf("organize.season_folder_template %q must reference {N} or {season}", c.Organize.SeasonFolderTemplate)
	}
	if !containsAny(c.Rename.FileTemplate, "{Title}", "{title}") {
		return fmt.Errorf("rename.file_template %q must reference {Title} or {title}", c.Rename.FileTemplate)
	}
	if !containsAny(c.Rename.FileTemplate, "{season}", "{N}") || !containsAny(c.Rename.FileTemplate, "{episode}", "{E}") {
		return fmt.Errorf("rename.file_template %q must reference a season and an episode placeholder", c.Rename.FileTemplate)
	}
	if !containsAny(c.Rename.MovieTemplate, "{Title}", "{title}") {
		return fmt.Errorf("rename.movie_template %q must reference {Title} or {title}", c.Rename.MovieTemplate)
	}
	return nil
}

func (c *Config) validateKnowledge() error {
	for i, src := range c.Knowledge.Sources {
		switch src.Format {
		case SourceFormatTop250, SourceFormatPopularTV, SourceFormatTop1000:
		default:
			return fmt.Errorf("knowledge.sources[%d] (%s): unsupported format %q", i, src.Name, src.Format)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}

func containsAny(s string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}
