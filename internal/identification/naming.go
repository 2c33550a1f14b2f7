package identification

import (
	"strings"

	"autotitle/internal/media"
)

// CanonicalName builds the file name for id. Season and episode from the
// identity take precedence; a series without them keeps only its title.
func (o Options) CanonicalName(id media.Identity, ext string) string {
	fileTmpl, movieTmpl := o.FileTemplate, o.MovieTemplate
	if !o.TitleCase {
		fileTmpl = strings.ReplaceAll(fileTmpl, "{Title}", "{title}")
		movieTmpl = strings.ReplaceAll(movieTmpl, "{Title}", "{title}")
	}
	data := media.TemplateData{Title: id.Title, Year: id.Year, Season: id.Season, Episode: id.Episode}
	switch {
	case id.HasEpisode():
		return media.ApplyTemplate(fileTmpl, data) + ext
	case id.Kind == media.KindSeries:
		return media.ApplyTemplate(titleOnly(o.TitleCase), data) + ext
	default:
		return media.ApplyTemplate(movieTmpl, data) + ext
	}
}

func titleOnly(titleCase bool) string {
	if titleCase {
		return "{Title}"
	}
	return "{title}"
}

// candidateNames renders ids into unique names in rank order.
func (o Options) candidateNames(ids []media.Identity, ext string) []string {
	seen := make(map[string]struct{}, len(ids))
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		name := o.CanonicalName(id, ext)
		if strings.TrimSpace(strings.TrimSuffix(name, ext)) == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}
