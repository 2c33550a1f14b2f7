package identification

import (
	"path/filepath"
	"regexp"
	"strings"

	"autotitle/internal/config"
	"autotitle/internal/media"
	"autotitle/internal/normalize"
	"autotitle/internal/parse"
)

// genericContainers never supply a title.
var genericContainers = map[string]struct{}{
	"movies": {}, "movie": {}, "films": {}, "film": {},
	"tv": {}, "tv shows": {}, "tvshows": {}, "shows": {}, "series": {},
	"downloads": {}, "download": {}, "videos": {}, "video": {},
	"media": {}, "complete": {}, "torrents": {}, "new folder": {},
}

// IsGenericContainer reports whether a folder name is a generic container.
func IsGenericContainer(name string) bool {
	_, ok := genericContainers[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

var (
	seriesPathHints = []string{"tv", "tv shows", "tvshows", "shows", "series", "anime", "season"}
	moviePathHints  = []string{"movies", "movie", "films", "film"}
	folderNoise     = regexp.MustCompile(`(?i)\b(?:s\d{1,2}(?:e\d+)?|season\s*\d+)\b.*$`)
)

// InferKind derives the parser hint for path. A fixed media type wins;
// auto mode inspects directory names for movie or series keywords, nearest
// folder first.
func InferKind(path, mediaType string) media.Kind {
	switch mediaType {
	case config.MediaTypeMovie:
		return media.KindMovie
	case config.MediaTypeTV:
		return media.KindSeries
	}
	dir := filepath.Dir(path)
	for range 4 {
		name := strings.ToLower(filepath.Base(dir))
		if name == "" || name == "." || name == string(filepath.Separator) {
			break
		}
		if parse.IsSeasonFolder(name) || hasWordHint(name, seriesPathHints) {
			return media.KindSeries
		}
		if hasWordHint(name, moviePathHints) {
			return media.KindMovie
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return media.KindUnknown
}

func hasWordHint(name string, hints []string) bool {
	words := " " + strings.Join(strings.FieldsFunc(name, func(r rune) bool {
		return r == ' ' || r == '.' || r == '_' || r == '-' || r == '(' || r == ')' || r == '[' || r == ']'
	}), " ") + " "
	for _, h := range hints {
		if strings.Contains(words, " "+h+" ") {
			return true
		}
	}
	return false
}

// FallbackTitle derives a title from the directories above path: the
// parent, or the grandparent when the parent is a season folder. Generic
// containers yield nothing.
func FallbackTitle(path string, hint media.Kind) (title string, year int) {
	dir := filepath.Dir(path)
	name := filepath.Base(dir)
	if parse.IsSeasonFolder(name) {
		dir = filepath.Dir(dir)
		name = filepath.Base(dir)
	}
	if name == "" || name == "." || name == string(filepath.Separator) || IsGenericContainer(name) {
		return "", 0
	}
	fields := parse.Parse(name, hint)
	candidate := fields.Title
	if strings.TrimSpace(candidate) == "" {
		candidate = name
	}
	candidate = normalize.Clean(folderNoise.ReplaceAllString(candidate, ""))
	if IsGenericContainer(candidate) {
		return "", 0
	}
	return candidate, fields.Year
}

// usableTitle cleans title and reports whether it meets the minimum length.
func usableTitle(title string, minLen int) (string, bool) {
	cleaned := normalize.Clean(title)
	if len([]rune(cleaned)) < minLen {
		return "", false
	}
	return cleaned, true
}
