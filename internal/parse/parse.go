package parse

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/moistari/rls"

	"autotitle/internal/media"
)

// Fields is the parsed shape of a media path. Zero values mean unknown.
type Fields struct {
	Title   string
	Year    int
	Season  int
	Episode int
	Kind    media.Kind
}

// HasEpisode reports whether both season and episode were found.
func (f Fields) HasEpisode() bool {
	return f.Season > 0 && f.Episode > 0
}

var (
	episodeMarker       = regexp.MustCompile(`(?i)\bs(\d{1,2})[ ._-]?e(\d{1,3})\b`)
	crossMarker         = regexp.MustCompile(`(?i)\b(\d{1,2})x(\d{2,3})\b`)
	seasonFolderPattern = regexp.MustCompile(`(?i)^(?:season|s)\s*(\d+)$`)
)

// SeasonFolderNumber returns the season number when name looks like
// "Season 2" or "S2".
func SeasonFolderNumber(name string) (int, bool) {
	m := seasonFolderPattern.FindStringSubmatch(strings.TrimSpace(name))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// IsSeasonFolder reports whether name is a season container.
func IsSeasonFolder(name string) bool {
	_, ok := SeasonFolderNumber(name)
	return ok
}

// Parse extracts fields from the base name of path. hint biases the kind
// when the filename does not settle it.
func Parse(path string, hint media.Kind) Fields {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	rel := rls.ParseString(base)

	fields := Fields{
		Title:   strings.TrimSpace(rel.Title),
		Year:    rel.Year,
		Season:  rel.Series,
		Episode: rel.Episode,
	}
	switch rel.Type {
	case rls.Episode, rls.Series:
		fields.Kind = media.KindSeries
	case rls.Movie:
		fields.Kind = media.KindMovie
	}

	if fields.Season == 0 || fields.Episode == 0 {
		if m := episodeMarker.FindStringSubmatch(stem); m != nil {
			fields.Season, _ = strconv.Atoi(m[1])
			fields.Episode, _ = strconv.Atoi(m[2])
		} else if m := crossMarker.FindStringSubmatch(stem); m != nil {
			fields.Season, _ = strconv.Atoi(m[1])
			fields.Episode, _ = strconv.Atoi(m[2])
		}
	}
	if fields.Season == 0 && fields.Episode > 0 {
		if n, ok := SeasonFolderNumber(filepath.Base(filepath.Dir(path))); ok {
			fields.Season = n
		}
	}
	if fields.HasEpisode() {
		fields.Kind = media.KindSeries
	}

	switch hint {
	case media.KindSeries:
		if fields.Kind == media.KindUnknown || (fields.Kind == media.KindMovie && fields.Year == 0) {
			fields.Kind = media.KindSeries
		}
	case media.KindMovie:
		if !fields.HasEpisode() {
			fields.Kind = media.KindMovie
		}
	}
	if fields.Kind == media.KindUnknown && fields.Year > 0 {
		fields.Kind = media.KindMovie
	}
	return fields
}
