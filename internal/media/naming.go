package media

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// EpisodeNamePattern matches canonical episode names and captures the title
// and season number.
var EpisodeNamePattern = regexp.MustCompile(`^(.*?) - S(\d+)E\d+`)

var pathSeparatorStripper = strings.NewReplacer("/", "", "\\", "", "\x00", "")

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	return cases.Title(language.Und).String(strings.TrimSpace(s))
}

// SafeTitle trims a title and drops characters that would split a path.
func SafeTitle(title string) string {
	return strings.Join(strings.Fields(pathSeparatorStripper.Replace(title)), " ")
}

// EpisodeName builds "Title - S##E##" plus ext.
func EpisodeName(title string, season, episode int, ext string) string {
	return fmt.Sprintf("%s - S%02dE%02d%s", SafeTitle(title), season, episode, ext)
}

// MovieName builds "Title (Year)" plus ext, or "Title" plus ext without a year.
func MovieName(title string, year int, ext string) string {
	if year > 0 {
		return fmt.Sprintf("%s (%d)%s", SafeTitle(title), year, ext)
	}
	return SafeTitle(title) + ext
}

// ParseEpisodeName extracts the title and season from a canonical episode name.
func ParseEpisodeName(name string) (title string, season int, ok bool) {
	m := EpisodeNamePattern.FindStringSubmatch(name)
	if m == nil {
		return "", 0, false
	}
	season, err := strconv.Atoi(m[2])
	if err != nil {
		return "", 0, false
	}
	return m[1], season, true
}

// TemplateData supplies values for ApplyTemplate.
type TemplateData struct {
	Title   string
	Year    int
	Season  int
	Episode int
}

// ApplyTemplate expands naming placeholders:
//
//	{Title}    title-cased title
//	{title}    title as given
//	{year}     four-digit year, empty when unknown
//	{season}   two-digit season
//	{episode}  two-digit episode
//	{N}        unpadded season
//	{E}        unpadded episode
func ApplyTemplate(tmpl string, data TemplateData) string {
	title := SafeTitle(data.Title)
	year := ""
	if data.Year > 0 {
		year = strconv.Itoa(data.Year)
	}
	r := strings.NewReplacer(
		"{Title}", TitleCase(title),
		"{title}", title,
		"{year}", year,
		"{season}", fmt.Sprintf("%02d", data.Season),
		"{episode}", fmt.Sprintf("%02d", data.Episode),
		"{N}", strconv.Itoa(data.Season),
		"{E}", strconv.Itoa(data.Episode),
	)
	out := r.Replace(tmpl)
	out = strings.ReplaceAll(out, "()", "")
	return strings.Join(strings.Fields(out), " ")
}
