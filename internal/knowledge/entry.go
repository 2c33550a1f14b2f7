package knowledge

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"autotitle/internal/media"
)

// Year is a release year tolerant of string and numeric JSON encodings.
type Year int

// UnmarshalJSON accepts 2010, "2010", "2010-07-16", null, or "".
func (y *Year) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*y = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*y = parseYear(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		*y = 0
		return nil
	}
	*y = Year(v)
	return nil
}

func parseYear(s string) Year {
	s = strings.TrimSpace(s)
	if len(s) >= 4 {
		s = s[:4]
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1800 || v > 3000 {
		return 0
	}
	return Year(v)
}

// Kind labels stored with entries.
const (
	KindMovie        = "movie"
	KindTVMovie      = "tv movie"
	KindVideoMovie   = "video movie"
	KindTVSeries     = "tv series"
	KindTVMiniSeries = "tv mini series"
	KindUnknown      = "unknown"
)

// Entry is one known work.
type Entry struct {
	Title string `json:"title"`
	Year  Year   `json:"year,omitempty"`
	ID    string `json:"id"`
	Kind  string `json:"kind"`
}

// Identity converts the entry to a media.Identity.
func (e Entry) Identity() media.Identity {
	return media.Identity{
		Title:      e.Title,
		Year:       int(e.Year),
		Kind:       media.KindFromCatalog(e.Kind),
		ExternalID: e.ID,
	}
}

// EntryFromIdentity converts a confirmed identity into a cache entry.
func EntryFromIdentity(id media.Identity) Entry {
	kind := KindUnknown
	switch id.Kind {
	case media.KindMovie:
		kind = KindMovie
	case media.KindSeries:
		kind = KindTVSeries
	}
	return Entry{Title: strings.TrimSpace(id.Title), Year: Year(id.Year), ID: strings.TrimSpace(id.ExternalID), Kind: kind}
}

func isMovieLike(kind string) bool {
	switch kind {
	case KindMovie, KindTVMovie, KindVideoMovie:
		return true
	default:
		return false
	}
}

// Transformers keep internal state, so each caller borrows its own chain.
var accentFolders = sync.Pool{
	New: func() any {
		return transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	},
}

// NormalizeKey lower-cases, folds accents, strips punctuation, and collapses
// whitespace. It is idempotent.
func NormalizeKey(title string) string {
	folder := accentFolders.Get().(transform.Transformer)
	folded, _, err := transform.String(folder, title)
	accentFolders.Put(folder)
	if err != nil {
		folded = title
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range strings.ToLower(folded) {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '_':
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
