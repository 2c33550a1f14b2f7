package online

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// IMDbIDPattern matches IMDb title ids.
var IMDbIDPattern = regexp.MustCompile(`tt\d+`)

// ExtractIMDbID returns the first IMDb id in s, or "".
func ExtractIMDbID(s string) string {
	return IMDbIDPattern.FindString(s)
}

// IMDb fetches title pages and reads their JSON-LD block.
type IMDb struct {
	client  *Client
	baseURL string
}

var _ RecordFetcher = (*IMDb)(nil)

// NewIMDb creates a record fetcher rooted at baseURL.
func NewIMDb(client *Client, baseURL string) (*IMDb, error) {
	if client == nil {
		return nil, errors.New("online client required")
	}
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("imdb base url required")
	}
	return &IMDb{client: client, baseURL: baseURL}, nil
}

type ldTitle struct {
	Type          string `json:"@type"`
	Name          string `json:"name"`
	AlternateName string `json:"alternateName"`
	DatePublished string `json:"datePublished"`
}

// Fetch loads the record for an IMDb id.
func (m *IMDb) Fetch(ctx context.Context, externalID string) (Record, error) {
	id := ExtractIMDbID(externalID)
	if id == "" {
		return Record{}, fmt.Errorf("invalid imdb id %q", externalID)
	}
	body, err := m.client.get(ctx, m.baseURL+"/title/"+id+"/", "text/html")
	if err != nil {
		return Record{}, fmt.Errorf("fetch %s: %w", id, err)
	}
	rec, err := parseTitlePage(body)
	if err != nil {
		return Record{}, fmt.Errorf("parse %s: %w", id, err)
	}
	rec.ID = id
	return rec, nil
}

func parseTitlePage(body []byte) (Record, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Record{}, err
	}
	var found *ldTitle
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		var payload ldTitle
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return true
		}
		if strings.TrimSpace(payload.Name) == "" {
			return true
		}
		found = &payload
		return false
	})
	if found == nil {
		return Record{}, ErrNotFound
	}
	return Record{
		Title: html.UnescapeString(strings.TrimSpace(found.Name)),
		Year:  leadingYear(found.DatePublished),
		Kind:  kindFromSchemaType(found.Type),
	}, nil
}

func kindFromSchemaType(t string) string {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "tvseries":
		return "tv series"
	case "tvminiseries":
		return "tv mini series"
	case "tvepisode":
		return "episode"
	case "movie":
		return "movie"
	case "videoobject":
		return "video movie"
	default:
		return "unknown"
	}
}

func leadingYear(s string) int {
	s = strings.TrimSpace(s)
	if len(s) < 4 {
		return 0
	}
	year, err := strconv.Atoi(s[:4])
	if err != nil {
		return 0
	}
	return year
}
