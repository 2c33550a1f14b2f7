package online

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// TMDB resolves IMDb ids through The Movie Database /find endpoint.
type TMDB struct {
	client   *Client
	apiKey   string
	baseURL  string
	language string
}

var _ RecordFetcher = (*TMDB)(nil)

// NewTMDB creates a TMDB-backed record fetcher.
func NewTMDB(client *Client, apiKey, baseURL, language string) (*TMDB, error) {
	if client == nil {
		return nil, errors.New("online client required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("tmdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("tmdb base url required")
	}
	return &TMDB{
		client:   client,
		apiKey:   apiKey,
		baseURL:  strings.TrimRight(baseURL, "/"),
		language: strings.TrimSpace(language),
	}, nil
}

type tmdbFindResult struct {
	ID           int64  `json:"id"`
	Title        string `json:"title"`
	Name         string `json:"name"`
	ReleaseDate  string `json:"release_date"`
	FirstAirDate string `json:"first_air_date"`
}

type tmdbFindResponse struct {
	MovieResults []tmdbFindResult `json:"movie_results"`
	TVResults    []tmdbFindResult `json:"tv_results"`
}

// Fetch looks up an IMDb id and prefers a TV match over a movie match.
func (t *TMDB) Fetch(ctx context.Context, externalID string) (Record, error) {
	id := ExtractIMDbID(externalID)
	if id == "" {
		return Record{}, fmt.Errorf("invalid imdb id %q", externalID)
	}
	endpoint, err := url.Parse(t.baseURL + "/find/" + id)
	if err != nil {
		return Record{}, fmt.Errorf("parse tmdb url: %w", err)
	}
	params := url.Values{}
	params.Set("api_key", t.apiKey)
	params.Set("external_source", "imdb_id")
	if t.language != "" {
		params.Set("language", t.language)
	}
	endpoint.RawQuery = params.Encode()

	body, err := t.client.get(ctx, endpoint.String(), "application/json")
	if err != nil {
		return Record{}, fmt.Errorf("tmdb find %s: %w", id, err)
	}
	var payload tmdbFindResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return Record{}, fmt.Errorf("decode tmdb response: %w", err)
	}
	switch {
	case len(payload.TVResults) > 0:
		r := payload.TVResults[0]
		return Record{ID: id, Title: r.Name, Year: leadingYear(r.FirstAirDate), Kind: "tv series"}, nil
	case len(payload.MovieResults) > 0:
		r := payload.MovieResults[0]
		return Record{ID: id, Title: r.Title, Year: leadingYear(r.ReleaseDate), Kind: "movie"}, nil
	default:
		return Record{}, ErrNotFound
	}
}
