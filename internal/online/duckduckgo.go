package online

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DuckDuckGo scrapes the DuckDuckGo HTML endpoint.
type DuckDuckGo struct {
	client   *Client
	endpoint string
	limit    int
}

var _ SearchProvider = (*DuckDuckGo)(nil)

// NewDuckDuckGo creates a search provider posting queries to endpoint and
// keeping at most limit result URLs per query.
func NewDuckDuckGo(client *Client, endpoint string, limit int) (*DuckDuckGo, error) {
	if client == nil {
		return nil, errors.New("online client required")
	}
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, errors.New("search endpoint required")
	}
	if limit <= 0 {
		limit = 5
	}
	return &DuckDuckGo{client: client, endpoint: endpoint, limit: limit}, nil
}

// Search returns result URLs for query in page order.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, errors.New("query must not be empty")
	}
	endpoint, err := url.Parse(d.endpoint)
	if err != nil {
		return nil, fmt.Errorf("parse search url: %w", err)
	}
	params := endpoint.Query()
	params.Set("q", query)
	endpoint.RawQuery = params.Encode()

	body, err := d.client.get(ctx, endpoint.String(), "text/html")
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query, err)
	}
	return parseResultLinks(body, d.limit)
}

func parseResultLinks(body []byte, limit int) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse search html: %w", err)
	}
	var links []string
	doc.Find("a.result__a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, ok := s.Attr("href")
		if !ok {
			return true
		}
		if target := unwrapRedirect(href); target != "" {
			links = append(links, target)
		}
		return len(links) < limit
	})
	return links, nil
}

// unwrapRedirect extracts the destination from DuckDuckGo's /l/?uddg= links.
func unwrapRedirect(href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return u.String()
}
