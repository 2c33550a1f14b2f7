// Package online implements the network-backed resolver collaborators: a web
// search provider that returns result URLs for a query, and record fetchers
// that turn an IMDb id into a title, year, and kind.
//
// Every outbound request goes through one shared rate limiter so a large
// scan cannot hammer the search endpoint. The DuckDuckGo HTML provider and
// the IMDb page fetcher scrape markup with goquery; the TMDB fetcher uses the
// /find endpoint when an API key is configured.
package online
