// Package identification resolves media files to canonical identities.
//
// A Resolver walks an ordered list of strategies and stops at the first one
// that yields candidates:
//
//   - raw filename probe: the whole cleaned stem looked up in the knowledge
//     index; a hit is authoritative
//   - local fast path: parsed title plus season/episode (series) or year
//     (movie), after re-cleaning the title and enforcing a minimum length
//   - directory memo: a title resolved earlier in the same directory during
//     this run, reused for files that only carry season/episode numbers
//   - knowledge index search with year-proximity ranking
//   - online fallback: web search for IMDb ids, record fetches, and learning
//     every fetched record back into the index
//
// When the filename yields no usable title, the parent directory (or the
// grandparent when the parent is a season folder) supplies one, skipping
// generic containers such as "Downloads". In auto mode, path keywords bias
// the parser toward movie or series.
//
// The Resolver is not safe for concurrent Resolve calls on items from the
// same directory; the workflow drives it sequentially per scan.
package identification
