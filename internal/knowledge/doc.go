// Package knowledge implements the persistent offline title index.
//
// The index maps a normalized title key (lower-cased, accent-folded,
// punctuation-stripped, whitespace-collapsed) to every known work sharing
// that key, deduplicated by external id. Keys are many-to-one on purpose;
// Search resolves collisions with year-proximity scoring.
//
// Mutations (bulk Populate and per-record Learn) take the cache mutex, rewrite
// the JSON file atomically, and hold an advisory file lock for the rewrite so
// concurrent autotitle processes do not interleave writes. Entries are never
// deleted. A corrupt or unreadable file degrades to an empty index.
//
// Readiness is level-triggered: it is raised immediately when Load finds
// existing data and again when Populate finishes; raising it twice is a no-op.
// WaitUntilReady lets a scan block for a bounded time on first run.
package knowledge
