// Package media defines the value types that flow through the autotitle
// pipeline: discovered ScanItems, resolved Identities, and the canonical
// naming helpers shared by the resolver, gap-filler, and reconciler.
//
// Name construction lives here so every stage agrees on the
// `Title - S##E##` episode shape and the `Title (Year)` movie shape; the
// reconciler and gap-filler parse titles back out of canonical names with
// EpisodeNamePattern.
package media
