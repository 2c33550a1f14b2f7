// Package normalize strips scene-release noise from raw file and folder names
// to produce a clean candidate title.
//
// Clean is pure and idempotent: separators become spaces, a trailing release
// group that follows a release tag is dropped, and a fixed vocabulary of
// resolution, source, codec, audio, HDR, and edition tokens is removed as whole
// words, case-insensitively.
package normalize
