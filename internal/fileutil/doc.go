// Package fileutil holds the filesystem primitives autotitle mutates the
// library with: collision-safe moves, cross-device fallbacks backed by a
// verified copy, and atomic whole-file writes for persisted state.
//
// Moves never overwrite. MoveNoReplace reports ErrDestinationExists when the
// target is taken, so callers can treat collisions as a skip rather than a
// failure.
package fileutil
