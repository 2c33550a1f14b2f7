// Package config loads, normalizes, and validates autotitle configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TMDB_API_KEY. The Config type centralizes every knob the resolver,
// reconciler, and CLI need: rename and organize switches, naming templates,
// media-type override, search depth, and the Knowledge Cache bulk sources.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical enum values, and clear validation errors.
package config
