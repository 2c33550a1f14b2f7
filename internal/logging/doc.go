// Package logging assembles structured slog loggers and the attribute helpers
// used across autotitle.
//
// It owns the console and JSON handlers, level parsing and output routing, and
// exposes context-aware helpers so every line written during a scan carries
// the run correlation id. A no-op logger is provided for tests and for wiring
// code that must not fail.
//
// Prefer these constructors over hand-rolled slog setup so new components emit
// records with the same shape as the rest of the system.
package logging
