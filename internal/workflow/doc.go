// Package workflow drives one scan-to-commit pass.
//
// Manager owns the Knowledge Cache, the identity resolver, and the optional
// run journal. Scan enumerates media files, waits a bounded time for the
// cache to become ready, resolves every file sequentially, and fills gaps
// by directory consensus, producing a Plan without touching disk. Apply
// renames resolved files in place, reconciles show and season folders, and
// journals every operation under a per-run correlation id. Preview
// forecasts Apply's operations from a Plan.
//
// Background cache population runs on its own goroutine for the lifetime
// of the Manager; Close cancels and waits for it.
package workflow
