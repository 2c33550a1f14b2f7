// Package organizer applies canonical names to the filesystem.
//
// RenameInPlace renames each resolved file within its directory, carrying
// companion sidecars along. Reconcile then restructures the tree into
// Show/Show - Season N/file: it finds or creates the show folder (the scan
// root itself, the root's parent, or a child of the root), fixes folder case
// through a temporary name, creates missing folders, moves files and
// companions without overwriting, and finally removes emptied source
// folders deepest first.
//
// Every directory rename is recorded in a run-scoped RewriteMap and every
// path is re-resolved through it before use, so a rename performed for one
// item never leaves a later item pointing at a stale path.
//
// Preview runs the same decision engine against an in-memory overlay of the
// real tree and returns the folder operations it would perform.
package organizer
