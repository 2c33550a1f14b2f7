// Package journal keeps a SQLite history of apply runs and the filesystem
// operations each run performed.
//
// The schema is embedded and its version lives in PRAGMA user_version. A
// database stamped with a different version is rejected with
// ErrSchemaMismatch rather than migrated. Writes retry briefly when SQLite
// reports the database as busy or locked.
package journal
