// Package sqlite provides a SQLite-backed DocumentStore.
//
// It is the database-backed alternative to the JSON snapshot store for
// deployments where the index outgrows whole-file rewrites. Uses
// modernc.org/sqlite, a pure-Go driver, so no cgo is required.
package sqlite
