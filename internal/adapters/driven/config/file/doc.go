// Package file provides the TOML-backed configuration store.
//
// Configuration lives at ~/.materia/config.toml by default and drives
// the CLI's choice of storage backend, chunking parameters and data
// directories.
package file
