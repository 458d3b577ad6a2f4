// Package driving defines the inbound ports of the hexagon.
//
// These interfaces describe what the application can do for its
// callers (the CLI, or any embedding program). They are implemented
// by core services and consumed by driving adapters.
package driving
