// Package driven defines the outbound ports of the hexagon.
//
// These interfaces are implemented by adapters (storage backends, the
// upload file store, the safety gate, configuration) and consumed by
// the core services. Services depend on these interfaces, never on a
// concrete adapter.
package driven
