// Package domain defines the core business entities for the harvesting engine.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RequestCriteria: An immutable market-intelligence focus
//   - Fingerprint: The deterministic cache key derived from criteria
//   - SourceRecord: A normalised search result
//   - CacheEntry: A fingerprint-keyed result set with freshness metadata
//   - Alert: A classified intelligence event
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
