// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - SearchProvider: Issues bounded, query-driven fetches against the
//     external search API. Treated as rate-limited, untrusted and
//     occasionally failing.
//   - Classifier: Sends normalised records to the external classification
//     service and returns its (untrusted) structured output.
//   - CacheStore: Fingerprint-keyed result-set persistence.
//   - AlertStore: Dedup-key-keyed alert persistence.
//
// # Optional Interfaces
//
//   - ConfigStore: Application configuration. Services fall back to
//     built-in defaults without it.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
