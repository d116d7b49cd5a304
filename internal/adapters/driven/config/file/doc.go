// Package file provides a TOML file-based configuration store.
//
// Configuration lives at ~/.harvester/config.toml by default. Nested
// TOML tables are flattened into dot-notation keys, so "[search]
// api_key" is read as "search.api_key".
package file
