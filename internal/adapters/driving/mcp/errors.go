// Package mcp provides an MCP (Model Context Protocol) server adapter for the harvester.
// It enables AI assistants like Claude to drive intelligence cycles and read alerts.
package mcp

import "errors"

// ErrMissingEngine is returned when the intelligence engine is not provided.
var ErrMissingEngine = errors.New("mcp: intelligence engine is required")
