// Package mcp provides an MCP (Model Context Protocol) server adapter for
// scanprep. It lets AI assistants drive the dataset preparation pipeline.
package mcp

import "errors"

// ErrMissingScaler is returned when the geometry scaler is not provided.
var ErrMissingScaler = errors.New("mcp: geometry scaler is required")
