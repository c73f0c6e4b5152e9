// Package mcp provides an MCP (Model Context Protocol) server adapter for attrfilter.
// It lets AI assistants page through attribute elements and stage filter selections.
package mcp

import "errors"

// ErrMissingElementService is returned when the element service is not provided.
var ErrMissingElementService = errors.New("mcp: element service is required")
