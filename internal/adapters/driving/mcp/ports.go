package mcp

import (
	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Elements lists attribute elements.
	Elements driving.ElementService

	// Filters manages saved filters. Filter tools fail without it.
	Filters driving.FilterService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Elements == nil {
		return ErrMissingElementService
	}
	return nil
}
