// Package tui provides an interactive element picker for saved filters.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Filters opens and stores saved filters.
	Filters driving.FilterService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Filters == nil {
		return ErrMissingFilterService
	}
	return nil
}
