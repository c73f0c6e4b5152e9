package driven

import (
	"context"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// FilterStore persists saved filters.
type FilterStore interface {
	// Save stores or updates a filter.
	Save(ctx context.Context, filter *domain.SavedFilter) error

	// Get retrieves a filter by ID.
	Get(ctx context.Context, id string) (*domain.SavedFilter, error)

	// List returns all filters.
	List(ctx context.Context) ([]domain.SavedFilter, error)

	// Delete removes a filter.
	Delete(ctx context.Context, id string) error
}
