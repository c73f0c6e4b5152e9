package driving

import (
	"context"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// FilterService manages saved attribute filters.
type FilterService interface {
	// Create starts a new filter selecting every element.
	Create(ctx context.Context, name, displayForm string, by domain.ElementsBy, mode domain.SelectionMode) (*domain.SavedFilter, error)

	// Get retrieves a filter by ID.
	Get(ctx context.Context, id string) (*domain.SavedFilter, error)

	// List returns all filters.
	List(ctx context.Context) ([]domain.SavedFilter, error)

	// Delete removes a filter.
	Delete(ctx context.Context, id string) error

	// Apply edits the working selection of a filter and stores it.
	Apply(ctx context.Context, id string, op domain.SelectionOp) (*domain.SavedFilter, error)

	// Commit makes the working selection the committed one.
	Commit(ctx context.Context, id string) (*domain.SavedFilter, error)

	// Revert discards working changes.
	Revert(ctx context.Context, id string) (*domain.SavedFilter, error)

	// Export returns the wire filter of the committed selection.
	Export(ctx context.Context, id string) (domain.AttributeFilter, error)

	// Open returns a handler seeded with the filter's selections.
	// The handler is not initialised; call Init before loading.
	Open(ctx context.Context, id string) (AttributeFilterHandler, error)

	// Save stores the selections of a handler back into the filter.
	Save(ctx context.Context, id string, handler AttributeFilterHandler) (*domain.SavedFilter, error)
}
