package driving

import (
	"context"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// ElementService lists and stores attribute elements.
type ElementService interface {
	// ListPage returns one page of elements. A zero limit uses the
	// configured page size.
	ListPage(ctx context.Context, displayForm string, opts domain.LoadOptions) (domain.Page, error)

	// GetByKeys returns the elements matching keys, in source order.
	// Unknown keys are skipped.
	GetByKeys(ctx context.Context, displayForm string, by domain.ElementsBy, keys []string) ([]domain.Element, error)

	// Import stores elements for a display form, replacing existing ones.
	// Returns the number of elements stored.
	Import(ctx context.Context, displayForm string, elements []domain.Element) (int, error)

	// DisplayForms lists the display forms with stored elements.
	DisplayForms(ctx context.Context) ([]string, error)

	// PageSize returns the configured page size.
	PageSize() int
}
