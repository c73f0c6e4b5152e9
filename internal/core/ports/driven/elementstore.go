package driven

import (
	"context"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// ElementStore persists attribute elements.
// Backed by SQLite for local use.
type ElementStore interface {
	ElementSource

	// SaveElements stores or updates elements of a display form.
	// Elements are keyed by URI; element order follows input order.
	SaveElements(ctx context.Context, displayForm string, elements []domain.Element) error

	// DeleteElements removes every element of a display form.
	DeleteElements(ctx context.Context, displayForm string) error

	// ListDisplayForms returns the display forms that have elements.
	ListDisplayForms(ctx context.Context) ([]string, error)
}
