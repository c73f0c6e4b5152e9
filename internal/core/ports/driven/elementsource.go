package driven

import (
	"context"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// ElementSource lists attribute elements page by page.
type ElementSource interface {
	// LoadElements returns one page of elements of a display form.
	// When opts.Keys is set only elements whose key (by opts.By) is listed
	// are considered. TotalCount counts every element matching the search
	// and keys, not only those on the page.
	LoadElements(ctx context.Context, displayForm string, opts domain.LoadOptions) (domain.Page, error)
}
