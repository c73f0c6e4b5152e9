package driving

import (
	"context"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// Unsubscribe removes a previously registered callback.
type Unsubscribe func()

// LoadEvent describes one element load.
type LoadEvent struct {
	// Correlation identifies the load that produced the event.
	Correlation string

	// Page is set on success.
	Page domain.Page

	// Err is set on failure.
	Err error
}

// SelectionEvent describes a selection change or commit.
type SelectionEvent struct {
	// Selection is the selection after the change.
	Selection domain.Selection
}

// AttributeFilterHandler drives one attribute filter: it pages through
// the elements of its display form and stages a selection over them.
type AttributeFilterHandler interface {
	// Init loads the total element count and the selected elements.
	Init(ctx context.Context) error

	// LoadInitialPage discards loaded elements and loads the first page.
	LoadInitialPage(ctx context.Context, correlation string) error

	// LoadNextPage loads the page after the loaded elements.
	LoadNextPage(ctx context.Context, correlation string) error

	// LoadRange loads an arbitrary window and merges it.
	LoadRange(ctx context.Context, offset, limit int, correlation string) error

	// SetSearch changes the search text. Loaded elements are discarded.
	SetSearch(search string)

	// SetLimit changes the page size. Loaded elements are discarded.
	SetLimit(limit int)

	// SetOrder changes the sort order. Loaded elements are discarded.
	SetOrder(order domain.SortOrder)

	// Items returns the accumulated element list.
	Items() *domain.ElementList

	// ItemsByKey returns known elements for keys, skipping unknown ones.
	ItemsByKey(keys []string) []domain.Element

	// Search returns the current search text.
	Search() string

	// Limit returns the current page size.
	Limit() int

	// TotalCount returns the unfiltered element count, or
	// domain.UnknownTotal before it is loaded.
	TotalCount() int

	// CountWithCurrentSettings returns the element count for the current
	// search, or domain.UnknownTotal before a page is loaded.
	CountWithCurrentSettings() int

	// Status returns the state of the latest load.
	Status() domain.LoadStatus

	// Apply edits the working selection.
	Apply(op domain.SelectionOp) error

	// WorkingSelection returns the selection being edited.
	WorkingSelection() domain.Selection

	// CommittedSelection returns the last committed selection.
	CommittedSelection() domain.Selection

	// Commit makes the working selection the committed one.
	Commit()

	// Revert restores the committed selection.
	Revert()

	// Filter returns the wire filter of the committed selection.
	Filter() domain.AttributeFilter

	// SelectedItems returns known elements for the working selection keys.
	SelectedItems() []domain.Element

	// DisplayForm returns the display form being filtered.
	DisplayForm() string

	// ElementsBy returns the element field used as key.
	ElementsBy() domain.ElementsBy

	// Mode returns the selection mode.
	Mode() domain.SelectionMode

	OnLoadStart(fn func(LoadEvent)) Unsubscribe
	OnLoadSuccess(fn func(LoadEvent)) Unsubscribe
	OnLoadError(fn func(LoadEvent)) Unsubscribe
	OnLoadCancel(fn func(LoadEvent)) Unsubscribe
	OnSelectionChanged(fn func(SelectionEvent)) Unsubscribe
	OnSelectionCommitted(fn func(SelectionEvent)) Unsubscribe
}
