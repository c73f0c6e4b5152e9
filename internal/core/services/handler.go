package services

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
	"github.com/custodia-labs/attrfilter/internal/logger"
	"github.com/custodia-labs/attrfilter/internal/metrics"
)

// Ensure AttributeFilterHandler implements the interface.
var _ driving.AttributeFilterHandler = (*AttributeFilterHandler)(nil)

// AttributeFilterHandler pairs an ElementLoader with a StagedSelection for
// one attribute filter.
type AttributeFilterHandler struct {
	loader    *ElementLoader
	selection *StagedSelection
}

// HandlerConfig configures a new AttributeFilterHandler.
type HandlerConfig struct {
	// Filter seeds the display form, key kind and both selections.
	Filter domain.AttributeFilter

	// Mode is the selection mode. Empty means multi.
	Mode domain.SelectionMode

	// PageSize is the initial page size.
	PageSize int

	// Metrics is optional.
	Metrics *metrics.Collector
}

// NewAttributeFilterHandler creates a handler for cfg.Filter.
func NewAttributeFilterHandler(source driven.ElementSource, cfg HandlerConfig) (*AttributeFilterHandler, error) {
	displayForm, by, sel, err := domain.SelectionFromFilter(cfg.Filter)
	if err != nil {
		return nil, err
	}
	return &AttributeFilterHandler{
		loader:    NewElementLoader(source, displayForm, by, cfg.PageSize, cfg.Metrics),
		selection: NewStagedSelection(cfg.Mode, sel, cfg.Metrics),
	}, nil
}

// Init loads the total element count and the elements of the working
// selection concurrently.
func (h *AttributeFilterHandler) Init(ctx context.Context) error {
	logger.Section("Init " + h.DisplayForm())

	keys := h.selection.Working().Items.Keys()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		_, err := h.loader.LoadTotalCount(ctx)
		return err
	})
	g.Go(func() error {
		_, err := h.loader.LoadParticular(ctx, keys)
		return err
	})
	return g.Wait()
}

// LoadInitialPage discards loaded elements and loads the first page.
func (h *AttributeFilterHandler) LoadInitialPage(ctx context.Context, correlation string) error {
	return h.loader.LoadInitialPage(ctx, correlation)
}

// LoadNextPage loads the page after the loaded elements.
func (h *AttributeFilterHandler) LoadNextPage(ctx context.Context, correlation string) error {
	return h.loader.LoadNextPage(ctx, correlation)
}

// LoadRange loads an arbitrary window.
func (h *AttributeFilterHandler) LoadRange(ctx context.Context, offset, limit int, correlation string) error {
	return h.loader.LoadRange(ctx, offset, limit, correlation)
}

// SetSearch changes the search text.
func (h *AttributeFilterHandler) SetSearch(search string) { h.loader.SetSearch(search) }

// SetLimit changes the page size.
func (h *AttributeFilterHandler) SetLimit(limit int) { h.loader.SetLimit(limit) }

// SetOrder changes the sort order.
func (h *AttributeFilterHandler) SetOrder(order domain.SortOrder) { h.loader.SetOrder(order) }

// Items returns the accumulated element list.
func (h *AttributeFilterHandler) Items() *domain.ElementList { return h.loader.Items() }

// ItemsByKey returns known elements for keys.
func (h *AttributeFilterHandler) ItemsByKey(keys []string) []domain.Element {
	return h.loader.ItemsByKey(keys)
}

// Search returns the current search text.
func (h *AttributeFilterHandler) Search() string { return h.loader.Search() }

// Limit returns the current page size.
func (h *AttributeFilterHandler) Limit() int { return h.loader.Limit() }

// TotalCount returns the element count without search.
func (h *AttributeFilterHandler) TotalCount() int { return h.loader.TotalCount() }

// CountWithCurrentSettings returns the element count for the current search.
func (h *AttributeFilterHandler) CountWithCurrentSettings() int {
	return h.loader.CountWithCurrentSettings()
}

// Status returns the state of the latest load.
func (h *AttributeFilterHandler) Status() domain.LoadStatus { return h.loader.Status() }

// Apply edits the working selection. The unfiltered total count decides
// when a selection collapses to all or none.
func (h *AttributeFilterHandler) Apply(op domain.SelectionOp) error {
	return h.selection.Apply(op, h.loader.TotalCount())
}

// WorkingSelection returns the selection being edited.
func (h *AttributeFilterHandler) WorkingSelection() domain.Selection { return h.selection.Working() }

// CommittedSelection returns the last committed selection.
func (h *AttributeFilterHandler) CommittedSelection() domain.Selection {
	return h.selection.Committed()
}

// Commit makes the working selection the committed one.
func (h *AttributeFilterHandler) Commit() { h.selection.Commit() }

// Revert restores the committed selection.
func (h *AttributeFilterHandler) Revert() { h.selection.Revert() }

// Filter returns the wire filter of the committed selection.
func (h *AttributeFilterHandler) Filter() domain.AttributeFilter {
	return domain.FilterFromSelection(h.loader.displayForm, h.loader.by, h.selection.Committed())
}

// SelectedItems returns known elements for the working selection keys.
func (h *AttributeFilterHandler) SelectedItems() []domain.Element {
	return h.loader.ItemsByKey(h.selection.Working().Items.Keys())
}

// DisplayForm returns the display form being filtered.
func (h *AttributeFilterHandler) DisplayForm() string { return h.loader.displayForm }

// ElementsBy returns the element field used as key.
func (h *AttributeFilterHandler) ElementsBy() domain.ElementsBy { return h.loader.by }

// Mode returns the selection mode.
func (h *AttributeFilterHandler) Mode() domain.SelectionMode { return h.selection.Mode() }

// OnLoadStart registers a callback for page load starts.
func (h *AttributeFilterHandler) OnLoadStart(fn func(driving.LoadEvent)) driving.Unsubscribe {
	return h.loader.OnLoadStart(fn)
}

// OnLoadSuccess registers a callback for merged pages.
func (h *AttributeFilterHandler) OnLoadSuccess(fn func(driving.LoadEvent)) driving.Unsubscribe {
	return h.loader.OnLoadSuccess(fn)
}

// OnLoadError registers a callback for failed page loads.
func (h *AttributeFilterHandler) OnLoadError(fn func(driving.LoadEvent)) driving.Unsubscribe {
	return h.loader.OnLoadError(fn)
}

// OnLoadCancel registers a callback for cancelled page loads.
func (h *AttributeFilterHandler) OnLoadCancel(fn func(driving.LoadEvent)) driving.Unsubscribe {
	return h.loader.OnLoadCancel(fn)
}

// OnSelectionChanged registers a callback for working selection changes.
func (h *AttributeFilterHandler) OnSelectionChanged(fn func(driving.SelectionEvent)) driving.Unsubscribe {
	return h.selection.OnChanged(fn)
}

// OnSelectionCommitted registers a callback for commits.
func (h *AttributeFilterHandler) OnSelectionCommitted(fn func(driving.SelectionEvent)) driving.Unsubscribe {
	return h.selection.OnCommitted(fn)
}
