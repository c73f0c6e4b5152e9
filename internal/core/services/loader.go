package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
	"github.com/custodia-labs/attrfilter/internal/logger"
	"github.com/custodia-labs/attrfilter/internal/metrics"
)

// Load kinds used in logs and metrics.
const (
	loadInitial    = "initial"
	loadNext       = "next"
	loadRange      = "range"
	loadParticular = "particular"
	loadTotal      = "total"
)

// ElementLoader accumulates pages of one display form into an ElementList.
//
// Changing the search, limit or order discards the list and cancels loads
// in flight. A page that arrives after such a reset is not merged and its
// load returns domain.ErrStaleLoad.
type ElementLoader struct {
	source      driven.ElementSource
	displayForm string
	by          domain.ElementsBy
	metrics     *metrics.Collector

	mu           sync.Mutex
	items        *domain.ElementList
	byKey        map[string]domain.Element
	search       string
	limit        int
	order        domain.SortOrder
	totalCount   int
	currentCount int
	status       domain.LoadStatus
	generation   uint64
	inflight     map[uint64]context.CancelFunc
	nextLoadID   uint64

	onStart   callbacks[driving.LoadEvent]
	onSuccess callbacks[driving.LoadEvent]
	onError   callbacks[driving.LoadEvent]
	onCancel  callbacks[driving.LoadEvent]
}

// NewElementLoader creates a loader for one display form.
// A non-positive limit uses domain.DefaultPageSize. collector may be nil.
func NewElementLoader(
	source driven.ElementSource,
	displayForm string,
	by domain.ElementsBy,
	limit int,
	collector *metrics.Collector,
) *ElementLoader {
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	if by == "" {
		by = domain.ElementsByURI
	}
	return &ElementLoader{
		source:       source,
		displayForm:  displayForm,
		by:           by,
		metrics:      collector,
		byKey:        make(map[string]domain.Element),
		limit:        limit,
		totalCount:   domain.UnknownTotal,
		currentCount: domain.UnknownTotal,
		status:       domain.LoadPending,
		inflight:     make(map[uint64]context.CancelFunc),
	}
}

// LoadInitialPage cancels running page loads, discards the list and loads
// the first page.
func (l *ElementLoader) LoadInitialPage(ctx context.Context, correlation string) error {
	l.mu.Lock()
	l.resetLocked()
	opts := l.optionsLocked(0)
	l.mu.Unlock()

	return l.loadPage(ctx, loadInitial, opts, correlation)
}

// LoadNextPage loads the page starting at the first pending position.
// It does nothing when every element is loaded.
func (l *ElementLoader) LoadNextPage(ctx context.Context, correlation string) error {
	l.mu.Lock()
	if l.items != nil && l.items.IsComplete() {
		l.mu.Unlock()
		return nil
	}
	opts := l.optionsLocked(l.items.NextOffset())
	l.mu.Unlock()

	return l.loadPage(ctx, loadNext, opts, correlation)
}

// LoadRange loads an arbitrary window and merges it into the list.
func (l *ElementLoader) LoadRange(ctx context.Context, offset, limit int, correlation string) error {
	if offset < 0 || limit <= 0 {
		return fmt.Errorf("%w: range offset %d limit %d", domain.ErrInvalidInput, offset, limit)
	}
	l.mu.Lock()
	opts := l.optionsLocked(offset)
	opts.Limit = limit
	l.mu.Unlock()

	return l.loadPage(ctx, loadRange, opts, correlation)
}

// LoadParticular loads the elements with the given keys into the key
// dictionary without touching the list.
func (l *ElementLoader) LoadParticular(ctx context.Context, keys []string) ([]domain.Element, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	opts := domain.LoadOptions{Offset: 0, Limit: len(keys), Keys: keys, By: l.by}

	started := time.Now()
	page, err := l.fetch(ctx, opts)
	if err != nil {
		l.metrics.RecordLoad(loadParticular, metrics.OutcomeError, time.Since(started).Seconds(), 0)
		return nil, err
	}
	l.metrics.RecordLoad(loadParticular, metrics.OutcomeSuccess, time.Since(started).Seconds(), len(page.Elements))

	l.mu.Lock()
	l.rememberLocked(page.Elements)
	l.mu.Unlock()

	return page.Elements, nil
}

// LoadTotalCount loads the element count without search.
func (l *ElementLoader) LoadTotalCount(ctx context.Context) (int, error) {
	started := time.Now()
	page, err := l.fetch(ctx, domain.LoadOptions{Offset: 0, Limit: 1, By: l.by})
	if err != nil {
		l.metrics.RecordLoad(loadTotal, metrics.OutcomeError, time.Since(started).Seconds(), 0)
		return domain.UnknownTotal, err
	}
	l.metrics.RecordLoad(loadTotal, metrics.OutcomeSuccess, time.Since(started).Seconds(), 0)

	l.mu.Lock()
	l.totalCount = page.TotalCount
	l.mu.Unlock()

	return page.TotalCount, nil
}

// SetSearch changes the search text and discards the list.
func (l *ElementLoader) SetSearch(search string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.search = search
	l.resetLocked()
}

// SetLimit changes the page size and discards the list.
// A non-positive limit uses domain.DefaultPageSize.
func (l *ElementLoader) SetLimit(limit int) {
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = limit
	l.resetLocked()
}

// SetOrder changes the sort order and discards the list.
func (l *ElementLoader) SetOrder(order domain.SortOrder) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.order = order
	l.resetLocked()
}

// Items returns the accumulated list. It may be nil before the first load.
// The list is never modified after it is returned.
func (l *ElementLoader) Items() *domain.ElementList {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.items
}

// ItemsByKey returns known elements for keys, skipping unknown ones.
func (l *ElementLoader) ItemsByKey(keys []string) []domain.Element {
	l.mu.Lock()
	defer l.mu.Unlock()
	result := make([]domain.Element, 0, len(keys))
	for _, k := range keys {
		if e, ok := l.byKey[k]; ok {
			result = append(result, e)
		}
	}
	return result
}

// Search returns the current search text.
func (l *ElementLoader) Search() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.search
}

// Limit returns the current page size.
func (l *ElementLoader) Limit() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.limit
}

// Order returns the current sort order.
func (l *ElementLoader) Order() domain.SortOrder {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order
}

// TotalCount returns the element count without search, or
// domain.UnknownTotal before it is known.
func (l *ElementLoader) TotalCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.totalCount
}

// CountWithCurrentSettings returns the element count for the current
// search, or domain.UnknownTotal before a page is loaded.
func (l *ElementLoader) CountWithCurrentSettings() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.currentCount
}

// Status returns the state of the latest page load.
func (l *ElementLoader) Status() domain.LoadStatus {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.status
}

// OnLoadStart registers a callback for page load starts.
func (l *ElementLoader) OnLoadStart(fn func(driving.LoadEvent)) driving.Unsubscribe {
	return l.onStart.subscribe(fn)
}

// OnLoadSuccess registers a callback for merged pages.
func (l *ElementLoader) OnLoadSuccess(fn func(driving.LoadEvent)) driving.Unsubscribe {
	return l.onSuccess.subscribe(fn)
}

// OnLoadError registers a callback for failed page loads.
func (l *ElementLoader) OnLoadError(fn func(driving.LoadEvent)) driving.Unsubscribe {
	return l.onError.subscribe(fn)
}

// OnLoadCancel registers a callback for cancelled or stale page loads.
func (l *ElementLoader) OnLoadCancel(fn func(driving.LoadEvent)) driving.Unsubscribe {
	return l.onCancel.subscribe(fn)
}

// loadPage runs one cancellable page load and merges the result.
func (l *ElementLoader) loadPage(ctx context.Context, kind string, opts domain.LoadOptions, correlation string) error {
	if correlation == "" {
		correlation = uuid.NewString()
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	generation := l.generation
	id := l.nextLoadID
	l.nextLoadID++
	l.inflight[id] = cancel
	l.status = domain.LoadLoading
	l.mu.Unlock()

	log := logger.L().With(
		zap.String("displayForm", l.displayForm),
		zap.String("kind", kind),
		zap.String("correlation", correlation),
	)
	log.Debug("loading elements", zap.Int("offset", opts.Offset), zap.Int("limit", opts.Limit))
	l.onStart.emit(driving.LoadEvent{Correlation: correlation})

	started := time.Now()
	page, err := l.fetch(ctx, opts)
	elapsed := time.Since(started).Seconds()

	l.mu.Lock()
	delete(l.inflight, id)

	if generation != l.generation {
		l.mu.Unlock()
		log.Debug("discarding stale page")
		l.metrics.RecordLoad(kind, metrics.OutcomeStale, elapsed, 0)
		l.onCancel.emit(driving.LoadEvent{Correlation: correlation, Err: domain.ErrStaleLoad})
		return domain.ErrStaleLoad
	}

	if err != nil {
		if errors.Is(err, context.Canceled) {
			l.status = domain.LoadCancelled
			l.mu.Unlock()
			l.metrics.RecordLoad(kind, metrics.OutcomeCancelled, elapsed, 0)
			l.onCancel.emit(driving.LoadEvent{Correlation: correlation, Err: err})
			return err
		}
		l.status = domain.LoadError
		l.mu.Unlock()
		log.Warn("element load failed", zap.Error(err))
		l.metrics.RecordLoad(kind, metrics.OutcomeError, elapsed, 0)
		l.onError.emit(driving.LoadEvent{Correlation: correlation, Err: err})
		return err
	}

	l.items = domain.MergePage(l.items, page)
	l.rememberLocked(page.Elements)
	l.currentCount = page.TotalCount
	if l.search == "" {
		l.totalCount = page.TotalCount
	}
	l.status = domain.LoadSuccess
	pending := l.items.PendingCount()
	l.mu.Unlock()

	log.Debug("merged page",
		zap.Int("offset", page.Offset),
		zap.Int("elements", len(page.Elements)),
		zap.Int("totalCount", page.TotalCount),
		zap.Int("pending", pending),
	)
	l.metrics.RecordLoad(kind, metrics.OutcomeSuccess, elapsed, len(page.Elements))
	l.metrics.SetPending(pending)
	l.onSuccess.emit(driving.LoadEvent{Correlation: correlation, Page: page})
	return nil
}

// fetch loads and validates one page.
func (l *ElementLoader) fetch(ctx context.Context, opts domain.LoadOptions) (domain.Page, error) {
	if l.source == nil {
		return domain.Page{}, domain.ErrNotImplemented
	}
	page, err := l.source.LoadElements(ctx, l.displayForm, opts)
	if err != nil {
		return domain.Page{}, fmt.Errorf("load elements of %s: %w", l.displayForm, err)
	}
	if err := page.Validate(); err != nil {
		return domain.Page{}, fmt.Errorf("load elements of %s: %w", l.displayForm, err)
	}
	return page, nil
}

func (l *ElementLoader) optionsLocked(offset int) domain.LoadOptions {
	return domain.LoadOptions{
		Offset: offset,
		Limit:  l.limit,
		Search: l.search,
		Order:  l.order,
		By:     l.by,
	}
}

// resetLocked discards the list and cancels page loads in flight.
func (l *ElementLoader) resetLocked() {
	l.generation++
	for id, cancel := range l.inflight {
		cancel()
		delete(l.inflight, id)
	}
	l.items = nil
	l.currentCount = domain.UnknownTotal
	l.status = domain.LoadPending
}

func (l *ElementLoader) rememberLocked(elements []domain.Element) {
	for _, e := range elements {
		l.byKey[e.Key(l.by)] = e
	}
}
