package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
	"github.com/custodia-labs/attrfilter/internal/logger"
	"github.com/custodia-labs/attrfilter/internal/metrics"
)

// Ensure FilterService implements the interface.
var _ driving.FilterService = (*FilterService)(nil)

// FilterService manages saved attribute filters.
type FilterService struct {
	filterStore driven.FilterStore
	source      driven.ElementSource
	pageSize    int
	metrics     *metrics.Collector
	now         func() time.Time

	// locks serialises read-modify-write cycles per filter id.
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewFilterService creates a new filter service. source is used to count
// elements when applying selection ops and may be nil.
func NewFilterService(
	filterStore driven.FilterStore,
	source driven.ElementSource,
	pageSize int,
	collector *metrics.Collector,
) *FilterService {
	return &FilterService{
		filterStore: filterStore,
		source:      source,
		pageSize:    pageSize,
		metrics:     collector,
		now:         time.Now,
		locks:       make(map[string]*sync.Mutex),
	}
}

// lock holds the lock of filter id until the returned func is called.
func (s *FilterService) lock(id string) func() {
	s.mu.Lock()
	l, ok := s.locks[id]
	if !ok {
		l = &sync.Mutex{}
		s.locks[id] = l
	}
	s.mu.Unlock()

	l.Lock()
	return l.Unlock
}

// Create starts a new filter selecting every element.
// A single-mode filter starts with nothing selected.
func (s *FilterService) Create(
	ctx context.Context,
	name, displayForm string,
	by domain.ElementsBy,
	mode domain.SelectionMode,
) (*domain.SavedFilter, error) {
	if s.filterStore == nil {
		return nil, domain.ErrNotImplemented
	}
	if by == "" {
		by = domain.ElementsByURI
	}
	if mode == "" {
		mode = domain.SelectionModeMulti
	}
	if name == "" {
		name = displayForm
	}

	initial := domain.SelectAll()
	if mode == domain.SelectionModeSingle {
		initial = domain.SelectNone()
	}

	now := s.now()
	filter := &domain.SavedFilter{
		ID:          uuid.NewString(),
		Name:        name,
		DisplayForm: displayForm,
		ElementsBy:  by,
		Mode:        mode,
		Working:     initial,
		Committed:   initial,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := s.filterStore.Save(ctx, filter); err != nil {
		return nil, fmt.Errorf("failed to save filter: %w", err)
	}
	logger.Debug("created filter %s on %s", filter.ID, displayForm)
	return filter, nil
}

// Get retrieves a filter by ID.
func (s *FilterService) Get(ctx context.Context, id string) (*domain.SavedFilter, error) {
	if s.filterStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.filterStore.Get(ctx, id)
}

// List returns all filters.
func (s *FilterService) List(ctx context.Context) ([]domain.SavedFilter, error) {
	if s.filterStore == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.filterStore.List(ctx)
}

// Delete removes a filter.
func (s *FilterService) Delete(ctx context.Context, id string) error {
	if s.filterStore == nil {
		return domain.ErrNotImplemented
	}
	unlock := s.lock(id)
	defer unlock()

	if err := s.filterStore.Delete(ctx, id); err != nil {
		return err
	}
	s.mu.Lock()
	delete(s.locks, id)
	s.mu.Unlock()
	return nil
}

// Apply edits the working selection of a filter and stores it.
func (s *FilterService) Apply(ctx context.Context, id string, op domain.SelectionOp) (*domain.SavedFilter, error) {
	return s.update(ctx, id, func(f *domain.SavedFilter, staged *StagedSelection) error {
		return staged.Apply(op, s.totalCount(ctx, f.DisplayForm))
	})
}

// Commit makes the working selection the committed one.
func (s *FilterService) Commit(ctx context.Context, id string) (*domain.SavedFilter, error) {
	return s.update(ctx, id, func(_ *domain.SavedFilter, staged *StagedSelection) error {
		staged.Commit()
		return nil
	})
}

// Revert discards working changes.
func (s *FilterService) Revert(ctx context.Context, id string) (*domain.SavedFilter, error) {
	return s.update(ctx, id, func(_ *domain.SavedFilter, staged *StagedSelection) error {
		staged.Revert()
		return nil
	})
}

// Export returns the wire filter of the committed selection.
func (s *FilterService) Export(ctx context.Context, id string) (domain.AttributeFilter, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return domain.AttributeFilter{}, err
	}
	return f.Filter(), nil
}

// Open returns a handler seeded with the filter's selections.
func (s *FilterService) Open(ctx context.Context, id string) (driving.AttributeFilterHandler, error) {
	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	h, err := NewAttributeFilterHandler(s.source, HandlerConfig{
		Filter:   f.Filter(),
		Mode:     f.Mode,
		PageSize: s.pageSize,
		Metrics:  s.metrics,
	})
	if err != nil {
		return nil, err
	}
	if f.IsDirty() {
		if err := h.selection.Change(f.Working); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Save stores the selections of a handler back into the filter.
func (s *FilterService) Save(ctx context.Context, id string, handler driving.AttributeFilterHandler) (*domain.SavedFilter, error) {
	unlock := s.lock(id)
	defer unlock()

	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if handler.DisplayForm() != f.DisplayForm {
		return nil, fmt.Errorf("%w: handler filters %s, not %s", domain.ErrInvalidInput, handler.DisplayForm(), f.DisplayForm)
	}
	f.Working = handler.WorkingSelection()
	f.Committed = handler.CommittedSelection()
	f.UpdatedAt = s.now()
	if err := s.filterStore.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save filter: %w", err)
	}
	return f, nil
}

// update loads a filter, runs fn against a staged copy of its selections
// and stores the result.
func (s *FilterService) update(
	ctx context.Context,
	id string,
	fn func(*domain.SavedFilter, *StagedSelection) error,
) (*domain.SavedFilter, error) {
	unlock := s.lock(id)
	defer unlock()

	f, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	staged := NewStagedSelection(f.Mode, f.Committed, s.metrics)
	if err := staged.Change(f.Working); err != nil {
		return nil, err
	}
	if err := fn(f, staged); err != nil {
		return nil, err
	}

	f.Working = staged.Working()
	f.Committed = staged.Committed()
	f.UpdatedAt = s.now()
	if err := s.filterStore.Save(ctx, f); err != nil {
		return nil, fmt.Errorf("failed to save filter: %w", err)
	}
	return f, nil
}

// totalCount asks the source for the element count of a display form.
// An unreachable source leaves the count unknown.
func (s *FilterService) totalCount(ctx context.Context, displayForm string) int {
	if s.source == nil {
		return domain.UnknownTotal
	}
	page, err := s.source.LoadElements(ctx, displayForm, domain.LoadOptions{Offset: 0, Limit: 1})
	if err != nil {
		logger.Warn("element count of %s unavailable: %v", displayForm, err)
		return domain.UnknownTotal
	}
	return page.TotalCount
}
