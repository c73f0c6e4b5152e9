package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
)

// Ensure FilterStore implements the interface.
var _ driven.FilterStore = (*FilterStore)(nil)

// FilterStore is an in-memory implementation of driven.FilterStore.
type FilterStore struct {
	mu      sync.RWMutex
	filters map[string]domain.SavedFilter
}

// NewFilterStore creates a new in-memory filter store.
func NewFilterStore() *FilterStore {
	return &FilterStore{
		filters: make(map[string]domain.SavedFilter),
	}
}

// Save stores or updates a filter.
func (s *FilterStore) Save(_ context.Context, filter *domain.SavedFilter) error {
	if err := filter.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filters[filter.ID] = *filter
	return nil
}

// Get retrieves a filter by ID.
func (s *FilterStore) Get(_ context.Context, id string) (*domain.SavedFilter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	filter, ok := s.filters[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &filter, nil
}

// List returns all filters ordered by creation time.
func (s *FilterStore) List(_ context.Context) ([]domain.SavedFilter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.SavedFilter, 0, len(s.filters))
	for _, f := range s.filters {
		result = append(result, f)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID < result[j].ID
		}
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

// Delete removes a filter.
func (s *FilterStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.filters[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.filters, id)
	return nil
}
