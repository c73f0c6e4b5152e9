package memory

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
)

// Ensure ElementStore implements the interface.
var _ driven.ElementStore = (*ElementStore)(nil)

// ElementStore is an in-memory implementation of driven.ElementStore.
// Elements keep insertion order per display form.
type ElementStore struct {
	mu       sync.RWMutex
	elements map[string][]domain.Element
}

// NewElementStore creates a new in-memory element store.
func NewElementStore() *ElementStore {
	return &ElementStore{
		elements: make(map[string][]domain.Element),
	}
}

// SaveElements stores or updates elements of a display form. A batch with
// an invalid element changes nothing.
func (s *ElementStore) SaveElements(_ context.Context, displayForm string, elements []domain.Element) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing := slices.Clone(s.elements[displayForm])
	index := make(map[string]int, len(existing))
	for i, e := range existing {
		index[e.URI] = i
	}
	for _, e := range elements {
		if e.URI == "" {
			return fmt.Errorf("%w: element %q has no uri", domain.ErrInvalidInput, e.Title)
		}
		if i, ok := index[e.URI]; ok {
			existing[i] = e
			continue
		}
		index[e.URI] = len(existing)
		existing = append(existing, e)
	}
	s.elements[displayForm] = existing
	return nil
}

// DeleteElements removes every element of a display form.
func (s *ElementStore) DeleteElements(_ context.Context, displayForm string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.elements, displayForm)
	return nil
}

// ListDisplayForms returns the display forms that have elements, sorted.
func (s *ElementStore) ListDisplayForms(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]string, 0, len(s.elements))
	for df := range s.elements {
		result = append(result, df)
	}
	sort.Strings(result)
	return result, nil
}

// LoadElements returns one page of elements of a display form.
func (s *ElementStore) LoadElements(ctx context.Context, displayForm string, opts domain.LoadOptions) (domain.Page, error) {
	if err := ctx.Err(); err != nil {
		return domain.Page{}, err
	}

	s.mu.RLock()
	all, ok := s.elements[displayForm]
	matched := Filter(all, opts)
	s.mu.RUnlock()

	if !ok {
		return domain.Page{}, fmt.Errorf("display form %s: %w", displayForm, domain.ErrNotFound)
	}
	return Paginate(matched, opts.Offset, opts.Limit), nil
}

// Filter applies the search, keys and order of opts to elements.
// The input slice is not modified.
func Filter(elements []domain.Element, opts domain.LoadOptions) []domain.Element {
	search := strings.ToLower(opts.Search)
	var keys map[string]struct{}
	if len(opts.Keys) > 0 {
		keys = make(map[string]struct{}, len(opts.Keys))
		for _, k := range opts.Keys {
			keys[k] = struct{}{}
		}
	}

	result := make([]domain.Element, 0, len(elements))
	for _, e := range elements {
		if search != "" && !strings.Contains(strings.ToLower(e.Title), search) {
			continue
		}
		if keys != nil {
			if _, ok := keys[e.Key(opts.By)]; !ok {
				continue
			}
		}
		result = append(result, e)
	}

	switch opts.Order {
	case domain.SortAsc:
		slices.SortStableFunc(result, compareTitle)
	case domain.SortDesc:
		slices.SortStableFunc(result, func(a, b domain.Element) int { return compareTitle(b, a) })
	}
	return result
}

// Paginate cuts one page out of matched elements.
func Paginate(matched []domain.Element, offset, limit int) domain.Page {
	page := domain.Page{
		Offset:     offset,
		Limit:      limit,
		TotalCount: len(matched),
		Elements:   []domain.Element{},
	}
	if offset >= len(matched) {
		return page
	}
	end := min(offset+limit, len(matched))
	page.Elements = slices.Clone(matched[offset:end])
	return page
}

func compareTitle(a, b domain.Element) int {
	return strings.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
}
