package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driven"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
	"github.com/custodia-labs/attrfilter/internal/logger"
)

// Ensure ElementService implements the interface.
var _ driving.ElementService = (*ElementService)(nil)

// ElementService lists elements from a source and imports them into a store.
type ElementService struct {
	source   driven.ElementSource
	store    driven.ElementStore
	pageSize int
}

// NewElementService creates a new element service.
// store may be nil when the source is read-only.
func NewElementService(source driven.ElementSource, store driven.ElementStore, pageSize int) *ElementService {
	if pageSize <= 0 {
		pageSize = domain.DefaultPageSize
	}
	return &ElementService{
		source:   source,
		store:    store,
		pageSize: pageSize,
	}
}

// PageSize returns the configured page size.
func (s *ElementService) PageSize() int {
	return s.pageSize
}

// ListPage returns one page of elements.
func (s *ElementService) ListPage(ctx context.Context, displayForm string, opts domain.LoadOptions) (domain.Page, error) {
	if s.source == nil {
		return domain.Page{}, domain.ErrNotImplemented
	}
	if displayForm == "" {
		return domain.Page{}, fmt.Errorf("%w: display form is required", domain.ErrInvalidInput)
	}
	if opts.Limit == 0 {
		opts.Limit = s.pageSize
	}
	if err := validateStruct(opts); err != nil {
		return domain.Page{}, err
	}

	page, err := s.source.LoadElements(ctx, displayForm, opts)
	if err != nil {
		return domain.Page{}, err
	}
	if err := page.Validate(); err != nil {
		return domain.Page{}, err
	}
	logger.Debug("listed %d of %d elements of %s at offset %d",
		len(page.Elements), page.TotalCount, displayForm, page.Offset)
	return page, nil
}

// GetByKeys returns the elements matching keys.
func (s *ElementService) GetByKeys(
	ctx context.Context,
	displayForm string,
	by domain.ElementsBy,
	keys []string,
) ([]domain.Element, error) {
	if len(keys) == 0 {
		return []domain.Element{}, nil
	}
	page, err := s.ListPage(ctx, displayForm, domain.LoadOptions{
		Limit: len(keys),
		Keys:  keys,
		By:    by,
	})
	if err != nil {
		return nil, err
	}
	return page.Elements, nil
}

// Import replaces the stored elements of a display form.
func (s *ElementService) Import(ctx context.Context, displayForm string, elements []domain.Element) (int, error) {
	if s.store == nil {
		return 0, domain.ErrNotImplemented
	}
	if displayForm == "" {
		return 0, fmt.Errorf("%w: display form is required", domain.ErrInvalidInput)
	}
	for i, e := range elements {
		if e.URI == "" {
			return 0, fmt.Errorf("%w: element %d has no uri", domain.ErrInvalidInput, i)
		}
	}

	if err := s.store.DeleteElements(ctx, displayForm); err != nil {
		return 0, fmt.Errorf("clear %s: %w", displayForm, err)
	}
	if err := s.store.SaveElements(ctx, displayForm, elements); err != nil {
		return 0, fmt.Errorf("save %s: %w", displayForm, err)
	}
	logger.Info("imported %d elements into %s", len(elements), displayForm)
	return len(elements), nil
}

// DisplayForms lists the display forms with stored elements.
func (s *ElementService) DisplayForms(ctx context.Context) ([]string, error) {
	if s.store == nil {
		return nil, domain.ErrNotImplemented
	}
	return s.store.ListDisplayForms(ctx)
}
