package domain

import "fmt"

// SortOrder defines how elements are ordered by title.
type SortOrder string

// Available sort orders.
const (
	// SortAsc orders elements by ascending title.
	SortAsc SortOrder = "asc"

	// SortDesc orders elements by descending title.
	SortDesc SortOrder = "desc"
)

// IsValid returns true if the sort order is recognised.
// The empty order is valid and means ascending.
func (o SortOrder) IsValid() bool {
	return o == "" || o == SortAsc || o == SortDesc
}

// Page is one fetched batch of elements at a given offset.
type Page struct {
	// Offset is the absolute position of the first element.
	Offset int `json:"offset"`

	// Limit is the requested page size.
	Limit int `json:"limit"`

	// TotalCount is the number of elements matching the query.
	// A later page may revise it.
	TotalCount int `json:"totalCount"`

	// Elements holds at most Limit elements in order.
	Elements []Element `json:"items"`
}

// Validate checks the page invariants.
func (p Page) Validate() error {
	switch {
	case p.Offset < 0:
		return fmt.Errorf("%w: page offset %d is negative", ErrInvalidInput, p.Offset)
	case p.Limit <= 0:
		return fmt.Errorf("%w: page limit %d must be positive", ErrInvalidInput, p.Limit)
	case p.TotalCount < 0:
		return fmt.Errorf("%w: page total count %d is negative", ErrInvalidInput, p.TotalCount)
	case len(p.Elements) > p.Limit:
		return fmt.Errorf("%w: page holds %d elements over limit %d",
			ErrInvalidInput, len(p.Elements), p.Limit)
	}
	return nil
}

// LoadOptions controls a single element load.
type LoadOptions struct {
	// Offset is the absolute position to start from.
	Offset int `json:"offset" validate:"gte=0"`

	// Limit is the maximum number of elements to return.
	Limit int `json:"limit" validate:"gt=0,lte=10000"`

	// Search filters elements by a case-insensitive title substring.
	Search string `json:"search,omitempty" validate:"max=256"`

	// Order sorts elements by title.
	Order SortOrder `json:"order,omitempty" validate:"omitempty,oneof=asc desc"`

	// Keys restricts the load to particular elements.
	Keys []string `json:"keys,omitempty"`

	// By names the field Keys refer to.
	By ElementsBy `json:"by,omitempty" validate:"omitempty,oneof=uri value"`
}
