package domain

import "fmt"

// ElementsBy names the element field used as the selection key.
type ElementsBy string

// Supported element key kinds.
const (
	// ElementsByURI keys elements by their URI.
	ElementsByURI ElementsBy = "uri"

	// ElementsByValue keys elements by their value.
	ElementsByValue ElementsBy = "value"
)

// IsValid returns true if the key kind is recognised.
func (b ElementsBy) IsValid() bool {
	return b == ElementsByURI || b == ElementsByValue
}

// String returns the string representation.
func (b ElementsBy) String() string {
	return string(b)
}

// ParseElementsBy converts a user supplied string to an ElementsBy.
// An empty string yields ElementsByURI.
func ParseElementsBy(s string) (ElementsBy, error) {
	if s == "" {
		return ElementsByURI, nil
	}
	b := ElementsBy(s)
	if !b.IsValid() {
		return "", fmt.Errorf("%w: unknown element key kind %q", ErrInvalidInput, s)
	}
	return b, nil
}

// Element is a single selectable attribute value.
// It is immutable once fetched.
type Element struct {
	// URI is the stable reference of the element.
	URI string `json:"uri,omitempty" yaml:"uri,omitempty"`

	// Value is the raw attribute value.
	Value string `json:"value,omitempty" yaml:"value,omitempty"`

	// Title is the display title.
	Title string `json:"title" yaml:"title"`
}

// Key returns the selection key of the element for the given key kind.
func (e Element) Key(by ElementsBy) string {
	if by == ElementsByValue {
		return e.Value
	}
	return e.URI
}
