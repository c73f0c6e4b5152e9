// Package domain defines the core business entities for attrfilter.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Element: A single attribute value with a key and a title
//   - Page: One fetched batch of elements at an offset
//   - ElementList: Pages merged into a sparse, positionally indexed list
//   - Selection: An invertible set of selected element keys
//   - AttributeFilter: The wire shape a committed selection is sent as
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
