// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

// Initialised is sent when the handler has loaded the total count and
// the selected elements.
type Initialised struct {
	Err error
}

// PageLoaded is sent when a page load finishes.
type PageLoaded struct {
	// Correlation identifies the load.
	Correlation string

	// Err is set when the load failed or was superseded.
	Err error
}

// SearchChanged is sent when the search text is submitted.
type SearchChanged struct {
	Search string
}

// FilterSaved is sent when the filter has been stored.
type FilterSaved struct {
	Err error
}
