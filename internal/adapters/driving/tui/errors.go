package tui

import "errors"

// ErrMissingFilterService is returned when the filter service is not provided.
var ErrMissingFilterService = errors.New("tui: filter service is required")

// ErrMissingFilterID is returned when no filter is given to pick from.
var ErrMissingFilterID = errors.New("tui: filter id is required")
