package domain

import (
	"fmt"
	"time"
)

// SelectionMode controls how many elements a filter may select.
type SelectionMode string

// Available selection modes.
const (
	// SelectionModeMulti allows any selection.
	SelectionModeMulti SelectionMode = "multi"

	// SelectionModeSingle allows at most one selected element.
	SelectionModeSingle SelectionMode = "single"
)

// IsValid returns true if the mode is recognised.
func (m SelectionMode) IsValid() bool {
	return m == SelectionModeMulti || m == SelectionModeSingle
}

// SavedFilter is a persisted, staged attribute filter.
// Edits go to Working; Commit copies Working to Committed.
type SavedFilter struct {
	// ID is the unique identifier.
	ID string `json:"id"`

	// Name is the human-readable name.
	Name string `json:"name"`

	// DisplayForm identifies the attribute label the filter applies to.
	DisplayForm string `json:"displayForm"`

	// ElementsBy names the element field used as key.
	ElementsBy ElementsBy `json:"elementsBy"`

	// Mode is the selection mode.
	Mode SelectionMode `json:"mode"`

	// Working is the selection being edited.
	Working Selection `json:"working"`

	// Committed is the last committed selection.
	Committed Selection `json:"committed"`

	// CreatedAt is when the filter was created.
	CreatedAt time.Time `json:"createdAt"`

	// UpdatedAt is when the filter was last saved.
	UpdatedAt time.Time `json:"updatedAt"`
}

// Filter returns the wire filter of the committed selection.
func (f *SavedFilter) Filter() AttributeFilter {
	return FilterFromSelection(f.DisplayForm, f.ElementsBy, f.Committed)
}

// IsDirty reports whether the working selection differs from the committed one.
func (f *SavedFilter) IsDirty() bool {
	return !f.Working.Equal(f.Committed)
}

// Validate checks the filter before it is stored.
func (f *SavedFilter) Validate() error {
	switch {
	case f.ID == "":
		return fmt.Errorf("%w: filter id is required", ErrInvalidInput)
	case f.DisplayForm == "":
		return fmt.Errorf("%w: display form is required", ErrInvalidInput)
	case !f.ElementsBy.IsValid():
		return fmt.Errorf("%w: unknown element key kind %q", ErrInvalidInput, f.ElementsBy)
	case !f.Mode.IsValid():
		return fmt.Errorf("%w: unknown selection mode %q", ErrInvalidInput, f.Mode)
	}
	return nil
}
