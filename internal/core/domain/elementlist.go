package domain

import (
	"encoding/json"
	"fmt"
)

// Slot is one position of an ElementList. It either holds a loaded
// element or is pending, meaning no page has covered the position yet.
// The zero value is pending.
type Slot struct {
	element Element
	loaded  bool
}

// Pending is the slot of a position that has not been fetched.
var Pending = Slot{}

// LoadedSlot returns a slot holding e.
func LoadedSlot(e Element) Slot {
	return Slot{element: e, loaded: true}
}

// IsPending reports whether the slot is still waiting for its page.
func (s Slot) IsPending() bool {
	return !s.loaded
}

// Element returns the loaded element and true, or false for a pending slot.
func (s Slot) Element() (Element, bool) {
	return s.element, s.loaded
}

// MarshalJSON encodes a loaded slot as its element and a pending slot as null.
func (s Slot) MarshalJSON() ([]byte, error) {
	if !s.loaded {
		return []byte("null"), nil
	}
	return json.Marshal(s.element)
}

// UnmarshalJSON decodes null as Pending and anything else as a loaded element.
func (s *Slot) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = Pending
		return nil
	}
	var e Element
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	*s = LoadedSlot(e)
	return nil
}

// Range is an offset/limit window of positions.
type Range struct {
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ElementList is the accumulated result of merged pages: a sparse list
// indexed by absolute position. Paging metadata mirrors the most recently
// merged page.
type ElementList struct {
	Slots      []Slot `json:"slots"`
	Offset     int    `json:"offset"`
	Limit      int    `json:"limit"`
	TotalCount int    `json:"totalCount"`
}

// MergePage combines page into current and returns a new list.
// current may be nil and is never modified.
//
// Positions covered by page take its elements (last write wins), positions
// loaded before keep their elements, and positions no page has covered are
// Pending. Pages may arrive in any order, overlap, or leave gaps.
//
// A negative page offset is a caller bug and panics; validate pages from
// untrusted sources with Page.Validate first.
func MergePage(current *ElementList, page Page) *ElementList {
	if page.Offset < 0 {
		panic(fmt.Sprintf("domain: cannot merge page at negative offset %d", page.Offset))
	}

	var existing []Slot
	if current != nil {
		existing = current.Slots
	}

	end := page.Offset + len(page.Elements)
	slots := make([]Slot, max(len(existing), end))
	copy(slots, existing)
	for i, e := range page.Elements {
		slots[page.Offset+i] = LoadedSlot(e)
	}

	return &ElementList{
		Slots:      slots,
		Offset:     page.Offset,
		Limit:      page.Limit,
		TotalCount: page.TotalCount,
	}
}

// Len returns the number of positions, loaded or pending.
func (l *ElementList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.Slots)
}

// At returns the slot at position i. Positions past the end are pending.
func (l *ElementList) At(i int) Slot {
	if l == nil || i < 0 || i >= len(l.Slots) {
		return Pending
	}
	return l.Slots[i]
}

// LoadedCount returns the number of loaded positions.
func (l *ElementList) LoadedCount() int {
	n := 0
	for _, s := range l.slots() {
		if !s.IsPending() {
			n++
		}
	}
	return n
}

// PendingCount returns the number of pending positions within Len.
func (l *ElementList) PendingCount() int {
	return l.Len() - l.LoadedCount()
}

// IsComplete reports whether every position up to TotalCount is loaded.
func (l *ElementList) IsComplete() bool {
	if l == nil {
		return false
	}
	return l.PendingCount() == 0 && l.Len() >= l.TotalCount
}

// NextOffset returns the first pending position, or Len when there is none.
func (l *ElementList) NextOffset() int {
	for i, s := range l.slots() {
		if s.IsPending() {
			return i
		}
	}
	return l.Len()
}

// PendingRanges returns the windows, at most limit wide, that still need
// fetching to cover every position below max(Len, TotalCount).
func (l *ElementList) PendingRanges(limit int) []Range {
	if l == nil || limit <= 0 {
		return nil
	}

	end := max(l.Len(), l.TotalCount)
	var ranges []Range
	start := -1
	flush := func(stop int) {
		for off := start; off < stop; off += limit {
			ranges = append(ranges, Range{Offset: off, Limit: min(limit, stop-off)})
		}
		start = -1
	}

	for i := 0; i < end; i++ {
		if l.At(i).IsPending() {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			flush(i)
		}
	}
	if start >= 0 {
		flush(end)
	}
	return ranges
}

// Elements returns the loaded elements in position order.
func (l *ElementList) Elements() []Element {
	result := make([]Element, 0, l.LoadedCount())
	for _, s := range l.slots() {
		if e, ok := s.Element(); ok {
			result = append(result, e)
		}
	}
	return result
}

func (l *ElementList) slots() []Slot {
	if l == nil {
		return nil
	}
	return l.Slots
}
