package domain

// UnknownTotal marks a total count that has not been loaded yet.
const UnknownTotal = -1

// SelectionState is the logical state of a Selection.
type SelectionState string

// Selection states.
const (
	// SelectionAll selects every element: inverted with no exclusions.
	SelectionAll SelectionState = "ALL"

	// SelectionNone selects nothing: not inverted with no items.
	SelectionNone SelectionState = "NONE"

	// SelectionPartialPositive selects only the listed items.
	SelectionPartialPositive SelectionState = "PARTIAL_POSITIVE"

	// SelectionPartialNegative selects everything except the listed items.
	SelectionPartialNegative SelectionState = "PARTIAL_NEGATIVE"
)

// Selection is an invertible set of element keys. When Inverted is false
// exactly Items are selected; when true, everything except Items is.
// Selections are values: every operation returns a new one.
type Selection struct {
	Inverted bool   `json:"isInverted"`
	Items    KeySet `json:"items"`
}

// SelectAll returns the selection of every element.
func SelectAll() Selection {
	return Selection{Inverted: true}
}

// SelectNone returns the empty selection.
func SelectNone() Selection {
	return Selection{}
}

// SelectOnly returns a selection of the single key.
func SelectOnly(key string) Selection {
	return Selection{Items: NewKeySet(key)}
}

// IsSelected reports whether key is part of the selection.
func (s Selection) IsSelected(key string) bool {
	return s.Inverted != s.Items.Has(key)
}

// State classifies the selection. A positive selection holding total
// items reports SelectionAll once total is known.
func (s Selection) State(total int) SelectionState {
	n := s.Items.Len()
	switch {
	case s.Inverted && n == 0:
		return SelectionAll
	case !s.Inverted && n == 0:
		return SelectionNone
	case total > 0 && n == total && !s.Inverted:
		return SelectionAll
	case total > 0 && n == total && s.Inverted:
		return SelectionNone
	case s.Inverted:
		return SelectionPartialNegative
	default:
		return SelectionPartialPositive
	}
}

// Equal reports whether both selections have the same polarity and keys.
func (s Selection) Equal(other Selection) bool {
	return s.Inverted == other.Inverted && s.Items.Equal(other.Items)
}

// AddToSelection returns cur with keys selected. For an inverted selection
// that removes the keys from the exclusions; otherwise the keys are
// appended. The result is canonicalised against total.
func AddToSelection(cur Selection, keys []string, total int) Selection {
	next := Selection{Inverted: cur.Inverted}
	if cur.Inverted {
		next.Items = cur.Items.Without(keys...)
	} else {
		next.Items = cur.Items.With(keys...)
	}
	return Canonicalize(next, total)
}

// RemoveFromSelection returns cur with keys deselected. For an inverted
// selection the keys join the exclusions; otherwise they are removed.
// The result is canonicalised against total.
func RemoveFromSelection(cur Selection, keys []string, total int) Selection {
	next := Selection{Inverted: cur.Inverted}
	if cur.Inverted {
		next.Items = cur.Items.With(keys...)
	} else {
		next.Items = cur.Items.Without(keys...)
	}
	return Canonicalize(next, total)
}

// Canonicalize collapses a selection that lists every element: a positive
// selection of total items becomes SelectAll and an inverted one becomes
// SelectNone. Nothing collapses while total is unknown or zero.
func Canonicalize(s Selection, total int) Selection {
	if total <= 0 || s.Items.Len() != total {
		return s
	}
	if s.Inverted {
		return SelectNone()
	}
	return SelectAll()
}

// Invert flips the polarity of s and keeps its items.
func Invert(s Selection) Selection {
	return Selection{Inverted: !s.Inverted, Items: s.Items}
}
