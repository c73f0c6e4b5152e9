package domain

import "fmt"

// SelectionOpKind names an edit of a working selection.
type SelectionOpKind string

// Available selection edits.
const (
	OpAdd    SelectionOpKind = "add"
	OpRemove SelectionOpKind = "remove"
	OpOnly   SelectionOpKind = "only"
	OpAll    SelectionOpKind = "all"
	OpNone   SelectionOpKind = "none"
	OpInvert SelectionOpKind = "invert"
	OpClear  SelectionOpKind = "clear"
)

// SelectionOp is one edit of a working selection.
type SelectionOp struct {
	Kind SelectionOpKind `json:"op"`
	Keys []string        `json:"keys,omitempty"`
}

// Validate checks that the op carries the keys it needs.
func (o SelectionOp) Validate() error {
	switch o.Kind {
	case OpAdd, OpRemove:
		if len(o.Keys) == 0 {
			return fmt.Errorf("%w: %s needs at least one key", ErrInvalidInput, o.Kind)
		}
	case OpOnly:
		if len(o.Keys) != 1 {
			return fmt.Errorf("%w: only needs exactly one key", ErrInvalidInput)
		}
	case OpAll, OpNone, OpInvert, OpClear:
	default:
		return fmt.Errorf("%w: unknown selection op %q", ErrInvalidInput, o.Kind)
	}
	return nil
}

// LoadStatus is the state of the most recent element load.
type LoadStatus string

// Load states.
const (
	LoadPending   LoadStatus = "pending"
	LoadLoading   LoadStatus = "loading"
	LoadSuccess   LoadStatus = "success"
	LoadError     LoadStatus = "error"
	LoadCancelled LoadStatus = "cancelled"
)
