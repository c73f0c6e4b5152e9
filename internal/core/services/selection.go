package services

import (
	"fmt"
	"sync"

	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
	"github.com/custodia-labs/attrfilter/internal/metrics"
)

// StagedSelection keeps a working selection that is edited freely and a
// committed selection that changes only on Commit.
//
// In single mode the working selection is never inverted and holds at
// most one key.
type StagedSelection struct {
	mode    domain.SelectionMode
	metrics *metrics.Collector

	mu        sync.Mutex
	working   domain.Selection
	committed domain.Selection

	onChanged   callbacks[driving.SelectionEvent]
	onCommitted callbacks[driving.SelectionEvent]
}

// NewStagedSelection creates a staged selection with both copies set to
// initial. In single mode initial is reduced to its first key.
func NewStagedSelection(mode domain.SelectionMode, initial domain.Selection, collector *metrics.Collector) *StagedSelection {
	if mode == "" {
		mode = domain.SelectionModeMulti
	}
	if mode == domain.SelectionModeSingle {
		initial = singleOf(initial)
	}
	return &StagedSelection{
		mode:      mode,
		metrics:   collector,
		working:   initial,
		committed: initial,
	}
}

// Mode returns the selection mode.
func (s *StagedSelection) Mode() domain.SelectionMode {
	return s.mode
}

// Working returns the selection being edited.
func (s *StagedSelection) Working() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.working
}

// Committed returns the last committed selection.
func (s *StagedSelection) Committed() domain.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.committed
}

// Change replaces the working selection.
func (s *StagedSelection) Change(sel domain.Selection) error {
	if s.mode == domain.SelectionModeSingle && (sel.Inverted || sel.Items.Len() > 1) {
		return fmt.Errorf("%w: selection must hold at most one key", domain.ErrSingleSelection)
	}
	s.set(sel)
	return nil
}

// Apply runs op against the working selection. total is the element count
// used to collapse full selections; pass domain.UnknownTotal if unknown.
func (s *StagedSelection) Apply(op domain.SelectionOp, total int) error {
	if err := op.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	next, err := s.next(s.working, op, total)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.working = next
	s.mu.Unlock()

	s.metrics.RecordSelectionChange(string(op.Kind))
	s.onChanged.emit(driving.SelectionEvent{Selection: next})
	return nil
}

func (s *StagedSelection) next(cur domain.Selection, op domain.SelectionOp, total int) (domain.Selection, error) {
	single := s.mode == domain.SelectionModeSingle

	switch op.Kind {
	case domain.OpAdd:
		if single {
			return domain.SelectOnly(op.Keys[len(op.Keys)-1]), nil
		}
		return domain.AddToSelection(cur, op.Keys, total), nil
	case domain.OpRemove:
		return domain.RemoveFromSelection(cur, op.Keys, total), nil
	case domain.OpOnly:
		return domain.SelectOnly(op.Keys[0]), nil
	case domain.OpAll:
		if single {
			return cur, fmt.Errorf("%w: cannot select all", domain.ErrSingleSelection)
		}
		return domain.SelectAll(), nil
	case domain.OpNone:
		return domain.SelectNone(), nil
	case domain.OpInvert:
		if single {
			return cur, fmt.Errorf("%w: cannot invert", domain.ErrSingleSelection)
		}
		return domain.Invert(cur), nil
	case domain.OpClear:
		if single {
			return domain.SelectNone(), nil
		}
		return domain.SelectAll(), nil
	}
	return cur, fmt.Errorf("%w: unknown selection op %q", domain.ErrInvalidInput, op.Kind)
}

// Commit makes the working selection the committed one.
func (s *StagedSelection) Commit() {
	s.mu.Lock()
	s.committed = s.working
	sel := s.committed
	s.mu.Unlock()

	s.onCommitted.emit(driving.SelectionEvent{Selection: sel})
}

// Revert restores the working selection from the committed one.
func (s *StagedSelection) Revert() {
	s.mu.Lock()
	s.working = s.committed
	sel := s.working
	s.mu.Unlock()

	s.onChanged.emit(driving.SelectionEvent{Selection: sel})
}

// IsDirty reports whether working and committed selections differ.
func (s *StagedSelection) IsDirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.working.Equal(s.committed)
}

// OnChanged registers a callback for working selection changes.
func (s *StagedSelection) OnChanged(fn func(driving.SelectionEvent)) driving.Unsubscribe {
	return s.onChanged.subscribe(fn)
}

// OnCommitted registers a callback for commits.
func (s *StagedSelection) OnCommitted(fn func(driving.SelectionEvent)) driving.Unsubscribe {
	return s.onCommitted.subscribe(fn)
}

func (s *StagedSelection) set(sel domain.Selection) {
	s.mu.Lock()
	s.working = sel
	s.mu.Unlock()

	s.onChanged.emit(driving.SelectionEvent{Selection: sel})
}

// singleOf reduces a selection to the positive selection of its first key.
func singleOf(sel domain.Selection) domain.Selection {
	keys := sel.Items.Keys()
	if len(keys) == 0 {
		return domain.SelectNone()
	}
	return domain.SelectOnly(keys[0])
}
