// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/attrfilter/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/attrfilter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// Bar displays load progress, selection state and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	status    domain.LoadStatus
	loaded    int
	total     int
	state     domain.SelectionState
	dirty     bool
	searching bool
	message   string
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		status: domain.LoadPending,
		total:  domain.UnknownTotal,
		state:  domain.SelectionAll,
		width:  80,
	}
}

// View renders the status bar.
func (b *Bar) View() string {
	left := b.renderLeft()
	right := b.renderRight()

	padding := max(b.width-lipgloss.Width(left)-lipgloss.Width(right), 1)

	return b.styles.StatusBar.Width(b.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

func (b *Bar) renderLeft() string {
	if b.message != "" {
		return b.styles.Error.Render(b.message)
	}

	var parts []string
	switch b.status {
	case domain.LoadLoading:
		parts = append(parts, b.styles.Muted.Render("Loading..."))
	case domain.LoadError:
		parts = append(parts, b.styles.Error.Render("Load failed"))
	case domain.LoadPending, domain.LoadSuccess, domain.LoadCancelled:
	}

	if b.total >= 0 {
		parts = append(parts, b.styles.Normal.Render(fmt.Sprintf("%d/%d loaded", b.loaded, b.total)))
	}
	parts = append(parts, b.styles.Subtitle.Render(selectionLabel(b.state)))
	if b.dirty {
		parts = append(parts, b.styles.Dirty.Render("* uncommitted"))
	}
	return strings.Join(parts, "  ")
}

func (b *Bar) renderRight() string {
	var bindings []key.Binding
	if b.searching {
		bindings = b.keymap.SearchHelp()
	} else {
		bindings = b.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

func selectionLabel(state domain.SelectionState) string {
	switch state {
	case domain.SelectionAll:
		return "All selected"
	case domain.SelectionNone:
		return "None selected"
	case domain.SelectionPartialNegative:
		return "All except some"
	case domain.SelectionPartialPositive:
		return "Some selected"
	}
	return string(state)
}

// SetLoad sets the load status and counts. total may be domain.UnknownTotal.
func (b *Bar) SetLoad(status domain.LoadStatus, loaded, total int) {
	b.status = status
	b.loaded = loaded
	b.total = total
}

// SetSelection sets the selection state and whether it is uncommitted.
func (b *Bar) SetSelection(state domain.SelectionState, dirty bool) {
	b.state = state
	b.dirty = dirty
}

// SetSearching switches the hints to the search input bindings.
func (b *Bar) SetSearching(searching bool) {
	b.searching = searching
}

// SetMessage shows a message instead of the load state. Empty clears it.
func (b *Bar) SetMessage(message string) {
	b.message = message
}

// Message returns the current message.
func (b *Bar) Message() string {
	return b.message
}

// SetWidth sets the status bar width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}
