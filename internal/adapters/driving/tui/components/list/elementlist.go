// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/attrfilter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/attrfilter/internal/core/domain"
)

// ElementList renders a sparse element list with selection marks.
// Rows run up to the total count so the cursor can move onto positions
// whose page has not been loaded yet.
type ElementList struct {
	items     *domain.ElementList
	selection domain.Selection
	by        domain.ElementsBy
	cursor    int
	styles    *styles.Styles
	width     int
	height    int
}

// NewElementList creates an empty element list.
func NewElementList(s *styles.Styles, by domain.ElementsBy) *ElementList {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &ElementList{
		by:     by,
		styles: s,
		width:  80,
		height: 10,
	}
}

// SetItems replaces the rendered elements. The cursor is clamped.
func (l *ElementList) SetItems(items *domain.ElementList) {
	l.items = items
	l.clamp()
}

// SetSelection sets the selection used for the check marks.
func (l *ElementList) SetSelection(sel domain.Selection) {
	l.selection = sel
}

// Len returns the number of rows.
func (l *ElementList) Len() int {
	if l.items == nil {
		return 0
	}
	return max(l.items.Len(), l.items.TotalCount)
}

// Cursor returns the cursor row.
func (l *ElementList) Cursor() int {
	return l.cursor
}

// Current returns the element under the cursor, or false when its
// row is pending.
func (l *ElementList) Current() (domain.Element, bool) {
	return l.items.At(l.cursor).Element()
}

// MoveUp moves the cursor up one row.
func (l *ElementList) MoveUp() {
	if l.cursor > 0 {
		l.cursor--
	}
}

// MoveDown moves the cursor down one row.
func (l *ElementList) MoveDown() {
	l.cursor++
	l.clamp()
}

// PageDown moves the cursor down one screen.
func (l *ElementList) PageDown() {
	l.cursor += l.visibleRows()
	l.clamp()
}

// Reset moves the cursor back to the first row.
func (l *ElementList) Reset() {
	l.cursor = 0
}

// Window returns the first row and the row count currently on screen.
func (l *ElementList) Window() (start, count int) {
	rows := l.visibleRows()
	if l.cursor >= rows {
		start = l.cursor - rows + 1
	}
	count = min(rows, l.Len()-start)
	return start, max(count, 0)
}

// PendingOnScreen reports whether any visible row is still pending.
func (l *ElementList) PendingOnScreen() bool {
	start, count := l.Window()
	for i := start; i < start+count; i++ {
		if l.items.At(i).IsPending() {
			return true
		}
	}
	return false
}

// View renders the visible rows.
func (l *ElementList) View() string {
	if l.Len() == 0 {
		return l.styles.Muted.Render("No elements")
	}

	start, count := l.Window()
	lines := make([]string, 0, count)
	for i := start; i < start+count; i++ {
		lines = append(lines, l.renderRow(i))
	}
	return strings.Join(lines, "\n")
}

func (l *ElementList) renderRow(i int) string {
	indicator := "  "
	if i == l.cursor {
		indicator = "> "
	}

	e, ok := l.items.At(i).Element()
	if !ok {
		line := fmt.Sprintf("%s    %s", indicator, "loading...")
		if i == l.cursor {
			return l.styles.Cursor.Render(line)
		}
		return l.styles.Pending.Render(line)
	}

	mark := "[ ]"
	if l.selection.IsSelected(e.Key(l.by)) {
		mark = "[x]"
	}
	title := truncate(e.Title, max(l.width-10, 10))
	if title == "" {
		title = "(empty)"
	}
	line := fmt.Sprintf("%s%s %s", indicator, mark, title)

	switch {
	case i == l.cursor:
		return l.styles.Cursor.Render(line)
	case mark == "[x]":
		return l.styles.Checked.Render(line)
	default:
		return l.styles.Normal.Render(line)
	}
}

// SetDimensions sets the component dimensions.
func (l *ElementList) SetDimensions(width, height int) {
	l.width = width
	l.height = height
	l.clamp()
}

func (l *ElementList) visibleRows() int {
	return max(l.height, 1)
}

func (l *ElementList) clamp() {
	if n := l.Len(); l.cursor >= n {
		l.cursor = max(n-1, 0)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
