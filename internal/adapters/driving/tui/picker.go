package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/custodia-labs/attrfilter/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/attrfilter/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/attrfilter/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/attrfilter/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/attrfilter/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/attrfilter/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/attrfilter/internal/core/domain"
	"github.com/custodia-labs/attrfilter/internal/core/ports/driving"
)

// chromeLines is the number of lines around the element list.
const chromeLines = 6

// Picker browses the elements of a saved filter's display form and edits
// its selection. Pages load lazily as the cursor reaches pending rows.
// It implements tea.Model for use with Bubbletea.
type Picker struct {
	ports    *Ports
	filterID string
	ctx      context.Context
	handler  driving.AttributeFilterHandler

	styles *styles.Styles
	keymap *keymap.KeyMap
	help   help.Model
	list   *list.ElementList
	search *input.SearchInput
	bar    *status.Bar

	showHelp bool
	loading  bool
	quitting bool
	width    int
}

// Ensure Picker implements tea.Model.
var _ tea.Model = (*Picker)(nil)

// NewPicker opens the saved filter and prepares a picker over it.
func NewPicker(ctx context.Context, ports *Ports, filterID string) (*Picker, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating picker: %w", err)
	}
	if filterID == "" {
		return nil, ErrMissingFilterID
	}

	handler, err := ports.Filters.Open(ctx, filterID)
	if err != nil {
		return nil, fmt.Errorf("opening filter: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	p := &Picker{
		ports:    ports,
		filterID: filterID,
		ctx:      ctx,
		handler:  handler,
		styles:   s,
		keymap:   km,
		help:     help.New(),
		list:     list.NewElementList(s, handler.ElementsBy()),
		search:   input.NewSearchInput(s),
		bar:      status.NewBar(s, km),
		width:    80,
	}
	p.refresh()
	return p, nil
}

// Init loads the total count, the selected elements and the first page.
func (p *Picker) Init() tea.Cmd {
	p.loading = true
	return func() tea.Msg {
		if err := p.handler.Init(p.ctx); err != nil {
			return messages.Initialised{Err: err}
		}
		return messages.PageLoaded{Err: p.handler.LoadInitialPage(p.ctx, uuid.NewString())}
	}
}

// Update handles messages.
func (p *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		p.width = msg.Width
		p.list.SetDimensions(msg.Width, max(msg.Height-chromeLines, 1))
		p.search.SetWidth(msg.Width)
		p.bar.SetWidth(msg.Width)
		p.help.Width = msg.Width
		return p, p.loadVisible()

	case messages.Initialised:
		p.loading = false
		p.showError(msg.Err)
		p.refresh()
		return p, nil

	case messages.PageLoaded:
		p.loading = false
		if !errors.Is(msg.Err, domain.ErrStaleLoad) {
			p.showError(msg.Err)
		}
		p.refresh()
		if msg.Err != nil {
			return p, nil
		}
		return p, p.loadVisible()

	case messages.SearchChanged:
		p.handler.SetSearch(msg.Search)
		p.list.Reset()
		p.refresh()
		p.loading = true
		return p, p.loadCmd(func(ctx context.Context, corr string) error {
			return p.handler.LoadInitialPage(ctx, corr)
		})

	case messages.FilterSaved:
		p.showError(msg.Err)
		if p.quitting {
			return p, tea.Quit
		}
		return p, nil

	case tea.KeyMsg:
		if p.search.Focused() {
			return p.updateSearch(msg)
		}
		return p.updateKeys(msg)
	}
	return p, nil
}

func (p *Picker) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, p.keymap.Commit):
		p.search.Blur()
		p.bar.SetSearching(false)
		search := p.search.Value()
		return p, func() tea.Msg { return messages.SearchChanged{Search: search} }
	case key.Matches(msg, p.keymap.Cancel):
		p.search.Blur()
		p.search.SetValue(p.handler.Search())
		p.bar.SetSearching(false)
		return p, nil
	}
	var cmd tea.Cmd
	p.search, cmd = p.search.Update(msg)
	return p, cmd
}

func (p *Picker) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	p.bar.SetMessage("")

	switch {
	case key.Matches(msg, p.keymap.Quit):
		p.quitting = true
		return p, p.saveCmd()
	case key.Matches(msg, p.keymap.Help):
		p.showHelp = !p.showHelp
	case key.Matches(msg, p.keymap.Up):
		p.list.MoveUp()
	case key.Matches(msg, p.keymap.Down):
		p.list.MoveDown()
		return p, p.loadVisible()
	case key.Matches(msg, p.keymap.PageDown):
		p.list.PageDown()
		return p, p.loadVisible()
	case key.Matches(msg, p.keymap.Search):
		p.bar.SetSearching(true)
		return p, p.search.Focus()
	case key.Matches(msg, p.keymap.Toggle):
		p.toggleCurrent()
	case key.Matches(msg, p.keymap.Only):
		if e, ok := p.list.Current(); ok {
			p.apply(domain.SelectionOp{Kind: domain.OpOnly, Keys: []string{e.Key(p.handler.ElementsBy())}})
		}
	case key.Matches(msg, p.keymap.All):
		p.apply(domain.SelectionOp{Kind: domain.OpAll})
	case key.Matches(msg, p.keymap.None):
		p.apply(domain.SelectionOp{Kind: domain.OpNone})
	case key.Matches(msg, p.keymap.Invert):
		p.apply(domain.SelectionOp{Kind: domain.OpInvert})
	case key.Matches(msg, p.keymap.Revert):
		p.handler.Revert()
		p.refresh()
	case key.Matches(msg, p.keymap.Commit):
		p.handler.Commit()
		p.refresh()
		return p, p.saveCmd()
	}
	return p, nil
}

func (p *Picker) toggleCurrent() {
	e, ok := p.list.Current()
	if !ok {
		return
	}
	k := e.Key(p.handler.ElementsBy())
	kind := domain.OpAdd
	if p.handler.WorkingSelection().IsSelected(k) {
		kind = domain.OpRemove
	}
	p.apply(domain.SelectionOp{Kind: kind, Keys: []string{k}})
}

func (p *Picker) apply(op domain.SelectionOp) {
	p.showError(p.handler.Apply(op))
	p.refresh()
}

// loadVisible loads the first pending page on screen, if any.
func (p *Picker) loadVisible() tea.Cmd {
	if p.loading || !p.list.PendingOnScreen() {
		return nil
	}

	items := p.handler.Items()
	start, count := p.list.Window()
	offset := -1
	for i := start; i < start+count; i++ {
		if items.At(i).IsPending() {
			offset = i
			break
		}
	}
	if offset < 0 {
		return nil
	}

	p.loading = true
	if offset == items.NextOffset() {
		return p.loadCmd(func(ctx context.Context, corr string) error {
			return p.handler.LoadNextPage(ctx, corr)
		})
	}
	limit := p.handler.Limit()
	return p.loadCmd(func(ctx context.Context, corr string) error {
		return p.handler.LoadRange(ctx, offset, limit, corr)
	})
}

func (p *Picker) loadCmd(load func(ctx context.Context, correlation string) error) tea.Cmd {
	ctx := p.ctx
	corr := uuid.NewString()
	return func() tea.Msg {
		return messages.PageLoaded{Correlation: corr, Err: load(ctx, corr)}
	}
}

func (p *Picker) saveCmd() tea.Cmd {
	return func() tea.Msg {
		_, err := p.ports.Filters.Save(p.ctx, p.filterID, p.handler)
		return messages.FilterSaved{Err: err}
	}
}

func (p *Picker) showError(err error) {
	if err != nil {
		p.bar.SetMessage("Error: " + err.Error())
	}
}

// refresh copies handler state into the components.
func (p *Picker) refresh() {
	items := p.handler.Items()
	working := p.handler.WorkingSelection()

	p.list.SetItems(items)
	p.list.SetSelection(working)
	p.bar.SetLoad(p.handler.Status(), items.LoadedCount(), p.handler.CountWithCurrentSettings())
	p.bar.SetSelection(working.State(p.handler.TotalCount()), !working.Equal(p.handler.CommittedSelection()))
}

// View renders the picker.
func (p *Picker) View() string {
	if p.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(p.styles.Title.Render("Pick elements of " + p.handler.DisplayForm()))
	b.WriteString("\n")
	b.WriteString(p.search.View())
	b.WriteString("\n\n")
	b.WriteString(p.list.View())
	b.WriteString("\n\n")
	if p.showHelp {
		b.WriteString(p.help.FullHelpView(p.keymap.FullHelp()))
		b.WriteString("\n")
	}
	b.WriteString(p.bar.View())
	return b.String()
}

// Handler returns the handler the picker edits.
func (p *Picker) Handler() driving.AttributeFilterHandler {
	return p.handler
}
