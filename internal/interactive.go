package internal

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tudu/internal/breakpoint"
	"tudu/internal/layout"
	"tudu/internal/scrollbar"
)

type focusArea int

const (
	focusList focusArea = iota
	focusInput
)

const (
	inputLine   = 1
	listTop     = 3 // title, input, blank
	chromeLines = listTop + 4
)

var copyToClipboard = clipboard.WriteAll

// InteractiveOptions tunes the terminal list. Zero values take the
// terminal defaults.
type InteractiveOptions struct {
	Thresholds     breakpoint.Thresholds
	Layout         layout.Table
	MinThumbHeight float64
	Logger         *slog.Logger
}

// InteractiveTodoList is the bubbletea model of the full-screen todo list.
type InteractiveTodoList struct {
	ctx    context.Context
	store  *Store
	logger *slog.Logger
	keys   keyMap
	help   help.Model
	input  textinput.Model
	focus  focusArea

	todos     []Todo
	filter    Filter
	itemsLeft int
	total     int
	cursor    int

	confirmDelete bool
	status        string
	quit          bool

	width   int
	height  int
	watcher *breakpoint.Watcher
	table   layout.Table
	policy  layout.Policy

	list            *listView
	containerEvents *scrollbar.Target
	document        *scrollbar.Target
	scroll          *scrollbar.Controller
	unsubscribe     func()
}

func NewInteractiveTodoList(ctx context.Context, store *Store, opts InteractiveOptions) *InteractiveTodoList {
	if opts.Thresholds == (breakpoint.Thresholds{}) {
		opts.Thresholds = breakpoint.TerminalThresholds
	}
	if opts.Layout == nil {
		opts.Layout = layout.TerminalTable
	}
	if opts.MinThumbHeight <= 0 {
		opts.MinThumbHeight = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	input := textinput.New()
	input.Prompt = "❯ "
	input.Placeholder = "What needs to be done?"
	input.CharLimit = 256

	m := &InteractiveTodoList{
		ctx:             ctx,
		store:           store,
		logger:          opts.Logger,
		keys:            defaultKeyMap(),
		help:            help.New(),
		input:           input,
		table:           opts.Layout,
		list:            &listView{},
		containerEvents: &scrollbar.Target{},
		document:        &scrollbar.Target{},
	}
	m.watcher = breakpoint.NewWatcher(opts.Thresholds, m.onBreakpoint)
	m.policy = m.table.For(breakpoint.Unknown)
	m.applyLayout()

	m.scroll = scrollbar.New(m.list, listTrack{list: m.list},
		scrollbar.WithMinThumbHeight(opts.MinThumbHeight),
		scrollbar.WithDocument(m.document),
		scrollbar.WithLogger(m.logger),
	)
	m.scroll.Observe(m.containerEvents)
	m.scroll.SetEnabled(m.policy.Scrollbar)

	m.unsubscribe = store.Subscribe(m.syncFromStore)
	m.syncFromStore()

	if len(m.todos) == 0 {
		m.focus = focusInput
		m.input.Focus()
	}
	return m
}

func (m *InteractiveTodoList) Init() tea.Cmd {
	if m.focus == focusInput {
		return textinput.Blink
	}
	return nil
}

// Close detaches the model from the store and tears the scrollbar down.
func (m *InteractiveTodoList) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
	m.scroll.Close()
	m.list.detached = true
}

func (m *InteractiveTodoList) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.input.Width = max(10, msg.Width-4)
		m.watcher.Update(msg.Width)
		m.applyLayout()
		return m, nil

	case tea.BlurMsg:
		// The release of a drag that leaves the terminal never arrives.
		m.document.Dispatch(scrollbar.Event{Type: scrollbar.EventPointerUp})
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if m.focus == focusInput {
			return m.updateInput(msg)
		}
		return m.updateList(msg)
	}

	if m.focus == focusInput {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *InteractiveTodoList) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m.quitProgram()
	case tea.KeyEnter:
		m.addFromInput()
		return m, nil
	case tea.KeyEsc, tea.KeyTab:
		m.focusOnList()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *InteractiveTodoList) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirmDelete {
		switch {
		case key.Matches(msg, m.keys.Confirm):
			m.confirmDelete = false
			m.deleteAt(m.cursor)
		case key.Matches(msg, m.keys.Cancel):
			m.confirmDelete = false
		}
		return m, nil
	}

	m.status = ""
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quitProgram()
	case key.Matches(msg, m.keys.Up):
		m.setCursor(m.cursor - 1)
	case key.Matches(msg, m.keys.Down):
		m.setCursor(m.cursor + 1)
	case key.Matches(msg, m.keys.Top):
		m.setCursor(0)
	case key.Matches(msg, m.keys.Bottom):
		m.setCursor(len(m.todos) - 1)
	case key.Matches(msg, m.keys.Toggle):
		m.toggleAt(m.cursor)
	case key.Matches(msg, m.keys.Delete):
		if m.cursor < len(m.todos) {
			m.confirmDelete = true
		}
	case key.Matches(msg, m.keys.FilterNext):
		m.setFilter(m.filter.Next())
	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(FilterAll)
	case key.Matches(msg, m.keys.FilterActive):
		m.setFilter(FilterActive)
	case key.Matches(msg, m.keys.FilterDone):
		m.setFilter(FilterCompleted)
	case key.Matches(msg, m.keys.ClearCompleted):
		m.clearCompleted()
	case key.Matches(msg, m.keys.Copy):
		m.copySelected()
	case key.Matches(msg, m.keys.Reload):
		if err := m.store.Reload(m.ctx); err != nil {
			m.status = err.Error()
		}
	case key.Matches(msg, m.keys.Focus):
		return m, m.focusOnInput()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *InteractiveTodoList) quitProgram() (tea.Model, tea.Cmd) {
	m.quit = true
	m.Close()
	return m, tea.Quit
}

func (m *InteractiveTodoList) handleMouse(msg tea.MouseMsg) tea.Cmd {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollBy(-m.policy.RowHeight)
		return nil
	case tea.MouseButtonWheelDown:
		m.scrollBy(m.policy.RowHeight)
		return nil
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.document.Dispatch(scrollbar.Event{Type: scrollbar.EventPointerMove, Y: float64(msg.Y - listTop)})
	case tea.MouseActionRelease:
		m.document.Dispatch(scrollbar.Event{Type: scrollbar.EventPointerUp})
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			return m.handleClick(msg.X, msg.Y)
		}
	}
	return nil
}

func (m *InteractiveTodoList) handleClick(x, y int) tea.Cmd {
	if y == inputLine {
		return m.focusOnInput()
	}

	if line := y - listTop; line >= 0 && line < m.list.height {
		if x == m.scrollbarX() {
			if m.scroll.HitThumb(float64(line) + 0.5) {
				m.scroll.PointerDown(float64(line))
			}
			return nil
		}
		m.focusOnList()
		idx := m.list.rowAt(line)
		if idx < 0 {
			return nil
		}
		m.setCursor(idx)
		switch {
		case x >= checkboxX && x < checkboxX+3:
			m.toggleAt(idx)
		case x == m.deleteX():
			m.deleteAt(idx)
		}
		return nil
	}

	if y == m.controlsY() {
		for _, c := range m.controls() {
			if x >= c.x0 && x < c.x1 && !c.disabled {
				c.action()
				break
			}
		}
	}
	return nil
}

func (m *InteractiveTodoList) onBreakpoint(from, to breakpoint.Breakpoint) {
	m.policy = m.table.For(to)
	m.logger.Debug("breakpoint changed", "from", from, "to", to,
		"rows", m.policy.VisibleRows, "row_height", m.policy.RowHeight)
}

// applyLayout sizes the list container from the current policy and the
// terminal height, then signals the resize.
func (m *InteractiveTodoList) applyLayout() {
	h := m.policy.ContainerHeight()
	if m.height > 0 {
		h = min(h, m.height-chromeLines)
	}
	m.list.rowHeight = m.policy.RowHeight
	m.list.height = max(h, 1)
	m.list.clampScroll()

	if m.scroll != nil {
		m.scroll.SetEnabled(m.policy.Scrollbar)
		m.containerEvents.Dispatch(scrollbar.Event{Type: scrollbar.EventResize})
	}
}

// syncFromStore runs after every store change.
func (m *InteractiveTodoList) syncFromStore() {
	m.filter = m.store.Filter()
	m.todos = m.store.Visible()
	m.itemsLeft = m.store.ItemsLeft()
	m.total = len(m.store.Todos())

	if m.cursor >= len(m.todos) {
		m.cursor = max(len(m.todos)-1, 0)
	}

	m.list.rows = len(m.todos)
	m.list.clampScroll()
	m.containerEvents.Dispatch(scrollbar.Event{Type: scrollbar.EventMutation})
}

func (m *InteractiveTodoList) setCursor(i int) {
	if len(m.todos) == 0 {
		m.cursor = 0
		return
	}
	m.cursor = max(0, min(i, len(m.todos)-1))
	if m.list.reveal(m.cursor) {
		m.containerEvents.Dispatch(scrollbar.Event{Type: scrollbar.EventScroll})
	}
}

func (m *InteractiveTodoList) scrollBy(lines int) {
	m.list.ScrollBy(float64(lines))
	m.containerEvents.Dispatch(scrollbar.Event{Type: scrollbar.EventScroll})
}

func (m *InteractiveTodoList) focusOnInput() tea.Cmd {
	m.focus = focusInput
	m.confirmDelete = false
	return m.input.Focus()
}

func (m *InteractiveTodoList) focusOnList() {
	m.focus = focusList
	m.input.Blur()
}

func (m *InteractiveTodoList) addFromInput() {
	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return
	}
	if _, err := m.store.Add(m.ctx, text); err != nil {
		m.status = fmt.Sprintf("Failed to add todo: %v", err)
		return
	}
	m.input.Reset()
}

func (m *InteractiveTodoList) toggleAt(idx int) {
	if idx < 0 || idx >= len(m.todos) {
		return
	}
	if _, err := m.store.Toggle(m.ctx, m.todos[idx].ID); err != nil {
		m.status = fmt.Sprintf("Failed to toggle todo: %v", err)
	}
}

func (m *InteractiveTodoList) deleteAt(idx int) {
	if idx < 0 || idx >= len(m.todos) {
		return
	}
	if err := m.store.Delete(m.ctx, m.todos[idx].ID); err != nil {
		m.status = fmt.Sprintf("Failed to delete todo: %v", err)
	}
}

func (m *InteractiveTodoList) setFilter(f Filter) {
	if f == m.filter {
		return
	}
	if err := m.store.SetFilter(m.ctx, f); err != nil {
		m.status = fmt.Sprintf("Failed to set filter: %v", err)
		return
	}
	m.cursor = 0
	m.list.ScrollTo(0)
	m.containerEvents.Dispatch(scrollbar.Event{Type: scrollbar.EventScroll})
}

func (m *InteractiveTodoList) clearCompleted() {
	n, err := m.store.ClearCompleted(m.ctx)
	if err != nil {
		m.status = fmt.Sprintf("Failed to clear completed: %v", err)
		return
	}
	if n > 0 {
		m.status = fmt.Sprintf("%d completed todo(s) cleared.", n)
	}
}

func (m *InteractiveTodoList) copySelected() {
	if m.cursor >= len(m.todos) {
		return
	}
	if err := copyToClipboard(m.todos[m.cursor].Text); err != nil {
		m.status = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.status = "Copied to clipboard."
}

// RunInteractive shows the list full-screen until the user quits.
func RunInteractive(ctx context.Context, store *Store, opts InteractiveOptions) error {
	model := NewInteractiveTodoList(ctx, store, opts)
	defer model.Close()

	p := tea.NewProgram(model,
		tea.WithContext(ctx),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithReportFocus(),
	)
	_, err := p.Run()
	return err
}
