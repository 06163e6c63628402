package internal

import (
	"strings"

	"github.com/mattn/go-runewidth"

	"tudu/internal/breakpoint"
	"tudu/internal/scrollbar"
)

const (
	defaultWidth = 80
	minRowWidth  = 16
	checkboxX    = 2
	textX        = 6
)

// control is a clickable label on the controls line.
type control struct {
	label    string
	x0, x1   int
	active   bool
	disabled bool
	action   func()
}

func (m *InteractiveTodoList) viewWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

// rowWidth leaves one blank column and the scrollbar column on the right.
func (m *InteractiveTodoList) rowWidth() int {
	return max(m.viewWidth()-2, minRowWidth)
}

func (m *InteractiveTodoList) scrollbarX() int {
	return m.rowWidth() + 1
}

func (m *InteractiveTodoList) deleteX() int {
	return m.rowWidth() - 1
}

func (m *InteractiveTodoList) controlsY() int {
	return listTop + m.list.height + 1
}

// controls lays out the footer: the items-left counter, one button per
// filter and the clear button.
func (m *InteractiveTodoList) controls() []control {
	x := runewidth.StringWidth(ItemsLeftLabel(m.itemsLeft)) + 2

	var cs []control
	for _, f := range GetAllFilters() {
		label := "[" + f.Label() + "]"
		w := runewidth.StringWidth(label)
		cs = append(cs, control{
			label:  label,
			x0:     x,
			x1:     x + w,
			active: f == m.filter,
			action: func() { m.setFilter(f) },
		})
		x += w + 1
	}

	x++
	label := "[Clear Completed]"
	cs = append(cs, control{
		label:    label,
		x0:       x,
		x1:       x + runewidth.StringWidth(label),
		disabled: m.total == 0,
		action:   m.clearCompleted,
	})
	return cs
}

func (m *InteractiveTodoList) View() string {
	if m.quit {
		return ""
	}

	lines := make([]string, 0, m.list.height+chromeLines)

	title := titleStyle.Render("todos")
	if bp := m.watcher.Current(); bp != breakpoint.Unknown {
		title += " " + breakpointStyle.Render(bp.String())
	}
	lines = append(lines, title, m.input.View(), "")
	lines = append(lines, m.renderList()...)
	lines = append(lines, "", m.renderControls(), m.help.View(m.keys))

	switch {
	case m.confirmDelete:
		lines = append(lines, statusStyle.Render("Delete this todo? (y/n)"))
	case m.status != "":
		lines = append(lines, statusStyle.Render(m.status))
	}
	return strings.Join(lines, "\n")
}

func (m *InteractiveTodoList) renderList() []string {
	rowWidth := m.rowWidth()
	lines := make([]string, m.list.height)

	if len(m.todos) == 0 {
		lines[0] = emptyStyle.Render(m.emptyMessage())
		return lines
	}

	first := m.list.firstLine()
	textLine := (m.list.rowHeight - 1) / 2
	for i := range lines {
		row := strings.Repeat(" ", rowWidth)
		content := first + i
		idx := content / m.list.rowHeight
		if idx < len(m.todos) && content%m.list.rowHeight == textLine {
			row = m.renderRow(m.todos[idx], idx == m.cursor && m.focus == focusList, rowWidth)
		}
		lines[i] = row + " " + m.renderTrackCell(i)
	}
	return lines
}

func (m *InteractiveTodoList) renderRow(t Todo, selected bool, width int) string {
	marker := "  "
	if selected {
		marker = cursorStyle.Render("›") + " "
	}

	textWidth := width - textX - 2
	text := runewidth.Truncate(t.Text, textWidth, "…")
	text = runewidth.FillRight(text, textWidth)
	if t.Completed {
		text = completedTextStyle.Render(text)
	}

	return marker + checkboxStyle.Render(t.DisplayCheckbox()) + " " + text + " " + deleteStyle.Render("✕")
}

// renderTrackCell draws one line of the scrollbar column. A line belongs
// to the thumb when its midpoint falls inside it; clicks use the same test.
func (m *InteractiveTodoList) renderTrackCell(line int) string {
	if !m.scroll.Visible() {
		return " "
	}
	if m.scroll.HitThumb(float64(line) + 0.5) {
		if m.scroll.State() == scrollbar.Dragging {
			return thumbDraggingStyle.Render("┃")
		}
		return thumbStyle.Render("┃")
	}
	return trackStyle.Render("│")
}

func (m *InteractiveTodoList) renderControls() string {
	var b strings.Builder
	b.WriteString(ItemsLeftLabel(m.itemsLeft))
	x := runewidth.StringWidth(ItemsLeftLabel(m.itemsLeft))

	for _, c := range m.controls() {
		b.WriteString(strings.Repeat(" ", c.x0-x))
		switch {
		case c.disabled:
			b.WriteString(disabledButtonStyle.Render(c.label))
		case c.active:
			b.WriteString(activeButtonStyle.Render(c.label))
		default:
			b.WriteString(buttonStyle.Render(c.label))
		}
		x = c.x1
	}
	return b.String()
}

func (m *InteractiveTodoList) emptyMessage() string {
	switch m.filter {
	case FilterActive:
		return "Nothing left to do."
	case FilterCompleted:
		return "Nothing completed yet."
	default:
		return "No todos yet. Press tab to add one."
	}
}
