package internal

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
)

var ErrNoSelection = errors.New("no todo selected")

// TodoPicker is a small inline list used by commands that need a todo but
// were not given an ID.
type TodoPicker struct {
	prompt   string
	todos    []Todo
	keys     keyMap
	cursor   int
	selected int
	quit     bool
	width    int
}

func NewTodoPicker(prompt string, todos []Todo) *TodoPicker {
	return &TodoPicker{
		prompt:   prompt,
		todos:    todos,
		keys:     defaultKeyMap(),
		selected: -1,
	}
}

func (m *TodoPicker) Init() tea.Cmd {
	return nil
}

func (m *TodoPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), msg.Type == tea.KeyEsc:
			m.quit = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.todos)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Submit), key.Matches(msg, m.keys.Toggle):
			if len(m.todos) > 0 {
				m.selected = m.cursor
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m *TodoPicker) View() string {
	if m.quit || m.selected >= 0 {
		return ""
	}
	if len(m.todos) == 0 {
		return "No todos found.\n\nPress q to quit."
	}

	width := m.width
	if width <= 0 {
		width = defaultWidth
	}

	var s strings.Builder
	s.WriteString(titleStyle.Render(m.prompt) + "\n\n")
	for i, t := range m.todos {
		cursor := "  "
		if m.cursor == i {
			cursor = cursorStyle.Render("›") + " "
		}
		text := runewidth.Truncate(t.Text, max(width-6, 8), "…")
		if t.Completed {
			text = completedTextStyle.Render(text)
		}
		fmt.Fprintf(&s, "%s%s %s\n", cursor, t.DisplayCheckbox(), text)
	}
	s.WriteString("\n↑/k: up • ↓/j: down • enter: select • q/esc: quit")
	return s.String()
}

// Selected returns the chosen todo, if any.
func (m *TodoPicker) Selected() (Todo, bool) {
	if m.selected < 0 || m.selected >= len(m.todos) {
		return Todo{}, false
	}
	return m.todos[m.selected], true
}

// PickTodo runs a picker over todos and returns the one chosen.
func PickTodo(prompt string, todos []Todo) (Todo, error) {
	if len(todos) == 0 {
		return Todo{}, ErrNotFound
	}

	result, err := tea.NewProgram(NewTodoPicker(prompt, todos)).Run()
	if err != nil {
		return Todo{}, err
	}
	todo, ok := result.(*TodoPicker).Selected()
	if !ok {
		return Todo{}, ErrNoSelection
	}
	return todo, nil
}
