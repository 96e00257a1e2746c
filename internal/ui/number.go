package ui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xaenox/discord-catchup/internal/navigator"
)

func (TerminalPrompter) Number(title string, def, min, max int) (navigator.Result[int], error) {
	m := newNumberModel(title, def, min, max)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return navigator.Result[int]{}, fmt.Errorf("running number prompt: %w", err)
	}

	nm := final.(numberModel)
	if nm.cancelled {
		return navigator.Cancelled[int](), nil
	}
	return navigator.Selected(nm.value), nil
}

type numberModel struct {
	input     textinput.Model
	title     string
	def       int
	min       int
	max       int
	value     int
	done      bool
	cancelled bool
	errMsg    string
}

func newNumberModel(title string, def, min, max int) numberModel {
	input := textinput.New()
	input.Placeholder = strconv.Itoa(def)
	input.CharLimit = 4
	input.Width = 6
	input.Focus()

	return numberModel{
		input: input,
		title: title,
		def:   def,
		min:   min,
		max:   max,
	}
}

func (m numberModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m numberModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter":
			raw := m.input.Value()
			if raw == "" {
				m.value = m.def
				m.done = true
				return m, tea.Quit
			}
			n, err := strconv.Atoi(raw)
			if err != nil || n < m.min || n > m.max {
				m.errMsg = fmt.Sprintf("Enter a number between %d and %d.", m.min, m.max)
				return m, nil
			}
			m.value = n
			m.done = true
			return m, tea.Quit
		case "ctrl+c", "esc":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m numberModel) View() string {
	view := fmt.Sprintf("%s (%d-%d, default %d)\n%s\n",
		titleStyle.Render(m.title), m.min, m.max, m.def, m.input.View())
	if m.errMsg != "" {
		view += helpStyle.Render(m.errMsg) + "\n"
	}
	return view
}
