package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/xaenox/discord-catchup/internal/navigator"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// TerminalPrompter implements navigator.Prompter with bubbletea programs:
// a filterable list for selections and a text input for numbers.
type TerminalPrompter struct{}

func NewTerminalPrompter() TerminalPrompter {
	return TerminalPrompter{}
}

func (TerminalPrompter) Select(title string, options []string) (navigator.Result[int], error) {
	m := newSelectModel(title, options)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return navigator.Result[int]{}, fmt.Errorf("running selection prompt: %w", err)
	}

	sm := final.(selectModel)
	if sm.cancelled || sm.choice < 0 {
		return navigator.Cancelled[int](), nil
	}
	return navigator.Selected(sm.choice), nil
}

// selectItem adapts one option to list.Item, remembering its original index
// so a filtered selection still maps back correctly.
type selectItem struct {
	index int
	label string
}

func (i selectItem) Title() string       { return i.label }
func (i selectItem) Description() string { return "" }
func (i selectItem) FilterValue() string { return i.label }

type selectModel struct {
	list      list.Model
	choice    int
	cancelled bool
}

func newSelectModel(title string, options []string) selectModel {
	items := make([]list.Item, len(options))
	for i, o := range options {
		items[i] = selectItem{index: i, label: o}
	}

	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(items, delegate, 80, 20)
	l.Title = title
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return selectModel{list: l, choice: -1}
}

func (m selectModel) Init() tea.Cmd {
	return nil
}

func (m selectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width, msg.Height-2)

	case tea.KeyMsg:
		// While the filter input is active, all keys belong to the list.
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch msg.String() {
		case "enter":
			if item, ok := m.list.SelectedItem().(selectItem); ok {
				m.choice = item.index
			}
			return m, tea.Quit
		case "ctrl+c", "esc", "q":
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m selectModel) View() string {
	return m.list.View() + "\n" + helpStyle.Render("  enter: select • /: filter • esc: cancel")
}
