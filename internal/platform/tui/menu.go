package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tileview/internal/registry"
)

// MenuChoice is what the user picked in the menu.
type MenuChoice int

const (
	ChoiceNone MenuChoice = iota
	ChoicePlay
	ChoiceSessions
)

// MenuItem represents a selectable board source in the menu.
type MenuItem struct {
	GameID string
	Title  string
	Best   int
}

var (
	menuTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	menuCursorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
)

type menuKeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Select   key.Binding
	Sessions key.Binding
	Quit     key.Binding
}

func defaultMenuKeyMap() menuKeyMap {
	return menuKeyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k", "w")),
		Down:     key.NewBinding(key.WithKeys("down", "j", "s")),
		Select:   key.NewBinding(key.WithKeys("enter", " ")),
		Sessions: key.NewBinding(key.WithKeys("tab")),
		Quit:     key.NewBinding(key.WithKeys("q", "esc", "ctrl+c")),
	}
}

// MenuModel is the Bubble Tea model for the source picker.
type MenuModel struct {
	items    []MenuItem
	cursor   int
	width    int
	keys     menuKeyMap
	choice   MenuChoice
	selected *MenuItem
}

// NewMenuModel lists every registered source. best maps game IDs to high
// scores and may be nil.
func NewMenuModel(best map[string]int) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		items = append(items, MenuItem{GameID: g.ID, Title: g.Title, Best: best[g.ID]})
	}
	return MenuModel{items: items, keys: defaultMenuKeyMap()}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.items)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Select):
			if len(m.items) > 0 {
				selected := m.items[m.cursor]
				m.selected = &selected
				m.choice = ChoicePlay
				return m, tea.Quit
			}
		case key.Matches(msg, m.keys.Sessions):
			m.choice = ChoiceSessions
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.choice != ChoiceNone {
		return ""
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(centerText(menuTitleStyle.Render("T I L E V I E W"), m.width))
	b.WriteString("\n\n")

	for i, item := range m.items {
		line := "  " + item.Title
		if item.Best > 0 {
			line += fmt.Sprintf("  (best %d)", item.Best)
		}
		if i == m.cursor {
			line = menuCursorStyle.Render("> " + strings.TrimPrefix(line, "  "))
		}
		b.WriteString(centerText(line, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(centerText(helpStyle.Render("↑/↓ navigate • enter play • tab sessions • q quit"), m.width))
	b.WriteString("\n")
	return b.String()
}

// Choice returns what the user picked.
func (m MenuModel) Choice() MenuChoice {
	return m.choice
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// centerText centers text within given width.
func centerText(text string, width int) string {
	w := lipgloss.Width(text)
	if w >= width {
		return text
	}
	return strings.Repeat(" ", (width-w)/2) + text
}

// RunMenu shows the source picker and returns the choice.
func RunMenu(best map[string]int) (MenuChoice, *MenuItem, error) {
	p := tea.NewProgram(NewMenuModel(best), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return ChoiceNone, nil, err
	}
	m := final.(MenuModel)
	return m.Choice(), m.Selected(), nil
}
