package tui

import (
	"fmt"
	"image"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/storage"
)

// Sessions browser layout constants
const (
	minWidthForPreview = 90  // Minimum width to show the board preview
	previewCols        = 32  // Preview width in cells
	maxSessions        = 200 // Max sessions to load
)

// PreviewFunc renders a recorded board for the preview pane.
type PreviewFunc func(gridSize int, state core.BoardState) (image.Image, error)

// SessionsKeyMap defines the key bindings for the sessions browser.
type SessionsKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Delete key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k SessionsKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Delete, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k SessionsKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Select, k.Delete, k.Quit},
	}
}

// DefaultSessionsKeyMap returns default key bindings.
func DefaultSessionsKeyMap() SessionsKeyMap {
	return SessionsKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "replay"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x", "delete"),
			key.WithHelp("x", "delete"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// SessionsModel is the Bubble Tea model for browsing recorded sessions.
type SessionsModel struct {
	store       *storage.Store
	preview     PreviewFunc
	sessions    []storage.Session
	table       table.Model
	help        help.Model
	keys        SessionsKeyMap
	width       int
	height      int
	previewText string
	selected    int64
	quitting    bool
	err         error
}

// NewSessionsModel creates a sessions browser. preview may be nil.
func NewSessionsModel(store *storage.Store, preview PreviewFunc, width, height int) SessionsModel {
	h := help.New()
	h.ShowAll = false

	m := SessionsModel{
		store:   store,
		preview: preview,
		keys:    DefaultSessionsKeyMap(),
		help:    h,
		width:   width,
		height:  height,
	}
	m.table = m.createTable()
	m.loadSessions()
	return m
}

// createTable creates a new table with appropriate columns.
func (m *SessionsModel) createTable() table.Model {
	columns := []table.Column{
		{Title: "ID", Width: 6},
		{Title: "Game", Width: 14},
		{Title: "Grid", Width: 5},
		{Title: "Frames", Width: 7},
		{Title: "Score", Width: 8},
		{Title: "Origin", Width: 12},
		{Title: "Date", Width: 13},
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)), // Leave room for header, help, and margins
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

// loadSessions reloads the session list from the store.
func (m *SessionsModel) loadSessions() {
	m.sessions = nil
	if m.store != nil {
		sessions, err := m.store.Sessions(maxSessions)
		if err != nil {
			m.err = err
		} else {
			m.sessions = sessions
		}
	}
	m.updateTableRows()
	m.updatePreview()
}

// updateTableRows updates the table with current sessions.
func (m *SessionsModel) updateTableRows() {
	rows := make([]table.Row, len(m.sessions))
	for i, s := range m.sessions {
		rows[i] = table.Row{
			fmt.Sprintf("%d", s.ID),
			s.GameID,
			fmt.Sprintf("%dx%d", s.GridSize, s.GridSize),
			fmt.Sprintf("%d", s.FrameCount),
			fmt.Sprintf("%d", s.FinalScore),
			s.Origin,
			s.CreatedAt.Format("Jan 02 15:04"),
		}
	}
	m.table.SetRows(rows)
	if m.table.Cursor() >= len(rows) {
		m.table.GotoTop()
	}
}

// current returns the session under the cursor.
func (m SessionsModel) current() (storage.Session, bool) {
	i := m.table.Cursor()
	if i < 0 || i >= len(m.sessions) {
		return storage.Session{}, false
	}
	return m.sessions[i], true
}

// updatePreview renders the last frame of the selected session.
func (m *SessionsModel) updatePreview() {
	m.previewText = ""
	if m.preview == nil || m.store == nil || m.width < minWidthForPreview {
		return
	}
	sess, ok := m.current()
	if !ok {
		return
	}
	frames, err := m.store.Frames(sess.ID)
	if err != nil || len(frames) == 0 {
		return
	}
	img, err := m.preview(sess.GridSize, frames[len(frames)-1].State)
	if err != nil {
		m.previewText = errStyle.Render(err.Error())
		return
	}
	screen := core.NewScreen(previewCols, previewCols/2)
	HalfBlock(screen, img, 0, 0, previewCols, previewCols/2)
	m.previewText = RenderScreen(screen)
}

// Init initializes the sessions model.
func (m SessionsModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the sessions browser.
func (m SessionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, m.keys.Select):
			if s, ok := m.current(); ok {
				m.selected = s.ID
				return m, tea.Quit
			}
			return m, nil

		case key.Matches(msg, m.keys.Delete):
			if s, ok := m.current(); ok && m.store != nil {
				if err := m.store.DeleteSession(s.ID); err != nil {
					m.err = err
				}
				m.loadSessions()
			}
			return m, nil

		case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
			m.table, cmd = m.table.Update(msg)
			m.updatePreview()
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.table = m.createTable()
		m.updateTableRows()
		m.updatePreview()
		m.help.Width = msg.Width
		return m, nil
	}

	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the sessions browser.
func (m SessionsModel) View() string {
	if m.quitting || m.selected != 0 {
		return ""
	}

	var b strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		MarginBottom(1)
	b.WriteString(titleStyle.Render("RECORDED SESSIONS"))
	b.WriteString("\n\n")

	boxStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("240")).
		Padding(0, 1)

	body := m.renderTableContent()
	if m.previewText != "" {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			boxStyle.Render(body), "  ", boxStyle.Render(m.previewText)))
	} else {
		b.WriteString(boxStyle.Render(body))
	}

	if m.err != nil {
		b.WriteString("\n")
		b.WriteString(errStyle.Render(m.err.Error()))
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// renderTableContent renders the table or empty message.
func (m SessionsModel) renderTableContent() string {
	if len(m.sessions) == 0 {
		emptyStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4)
		return emptyStyle.Render("No sessions recorded yet.\nPlay a game with storage.record enabled.")
	}
	return m.table.View()
}

// Selected returns the session chosen with enter, or 0.
func (m SessionsModel) Selected() int64 {
	return m.selected
}

// RunSessions runs the sessions browser and returns the session chosen for
// replay, or 0 if the user quit.
func RunSessions(store *storage.Store, preview PreviewFunc, width, height int) (int64, error) {
	model := NewSessionsModel(store, preview, width, height)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	finalModel, err := p.Run()
	if err != nil {
		return 0, err
	}

	m, ok := finalModel.(SessionsModel)
	if !ok {
		return 0, nil
	}
	return m.Selected(), nil
}
