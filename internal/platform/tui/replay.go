package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/pipeline"
	"github.com/vovakirdan/tileview/internal/storage"
)

// ReplayModel plays a recorded session back through the view.
type ReplayModel struct {
	pipe     *pipeline.Pipeline
	session  storage.Session
	frames   []storage.Frame
	fps      int
	pos      int
	paused   bool
	screen   *core.Screen
	width    int
	height   int
	keys     KeyMap
	lastErr  error
	quitting bool
}

// NewReplayModel creates a replay of frames at fps frames per second.
func NewReplayModel(pipe *pipeline.Pipeline, session storage.Session, frames []storage.Frame, fps int) ReplayModel {
	return ReplayModel{
		pipe:    pipe,
		session: session,
		frames:  frames,
		fps:     fps,
		screen:  core.NewScreen(0, 0),
		keys:    DefaultKeyMap(),
	}
}

// Init starts playback.
func (m ReplayModel) Init() tea.Cmd {
	return tickCmd(m.fps)
}

// Update handles messages.
func (m ReplayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Pause):
			m.paused = !m.paused
		case key.Matches(msg, m.keys.Left):
			m.pos = max(m.pos-1, 0)
			m.draw()
		case key.Matches(msg, m.keys.Right):
			m.pos = min(m.pos+1, max(len(m.frames)-1, 0))
			m.draw()
		case key.Matches(msg, m.keys.Restart):
			m.pos = 0
			m.draw()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.draw()
		return m, nil

	case TickMsg:
		if !m.paused && m.pos < len(m.frames)-1 {
			m.pos++
		}
		m.draw()
		return m, tickCmd(m.fps)
	}
	return m, nil
}

func (m *ReplayModel) draw() {
	if len(m.frames) == 0 {
		return
	}
	frame, err := m.pipe.Render(m.frames[m.pos].State)
	if err != nil {
		m.lastErr = err
		return
	}
	m.lastErr = nil

	side := FitSquare(m.width, m.height-chromeRows)
	m.screen.Resize(side, side/2)
	HalfBlock(m.screen, frame, 0, 0, side, side/2)
}

// View renders the current frame.
func (m ReplayModel) View() string {
	if m.quitting {
		return ""
	}
	var b strings.Builder
	if m.screen.Width() > 0 {
		b.WriteString(RenderScreen(m.screen))
		b.WriteString("\n")
	}

	status := fmt.Sprintf("session #%d  %s  frame %d/%d", m.session.ID, m.session.GameID, min(m.pos+1, len(m.frames)), len(m.frames))
	if len(m.frames) > 0 {
		status += fmt.Sprintf("  score %d", m.frames[m.pos].Score)
	}
	if m.paused {
		status += "  PAUSED"
	}
	b.WriteString(hudStyle.Render(status))
	if m.lastErr != nil {
		b.WriteString("  ")
		b.WriteString(errStyle.Render(m.lastErr.Error()))
	}
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("←/→ step  p pause  r rewind  q quit"))
	return b.String()
}

// RunReplay plays a session in the terminal.
func RunReplay(pipe *pipeline.Pipeline, session storage.Session, frames []storage.Frame, fps int) error {
	p := tea.NewProgram(NewReplayModel(pipe, session, frames, fps), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
