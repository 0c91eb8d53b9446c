package tui

import (
	"fmt"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/pipeline"
	"github.com/vovakirdan/tileview/internal/raster"
	"github.com/vovakirdan/tileview/internal/registry"
	"github.com/vovakirdan/tileview/internal/storage"
)

// chromeRows is the space taken by the HUD and help lines.
const chromeRows = 2

var (
	hudStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	stateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208"))
	errStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// PlayOptions configures a PlayModel.
type PlayOptions struct {
	Runtime core.RuntimeConfig
	Store   *storage.Store // optional
	Record  bool           // record every changed board into Store
	Origin  string         // session origin, e.g. "local" or "ssh:alice"
	Logger  *log.Logger
	// ScreenshotDir receives PNG screenshots; empty disables ctrl+s.
	ScreenshotDir string
}

// PlayModel is the Bubble Tea model that drives a board source and draws it
// through the tile view.
type PlayModel struct {
	game     registry.Game
	pipe     *pipeline.Pipeline
	opts     PlayOptions
	screen   *core.Screen
	keys     KeyMap
	help     help.Model
	logger   *log.Logger
	input    core.InputFrame
	state    core.GameState
	rec      *storage.Recorder
	width    int
	height   int
	dirty    bool
	started  bool
	quitting bool
	lastErr  error
	notice   string
}

// NewPlayModel creates a play model. The pipeline's grid size decides the
// board size of the game.
func NewPlayModel(game registry.Game, pipe *pipeline.Pipeline, opts PlayOptions) PlayModel {
	if opts.Runtime.Seed == 0 {
		opts.Runtime.Seed = time.Now().UnixNano()
	}
	opts.Runtime.GridSize = pipe.GridSize()
	if opts.Origin == "" {
		opts.Origin = "local"
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	h := help.New()
	h.ShowAll = false

	return PlayModel{
		game:   game,
		pipe:   pipe,
		opts:   opts,
		screen: core.NewScreen(0, 0),
		keys:   DefaultKeyMap(),
		help:   h,
		logger: logger,
		input:  core.NewInputFrame(),
	}
}

// Init starts the tick loop. The game is reset on the first tick so the
// reset lands on the model value Bubble Tea keeps.
func (m PlayModel) Init() tea.Cmd {
	return tickCmd(m.opts.Runtime.TickRate)
}

// Update handles messages and updates the model state.
func (m PlayModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.dirty = true
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m PlayModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.keys.MapKeyToFrame(msg, &m.input) {
		m.quitting = true
		m.finish()
		return m, tea.Quit
	}
	if m.input.Has(core.ActionBack) {
		m.quitting = true
		m.finish()
		return m, tea.Quit
	}
	if key.Matches(msg, m.keys.Screenshot) {
		m.saveScreenshot()
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m PlayModel) handleTick() (tea.Model, tea.Cmd) {
	if !m.started {
		m.start()
	}

	if m.input.Has(core.ActionRestart) && m.state.GameOver {
		m.finish()
		m.opts.Runtime.Seed = time.Now().UnixNano()
		m.start()
		m.input.Clear()
		return m, tickCmd(m.opts.Runtime.TickRate)
	}

	result := m.game.Step(m.input)
	m.state = result.State
	if result.Changed {
		m.dirty = true
		m.record()
	}

	// Save score on game over (once)
	if m.state.GameOver && !m.rec.Finished() {
		m.finish()
	}

	if m.dirty {
		m.redraw()
	}

	m.input.Clear()
	return m, tickCmd(m.opts.Runtime.TickRate)
}

// start resets the game and opens a recorded session.
func (m *PlayModel) start() {
	m.game.Reset(m.opts.Runtime)
	m.state = m.game.State()
	m.started = true
	m.dirty = true

	rec, err := storage.NewRecorder(m.opts.Store, m.game.ID(), m.pipe.GridSize(), m.opts.Origin, m.opts.Record)
	if err != nil {
		m.logger.Warn("cannot start recording", "error", err)
	}
	m.rec = rec
	if id := rec.Session(); id != 0 {
		m.logger.Debug("recording session", "id", id, "game", m.game.ID())
	}
	m.record()
}

// record stores the current board in the open session.
func (m *PlayModel) record() {
	if err := m.rec.Frame(m.state.Score, m.game.Board()); err != nil {
		m.logger.Warn("cannot record frame", "session", m.rec.Session(), "error", err)
	}
}

// finish saves the score once per game.
func (m *PlayModel) finish() {
	if !m.started {
		return
	}
	if err := m.rec.Finish(m.state.Score); err != nil {
		m.logger.Warn("cannot save score", "error", err)
	}
}

// redraw runs the view and converts the presented frame into cells.
func (m *PlayModel) redraw() {
	m.dirty = false

	frame, err := m.pipe.Render(m.game.Board())
	if err != nil {
		m.lastErr = err
		m.logger.Error("draw failed", "error", err)
		return
	}
	m.lastErr = nil
	m.paint(frame)
}

func (m *PlayModel) paint(frame image.Image) {
	rows := m.height - chromeRows
	side := FitSquare(m.width, rows)
	if side == 0 {
		m.screen.Resize(0, 0)
		return
	}
	m.screen.Resize(side, side/2)
	HalfBlock(m.screen, frame, 0, 0, side, side/2)
}

// saveScreenshot writes the last presented frame as PNG.
func (m *PlayModel) saveScreenshot() {
	frame := m.pipe.Frame()
	if frame == nil || m.opts.ScreenshotDir == "" {
		return
	}
	timestamp := time.Now().Format("20060102_150405")
	path := filepath.Join(m.opts.ScreenshotDir, fmt.Sprintf("%s_%s.png", m.game.ID(), timestamp))
	if err := raster.WritePNG(path, frame); err != nil {
		m.logger.Warn("screenshot failed", "error", err)
		m.notice = "screenshot failed"
		return
	}
	m.notice = "saved " + path
}

// View renders the current state to a string for display.
func (m PlayModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	if m.screen.Width() > 0 {
		b.WriteString(RenderScreen(m.screen))
		b.WriteString("\n")
	} else if m.width > 0 {
		b.WriteString(errStyle.Render("terminal too small"))
		b.WriteString("\n")
	}

	b.WriteString(m.hud())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

func (m PlayModel) hud() string {
	parts := []string{hudStyle.Render(fmt.Sprintf("%s  score %d", m.game.Title(), m.state.Score))}
	switch {
	case m.state.GameOver:
		parts = append(parts, stateStyle.Render("GAME OVER - r to restart"))
	case m.state.Paused:
		parts = append(parts, stateStyle.Render("PAUSED"))
	}
	if id := m.rec.Session(); id != 0 {
		parts = append(parts, helpStyle.Render(fmt.Sprintf("rec #%d", id)))
	}
	if m.lastErr != nil {
		parts = append(parts, errStyle.Render(m.lastErr.Error()))
	}
	if m.notice != "" {
		parts = append(parts, helpStyle.Render(m.notice))
	}
	return strings.Join(parts, "  ")
}

// Err returns the last draw error, if any.
func (m PlayModel) Err() error {
	return m.lastErr
}

// Run starts the Bubble Tea program for the given game.
func Run(game registry.Game, pipe *pipeline.Pipeline, opts PlayOptions) error {
	model := NewPlayModel(game, pipe, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	_, err := p.Run()
	return err
}

// DefaultScreenshotDir returns ~/.tileview/screenshots, or empty if the home
// directory is unknown.
func DefaultScreenshotDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tileview", "screenshots")
}
