// Package window shows the tile view in a native window through ebiten.
// Every tick the board source is stepped from the keyboard; changed boards
// are drawn through the view and the presented frame is uploaded to the
// window texture.
package window

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/pipeline"
	"github.com/vovakirdan/tileview/internal/registry"
	"github.com/vovakirdan/tileview/internal/storage"
)

// Options configures the window and the game it drives.
type Options struct {
	Title   string
	VSync   bool
	TPS     int
	Runtime core.RuntimeConfig
	Store   *storage.Store // optional
	Record  bool
	Origin  string
	Logger  *log.Logger
}

// binding maps a set of keys to one action.
type binding struct {
	keys   []ebiten.Key
	action core.Action
}

var bindings = []binding{
	{[]ebiten.Key{ebiten.KeyArrowUp, ebiten.KeyW, ebiten.KeyK}, core.ActionUp},
	{[]ebiten.Key{ebiten.KeyArrowDown, ebiten.KeyS, ebiten.KeyJ}, core.ActionDown},
	{[]ebiten.Key{ebiten.KeyArrowLeft, ebiten.KeyA, ebiten.KeyH}, core.ActionLeft},
	{[]ebiten.Key{ebiten.KeyArrowRight, ebiten.KeyD, ebiten.KeyL}, core.ActionRight},
	{[]ebiten.Key{ebiten.KeyP}, core.ActionPause},
	{[]ebiten.Key{ebiten.KeyR}, core.ActionRestart},
	{[]ebiten.Key{ebiten.KeyEscape, ebiten.KeyQ}, core.ActionQuit},
}

// readInput builds an input frame from the keys reported by pressed.
func readInput(pressed func(ebiten.Key) bool) core.InputFrame {
	frame := core.NewInputFrame()
	for _, b := range bindings {
		for _, k := range b.keys {
			if pressed(k) {
				frame.Set(b.action)
				break
			}
		}
	}
	return frame
}

// App implements ebiten.Game.
type App struct {
	game    registry.Game
	pipe    *pipeline.Pipeline
	opts    Options
	logger  *log.Logger
	rec     *storage.Recorder
	state   core.GameState
	size    int
	texture *ebiten.Image
	pending *image.RGBA // presented frame not yet uploaded
	dirty   bool
	lastErr error
}

// New creates the window app. The pipeline's window size is the logical
// screen size.
func New(game registry.Game, pipe *pipeline.Pipeline, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.TPS <= 0 {
		opts.TPS = ebiten.DefaultTPS
	}
	if opts.Origin == "" {
		opts.Origin = "window"
	}
	opts.Runtime.GridSize = pipe.GridSize()
	opts.Runtime.TickRate = opts.TPS

	a := &App{
		game:   game,
		pipe:   pipe,
		opts:   opts,
		logger: logger,
		size:   pipe.View().Grid().WindowPixels,
	}
	a.start()
	return a
}

func (a *App) start() {
	a.game.Reset(a.opts.Runtime)
	a.state = a.game.State()
	a.dirty = true

	rec, err := storage.NewRecorder(a.opts.Store, a.game.ID(), a.pipe.GridSize(), a.opts.Origin, a.opts.Record)
	if err != nil {
		a.logger.Warn("cannot start recording", "error", err)
	}
	a.rec = rec
	a.record()
}

func (a *App) record() {
	if err := a.rec.Frame(a.state.Score, a.game.Board()); err != nil {
		a.logger.Warn("cannot record frame", "session", a.rec.Session(), "error", err)
	}
}

func (a *App) finish() {
	if err := a.rec.Finish(a.state.Score); err != nil {
		a.logger.Warn("cannot save score", "error", err)
	}
}

// Update advances the game by one tick.
func (a *App) Update() error {
	return a.step(readInput(inpututil.IsKeyJustPressed))
}

func (a *App) step(in core.InputFrame) error {
	if in.Has(core.ActionQuit) {
		a.finish()
		return ebiten.Termination
	}
	if in.Has(core.ActionRestart) && a.state.GameOver {
		a.finish()
		a.start()
		return nil
	}

	result := a.game.Step(in)
	a.state = result.State
	if result.Changed {
		a.dirty = true
		a.record()
	}
	if a.state.GameOver && !a.rec.Finished() {
		a.finish()
	}
	if a.dirty {
		a.redraw()
	}
	return nil
}

// redraw draws the board through the view. The frame is uploaded on the
// next Draw.
func (a *App) redraw() {
	a.dirty = false
	frame, err := a.pipe.Render(a.game.Board())
	if err != nil {
		a.lastErr = err
		a.logger.Error("draw failed", "error", err)
		return
	}
	a.lastErr = nil
	a.pending = frame
}

// Draw copies the latest frame to the window.
func (a *App) Draw(screen *ebiten.Image) {
	if a.pending != nil {
		b := a.pending.Bounds()
		if a.texture == nil {
			a.texture = ebiten.NewImage(b.Dx(), b.Dy())
		}
		a.texture.WritePixels(a.pending.Pix)
		a.pending = nil
	}
	if a.texture != nil {
		screen.DrawImage(a.texture, nil)
	}
	ebitenutil.DebugPrintAt(screen, a.status(), 4, 4)
}

func (a *App) status() string {
	s := fmt.Sprintf("%s  score %d", a.game.Title(), a.state.Score)
	switch {
	case a.state.GameOver:
		s += "  GAME OVER - r to restart"
	case a.state.Paused:
		s += "  PAUSED"
	}
	if a.lastErr != nil {
		s += "\n" + a.lastErr.Error()
	}
	return s
}

// Layout keeps the logical screen at the view size; ebiten scales it to
// the window.
func (a *App) Layout(_, _ int) (int, int) {
	return a.size, a.size
}

// Run opens the window and blocks until it is closed.
func Run(game registry.Game, pipe *pipeline.Pipeline, opts Options) error {
	app := New(game, pipe, opts)

	ebiten.SetWindowSize(app.size, app.size)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetVsyncEnabled(opts.VSync)
	ebiten.SetTPS(app.opts.TPS)

	err := ebiten.RunGame(app)
	app.finish()
	if err != nil && !errors.Is(err, ebiten.Termination) {
		return fmt.Errorf("window: %w", err)
	}
	return nil
}
