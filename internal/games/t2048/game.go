package t2048

import (
	"math/rand"

	"github.com/vovakirdan/tileview/internal/core"
	"github.com/vovakirdan/tileview/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeCampaign Mode = "campaign"
	ModeEndless  Mode = "endless"
)

// levelClearSeconds is how long the board rests after a cleared level.
const levelClearSeconds = 2

// Game implements the 2048 puzzle as a board source.
type Game struct {
	mode     Mode
	rng      *rand.Rand
	tick     uint64
	tickRate int

	score         int
	board         Board
	levelIndex    int    // Current level (0-indexed)
	currentTarget uint32 // Current tile target
	spawn4Prob    float64

	// Game state flags
	gameOver        bool
	levelCleared    bool
	won             bool
	paused          bool
	levelClearTicks int
}

// Package-level variables for config
var (
	selectedStartLevel int
)

// SetStartLevel sets the starting level (1-10). 0 means start from beginning.
func SetStartLevel(level int) {
	selectedStartLevel = level
}

// New creates a new campaign mode 2048 game.
func New() *Game {
	return &Game{
		mode: ModeCampaign,
	}
}

// NewEndless creates a new endless mode 2048 game.
func NewEndless() *Game {
	return &Game{
		mode: ModeEndless,
	}
}

func init() {
	registry.Register("2048", func() registry.Game {
		return New()
	})
	registry.Register("2048_endless", func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return "2048_endless"
	}
	return "2048"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "2048 (Endless)"
	}
	return "2048"
}

// Reset initializes/restarts the game.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	size := cfg.GridSize
	if size < 1 {
		size = DefaultBoardSize
	}
	g.tickRate = cfg.TickRate
	if g.tickRate <= 0 {
		g.tickRate = 60
	}

	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.tick = 0
	g.score = 0
	g.gameOver = false
	g.levelCleared = false
	g.won = false
	g.paused = false
	g.levelClearTicks = 0

	g.board = NewBoard(size)

	// Apply selected start level (campaign only)
	if g.mode == ModeCampaign && selectedStartLevel > 0 && selectedStartLevel <= LevelCount() {
		g.levelIndex = selectedStartLevel - 1
		selectedStartLevel = 0 // Reset after use
	} else {
		g.levelIndex = 0
	}

	g.loadLevel()

	// Spawn initial tiles (2 tiles)
	g.spawnTile()
	g.spawnTile()
}

// loadLevel sets up the current level parameters.
func (g *Game) loadLevel() {
	if g.mode == ModeEndless {
		g.currentTarget = 0 // No target in endless
		g.spawn4Prob = 0.10
		return
	}

	level := GetLevel(g.levelIndex)
	if level == nil {
		level = GetLevel(LevelCount() - 1)
	}

	g.currentTarget = level.Target
	g.spawn4Prob = level.Spawn4
}

// spawnTile spawns a new tile (2 or 4) in a random empty cell.
func (g *Game) spawnTile() {
	emptyCells := EmptyCells(g.board)
	if len(emptyCells) == 0 {
		return
	}

	cell := emptyCells[g.rng.Intn(len(emptyCells))]

	// 2 unless the level's spawn4 roll hits
	value := uint32(2)
	if g.rng.Float64() < g.spawn4Prob {
		value = 4
	}

	g.board[cell.Y][cell.X] = value
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	// Restart is handled by the platform calling Reset
	if in.Has(core.ActionRestart) && (g.gameOver || g.won) {
		return core.StepResult{State: g.State()}
	}

	if g.levelCleared {
		g.levelClearTicks++
		if g.levelClearTicks >= levelClearSeconds*g.tickRate {
			g.advanceLevel()
		}
		return core.StepResult{State: g.State()}
	}

	if g.gameOver || g.won {
		return core.StepResult{State: g.State()}
	}

	dir, ok := directionOf(in)
	if !ok {
		return core.StepResult{State: g.State()}
	}

	changed := g.processMove(dir)
	return core.StepResult{State: g.State(), Changed: changed}
}

func directionOf(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// processMove handles a move in the given direction and reports whether
// the board changed.
func (g *Game) processMove(dir Direction) bool {
	newBoard, scoreGained, changed := Slide(g.board, dir)
	if !changed {
		// Board didn't change - don't spawn new tile
		return false
	}

	g.board = newBoard
	g.score += scoreGained

	// Check for level target (campaign only)
	if g.mode == ModeCampaign && g.currentTarget > 0 && MaxTile(g.board) >= g.currentTarget {
		g.levelCleared = true
		g.levelClearTicks = 0
		return true
	}

	g.spawnTile()

	if IsGameOver(g.board) {
		g.gameOver = true
	}
	return true
}

// advanceLevel moves to the next level.
func (g *Game) advanceLevel() {
	g.levelCleared = false
	g.levelClearTicks = 0

	if g.levelIndex >= LevelCount()-1 {
		// Completed all levels
		g.won = true
		return
	}

	g.levelIndex++
	g.loadLevel()
	// Keep current board and score - just update target
}

// Board returns the non-empty cells as a view snapshot.
func (g *Game) Board() core.BoardState {
	return g.board.Tiles()
}

// Size returns the board dimension.
func (g *Game) Size() int {
	return g.board.Size()
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.score,
		GameOver: g.gameOver || g.won,
		Paused:   g.paused || g.levelCleared,
	}
}
