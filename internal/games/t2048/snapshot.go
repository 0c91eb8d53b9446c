package t2048

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying      GameStateType = "playing"
	StateLevelCleared GameStateType = "level_cleared"
	StateGameOver     GameStateType = "game_over"
	StateWin          GameStateType = "win"
	StatePaused       GameStateType = "paused"
)

// Snapshot captures the complete game state for determinism testing and replay.
type Snapshot struct {
	Tick    uint64
	Mode    string // "campaign" or "endless"
	Level   int    // Current level (1-indexed for display)
	Target  uint32 // Current target tile value, 0 in endless mode
	Score   int
	Board   Board
	MaxTile uint32
	State   GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.won:
		state = StateWin
	case g.gameOver:
		state = StateGameOver
	case g.levelCleared:
		state = StateLevelCleared
	case g.paused:
		state = StatePaused
	}

	return Snapshot{
		Tick:    g.tick,
		Mode:    string(g.mode),
		Level:   g.levelIndex + 1,
		Target:  g.currentTarget,
		Score:   g.score,
		Board:   g.board.Clone(),
		MaxTile: MaxTile(g.board),
		State:   state,
	}
}
