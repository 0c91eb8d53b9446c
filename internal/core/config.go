package core

// RuntimeConfig contains configuration passed to board sources at initialization.
type RuntimeConfig struct {
	GridSize int   // Cells per board side
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		GridSize: 4,
		TickRate: 60,
		Seed:     0, // 0 means use current time in platform layer
	}
}

// GameState represents the current state of a board source.
type GameState struct {
	Score    int  // Current score
	GameOver bool // Whether the game has ended
	Paused   bool // Whether the game is paused
}

// StepResult is returned by Step() after each simulation tick.
type StepResult struct {
	State   GameState
	Changed bool // Board changed during this tick
}
