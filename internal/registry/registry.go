// Package registry provides a global registry of board sources.
// Sources register themselves in init() functions, allowing the frontends
// to discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/tileview/internal/core"
)

// Game is a board source: pure logic that produces board snapshots.
// It knows nothing about drawing; a view.BoardView renders whatever Board returns.
type Game interface {
	// ID returns a unique identifier (e.g., "2048", "2048_endless").
	// Used for CLI commands, score storage, and recorded sessions.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or resets the board.
	// Called once at start and again when restarting after game over.
	// The RuntimeConfig provides the grid size and RNG seed.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	// Returns the result of this tick including whether the board changed.
	Step(in core.InputFrame) core.StepResult

	// Board returns the tiles currently on the board.
	Board() core.BoardState

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// GameInfo contains metadata about a registered source.
type GameInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a source.
type Factory func() Game

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a source factory to the registry.
// Typically called from the source package's init() function.
// Panics if a source with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: source %q already registered", id))
	}

	factories[id] = f

	// Get title by creating a temporary instance
	g := f()
	titles[id] = g.Title()
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(factories))
	for id := range factories {
		result = append(result, GameInfo{
			ID:    id,
			Title: titles[id],
		})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})

	return result
}

// Create instantiates a new source by its ID.
// Returns an error if the ID is not registered.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown source %q", id)
	}

	return f(), nil
}

// Exists checks if a source with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
