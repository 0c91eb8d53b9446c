package core

// Tile is a single numbered tile on the board.
// X is the column and Y the row, both zero-based from the top-left corner.
// Value is conventionally a power of two but is not checked.
type Tile struct {
	X     int
	Y     int
	Value uint32
}

// BoardState is everything visible on the board for one frame.
// Tiles are drawn in order, so a later tile covers an earlier one at the same cell.
type BoardState []Tile

// Clone returns an independent copy of the state.
func (s BoardState) Clone() BoardState {
	if s == nil {
		return nil
	}
	out := make(BoardState, len(s))
	copy(out, s)
	return out
}

// Equal reports whether two states hold the same tiles in the same order.
func (s BoardState) Equal(other BoardState) bool {
	if len(s) != len(other) {
		return false
	}
	for i := range s {
		if s[i] != other[i] {
			return false
		}
	}
	return true
}
