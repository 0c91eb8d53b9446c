package t2048

import "github.com/vovakirdan/tileview/internal/core"

// Direction represents a move direction.
type Direction int

const (
	DirUp Direction = iota
	DirDown
	DirLeft
	DirRight
)

// String returns the direction name.
func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// DefaultBoardSize is the classic board dimension.
const DefaultBoardSize = 4

// Board is a square grid of tile values indexed [y][x]. Zero is an empty cell.
type Board [][]uint32

// NewBoard returns an empty n x n board.
func NewBoard(n int) Board {
	b := make(Board, n)
	for y := range b {
		b[y] = make([]uint32, n)
	}
	return b
}

// Size returns the board dimension.
func (b Board) Size() int {
	return len(b)
}

// Clone returns a deep copy.
func (b Board) Clone() Board {
	out := make(Board, len(b))
	for y := range b {
		out[y] = append([]uint32(nil), b[y]...)
	}
	return out
}

// Equal reports whether both boards hold the same values.
func (b Board) Equal(other Board) bool {
	if len(b) != len(other) {
		return false
	}
	for y := range b {
		if !rowsEqual(b[y], other[y]) {
			return false
		}
	}
	return true
}

// Tiles lists the non-empty cells in row-major order.
func (b Board) Tiles() core.BoardState {
	var tiles core.BoardState
	for y, row := range b {
		for x, v := range row {
			if v != 0 {
				tiles = append(tiles, core.Tile{X: x, Y: y, Value: v})
			}
		}
	}
	return tiles
}

// BoardFromTiles places tiles on an empty n x n board. Tiles outside the
// board are ignored.
func BoardFromTiles(n int, tiles core.BoardState) Board {
	b := NewBoard(n)
	for _, t := range tiles {
		if t.X >= 0 && t.X < n && t.Y >= 0 && t.Y < n {
			b[t.Y][t.X] = t.Value
		}
	}
	return b
}

func rowsEqual(a, b []uint32) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// slideRow slides and merges a single row to the left.
// Returns the updated row and the score gained from merges.
func slideRow(row []uint32) (result []uint32, score int) {
	result = make([]uint32, len(row))
	writePos := 0
	merged := false // the tile at writePos-1 came from a merge

	for _, v := range row {
		if v == 0 {
			continue
		}

		if writePos > 0 && !merged && result[writePos-1] == v {
			// Merge with previous tile
			result[writePos-1] *= 2
			score += int(result[writePos-1])
			merged = true
		} else {
			// Move tile
			result[writePos] = v
			writePos++
			merged = false
		}
	}

	return result, score
}

// reverseRow reverses a row into a new slice.
func reverseRow(row []uint32) []uint32 {
	n := len(row)
	result := make([]uint32, n)
	for i := range n {
		result[i] = row[n-1-i]
	}
	return result
}

// SlideLeft slides all tiles left and merges.
// Returns the new board, score gained, and whether the board changed.
func SlideLeft(board Board) (Board, int, bool) {
	newBoard := make(Board, len(board))
	totalScore := 0
	changed := false

	for y, row := range board {
		newRow, score := slideRow(row)
		newBoard[y] = newRow
		totalScore += score

		if !rowsEqual(row, newRow) {
			changed = true
		}
	}

	return newBoard, totalScore, changed
}

// SlideRight slides all tiles right and merges.
func SlideRight(board Board) (Board, int, bool) {
	newBoard := make(Board, len(board))
	totalScore := 0
	changed := false

	for y, row := range board {
		// Reverse, slide left, reverse back
		newRow, score := slideRow(reverseRow(row))
		newBoard[y] = reverseRow(newRow)
		totalScore += score

		if !rowsEqual(row, newBoard[y]) {
			changed = true
		}
	}

	return newBoard, totalScore, changed
}

// SlideUp slides all tiles up and merges.
func SlideUp(board Board) (Board, int, bool) {
	// Transpose, slide left, transpose back
	slid, score, changed := SlideLeft(transpose(board))
	return transpose(slid), score, changed
}

// SlideDown slides all tiles down and merges.
func SlideDown(board Board) (Board, int, bool) {
	// Transpose, slide right, transpose back
	slid, score, changed := SlideRight(transpose(board))
	return transpose(slid), score, changed
}

// transpose returns the matrix transpose.
func transpose(board Board) Board {
	n := len(board)
	result := NewBoard(n)
	for y := range n {
		for x := range n {
			result[y][x] = board[x][y]
		}
	}
	return result
}

// Slide performs a move in the given direction.
// Returns the new board, score gained, and whether the board changed.
func Slide(board Board, dir Direction) (Board, int, bool) {
	switch dir {
	case DirLeft:
		return SlideLeft(board)
	case DirRight:
		return SlideRight(board)
	case DirUp:
		return SlideUp(board)
	case DirDown:
		return SlideDown(board)
	default:
		return board, 0, false
	}
}

// EmptyCells returns coordinates of all empty cells.
func EmptyCells(board Board) []core.Point {
	var cells []core.Point
	for y, row := range board {
		for x, v := range row {
			if v == 0 {
				cells = append(cells, core.Pt(x, y))
			}
		}
	}
	return cells
}

// HasEmptyCell returns true if there's at least one empty cell.
func HasEmptyCell(board Board) bool {
	for _, row := range board {
		for _, v := range row {
			if v == 0 {
				return true
			}
		}
	}
	return false
}

// HasPossibleMerge returns true if any adjacent tiles can merge.
func HasPossibleMerge(board Board) bool {
	n := len(board)
	for y := range n {
		for x := range n {
			val := board[y][x]
			// Check right neighbor
			if x < n-1 && board[y][x+1] == val {
				return true
			}
			// Check bottom neighbor
			if y < n-1 && board[y+1][x] == val {
				return true
			}
		}
	}
	return false
}

// CanMove returns true if any move is possible.
func CanMove(board Board) bool {
	return HasEmptyCell(board) || HasPossibleMerge(board)
}

// MaxTile returns the maximum tile value on the board.
func MaxTile(board Board) uint32 {
	var maxVal uint32
	for _, row := range board {
		for _, v := range row {
			if v > maxVal {
				maxVal = v
			}
		}
	}
	return maxVal
}

// IsGameOver returns true if no moves are possible.
func IsGameOver(board Board) bool {
	return !CanMove(board)
}
