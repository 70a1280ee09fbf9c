package domain

import "errors"

// Board geometry.
const (
	Size      = 20
	WinLength = 5
)

// Cell represents a board cell state.
type Cell uint8

const (
	Empty Cell = iota
	Black
	White
)

func (c Cell) String() string {
	switch c {
	case Black:
		return "Black"
	case White:
		return "White"
	default:
		return ""
	}
}

// Opponent returns the other player; Empty stays Empty.
func (c Cell) Opponent() Cell {
	switch c {
	case Black:
		return White
	case White:
		return Black
	default:
		return Empty
	}
}

// Board is one snapshot of a Size x Size grid stored row-major.
// It is an array, so assigning or passing it copies every cell.
type Board [Size * Size]Cell

// Position addresses a cell by row and column.
type Position struct {
	Row int
	Col int
}

// Errors returned by domain operations.
var (
	ErrOutOfBounds   = errors.New("out of bounds")
	ErrOccupied      = errors.New("cell occupied")
	ErrGameOver      = errors.New("game over")
	ErrInvalidPlayer = errors.New("invalid player")
)

// Valid reports whether p lies on the board.
func (p Position) Valid() bool {
	return p.Row >= 0 && p.Row < Size && p.Col >= 0 && p.Col < Size
}

// Index returns the row-major index of p. p must be valid.
func (p Position) Index() int {
	return p.Row*Size + p.Col
}

// PositionOf converts a linear cell index into a Position.
func PositionOf(index int) (Position, error) {
	if index < 0 || index >= Size*Size {
		return Position{}, ErrOutOfBounds
	}
	return Position{Row: index / Size, Col: index % Size}, nil
}

// At returns the cell at p, or Empty when p is off the board.
func (b Board) At(p Position) Cell {
	if !p.Valid() {
		return Empty
	}
	return b[p.Index()]
}

// Apply returns a new board with player placed at p. The receiver is never
// modified.
func (b Board) Apply(p Position, player Cell) (Board, error) {
	if player != Black && player != White {
		return b, ErrInvalidPlayer
	}
	if !p.Valid() {
		return b, ErrOutOfBounds
	}
	if b.Winner() != Empty {
		return b, ErrGameOver
	}
	idx := p.Index()
	if b[idx] != Empty {
		return b, ErrOccupied
	}
	next := b
	next[idx] = player
	return next, nil
}

// Stones counts non-empty cells.
func (b Board) Stones() int {
	n := 0
	for _, c := range b {
		if c != Empty {
			n++
		}
	}
	return n
}

// Full reports whether no empty cell remains.
func (b Board) Full() bool {
	for _, c := range b {
		if c == Empty {
			return false
		}
	}
	return true
}

// directions in scan order: horizontal, vertical, diagonal, anti-diagonal.
var directions = [4][2]int{{0, 1}, {1, 0}, {1, 1}, {1, -1}}

// Winner returns the player owning WinLength consecutive cells, or Empty.
// Origins are scanned row-major and each walks forward exactly WinLength
// steps, so longer runs are found from their first cell.
func (b Board) Winner() Cell {
	for row := 0; row < Size; row++ {
		for col := 0; col < Size; col++ {
			player := b[row*Size+col]
			if player == Empty {
				continue
			}
			for _, d := range directions {
				count := 0
				for step := 0; step < WinLength; step++ {
					r, c := row+step*d[0], col+step*d[1]
					if r < 0 || r >= Size || c < 0 || c >= Size || b[r*Size+c] != player {
						break
					}
					count++
				}
				if count == WinLength {
					return player
				}
			}
		}
	}
	return Empty
}

// Status is what the presentation layer announces for a snapshot.
type Status struct {
	Next   Cell
	Winner Cell
	Draw   bool
}

// StatusOf evaluates b with next as the player to move. A full board without
// a winner is a draw.
func StatusOf(b Board, next Cell) Status {
	if w := b.Winner(); w != Empty {
		return Status{Winner: w}
	}
	if b.Full() {
		return Status{Draw: true}
	}
	return Status{Next: next}
}

// Over reports whether no further move can be made.
func (s Status) Over() bool { return s.Winner != Empty || s.Draw }

func (s Status) String() string {
	switch {
	case s.Winner != Empty:
		return "Winner: " + s.Winner.String()
	case s.Draw:
		return "Draw"
	default:
		return "Next player: " + s.Next.String()
	}
}
