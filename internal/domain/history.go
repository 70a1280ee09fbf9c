package domain

import (
	"errors"
	"strconv"
)

// Errors returned by History.
var (
	ErrHistoryRange = errors.New("history index out of range")
	ErrNotSuccessor = errors.New("board is not a single move from the current snapshot")
)

// History is the ordered list of snapshots of one game together with the
// cursor selecting the snapshot being viewed and played from. Snapshot 0 is
// the empty board; snapshot k is the board after k moves.
type History struct {
	boards []Board
	cursor int
}

// Entry describes one history item for a move selector.
type Entry struct {
	Move    int
	Label   string
	Current bool
}

// NewHistory returns a history holding only the empty board.
func NewHistory() *History {
	return &History{boards: []Board{{}}}
}

// Reset drops every move and returns to the empty board.
func (h *History) Reset() {
	h.boards = []Board{{}}
	h.cursor = 0
}

// Len returns the number of stored snapshots.
func (h *History) Len() int { return len(h.boards) }

// Cursor returns the index of the viewed snapshot.
func (h *History) Cursor() int { return h.cursor }

// Current returns a copy of the viewed snapshot.
func (h *History) Current() Board { return h.boards[h.cursor] }

// Snapshot returns a copy of snapshot i.
func (h *History) Snapshot(i int) (Board, error) {
	if i < 0 || i >= len(h.boards) {
		return Board{}, ErrHistoryRange
	}
	return h.boards[i], nil
}

// BlackIsNext reports whether Black moves from the viewed snapshot.
func (h *History) BlackIsNext() bool { return h.cursor%2 == 0 }

// ToMove returns the player to move from the viewed snapshot.
func (h *History) ToMove() Cell {
	if h.BlackIsNext() {
		return Black
	}
	return White
}

// Winner evaluates the viewed snapshot.
func (h *History) Winner() Cell { return h.Current().Winner() }

// Status evaluates the viewed snapshot.
func (h *History) Status() Status { return StatusOf(h.Current(), h.ToMove()) }

// Record stores b as the successor of the viewed snapshot. Snapshots after
// the cursor are discarded and the cursor moves to b. b must differ from the
// viewed snapshot by exactly one stone of the player to move.
func (h *History) Record(b Board) error {
	cur := h.Current()
	if cur.Winner() != Empty {
		return ErrGameOver
	}
	changed := 0
	for i := range cur {
		if cur[i] == b[i] {
			continue
		}
		if cur[i] != Empty || b[i] != h.ToMove() {
			return ErrNotSuccessor
		}
		changed++
	}
	if changed != 1 {
		return ErrNotSuccessor
	}
	h.boards = append(h.boards[:h.cursor+1], b)
	h.cursor = len(h.boards) - 1
	return nil
}

// JumpTo moves the cursor to snapshot move. Stored snapshots are untouched.
func (h *History) JumpTo(move int) error {
	if move < 0 || move >= len(h.boards) {
		return ErrHistoryRange
	}
	h.cursor = move
	return nil
}

// Play places a stone for the player to move at p on the viewed snapshot
// and records the result. A rejected move leaves the history unchanged.
func (h *History) Play(p Position) (Board, error) {
	next, err := h.Current().Apply(p, h.ToMove())
	if err != nil {
		return h.Current(), err
	}
	if err := h.Record(next); err != nil {
		return h.Current(), err
	}
	return next, nil
}

// Entries lists every snapshot with its move-selector label.
func (h *History) Entries() []Entry {
	out := make([]Entry, len(h.boards))
	for i := range h.boards {
		out[i] = Entry{Move: i, Label: EntryLabel(i), Current: i == h.cursor}
	}
	return out
}

// EntryLabel returns "start" for the empty board and "move N" otherwise.
func EntryLabel(move int) string {
	if move == 0 {
		return "start"
	}
	return "move " + strconv.Itoa(move)
}
