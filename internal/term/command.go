package term

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jaminalder/gomoku/internal/domain"
)

// Kind identifies a terminal command.
type Kind int

const (
	CmdPlay Kind = iota + 1
	CmdJump
	CmdReset
	CmdHistory
	CmdHelp
	CmdQuit
)

// Command is one parsed input line.
type Command struct {
	Kind Kind
	Pos  domain.Position
	Move int
}

var (
	ErrEmpty          = errors.New("empty command")
	ErrUnknownCommand = errors.New("unknown command")
	ErrBadArgs        = errors.New("bad arguments")
)

// ParseCommand parses a line such as "3 4", "play 3 4", "jump 2", "reset",
// "history", "help" or "quit". Rows and columns are zero-based.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return Command{}, ErrEmpty
	}
	switch fields[0] {
	case "play", "p":
		return parsePlay(fields[1:])
	case "jump", "j":
		if len(fields) != 2 {
			return Command{}, fmt.Errorf("%w: jump takes a move number", ErrBadArgs)
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return Command{}, fmt.Errorf("%w: move %q", ErrBadArgs, fields[1])
		}
		return Command{Kind: CmdJump, Move: n}, nil
	case "reset", "new":
		return Command{Kind: CmdReset}, nil
	case "history", "h":
		return Command{Kind: CmdHistory}, nil
	case "help", "?":
		return Command{Kind: CmdHelp}, nil
	case "quit", "q", "exit":
		return Command{Kind: CmdQuit}, nil
	}
	if _, err := strconv.Atoi(fields[0]); err == nil {
		return parsePlay(fields)
	}
	return Command{}, fmt.Errorf("%w: %q", ErrUnknownCommand, fields[0])
}

func parsePlay(args []string) (Command, error) {
	if len(args) != 2 {
		return Command{}, fmt.Errorf("%w: play takes a row and a column", ErrBadArgs)
	}
	row, err := strconv.Atoi(args[0])
	if err != nil {
		return Command{}, fmt.Errorf("%w: row %q", ErrBadArgs, args[0])
	}
	col, err := strconv.Atoi(args[1])
	if err != nil {
		return Command{}, fmt.Errorf("%w: column %q", ErrBadArgs, args[1])
	}
	return Command{Kind: CmdPlay, Pos: domain.Position{Row: row, Col: col}}, nil
}

const helpText = `commands:
  <row> <col> | play <row> <col>   place a stone (0-based)
  jump <n>                         view move n ("0" is the start)
  history                          list moves
  reset                            start over
  quit                             leave
`
