package term

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/jaminalder/gomoku/internal/domain"
	"go.uber.org/zap"
)

// Session is a hot-seat game driven by line commands. It owns its History
// and handles one command at a time.
type Session struct {
	h   *domain.History
	r   *Renderer
	log *zap.SugaredLogger
}

func NewSession(r *Renderer, log *zap.SugaredLogger) *Session {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Session{h: domain.NewHistory(), r: r, log: log}
}

// History exposes the session's game history.
func (s *Session) History() *domain.History { return s.h }

// Run reads commands from in until quit or EOF.
func (s *Session) Run(in io.Reader) error {
	s.show()
	sc := bufio.NewScanner(in)
	for {
		s.r.Text(fmt.Sprintf("%s> ", s.h.ToMove()))
		if !sc.Scan() {
			s.r.Text("\n")
			return sc.Err()
		}
		cmd, err := ParseCommand(sc.Text())
		if errors.Is(err, ErrEmpty) {
			continue
		}
		if err != nil {
			s.r.Error(err.Error())
			continue
		}
		if cmd.Kind == CmdQuit {
			return nil
		}
		if err := s.Exec(cmd); err != nil {
			s.log.Debugw("command rejected", "kind", cmd.Kind, "error", err)
			s.r.Error(describe(err))
		}
	}
}

// Exec applies one command and redraws what changed.
func (s *Session) Exec(cmd Command) error {
	switch cmd.Kind {
	case CmdPlay:
		if _, err := s.h.Play(cmd.Pos); err != nil {
			return err
		}
		s.log.Debugw("move", "row", cmd.Pos.Row, "col", cmd.Pos.Col, "cursor", s.h.Cursor())
		s.show()
	case CmdJump:
		if err := s.h.JumpTo(cmd.Move); err != nil {
			return err
		}
		s.show()
	case CmdReset:
		s.h.Reset()
		s.show()
	case CmdHistory:
		s.r.History(s.h.Entries())
	case CmdHelp:
		s.r.Text(helpText)
	case CmdQuit:
	default:
		return ErrUnknownCommand
	}
	return nil
}

func (s *Session) show() {
	s.r.Board(s.h.Current())
	s.r.Status(s.h.Status())
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrOccupied):
		return "that cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return fmt.Sprintf("row and column must be between 0 and %d", domain.Size-1)
	case errors.Is(err, domain.ErrGameOver):
		return "the game is over; jump back or reset"
	case errors.Is(err, domain.ErrHistoryRange):
		return "no such move; see history"
	default:
		return err.Error()
	}
}
