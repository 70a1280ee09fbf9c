package term

import (
	"fmt"
	"strings"

	"github.com/jaminalder/gomoku/internal/domain"
	"github.com/muesli/termenv"
)

// Renderer draws boards and status lines on a termenv output.
type Renderer struct {
	out *termenv.Output
}

func NewRenderer(out *termenv.Output) *Renderer {
	return &Renderer{out: out}
}

func (r *Renderer) cell(c domain.Cell) string {
	switch c {
	case domain.Black:
		return r.out.String("●").Foreground(r.out.Color("0")).Background(r.out.Color("3")).Bold().String()
	case domain.White:
		return r.out.String("○").Foreground(r.out.Color("15")).Background(r.out.Color("3")).Bold().String()
	default:
		return r.out.String("·").Faint().String()
	}
}

// Board writes b with row and column numbers.
func (r *Renderer) Board(b domain.Board) {
	var sb strings.Builder
	sb.WriteString("   ")
	for c := 0; c < domain.Size; c++ {
		fmt.Fprintf(&sb, "%2d", c)
	}
	sb.WriteByte('\n')
	for row := 0; row < domain.Size; row++ {
		fmt.Fprintf(&sb, "%2d ", row)
		for col := 0; col < domain.Size; col++ {
			sb.WriteByte(' ')
			sb.WriteString(r.cell(b.At(domain.Position{Row: row, Col: col})))
		}
		sb.WriteByte('\n')
	}
	_, _ = r.out.WriteString(sb.String())
}

// Status writes the status line; a winner is highlighted.
func (r *Renderer) Status(s domain.Status) {
	text := s.String()
	if s.Winner != domain.Empty {
		text = r.out.String(text).Foreground(r.out.Color("1")).Bold().String()
	}
	_, _ = r.out.WriteString(text + "\n")
}

// History writes the move list, marking the viewed entry.
func (r *Renderer) History(entries []domain.Entry) {
	var sb strings.Builder
	for _, e := range entries {
		marker := "  "
		label := e.Label
		if e.Current {
			marker = "> "
			label = r.out.String(label).Underline().String()
		}
		fmt.Fprintf(&sb, "%s%3d  %s\n", marker, e.Move, label)
	}
	_, _ = r.out.WriteString(sb.String())
}

// Error writes a rejected-command message.
func (r *Renderer) Error(msg string) {
	_, _ = r.out.WriteString(r.out.String(msg).Foreground(r.out.Color("9")).String() + "\n")
}

// Text writes s unstyled.
func (r *Renderer) Text(s string) {
	_, _ = r.out.WriteString(s)
}
