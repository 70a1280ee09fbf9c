package web

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/gomoku/internal/app"
	"github.com/jaminalder/gomoku/internal/domain"
	"go.uber.org/zap"
)

var errBadInput = errors.New("bad input")

type handlers struct {
	svc       *app.Service
	tpl       *templates
	log       *zap.SugaredLogger
	heartbeat time.Duration
}

func (h *handlers) renderBoard(v app.GameView, errMsg string) []byte {
	return renderTemplate(h.tpl.board, "", newBoardData(v, errMsg))
}

func (h *handlers) writeBoard(w http.ResponseWriter, v app.GameView, errMsg string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.renderBoard(v, errMsg))
}

func (h *handlers) index(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.index, "base", h.svc.List()))
}

func (h *handlers) create(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	if err != nil {
		http.Error(w, "failed to create", http.StatusInternalServerError)
		return
	}
	http.Redirect(w, r, "/game/"+gs.ID, http.StatusSeeOther)
}

func (h *handlers) view(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, ok := h.svc.Get(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	data := struct {
		ID        string
		BoardHTML template.HTML
	}{ID: gs.ID, BoardHTML: template.HTML(h.renderBoard(*gs, ""))}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(renderTemplate(h.tpl.game, "base", data))
}

// formPosition reads either a linear index "i" or a row/column pair "r","c".
func formPosition(r *http.Request) (domain.Position, error) {
	if s := r.Form.Get("i"); s != "" {
		i, err := strconv.Atoi(s)
		if err != nil {
			return domain.Position{}, fmt.Errorf("%w: cell index %q", errBadInput, s)
		}
		return domain.PositionOf(i)
	}
	row, err := strconv.Atoi(r.Form.Get("r"))
	if err != nil {
		return domain.Position{}, fmt.Errorf("%w: row %q", errBadInput, r.Form.Get("r"))
	}
	col, err := strconv.Atoi(r.Form.Get("c"))
	if err != nil {
		return domain.Position{}, fmt.Errorf("%w: column %q", errBadInput, r.Form.Get("c"))
	}
	return domain.Position{Row: row, Col: col}, nil
}

// respond renders the board fragment after an operation. Rejections are
// shown inline; an unknown game is a 404.
func (h *handlers) respond(w http.ResponseWriter, r *http.Request, id string, gs *app.GameView, err error) {
	if errors.Is(err, app.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if gs == nil {
		g, ok := h.svc.Get(id)
		if !ok {
			http.NotFound(w, r)
			return
		}
		gs = g
	}
	var errMsg string
	if err != nil {
		errMsg = errorMessage(err)
	}
	h.writeBoard(w, *gs, errMsg)
}

func (h *handlers) play(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	p, err := formPosition(r)
	if err != nil {
		h.respond(w, r, id, nil, err)
		return
	}
	gs, err := h.svc.Play(id, p.Row, p.Col)
	h.respond(w, r, id, gs, err)
}

func (h *handlers) jump(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	_ = r.ParseForm()
	move, err := strconv.Atoi(r.Form.Get("move"))
	if err != nil {
		h.respond(w, r, id, nil, fmt.Errorf("%w: move %q", errBadInput, r.Form.Get("move")))
		return
	}
	gs, err := h.svc.JumpTo(id, move)
	h.respond(w, r, id, gs, err)
}

func (h *handlers) reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	gs, err := h.svc.Reset(id)
	h.respond(w, r, id, gs, err)
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrOccupied):
		return "Cell is occupied"
	case errors.Is(err, domain.ErrOutOfBounds):
		return "Out of bounds"
	case errors.Is(err, domain.ErrGameOver):
		return "Game is over"
	case errors.Is(err, domain.ErrHistoryRange):
		return "No such move"
	case errors.Is(err, errBadInput):
		return "Invalid input"
	default:
		return "Invalid move"
	}
}

func (h *handlers) events(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("X-Accel-Buffering", "no")
	// Non-EventSource requests only get the headers
	if r.Header.Get("Accept") != "text/event-stream" {
		w.WriteHeader(http.StatusOK)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		w.WriteHeader(http.StatusOK)
		return
	}
	ctx := r.Context()
	ch, unsub, err := h.svc.Subscribe(ctx, id)
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer unsub()
	h.log.Debugw("viewer subscribed", "game", id)

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	flusher.Flush()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_, _ = io.WriteString(w, ": ping\n\n")
			flusher.Flush()
		case b, ok := <-ch:
			if !ok {
				return
			}
			_, _ = fmt.Fprintf(w, "event: board\n")
			for _, line := range bytes.Split(b, []byte("\n")) {
				_, _ = fmt.Fprintf(w, "data: %s\n", line)
			}
			_, _ = io.WriteString(w, "\n")
			flusher.Flush()
		}
	}
}
