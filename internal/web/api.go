package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jaminalder/gomoku/internal/app"
	"github.com/jaminalder/gomoku/internal/domain"
	"github.com/jaminalder/gomoku/internal/httpresponse"
)

type statusResponse struct {
	Next   string `json:"next,omitempty"`
	Winner string `json:"winner,omitempty"`
	Draw   bool   `json:"draw"`
	Text   string `json:"text"`
}

type entryResponse struct {
	Move    int    `json:"move"`
	Label   string `json:"label"`
	Current bool   `json:"current"`
}

// gameResponse is the JSON form of a game. Rows hold one string per board
// row using '.', 'B' and 'W'.
type gameResponse struct {
	ID      string          `json:"id"`
	Size    int             `json:"size"`
	Rows    []string        `json:"rows"`
	Status  statusResponse  `json:"status"`
	Cursor  int             `json:"cursor"`
	History []entryResponse `json:"history"`
	Created time.Time       `json:"created"`
	Updated time.Time       `json:"updated"`
}

type moveRequest struct {
	Row   *int `json:"row"`
	Col   *int `json:"col"`
	Index *int `json:"index"`
}

type jumpRequest struct {
	Move *int `json:"move"`
}

func boardRows(b domain.Board) []string {
	rows := make([]string, domain.Size)
	var sb strings.Builder
	for r := 0; r < domain.Size; r++ {
		sb.Reset()
		for c := 0; c < domain.Size; c++ {
			switch b[r*domain.Size+c] {
			case domain.Black:
				sb.WriteByte('B')
			case domain.White:
				sb.WriteByte('W')
			default:
				sb.WriteByte('.')
			}
		}
		rows[r] = sb.String()
	}
	return rows
}

func toGameResponse(v app.GameView) gameResponse {
	hist := make([]entryResponse, len(v.Entries))
	for i, e := range v.Entries {
		hist[i] = entryResponse{Move: e.Move, Label: e.Label, Current: e.Current}
	}
	return gameResponse{
		ID:   v.ID,
		Size: domain.Size,
		Rows: boardRows(v.Board),
		Status: statusResponse{
			Next:   v.Status.Next.String(),
			Winner: v.Status.Winner.String(),
			Draw:   v.Status.Draw,
			Text:   v.Status.String(),
		},
		Cursor:  v.Cursor,
		History: hist,
		Created: v.Created,
		Updated: v.Updated,
	}
}

func decodeJSONRequest(r *http.Request, dst any) error {
	defer r.Body.Close()
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return fmt.Errorf("failed to read request body: %w", err)
	}
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.DisallowUnknownFields()
	if err = decoder.Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", errBadInput, err)
	}
	return nil
}

func apiStatus(err error) int {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrOccupied), errors.Is(err, domain.ErrGameOver):
		return http.StatusConflict
	case errors.Is(err, domain.ErrOutOfBounds), errors.Is(err, domain.ErrHistoryRange),
		errors.Is(err, domain.ErrInvalidPlayer), errors.Is(err, errBadInput):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (h *handlers) writeAPIError(w http.ResponseWriter, err error) {
	status := apiStatus(err)
	if status == http.StatusInternalServerError {
		h.log.Errorw("api request failed", "error", err)
		httpresponse.WriteInternalErrorResponse(w)
		return
	}
	httpresponse.WriteError(w, status, err.Error())
}

func (h *handlers) writeGame(w http.ResponseWriter, status int, v *app.GameView, err error) {
	if err != nil {
		h.writeAPIError(w, err)
		return
	}
	httpresponse.WriteResponseWithStatus(w, status, toGameResponse(*v))
}

func (h *handlers) apiCreate(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.CreateGame()
	h.writeGame(w, http.StatusCreated, gs, err)
}

func (h *handlers) apiList(w http.ResponseWriter, r *http.Request) {
	games := h.svc.List()
	out := make([]gameResponse, len(games))
	for i, g := range games {
		out[i] = toGameResponse(g)
	}
	httpresponse.WriteResponseWithStatus(w, http.StatusOK, out)
}

func (h *handlers) apiGet(w http.ResponseWriter, r *http.Request) {
	gs, ok := h.svc.Get(chi.URLParam(r, "id"))
	if !ok {
		h.writeAPIError(w, app.ErrNotFound)
		return
	}
	h.writeGame(w, http.StatusOK, gs, nil)
}

func (h *handlers) apiMove(w http.ResponseWriter, r *http.Request) {
	var req moveRequest
	if err := decodeJSONRequest(r, &req); err != nil {
		h.writeAPIError(w, err)
		return
	}
	var p domain.Position
	switch {
	case req.Index != nil:
		var err error
		if p, err = domain.PositionOf(*req.Index); err != nil {
			h.writeAPIError(w, err)
			return
		}
	case req.Row != nil && req.Col != nil:
		p = domain.Position{Row: *req.Row, Col: *req.Col}
	default:
		h.writeAPIError(w, fmt.Errorf("%w: need index or row and col", errBadInput))
		return
	}
	gs, err := h.svc.Play(chi.URLParam(r, "id"), p.Row, p.Col)
	h.writeGame(w, http.StatusOK, gs, err)
}

func (h *handlers) apiJump(w http.ResponseWriter, r *http.Request) {
	var req jumpRequest
	if err := decodeJSONRequest(r, &req); err != nil {
		h.writeAPIError(w, err)
		return
	}
	if req.Move == nil {
		h.writeAPIError(w, fmt.Errorf("%w: need move", errBadInput))
		return
	}
	gs, err := h.svc.JumpTo(chi.URLParam(r, "id"), *req.Move)
	h.writeGame(w, http.StatusOK, gs, err)
}

func (h *handlers) apiReset(w http.ResponseWriter, r *http.Request) {
	gs, err := h.svc.Reset(chi.URLParam(r, "id"))
	h.writeGame(w, http.StatusOK, gs, err)
}

func (h *handlers) apiDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(chi.URLParam(r, "id")); err != nil {
		h.writeAPIError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
