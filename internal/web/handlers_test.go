package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/jaminalder/gomoku/internal/app"
	"github.com/jaminalder/gomoku/internal/domain"
)

func newTestServer(t *testing.T) (*app.Service, http.Handler) {
	t.Helper()
	s := app.NewService()
	h := NewServer(s, Options{Heartbeat: time.Second})
	return s, h
}

func postForm(h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestIndexPage(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()
	req := httptest.NewRequest("GET", "/", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<form") || !strings.Contains(body, "action=\"/game\"") {
		t.Fatalf("index should contain create form; got body: %q", body)
	}
	if !strings.Contains(body, "/game/"+gs.ID) {
		t.Fatalf("index should link existing game %s", gs.ID)
	}
}

func TestCreateRedirectsToGame(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest("POST", "/game", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusSeeOther && rr.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}
	loc := rr.Result().Header.Get("Location")
	if !strings.HasPrefix(loc, "/game/") {
		t.Fatalf("expected redirect to /game/{id}, got %q", loc)
	}
}

func TestGamePageRendersBoardAndHistory(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()

	req := httptest.NewRequest("GET", "/game/"+url.PathEscape(gs.ID), nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "<!doctype html>") {
		t.Fatalf("expected full page")
	}
	if !strings.Contains(body, "hx-ext=\"sse\"") || !strings.Contains(body, "/game/"+gs.ID+"/events") {
		t.Fatalf("expected SSE wiring in page; got body: %q", body)
	}
	if got := strings.Count(body, "class=\"square\""); got != domain.Size*domain.Size {
		t.Fatalf("expected %d squares, got %d", domain.Size*domain.Size, got)
	}
	if !strings.Contains(body, "Next player: Black") || !strings.Contains(body, ">start<") {
		t.Fatalf("expected status and start entry; got body: %q", body)
	}
}

func TestGamePageUnknown(t *testing.T) {
	_, h := newTestServer(t)
	req := httptest.NewRequest("GET", "/game/missing", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestPlayEndpointUpdatesStateAndReturnsFragment(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()

	rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"i": {"21"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "id=\"board\"") {
		t.Fatalf("expected board fragment, got %q", body)
	}
	if !strings.Contains(body, "Next player: White") || !strings.Contains(body, "move 1") {
		t.Fatalf("expected updated status and history, got %q", body)
	}
	latest, _ := svc.Get(gs.ID)
	if latest.Board[21] != domain.Black || latest.Cursor != 1 {
		t.Fatalf("expected move applied, cursor=%d cell=%v", latest.Cursor, latest.Board[21])
	}

	rr = postForm(h, "/game/"+gs.ID+"/play", url.Values{"r": {"2"}, "c": {"3"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	latest, _ = svc.Get(gs.ID)
	if latest.Board[2*domain.Size+3] != domain.White {
		t.Fatalf("expected White at (2,3)")
	}
}

func TestPlayOccupiedShowsError(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()
	svc.Play(gs.ID, 0, 0)

	rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"i": {"0"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Cell is occupied") {
		t.Fatalf("expected occupied error, got %q", rr.Body.String())
	}
	latest, _ := svc.Get(gs.ID)
	if latest.Cursor != 1 || len(latest.Entries) != 2 {
		t.Fatalf("rejected move changed state")
	}
}

func TestPlayBadInput(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()
	cases := []struct {
		form url.Values
		msg  string
	}{
		{url.Values{"i": {"abc"}}, "Invalid input"},
		{url.Values{"i": {"400"}}, "Out of bounds"},
		{url.Values{"r": {"1"}}, "Invalid input"},
		{url.Values{"r": {"20"}, "c": {"0"}}, "Out of bounds"},
	}
	for _, tc := range cases {
		rr := postForm(h, "/game/"+gs.ID+"/play", tc.form)
		if !strings.Contains(rr.Body.String(), tc.msg) {
			t.Fatalf("form %v: expected %q, got %q", tc.form, tc.msg, rr.Body.String())
		}
	}
	if latest, _ := svc.Get(gs.ID); latest.Cursor != 0 {
		t.Fatalf("bad input changed state")
	}
}

func TestPlayUnknownGame(t *testing.T) {
	_, h := newTestServer(t)
	rr := postForm(h, "/game/missing/play", url.Values{"i": {"0"}})
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestJumpAndResetEndpoints(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()
	svc.Play(gs.ID, 0, 0)
	svc.Play(gs.ID, 1, 1)

	rr := postForm(h, "/game/"+gs.ID+"/jump", url.Values{"move": {"0"}})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	latest, _ := svc.Get(gs.ID)
	if latest.Cursor != 0 || len(latest.Entries) != 3 {
		t.Fatalf("unexpected state after jump: cursor=%d entries=%d", latest.Cursor, len(latest.Entries))
	}
	if strings.Contains(rr.Body.String(), "piece black") {
		t.Fatalf("expected empty board view after jump")
	}

	rr = postForm(h, "/game/"+gs.ID+"/jump", url.Values{"move": {"9"}})
	if !strings.Contains(rr.Body.String(), "No such move") {
		t.Fatalf("expected range error, got %q", rr.Body.String())
	}

	rr = postForm(h, "/game/"+gs.ID+"/reset", url.Values{})
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	latest, _ = svc.Get(gs.ID)
	if len(latest.Entries) != 1 {
		t.Fatalf("expected reset history, got %d entries", len(latest.Entries))
	}
}

func TestWinnerDisablesBoard(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()
	for i := 0; i < 4; i++ {
		svc.Play(gs.ID, 0, i)
		svc.Play(gs.ID, 5, i)
	}
	rr := postForm(h, "/game/"+gs.ID+"/play", url.Values{"r": {"0"}, "c": {"4"}})
	body := rr.Body.String()
	if !strings.Contains(body, "Winner: Black") {
		t.Fatalf("expected winner announcement, got %q", body)
	}
	if got := strings.Count(body, " disabled>"); got != domain.Size*domain.Size {
		t.Fatalf("expected every square disabled, got %d", got)
	}
}

func TestEventsEndpointSSEHeaders(t *testing.T) {
	_, h := newTestServer(t)
	reqCreate := httptest.NewRequest("POST", "/game", nil)
	rrCreate := httptest.NewRecorder()
	h.ServeHTTP(rrCreate, reqCreate)
	loc := rrCreate.Result().Header.Get("Location")
	if loc == "" {
		t.Fatalf("missing redirect location")
	}
	req := httptest.NewRequest("GET", loc+"/events", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	ct := rr.Result().Header.Get("Content-Type")
	if !strings.HasPrefix(ct, "text/event-stream") {
		io.Copy(io.Discard, rr.Result().Body)
		t.Fatalf("expected text/event-stream, got %q", ct)
	}
}

func TestEventsStreamBoardUpdates(t *testing.T) {
	svc, h := newTestServer(t)
	gs, _ := svc.CreateGame()
	srv := httptest.NewServer(h)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, "GET", srv.URL+"/game/"+gs.ID+"/events", nil)
	req.Header.Set("Accept", "text/event-stream")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("events request failed: %v", err)
	}
	defer resp.Body.Close()

	// The subscription is registered before headers are flushed.
	if _, err := svc.Play(gs.ID, 0, 0); err != nil {
		t.Fatalf("play failed: %v", err)
	}

	var got strings.Builder
	buf := make([]byte, 4096)
	for !strings.Contains(got.String(), "Next player: White") {
		n, err := resp.Body.Read(buf)
		got.Write(buf[:n])
		if err != nil {
			t.Fatalf("stream ended before board event: %v; got %q", err, got.String())
		}
	}
	if !strings.Contains(got.String(), "event: board") {
		t.Fatalf("expected board event, got %q", got.String())
	}
}
