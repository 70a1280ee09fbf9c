package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaminalder/gomoku/internal/domain"
	"go.uber.org/zap"
)

// Errors exposed by the service layer.
var ErrNotFound = errors.New("game not found")

// GameState is the in-memory state tracked per game.
type GameState struct {
	ID      string
	History *domain.History
	Created time.Time
	Updated time.Time
}

// GameView is a detached copy of a game for rendering.
type GameView struct {
	ID      string
	Board   domain.Board
	Status  domain.Status
	Cursor  int
	Entries []domain.Entry
	Created time.Time
	Updated time.Time
}

func (gs *GameState) view() GameView {
	return GameView{
		ID:      gs.ID,
		Board:   gs.History.Current(),
		Status:  gs.History.Status(),
		Cursor:  gs.History.Cursor(),
		Entries: gs.History.Entries(),
		Created: gs.Created,
		Updated: gs.Updated,
	}
}

type subscriber struct {
	ch        chan []byte
	closeOnce sync.Once
}

func (s *subscriber) close() { s.closeOnce.Do(func() { close(s.ch) }) }

// Renderer turns a view into a broadcast payload.
type Renderer func(GameView) []byte

func noRender(GameView) []byte { return nil }

// Service manages games and subscribers. Every operation on a game runs to
// completion under the service lock.
type Service struct {
	mu      sync.Mutex
	games   map[string]*GameState
	subs    map[string]map[*subscriber]struct{}
	render  Renderer
	log     *zap.SugaredLogger
	bufSize int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithRenderer sets the broadcast renderer.
func WithRenderer(r Renderer) Option {
	return func(s *Service) {
		if r != nil {
			s.render = r
		}
	}
}

// WithSubscriberBuffer sets the per-subscriber channel capacity.
func WithSubscriberBuffer(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.bufSize = n
		}
	}
}

// NewService creates a service. Without options it logs nowhere and
// broadcasts empty payloads.
func NewService(opts ...Option) *Service {
	s := &Service{
		games:   make(map[string]*GameState),
		subs:    make(map[string]map[*subscriber]struct{}),
		render:  noRender,
		log:     zap.NewNop().Sugar(),
		bufSize: 1,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetRenderer replaces the broadcast renderer function.
func (s *Service) SetRenderer(r Renderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r == nil {
		s.render = noRender
		return
	}
	s.render = r
}

// CreateGame creates and registers a new game.
func (s *Service) CreateGame() (*GameView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	now := time.Now()
	gs := &GameState{ID: id, History: domain.NewHistory(), Created: now, Updated: now}
	s.games[id] = gs
	s.log.Infow("game created", "game", id)
	v := gs.view()
	return &v, nil
}

// Get returns a view of the game if present.
func (s *Service) Get(id string) (*GameView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	gs, ok := s.games[id]
	if !ok {
		return nil, false
	}
	v := gs.view()
	return &v, true
}

// List returns views of every game, oldest first.
func (s *Service) List() []GameView {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GameView, 0, len(s.games))
	for _, gs := range s.games {
		out = append(out, gs.view())
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Created.Equal(out[j].Created) {
			return out[i].ID < out[j].ID
		}
		return out[i].Created.Before(out[j].Created)
	})
	return out
}

// Delete removes a game and closes its subscribers.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return ErrNotFound
	}
	delete(s.games, id)
	for sub := range s.subs[id] {
		sub.close()
	}
	delete(s.subs, id)
	s.log.Infow("game deleted", "game", id)
	return nil
}

// Play places a stone for the player to move on the viewed snapshot.
func (s *Service) Play(id string, row, col int) (*GameView, error) {
	p := domain.Position{Row: row, Col: col}
	return s.update(id, "move", func(h *domain.History) error {
		_, err := h.Play(p)
		return err
	}, "row", row, "col", col)
}

// JumpTo moves the game's cursor to the given history entry.
func (s *Service) JumpTo(id string, move int) (*GameView, error) {
	return s.update(id, "jump", func(h *domain.History) error {
		return h.JumpTo(move)
	}, "move", move)
}

// Reset starts the game over from the empty board.
func (s *Service) Reset(id string) (*GameView, error) {
	return s.update(id, "reset", func(h *domain.History) error {
		h.Reset()
		return nil
	})
}

// update applies op to a game, updates timestamps, and broadcasts. A failed
// op leaves the game untouched and returns its current view with the error.
func (s *Service) update(id, action string, op func(*domain.History) error, kv ...any) (*GameView, error) {
	s.mu.Lock()
	gs, ok := s.games[id]
	if !ok {
		s.mu.Unlock()
		return nil, ErrNotFound
	}
	if err := op(gs.History); err != nil {
		v := gs.view()
		s.mu.Unlock()
		s.log.With(kv...).Infow(action+" rejected", "game", id, "cursor", v.Cursor, "error", err)
		return &v, fmt.Errorf("%s: %w", action, err)
	}
	gs.Updated = time.Now()
	v := gs.view()
	dropped := s.broadcastLocked(id, s.render(v))
	s.mu.Unlock()

	s.log.With(kv...).Debugw(action, "game", id, "cursor", v.Cursor, "status", v.Status.String())
	if dropped > 0 {
		s.log.Infow("dropped slow subscribers", "game", id, "count", dropped)
	}
	return &v, nil
}

// broadcastLocked sends payload to every subscriber of id without blocking.
// Slow subscribers are closed and removed. Returns how many were dropped.
func (s *Service) broadcastLocked(id string, payload []byte) int {
	set := s.subs[id]
	dropped := 0
	for sub := range set {
		select {
		case sub.ch <- payload:
		default:
			sub.close()
			delete(set, sub)
			dropped++
		}
	}
	return dropped
}

// Subscribe registers a subscriber for a game. Returns a channel and an
// unsubscribe func; the subscription also ends when ctx is done.
func (s *Service) Subscribe(ctx context.Context, id string) (<-chan []byte, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[id]; !ok {
		return nil, func() {}, ErrNotFound
	}
	set := s.subs[id]
	if set == nil {
		set = make(map[*subscriber]struct{})
		s.subs[id] = set
	}
	sub := &subscriber{ch: make(chan []byte, s.bufSize)}
	set[sub] = struct{}{}

	unsubOnce := &sync.Once{}
	unsub := func() {
		unsubOnce.Do(func() {
			s.mu.Lock()
			if set, ok := s.subs[id]; ok {
				delete(set, sub)
			}
			s.mu.Unlock()
			sub.close()
		})
	}
	go func() {
		<-ctx.Done()
		unsub()
	}()
	return sub.ch, unsub, nil
}
