package web

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jaminalder/gomoku/internal/app"
	"go.uber.org/zap"
)

// Options tunes the HTTP layer. Zero values pick defaults.
type Options struct {
	Logger    *zap.SugaredLogger
	Heartbeat time.Duration
}

// NewServer wires routes and returns an http.Handler. It also installs the
// board fragment as the service's broadcast renderer.
func NewServer(s *app.Service, opts Options) http.Handler {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	if opts.Heartbeat <= 0 {
		opts.Heartbeat = 15 * time.Second
	}
	h := &handlers{svc: s, tpl: loadTemplates(), log: opts.Logger, heartbeat: opts.Heartbeat}
	s.SetRenderer(func(v app.GameView) []byte { return h.renderBoard(v, "") })

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(opts.Logger))

	r.Get("/", h.index)
	r.Post("/game", h.create)
	r.Route("/game/{id}", func(r chi.Router) {
		r.Get("/", h.view)
		r.Post("/play", h.play)
		r.Post("/jump", h.jump)
		r.Post("/reset", h.reset)
		r.Get("/events", h.events)
	})
	r.Route("/api/games", func(r chi.Router) {
		r.Post("/", h.apiCreate)
		r.Get("/", h.apiList)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.apiGet)
			r.Delete("/", h.apiDelete)
			r.Post("/moves", h.apiMove)
			r.Post("/jump", h.apiJump)
			r.Post("/reset", h.apiReset)
		})
	})
	return r
}

func requestLogger(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Infow("request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"bytes", ww.BytesWritten(),
					"duration", time.Since(start),
					"request_id", middleware.GetReqID(r.Context()),
				)
			}()
			next.ServeHTTP(ww, r)
		})
	}
}
