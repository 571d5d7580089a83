// internal/httpserver/server.go
//
// HTTP server wiring for browser front ends.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs).
//   - Public endpoints: "/", "/health", "/debug/words".
//   - Game endpoints: POST /game/new, then per-session input routes gated by
//     the session token (see token.go and routes_game.go).
//   - Daily puzzle info under /daily.
//   - Websocket event stream per session (events.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Sessions live in a store.Store; nothing is persisted.

package httpserver

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/tilewords/internal/config"
	"github.com/robalobadob/tilewords/internal/game"
	"github.com/robalobadob/tilewords/internal/store"
	"github.com/robalobadob/tilewords/internal/words"
)

// Server bundles router, session store and word list.
type Server struct {
	r        *chi.Mux
	store    store.Store
	words    *words.List
	game     config.Game
	cfg      config.Server
	clock    quartz.Clock
	upgrader websocket.Upgrader

	httpSrv  *http.Server
	done     chan struct{}
	doneOnce sync.Once
}

// Option configures a Server.
type Option func(*Server)

// WithClock sets the clock used for reveals, token times and session expiry.
func WithClock(clk quartz.Clock) Option { return func(s *Server) { s.clock = clk } }

// New constructs a Server, installs middleware, and registers routes.
func New(st store.Store, list *words.List, cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		r:     chi.NewRouter(),
		store: st,
		words: list,
		game:  cfg.Game,
		cfg:   cfg.Server,
		clock: quartz.NewReal(),
		done:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID) // add X-Request-ID
	s.r.Use(chimw.RealIP)    // set RemoteAddr from X-Forwarded-For etc.
	s.r.Use(chimw.Recoverer) // recover from panics
	s.r.Use(s.cors)          // credentials-friendly CORS

	s.r.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(10 * time.Second)) // bound handler time
		r.Use(jsonContentType)                 // default JSON responses

		// --- diagnostics ---
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{
				"service": "tilewords",
				"endpoints": []string{
					"/health", "POST /game/new", "GET /game/{id}", "POST /game/{id}/letter",
					"POST /game/{id}/delete", "POST /game/{id}/submit", "POST /game/{id}/key",
					"GET /game/{id}/events", "GET /daily/today",
				},
			})
		})
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.store.Len()})
		})
		r.Get("/debug/words", func(w http.ResponseWriter, r *http.Request) {
			a, g := s.words.Stats()
			writeJSON(w, http.StatusOK, map[string]int{"answers": a, "allowed": g})
		})

		s.mountGame(r)
		s.mountDaily(r)
	})

	// Long-lived: no handler timeout.
	s.r.With(s.requireSession).Get("/game/{id}/events", s.handleEvents)

	// JSON 404 for easier debugging
	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not_found", "path": r.URL.Path})
	})

	s.httpSrv = &http.Server{
		Handler:           s.r,
		ReadHeaderTimeout: 5 * time.Second,
	}
	return s
}

// Start begins serving HTTP on addr and blocks until Shutdown.
func (s *Server) Start(addr string) error {
	s.httpSrv.Addr = addr
	return s.httpSrv.ListenAndServe()
}

// Shutdown stops accepting requests, closes event streams and waits for
// in-flight handlers until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	s.doneOnce.Do(func() { close(s.done) })
	return s.httpSrv.Shutdown(ctx)
}

// SweepEvery removes expired sessions every interval until ctx ends. A
// non-positive interval disables sweeping; expired sessions are still
// hidden from lookups.
func (s *Server) SweepEvery(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		log.Info().Dur("interval", interval).Msg("session sweeper disabled")
		<-ctx.Done()
		return nil
	}
	w := s.clock.TickerFunc(ctx, interval, func() error {
		if n := s.store.Sweep(ctx, s.clock.Now()); n > 0 {
			log.Debug().Int("removed", n).Msg("swept expired sessions")
		}
		return nil
	}, "sweep")
	err := w.Wait()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for the configured client origin.
func (s *Server) cors(next http.Handler) http.Handler {
	origin := s.cfg.ClientOrigin
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Vary", "Origin")
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// checkOrigin admits same-origin and non-browser clients, and the configured
// client origin.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || origin == s.cfg.ClientOrigin {
		return true
	}
	return origin == "http://"+r.Host || origin == "https://"+r.Host
}

// ------------------------------- helpers -----------------------------------

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// errorRes is the body of every non-2xx JSON reply.
type errorRes struct {
	Error   string        `json:"error"`
	Message *game.Message `json:"message,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, errorRes{Error: code})
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.URLEncoding.WithPadding(base64.NoPadding).EncodeToString(b[:])
}
