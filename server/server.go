// Package server runs battles and comparisons over http, and streams battles round by round over a websocket
package server

import (
	"context"
	"errors"
	"math/rand/v2"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/nathanieltooley/pokeduel/duel"
	"github.com/nathanieltooley/pokeduel/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"github.com/rs/zerolog/log"
)

const (
	MAX_STREAM_DELAY = 5 * time.Second
	SHUTDOWN_TIMEOUT = 10 * time.Second
)

type Server struct {
	data   duel.GameData
	engine duel.Engine
	repo   *storage.Repository

	// StreamDelay is the default pause between rounds on the websocket
	StreamDelay time.Duration
	NewSeed     func() int64
	Now         func() time.Time
}

func New(data duel.GameData, repo *storage.Repository, streamDelay time.Duration) *Server {
	return &Server{
		data:        data,
		engine:      duel.NewEngine(data.Catalog),
		repo:        repo,
		StreamDelay: streamDelay,
		NewSeed:     rand.Int64,
		Now:         time.Now,
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	r.Use(hlog.NewHandler(log.Logger))
	r.Use(hlog.RemoteAddrHandler("ip"))
	r.Use(hlog.RequestIDHandler("req_id", "Request-Id"))
	r.Use(hlog.AccessHandler(func(r *http.Request, status, size int, duration time.Duration) {
		hlog.FromRequest(r).Info().
			Str("method", r.Method).
			Stringer("url", r.URL).
			Int("status", status).
			Int("size", size).
			Dur("duration", duration).
			Msg("")
	}))
	r.Use(chiMiddleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	r.Route("/api", func(r chi.Router) {
		r.Route("/combatants", func(r chi.Router) {
			r.Get("/", s.listCombatants)
			r.Get("/{id}", s.getCombatant)
		})

		r.Route("/battles", func(r chi.Router) {
			r.Post("/", s.createBattle)
			r.Get("/", s.listBattles)
			r.Get("/{id}", s.getBattle)
		})

		r.Get("/compare", s.compare)
		r.Get("/compare/chart", s.compareChart)
	})

	r.Get("/ws/battle", s.streamBattle)

	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:    addr,
		Handler: s.Router(),
		BaseContext: func(_ net.Listener) context.Context {
			return ctx
		},
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("Server listening")
		errChan <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info().Msg("Shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), SHUTDOWN_TIMEOUT)
		defer cancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return err
		}

		if err := <-errChan; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}

		return nil
	}
}

func requestLogger(r *http.Request) *zerolog.Logger {
	return hlog.FromRequest(r)
}
