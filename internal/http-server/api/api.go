package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"
	"tourneybot/internal/config"
	"tourneybot/internal/http-server/handlers/document"
	errs "tourneybot/internal/http-server/handlers/errors"
	"tourneybot/internal/http-server/handlers/pending"
	"tourneybot/internal/http-server/handlers/players"
	"tourneybot/internal/http-server/handlers/registrations"
	"tourneybot/internal/http-server/middleware/authenticate"
	"tourneybot/internal/http-server/middleware/timeout"
	"tourneybot/internal/ratelimit"
	"tourneybot/lib/sl"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
)

const (
	requestsPerMinute = 120
	requestTimeout    = 5 * time.Second
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

type Handler interface {
	authenticate.Authenticate
	registrations.Core
	document.Core
	pending.Core
	players.Core
}

func New(conf *config.Config, log *slog.Logger, handler Handler) *Server {
	server := &Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:      Router(log, handler),
		ErrorLog:     httpLog,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return server
}

func Router(log *slog.Logger, handler Handler) http.Handler {
	router := chi.NewRouter()
	router.Use(timeout.Timeout(requestTimeout))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(ratelimit.Middleware(ratelimit.PerMinute[string](requestsPerMinute)))
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errs.NotFound(log))
	router.MethodNotAllowed(errs.NotAllowed(log))

	router.Route("/v1", func(v1 chi.Router) {
		v1.Use(authenticate.New(log, handler))
		v1.Get("/stats", registrations.Stats(log, handler))
		v1.Get("/registrations", registrations.List(log, handler))
		v1.Get("/export", document.JSON(log, handler))
		v1.Get("/export/roster.xlsx", document.Roster(log, handler))
		v1.Route("/pending/{user_id}/{track}", func(p chi.Router) {
			p.Post("/confirm", pending.Confirm(log, handler))
			p.Post("/reject", pending.Reject(log, handler))
		})
		v1.Delete("/players/{track}/{username}", players.Remove(log, handler))
		v1.Post("/clear", players.Clear(log, handler))
	})
	return router
}

// Start blocks until the server is shut down.
func (s *Server) Start() error {
	serverAddress := fmt.Sprintf("%s:%s", s.conf.Api.Listen.BindIp, s.conf.Api.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	s.log.Info("starting api server", slog.String("address", serverAddress))

	err = s.httpServer.Serve(listener)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info("stopping api server")
	return s.httpServer.Shutdown(ctx)
}
