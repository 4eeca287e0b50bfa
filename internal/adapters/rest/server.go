package rest

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Venuja2003/Estate-Agent/internal/core/port"
)

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
}

type Handlers struct {
	Properties *PropertyHandler
	Favourites *FavouritesHandler
	Drag       *DragHandler
	Sessions   *SessionHandler
}

type Server struct {
	httpServer *http.Server
	router     chi.Router
	logger     port.LoggerPort

	// cancelBase ends long-lived requests such as event streams
	cancelBase context.CancelFunc
}

func NewServer(cfg ServerConfig, h Handlers, sessions port.SessionRepositoryPort, baseLogger port.LoggerPort) *Server {
	r := chi.NewRouter()

	r.Use(middleware.RealIP, LoggerMiddleware(baseLogger), middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", SessionHeader, TraceHeader},
		ExposedHeaders:   []string{TraceHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/healthz", h.Sessions.Health)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/sessions", h.Sessions.Create)

		r.Group(func(r chi.Router) {
			r.Use(OptionalSessionMiddleware(sessions))
			r.Get("/properties", h.Properties.Search)
			r.Get("/properties/{propertyID}", h.Properties.GetByID)
		})

		r.Group(func(r chi.Router) {
			r.Use(SessionMiddleware(sessions))

			r.Route("/favourites", func(r chi.Router) {
				r.Get("/", h.Favourites.List)
				r.Post("/", h.Favourites.Add)
				r.Delete("/", h.Favourites.Clear)
				r.Get("/events", h.Favourites.Events)
				r.Post("/drop", h.Drag.DropPayload)
				r.Delete("/{propertyID}", h.Favourites.Remove)
			})

			r.Route("/drag", func(r chi.Router) {
				r.Get("/", h.Drag.State)
				r.Post("/", h.Drag.Start)
				r.Delete("/", h.Drag.Cancel)
				r.Post("/enter", h.Drag.Enter)
				r.Post("/leave", h.Drag.Leave)
				r.Post("/drop", h.Drag.Drop)
			})
		})
	})

	baseCtx, cancelBase := context.WithCancel(context.Background())
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           r,
			ReadHeaderTimeout: 10 * time.Second,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		},
		router:     r,
		logger:     baseLogger.WithFields(port.Fields{"component": "rest_server"}),
		cancelBase: cancelBase,
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting REST API server", port.Fields{"address": s.httpServer.Addr})
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Could not start server", err, nil)
		return fmt.Errorf("could not start server: %w", err)
	}
	return nil
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping REST API server", nil)
	s.cancelBase()
	return s.httpServer.Shutdown(ctx)
}
