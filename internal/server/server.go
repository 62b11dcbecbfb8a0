// Package server exposes the daemon's HTTP API: queue CRUD, processing
// triggers, spreadsheet import/export, credits, profiles, and operational
// endpoints. Every /api route is owner-scoped through bearer auth; metrics
// and liveness stay open.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/config"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/credits"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/engine"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/logging"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/profile"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/queue"
	"github.com/xBalzerian/Wordpress-Claw-sub001/internal/services/writer"
)

// Server wires the HTTP surface over the daemon's stores and engine.
type Server struct {
	cfg      *config.Config
	store    *queue.Store
	ledger   *credits.Ledger
	profiles *profile.Store
	engine   *engine.Engine
	writer   *writer.Client
	logger   *slog.Logger

	httpServer *http.Server
	listener   net.Listener
}

// New builds the server. The writer client is optional; without it the
// status endpoint reports the generation service as unreachable.
func New(
	cfg *config.Config,
	store *queue.Store,
	ledger *credits.Ledger,
	profiles *profile.Store,
	eng *engine.Engine,
	writerClient *writer.Client,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Server{
		cfg:      cfg,
		store:    store,
		ledger:   ledger,
		profiles: profiles,
		engine:   eng,
		writer:   writerClient,
		logger:   logger.With(logging.String(logging.FieldComponent, "api")),
	}
}

// Handler assembles the router. Exposed separately so tests can drive the
// full middleware stack through httptest without binding a port.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	if limit := s.cfg.Server.RateLimitPerMinute; limit > 0 {
		r.Use(httprate.Limit(limit, time.Minute, httprate.WithKeyFuncs(httprate.KeyByIP)))
	}

	r.Get("/healthz", s.handleHealthz)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Use(s.auth)

		r.Route("/items", func(r chi.Router) {
			r.Post("/", s.handleCreateItem)
			r.Get("/", s.handleListItems)
			r.Post("/process-all", s.handleProcessAll)
			r.Post("/import", s.handleImport)
			r.Get("/export", s.handleExport)

			r.Route("/{itemID}", func(r chi.Router) {
				r.Get("/", s.handleGetItem)
				r.Patch("/", s.handleUpdateItem)
				r.Delete("/", s.handleDeleteItem)
				r.Post("/process", s.handleProcessItem)
			})
		})

		r.Get("/credits", s.handleCredits)
		r.Get("/profile", s.handleGetProfile)
		r.Put("/profile", s.handlePutProfile)
		r.Get("/status", s.handleStatus)
	})

	return r
}

// Start binds the configured address and serves in the background. Bind
// failures surface here rather than inside the serve goroutine.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", s.cfg.Paths.APIBind)
	if err != nil {
		return err
	}
	s.listener = listener
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("http server failed",
				logging.Error(err),
				logging.String(logging.FieldEventType, "api_serve_failed"),
				logging.String(logging.FieldErrorHint, "restart the daemon; check for port conflicts"),
			)
		}
	}()

	s.logger.Info("api listening",
		logging.String("addr", listener.Addr().String()),
		logging.String(logging.FieldEventType, "api_started"),
	)
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Shutdown drains in-flight requests until the context expires.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
