package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/olapd/olapd/pkg/catalog"
	"github.com/olapd/olapd/pkg/config"
	"github.com/olapd/olapd/pkg/discover"
	"github.com/olapd/olapd/pkg/execute"
	"github.com/olapd/olapd/pkg/logging"
	"github.com/olapd/olapd/pkg/metrics"
	"github.com/olapd/olapd/pkg/soap"
	"github.com/olapd/olapd/pkg/xmla"
)

// Server is the olapd HTTP server.
type Server struct {
	cfg      *config.Config
	registry *catalog.Registry
	session  *xmla.Session
	provider *xmla.Provider
	handler  http.Handler
	log      *slog.Logger

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	startTime  time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// WithSession replaces the session created at startup.
func WithSession(session *xmla.Session) Option {
	return func(s *Server) {
		if session != nil {
			s.session = session
		}
	}
}

// New builds the server. The registry stays owned by the caller.
func New(cfg *config.Config, registry *catalog.Registry, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("server: config is required")
	}
	if registry == nil {
		return nil, errors.New("server: catalog registry is required")
	}

	s := &Server{
		cfg:      cfg,
		registry: registry,
		session:  xmla.NewSession(),
		log:      logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	tools := discover.NewTools(registry,
		discover.WithDataSource(discover.DataSource{
			Name:        "olapd",
			Description: "olapd XMLA provider",
			URL:         "http://" + cfg.Address() + cfg.XMLA.Path,
			Info:        "olapd",
			Provider:    "olapd",
		}),
		discover.WithLogger(s.log),
	)
	s.provider = xmla.NewProvider(tools, registry, execute.NewTotalsEngine(registry),
		xmla.WithGate(xmla.Gate{
			Discover: cfg.XMLA.Authentication,
			Execute:  cfg.XMLA.Authentication && cfg.XMLA.AuthenticateExecute,
		}),
		xmla.WithTimeout(cfg.XMLA.RequestTimeout),
		xmla.WithLogger(s.log),
	)

	soapHandler, err := soap.NewHandler(&soap.Config{
		Path:        cfg.XMLA.Path,
		ServiceName: xmla.ServiceName,
		Namespace:   xmla.Namespace,
		Operations:  xmla.Operations(),
	}, s.provider, soap.WithHeader(s.session.Header), soap.WithLogger(s.log))
	if err != nil {
		return nil, err
	}

	s.handler = s.routes(soapHandler)
	return s, nil
}

func (s *Server) routes(soapHandler http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(s.log))
	r.Use(middleware.Recoverer)
	if len(s.cfg.XMLA.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.cfg.XMLA.CORSOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "SOAPAction"},
			MaxAge:         300,
			// The SOAP handler answers OPTIONS itself.
			OptionsPassthrough: true,
		}))
	}

	r.Handle(s.cfg.XMLA.Path, soapHandler)
	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Method(http.MethodGet, "/metrics", metrics.Init().Handler())
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Session returns the session stamped on every response.
func (s *Server) Session() *xmla.Session {
	return s.session
}

// Provider returns the XMLA provider.
func (s *Server) Provider() *xmla.Provider {
	return s.provider
}

// Start listens on the configured address and serves in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.httpServer != nil {
		return errors.New("server is already running")
	}

	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address(), err)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.startTime = time.Now()

	go func(srv *http.Server) {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("HTTP server error", "error", err)
		}
	}(s.httpServer)

	s.log.Info("xmla server started",
		"address", ln.Addr().String(),
		"path", s.cfg.XMLA.Path,
		"session", s.session.ID(),
		"authentication", s.cfg.XMLA.Authentication,
	)
	return nil
}

// Addr returns the listening address, or nil before Start.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.httpServer
	s.httpServer = nil
	s.listener = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("HTTP shutdown: %w", err)
	}
	s.log.Info("xmla server stopped")
	return nil
}

// Uptime returns how long the server has been running.
func (s *Server) Uptime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.startTime.IsZero() {
		return 0
	}
	return time.Since(s.startTime)
}
