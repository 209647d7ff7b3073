// Package server exposes the expression engine over HTTP, WebSocket and a
// gRPC health endpoint.
package server

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	mdwerror "github.com/msto63/glox/foundation/core/error"
	"github.com/msto63/glox/foundation/lox"
	"github.com/msto63/glox/internal/history"
	"github.com/msto63/glox/internal/server/handler"
	"github.com/msto63/glox/pkg/core/cache"
	coregrpc "github.com/msto63/glox/pkg/core/grpc"
	"github.com/msto63/glox/pkg/core/health"
	"github.com/msto63/glox/pkg/core/logging"
	"github.com/msto63/glox/pkg/core/version"
)

// HealthService is the service name reported by the gRPC health server
const HealthService = "glox"

// Server is the glox evaluation server
type Server struct {
	httpServer *http.Server
	grpc       *coregrpc.Server
	engine     *lox.Engine
	results    *cache.Cache[any]
	health     *health.Registry
	logger     *logging.Logger
	config     Config
	listener   net.Listener
}

// Config holds server configuration
type Config struct {
	Host            string
	HTTPPort        int
	GRPCPort        int // 0 disables the gRPC health server
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxSourceLength int
	CacheSize       int // cached HTTP responses, 0 disables
	CacheTTL        time.Duration
	Version         string

	// History records websocket evaluations when set
	History history.Store
}

// DefaultConfig returns default server configuration
func DefaultConfig() Config {
	return Config{
		Host:            "127.0.0.1",
		HTTPPort:        8420,
		GRPCPort:        8421,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    30 * time.Second,
		MaxSourceLength: 64 * 1024,
		CacheSize:       1024,
		CacheTTL:        10 * time.Minute,
		Version:         version.Server,
	}
}

// New creates a new evaluation server
func New(cfg Config) (*Server, error) {
	if cfg.HTTPPort < 0 || cfg.HTTPPort > 65535 {
		return nil, mdwerror.Newf("invalid HTTP port %d", cfg.HTTPPort).
			WithCode(mdwerror.CodeInvalidConfig).
			WithOperation("server.New")
	}
	if cfg.MaxSourceLength <= 0 {
		cfg.MaxSourceLength = DefaultConfig().MaxSourceLength
	}

	logger := logging.New("glox-server")

	engine := lox.NewEngine(lox.Options{
		Logger:          logger.Logger,
		MaxSourceLength: cfg.MaxSourceLength,
	})

	s := &Server{
		engine: engine,
		logger: logger,
		config: cfg,
	}

	if cfg.GRPCPort > 0 {
		grpcCfg := coregrpc.DefaultServerConfig()
		grpcCfg.Host = cfg.Host
		grpcCfg.Port = cfg.GRPCPort
		s.grpc = coregrpc.NewServer(grpcCfg)
	}

	s.health = health.NewRegistry("glox", cfg.Version)
	s.health.RegisterFunc("engine", s.checkEngine)
	if s.grpc != nil {
		s.health.RegisterFunc("grpc", func(ctx context.Context) health.CheckResult {
			return health.GRPCCheck("grpc", s.grpc.Address(), HealthService, 2*time.Second).Check(ctx)
		})
	}

	if cfg.CacheSize > 0 {
		s.results = cache.New[any](cache.Config{MaxItems: cfg.CacheSize, TTL: cfg.CacheTTL})
	}

	h := handler.NewHandler(cfg.Version, engine, s.health, cfg.MaxSourceLength, s.results)
	wsHandler := handler.NewWebSocketHandler(engine, cfg.History, cfg.MaxSourceLength)

	mux := http.NewServeMux()
	mux.Handle("/ws", wsHandler)
	mux.Handle("/health", h)
	mux.Handle("/", h)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.HTTPPort)),
		Handler:      loggingMiddleware(logger, mux),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s, nil
}

// checkEngine evaluates a fixed expression to prove the front end works
func (s *Server) checkEngine(ctx context.Context) health.CheckResult {
	result := s.engine.Run("(1 + 2) * 3")
	if !result.OK() || result.Output != "9" {
		return health.CheckResult{
			Name:    "engine",
			Status:  health.StatusUnhealthy,
			Message: fmt.Sprintf("self-test returned %q (exit %d)", result.Output, result.ExitCode),
		}
	}
	return health.CheckResult{
		Name:    "engine",
		Status:  health.StatusHealthy,
		Message: "Expression engine is running",
	}
}

// loggingMiddleware adds request logging
func loggingMiddleware(logger *logging.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Wrap response writer to capture status code
		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		logger.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", wrapper.statusCode,
			"duration", time.Since(start),
		)
	})
}

// responseWrapper wraps http.ResponseWriter to capture status code
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWrapper) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Hijack lets the WebSocket upgrader take over the connection
func (w *responseWrapper) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	w.statusCode = http.StatusSwitchingProtocols
	return hijacker.Hijack()
}

// Handler returns the HTTP handler, e.g. for httptest
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start starts the server and blocks until it stops
func (s *Server) Start() error {
	if err := s.bind(); err != nil {
		return err
	}
	return s.serve()
}

// StartAsync starts the server in the background
func (s *Server) StartAsync() error {
	if err := s.bind(); err != nil {
		return err
	}

	go func() {
		if err := s.serve(); err != nil {
			s.logger.Error("HTTP server error", "error", err)
		}
	}()

	return nil
}

// bind opens the gRPC and HTTP listeners
func (s *Server) bind() error {
	if s.grpc != nil {
		if err := s.grpc.StartAsync(); err != nil {
			return mdwerror.Wrap(err, "failed to start gRPC health server").
				WithCode(mdwerror.CodeNetworkError).
				WithOperation("server.Start")
		}
		s.grpc.SetServing(HealthService, true)
	}

	listener, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		if s.grpc != nil {
			s.grpc.Stop()
		}
		return mdwerror.Wrap(err, "failed to listen").
			WithCode(mdwerror.CodeNetworkError).
			WithOperation("server.Start").
			WithDetail("address", s.httpServer.Addr)
	}
	s.listener = listener

	s.logger.Info("Starting glox server",
		"http", s.Address(),
		"grpc", s.GRPCAddress(),
		"version", s.config.Version,
	)
	return nil
}

func (s *Server) serve() error {
	if err := s.httpServer.Serve(s.listener); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Stopping glox server")

	if s.results != nil {
		hits, misses, rate := s.results.Stats()
		s.logger.Debug("Response cache", "hits", hits, "misses", misses, "hit_rate", rate)
		s.results.Close()
	}

	if s.grpc != nil {
		s.grpc.SetServing(HealthService, false)
		s.grpc.StopWithTimeout(ctx)
	}

	return s.httpServer.Shutdown(ctx)
}

// Address returns the HTTP address, the bound one once started
func (s *Server) Address() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// GRPCAddress returns the gRPC health address, empty when disabled
func (s *Server) GRPCAddress() string {
	if s.grpc == nil {
		return ""
	}
	return s.grpc.Address()
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

// Engine returns the expression engine
func (s *Server) Engine() *lox.Engine {
	return s.engine
}
