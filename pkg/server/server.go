package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vango-dev/signup/pkg/middleware"
	"github.com/vango-dev/signup/pkg/signup"
)

// Server serves one signup form.
type Server struct {
	form     *signup.Form
	config   *ServerConfig
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger

	mu         sync.Mutex
	streams    map[*stream]struct{}
	httpServer *http.Server
}

// New creates a server for f. A nil config uses DefaultServerConfig.
func New(f *signup.Form, config *ServerConfig) *Server {
	config = config.withDefaults()

	s := &Server{
		form:   f,
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  config.ReadBufferSize,
			WriteBufferSize: config.WriteBufferSize,
			CheckOrigin:     config.CheckOrigin,
		},
		logger:  slog.Default().With("component", "server"),
		streams: make(map[*stream]struct{}),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.Recoverer)
	r.Use(s.requestLogger)
	r.Use(middleware.OpenTelemetry(middleware.WithFilter(func(r *http.Request) bool {
		return r.URL.Path != "/metrics"
	})))
	if s.config.Metrics != nil {
		r.Use(middleware.Prometheus(middleware.WithRegistry(s.config.Metrics)))
	}

	r.Route("/form", func(r chi.Router) {
		r.Get("/", s.handleState)
		r.Put("/fields/{path}", s.handleSet)
		r.Post("/fields/{path}/touch", s.handleTouch)
		r.Post("/submit", s.handleSubmit)
		r.Post("/reset", s.handleReset)
		r.Get("/events", s.handleEvents)
	})

	if s.config.Metrics != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Metrics, promhttp.HandlerOpts{}))
	}
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Handler returns the server as an http.Handler, for mounting in another router.
func (s *Server) Handler() http.Handler {
	return s
}

// SetLogger sets the server logger.
func (s *Server) SetLogger(logger *slog.Logger) {
	s.logger = logger.With("component", "server")
}

// Run listens on the configured address until ctx is done or the process
// receives SIGINT or SIGTERM, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Address,
		Handler:           s,
		ReadHeaderTimeout: s.config.ReadHeaderTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
	s.mu.Lock()
	s.httpServer = httpServer
	s.mu.Unlock()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdown)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Address)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-shutdown:
		s.logger.Info("shutting down...")
	case <-ctx.Done():
	}
	return s.Shutdown(context.Background())
}

// Shutdown closes every event stream and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	streams := make([]*stream, 0, len(s.streams))
	for st := range s.streams {
		streams = append(streams, st)
	}
	httpServer := s.httpServer
	s.mu.Unlock()

	for _, st := range streams {
		st.close()
	}

	if httpServer != nil {
		if err := httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}

	s.logger.Info("server shutdown complete")
	return nil
}

// Streams returns the number of open event streams.
func (s *Server) Streams() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.streams)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", chimw.GetReqID(r.Context()),
		)
	})
}
