package server

import (
	"context"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
	"github.com/matzehuels/flowplot/pkg/pipeline"
	"github.com/matzehuels/flowplot/pkg/render/svg"
)

// Interaction endpoints embedded in rendered charts.
const (
	RecolorEndpoint = "/api/gates/{id}/color"
	SelectEndpoint  = "/api/boxplots/select"
)

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(s *Server) { s.logger = l } }

// WithSchema enables the hierarchy diagram.
func WithSchema(schema *gates.Schema) Option { return func(s *Server) { s.schema = schema } }

// WithDataDir allows ?input= to name files below dir.
func WithDataDir(dir string) Option { return func(s *Server) { s.dataDir = dir } }

// WithDefaultInput sets the dataset served for kind when no ?input= is given.
func WithDefaultInput(kind, path string) Option {
	return func(s *Server) { s.defaults[kind] = path }
}

// Server is the chart HTTP server. The violin chart it last drew stays live
// in its page so recolouring updates the drawn shapes as well as the store.
type Server struct {
	runner   *pipeline.Runner
	styles   gates.Store
	schema   *gates.Schema
	page     *svg.Page
	dataDir  string
	defaults map[string]string
	logger   *log.Logger
	router   chi.Router
}

// New builds a server around runner. The runner's style store backs the
// gate routes.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:   runner,
		styles:   runner.Styles,
		page:     svg.NewPage(),
		defaults: make(map[string]string),
		logger:   runner.Logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.styles == nil {
		s.styles = gates.NewMemoryStore()
		runner.Styles = s.styles
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/charts/{kind}.{format}", s.handleChart)
	r.Route("/api", func(r chi.Router) {
		r.Get("/frequencies", s.handleFrequencies)
		r.Post("/boxplots/select", s.handleSelect)
		r.Route("/gates", func(r chi.Router) {
			r.Get("/", s.handleListGates)
			r.Get("/hierarchy.svg", s.handleHierarchy)
			r.Get("/{id}", s.handleGetGate)
			r.Post("/{id}/color", s.handleRecolor)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// resolveInput maps the ?input= value for kind to a file path.
func (s *Server) resolveInput(kind, name string) (string, error) {
	if name == "" {
		if p, ok := s.defaults[kind]; ok {
			return p, nil
		}
		if kind == pipeline.KindColorbar {
			return "", nil
		}
		return "", errors.New(errors.ErrCodeInvalidInput, "no input given and no default dataset for %s", kind)
	}
	if s.dataDir == "" {
		return "", errors.New(errors.ErrCodeInvalidInput, "input selection is disabled")
	}
	if err := errors.ValidatePath(name); err != nil {
		return "", err
	}
	clean := filepath.Clean("/" + strings.ReplaceAll(name, "\\", "/"))
	return filepath.Join(s.dataDir, clean), nil
}
