// Package devserver compiles and serves a project on request, pushing live
// reload events to connected browsers when sources change.
package devserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"git.home.luguber.info/inful/sitekiln/internal/asset"
	"git.home.luguber.info/inful/sitekiln/internal/build"
	"git.home.luguber.info/inful/sitekiln/internal/compiler"
	"git.home.luguber.info/inful/sitekiln/internal/config"
	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
	ferrors "git.home.luguber.info/inful/sitekiln/internal/foundation/errors"
	"git.home.luguber.info/inful/sitekiln/internal/logfields"
	"git.home.luguber.info/inful/sitekiln/internal/metrics"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
	"git.home.luguber.info/inful/sitekiln/internal/transforms"
)

const (
	liveReloadPath   = "/livereload"
	liveReloadJSPath = "/livereload.js"
	shutdownTimeout  = 5 * time.Second
)

// Server is the development server for one project.
type Server struct {
	cfg      *config.Config
	logger   *slog.Logger
	recorder metrics.Recorder
	metrics  http.Handler
	entries  build.EntriesFactory
	extra    []transform.Transform
	debounce time.Duration

	session  *compiler.Session
	pipeline *transform.Pipeline
	hub      *LiveReloadHub
	errs     *ferrors.HTTPErrorAdapter
	router   chi.Router

	mu    sync.RWMutex
	comp  *compiler.Compiler
	files map[string]*asset.File
}

// Option configures a Server.
type Option func(*Server)

// WithRecorder sets the metrics recorder.
func WithRecorder(r metrics.Recorder) Option {
	return func(s *Server) { s.recorder = metrics.OrNoop(r) }
}

// WithMetricsHandler exposes h at the configured metrics path when metrics
// are enabled.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// WithEntries replaces the compiler entries factory.
func WithEntries(f build.EntriesFactory) Option {
	return func(s *Server) { s.entries = f }
}

// WithTransforms appends response transforms after the configured ones.
func WithTransforms(t ...transform.Transform) Option {
	return func(s *Server) { s.extra = append(s.extra, t...) }
}

// WithDebounce sets the quiet period between a source change and the reload.
func WithDebounce(d time.Duration) Option {
	return func(s *Server) { s.debounce = d }
}

// New starts a serve session and initializes every compiler.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts ...Option) (*Server, error) {
	if cfg == nil {
		return nil, ferrors.ConfigError("config required").Build()
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		cfg:      cfg,
		recorder: metrics.NoopRecorder{},
		entries:  build.DefaultEntries,
		debounce: debounceDelay,
	}
	for _, opt := range opts {
		opt(s)
	}

	session, err := compiler.NewSession(cfg, config.ModeServe, logger, s.recorder)
	if err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to start session").Build()
	}
	s.session = session
	s.logger = session.Logger
	s.errs = ferrors.NewHTTPErrorAdapter(s.logger)
	s.hub = NewLiveReloadHub(s.logger, s.recorder)

	list, err := transforms.FromConfig(cfg.DevServer.Transforms)
	if err != nil {
		return nil, kerrors.Classify(fmt.Errorf("%w: %w", kerrors.ErrConfigInvalid, err), "invalid dev server transforms")
	}
	list = append(list, s.extra...)
	if cfg.DevServer.LiveReloadEnabled() {
		list = append(list, transforms.LiveReload(liveReloadJSPath))
	}
	s.pipeline, err = transform.NewPipeline(list,
		transform.WithPolicy(config.FailurePolicySkipTransform),
		transform.WithRecorder(s.recorder),
		transform.WithLogger(s.logger))
	if err != nil {
		return nil, kerrors.Classify(err, "invalid dev server transforms")
	}

	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	s.router = s.routes()
	return s, nil
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chain(s.logger, s.errs))

	if s.cfg.DevServer.LiveReloadEnabled() {
		r.Get(liveReloadPath, s.hub.ServeHTTP)
		r.Get(liveReloadJSPath, serveScript)
	}
	if s.cfg.Metrics.Enabled && s.metrics != nil {
		r.Method(http.MethodGet, s.cfg.Metrics.Path, s.metrics)
	}
	r.Get("/*", s.handleFile)
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// Session returns the serve session.
func (s *Server) Session() *compiler.Session { return s.session }

// Hub returns the live reload hub.
func (s *Server) Hub() *LiveReloadHub { return s.hub }

// Reload re-initializes the compilers and re-resolves the compilable files.
// Cached content is dropped. On failure the previous state stays active.
func (s *Server) Reload(ctx context.Context) error {
	entries := s.entries(s.cfg)
	s.session.Source.Cache.Clear()

	registry, err := compiler.NewRegistry(ctx, entries, s.session)
	if err != nil {
		return kerrors.Classify(err, "failed to initialize compilers")
	}

	files := make(map[string]*asset.File)
	var all []*asset.File
	for _, e := range entries {
		matched, err := s.session.Resolver.Resolve(e.Pattern(), asset.ResolveOptions{})
		if err != nil {
			return kerrors.Classify(fmt.Errorf("compiler %s: %w", e.Name, err), "failed to resolve sources")
		}
		all = append(all, matched...)
	}
	if err := asset.CheckCollisions(all); err != nil {
		return kerrors.Classify(err, "failed to resolve sources")
	}
	for _, f := range all {
		files[f.OutputPath] = f
	}

	s.mu.Lock()
	s.comp = compiler.New(s.session, registry)
	s.files = files
	s.mu.Unlock()
	s.logger.Debug("Dev server sources resolved", logfields.Files(len(files)))
	return nil
}

func (s *Server) lookup(outputPath string) (*compiler.Compiler, *asset.File) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.comp, s.files[outputPath]
}

// onChange reloads the compilers and tells browsers to refresh.
func (s *Server) onChange(ctx context.Context) {
	if err := s.Reload(ctx); err != nil {
		s.logger.Warn("Reload failed, keeping previous sources", logfields.Error(err))
	}
	s.hub.Broadcast(uuid.NewString())
}

// watchRoots returns the directories whose changes trigger a reload.
func (s *Server) watchRoots() []string {
	roots := []string{s.session.Resolver.InputDir}
	page := s.cfg.Compilers.Page
	if page.LayoutsDir != "" {
		roots = append(roots, page.LayoutsDir)
	}
	if page.DataDir != "" {
		roots = append(roots, page.DataDir)
	}
	return roots
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	addr := s.cfg.DevServer.Addr()
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	w, err := watch(s.watchRoots(), s.debounce, s.logger, func() { s.onChange(ctx) })
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to watch sources").Build()
	}
	defer func() { _ = w.Close() }()

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info("Dev server listening",
		logfields.URL("http://"+addr),
		slog.String("input", s.session.Resolver.InputDir),
		slog.Bool("live_reload", s.cfg.DevServer.LiveReloadEnabled()))

	select {
	case err, ok := <-errCh:
		if ok {
			return ferrors.WrapError(err, ferrors.CategoryServer, "dev server failed").
				WithContext("addr", addr).Build()
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down dev server")
	s.hub.Shutdown()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("HTTP server shutdown error", logfields.Error(err))
	}
	return nil
}
