package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitekiln/internal/asset"
	"git.home.luguber.info/inful/sitekiln/internal/compiler"
	"git.home.luguber.info/inful/sitekiln/internal/config"
	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
	ferrors "git.home.luguber.info/inful/sitekiln/internal/foundation/errors"
	"git.home.luguber.info/inful/sitekiln/internal/logfields"
	"git.home.luguber.info/inful/sitekiln/internal/metrics"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
	"git.home.luguber.info/inful/sitekiln/internal/transforms"
)

// EntriesFactory returns the compiler entries of a build.
type EntriesFactory func(cfg *config.Config) []compiler.Entry

// DefaultService is the standard Service implementation.
type DefaultService struct {
	logger      *slog.Logger
	recorder    metrics.Recorder
	entries     EntriesFactory
	transforms  []transform.Transform
	beforeBuild []Hook
	afterBuild  []Hook
}

// NewService returns a service building the bundled compilers.
func NewService(logger *slog.Logger) *DefaultService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultService{
		logger:   logger,
		recorder: metrics.NoopRecorder{},
		entries:  DefaultEntries,
	}
}

// WithRecorder sets the metrics recorder.
func (s *DefaultService) WithRecorder(r metrics.Recorder) *DefaultService {
	s.recorder = metrics.OrNoop(r)
	return s
}

// WithEntries replaces the compiler entries factory.
func (s *DefaultService) WithEntries(f EntriesFactory) *DefaultService {
	s.entries = f
	return s
}

// WithTransforms appends transforms after the configured build transforms.
func (s *DefaultService) WithTransforms(t ...transform.Transform) *DefaultService {
	s.transforms = append(s.transforms, t...)
	return s
}

// WithBeforeBuild adds a hook that runs before compilers are initialized.
func (s *DefaultService) WithBeforeBuild(h Hook) *DefaultService {
	s.beforeBuild = append(s.beforeBuild, h)
	return s
}

// WithAfterBuild adds a hook that runs after every file was processed.
func (s *DefaultService) WithAfterBuild(h Hook) *DefaultService {
	s.afterBuild = append(s.afterBuild, h)
	return s
}

// Run executes one build.
func (s *DefaultService) Run(ctx context.Context, req Request) (*Result, error) {
	start := time.Now()
	result := &Result{StartTime: start}
	finish := func(status Status, err error) (*Result, error) {
		result.Status = status
		result.EndTime = time.Now()
		result.Duration = result.EndTime.Sub(start)
		s.recorder.ObserveBuildDuration(result.Duration)
		if status == StatusSuccess {
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeSuccess)
		} else {
			s.recorder.IncBuildOutcome(metrics.BuildOutcomeFailed)
		}
		return result, err
	}

	cfg := req.Config
	if cfg == nil {
		return finish(StatusFailed, ferrors.ConfigError("config required").Build())
	}

	session, err := compiler.NewSession(cfg, config.ModeBuild, s.logger, s.recorder)
	if err != nil {
		return finish(StatusFailed, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to start session").Build())
	}
	result.SessionID = session.ID
	log := session.Logger

	for _, h := range s.beforeBuild {
		if err := h(ctx, session); err != nil {
			return finish(StatusFailed, ferrors.WrapError(err, ferrors.CategoryBuild, "before-build hook failed").Build())
		}
	}

	entries := s.entries(cfg)
	registry, err := compiler.NewRegistry(ctx, entries, session)
	if err != nil {
		return finish(StatusFailed, kerrors.Classify(err, "failed to initialize compilers"))
	}
	comp := compiler.New(session, registry)

	files, err := resolve(session, entries, req.Options)
	if err != nil {
		return finish(StatusFailed, kerrors.Classify(err, "failed to resolve sources"))
	}
	result.Files = len(files)

	pipeline, err := s.pipeline(cfg, log)
	if err != nil {
		return finish(StatusFailed, kerrors.Classify(err, "invalid build transforms"))
	}

	log.Info("Build started", logfields.Files(len(files)))
	written, failures := s.processAll(ctx, comp, pipeline, files, req.Options)
	result.Written = written
	result.Failures = failures

	if err := ctx.Err(); err != nil {
		return finish(StatusCancelled, ferrors.WrapError(err, ferrors.CategoryBuild, "build cancelled").Build())
	}

	for _, h := range s.afterBuild {
		if err := h(ctx, session); err != nil {
			return finish(StatusFailed, ferrors.WrapError(err, ferrors.CategoryBuild, "after-build hook failed").Build())
		}
	}

	if len(failures) > 0 {
		errs := make([]error, len(failures))
		for i, f := range failures {
			errs[i] = f.Err
		}
		return finish(StatusFailed, ferrors.WrapError(errors.Join(errs...), ferrors.CategoryBuild,
			fmt.Sprintf("%d of %d files failed", len(failures), len(files))).Build())
	}

	log.Info("Build completed",
		logfields.Files(written),
		logfields.DurationMS(float64(time.Since(start).Milliseconds())))
	return finish(StatusSuccess, nil)
}

func resolve(session *compiler.Session, entries []compiler.Entry, opts Options) ([]*asset.File, error) {
	target := opts.TargetGlob
	if target == "" {
		target = session.Config.Build.TargetGlob
	}

	var files []*asset.File
	for _, e := range entries {
		matched, err := session.Resolver.Resolve(e.Pattern(), asset.ResolveOptions{Glob: target})
		if err != nil {
			return nil, fmt.Errorf("compiler %s: %w", e.Name, err)
		}
		files = append(files, matched...)
	}
	if err := asset.CheckCollisions(files); err != nil {
		return nil, err
	}
	return files, nil
}

func (s *DefaultService) pipeline(cfg *config.Config, log *slog.Logger) (*transform.Pipeline, error) {
	list, err := transforms.FromConfig(cfg.Build.Transforms)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kerrors.ErrConfigInvalid, err)
	}
	list = append(list, s.transforms...)
	return transform.NewPipeline(list,
		transform.WithPolicy(cfg.Build.FailurePolicy),
		transform.WithRecorder(s.recorder),
		transform.WithLogger(log))
}

// processAll builds files with bounded concurrency. A failed file is
// recorded and does not stop the others.
func (s *DefaultService) processAll(ctx context.Context, comp *compiler.Compiler, pipeline *transform.Pipeline, files []*asset.File, opts Options) (int, []FileFailure) {
	session := comp.Session()
	cfg := session.Config

	limit := opts.Concurrency
	if limit <= 0 {
		limit = cfg.Build.Concurrency
	}
	if limit <= 0 {
		limit = runtime.NumCPU()
	}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil && cfg.Build.ProgressEnabled() {
		bar = progressbar.NewOptions(len(files),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("Building"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish())
	}

	var (
		mu       sync.Mutex
		written  int
		failures []FileFailure
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, file := range files {
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			err := s.processFile(gctx, comp, pipeline, file, opts.DryRun)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				session.Logger.Error("Failed to build file",
					logfields.InputPath(file.InputPath),
					logfields.OutputPath(file.OutputPath),
					logfields.Error(err))
				failures = append(failures, FileFailure{InputPath: file.InputPath, OutputPath: file.OutputPath, Err: err})
			} else {
				written++
			}
			if bar != nil {
				_ = bar.Add(1)
			}
			return nil
		})
	}
	_ = g.Wait()
	if bar != nil {
		_ = bar.Finish()
	}
	return written, failures
}

func (s *DefaultService) processFile(ctx context.Context, comp *compiler.Compiler, pipeline *transform.Pipeline, file *asset.File, dryRun bool) error {
	session := comp.Session()
	log := session.Logger.With(logfields.InputPath(file.InputPath))

	out, err := comp.Compile(ctx, file, compiler.Options{Log: log, UseCache: true})
	if err != nil {
		return err
	}

	tc := &transform.Context{
		Path:       session.Resolver.OutputRel(file),
		InputPath:  file.InputPath,
		OutputPath: file.OutputPath,
		OutputDir:  session.Resolver.OutputDir,
		Mode:       config.ModeBuild,
		Compiler:   comp,
		Config:     session.Config,
		Logger:     log,
	}
	out, err = transform.RunBuild(ctx, pipeline, out, tc)
	if err != nil {
		return err
	}
	if dryRun {
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(file.OutputPath), 0o750); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to create output directory").
			WithContext("path", file.OutputPath).Build()
	}
	if err := os.WriteFile(file.OutputPath, out.Bytes(), 0o644); err != nil { //nolint:gosec // site output is world readable
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write output").
			WithContext("path", file.OutputPath).Build()
	}
	return nil
}
