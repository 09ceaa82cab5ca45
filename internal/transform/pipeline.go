package transform

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"git.home.luguber.info/inful/sitekiln/internal/config"
	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
	"git.home.luguber.info/inful/sitekiln/internal/logfields"
	"git.home.luguber.info/inful/sitekiln/internal/metrics"
)

// Func rewrites content for one file.
type Func func(ctx context.Context, c Content, tc *Context) (Content, error)

// Transform is a named, optionally filtered step.
type Transform struct {
	Name   string
	Filter *Filter
	Fn     Func
}

type step struct {
	Transform
	match *matcher
}

// Pipeline applies transforms in order. Each applicable transform receives
// the output of the previous one.
type Pipeline struct {
	steps    []step
	policy   config.FailurePolicy
	recorder metrics.Recorder
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithPolicy sets the failure policy used by Run and RunBuild.
func WithPolicy(p config.FailurePolicy) Option {
	return func(pl *Pipeline) { pl.policy = p }
}

func WithRecorder(r metrics.Recorder) Option {
	return func(pl *Pipeline) { pl.recorder = metrics.OrNoop(r) }
}

func WithLogger(l *slog.Logger) Option {
	return func(pl *Pipeline) { pl.logger = l }
}

// NewPipeline validates names and compiles filters. Names must be non-empty
// and unique within the pipeline.
func NewPipeline(transforms []Transform, opts ...Option) (*Pipeline, error) {
	p := &Pipeline{
		policy:   config.FailurePolicyAbortFile,
		recorder: metrics.NoopRecorder{},
	}
	for _, opt := range opts {
		opt(p)
	}

	seen := make(map[string]struct{}, len(transforms))
	for _, t := range transforms {
		if t.Name == "" {
			return nil, fmt.Errorf("%w: transform without a name", kerrors.ErrDuplicateTransform)
		}
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("%w: %s", kerrors.ErrDuplicateTransform, t.Name)
		}
		seen[t.Name] = struct{}{}
		if t.Fn == nil {
			return nil, fmt.Errorf("transform %s has no function", t.Name)
		}

		m, err := compileFilter(t.Filter)
		if err != nil {
			return nil, fmt.Errorf("transform %s: %w", t.Name, err)
		}
		p.steps = append(p.steps, step{Transform: t, match: m})
	}
	return p, nil
}

// Names lists transform names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.steps))
	for i, s := range p.steps {
		names[i] = s.Name
	}
	return names
}

func (p *Pipeline) Len() int { return len(p.steps) }

// Run folds the pipeline over c using the configured failure policy.
func (p *Pipeline) Run(ctx context.Context, c Content, tc *Context) (Content, error) {
	return p.run(ctx, c, tc, p.policy)
}

func (p *Pipeline) run(ctx context.Context, c Content, tc *Context, policy config.FailurePolicy) (Content, error) {
	if p == nil {
		return c, nil
	}
	log := tc.logger(p.logger)
	current := c
	for _, s := range p.steps {
		if err := ctx.Err(); err != nil {
			return current, err
		}
		if !s.match.match(tc.Path) {
			p.recorder.IncTransformResult(s.Name, metrics.ResultSkipped)
			continue
		}

		start := time.Now()
		next, err := s.Fn(ctx, current, tc)
		p.recorder.ObserveTransformDuration(s.Name, time.Since(start))
		if err != nil {
			p.recorder.IncTransformResult(s.Name, metrics.ResultFailed)
			if policy == config.FailurePolicySkipTransform {
				log.Warn("Transform failed, keeping previous content",
					logfields.Transform(s.Name),
					logfields.Path(tc.Path),
					logfields.Error(err))
				continue
			}
			return current, fmt.Errorf("%w: %s on %s: %w", kerrors.ErrTransformFailure, s.Name, tc.Path, err)
		}
		p.recorder.IncTransformResult(s.Name, metrics.ResultSuccess)
		current = next
	}
	return current, nil
}

// RunServe applies p only when tc is in serve mode. Failures never abort a
// response: a failing transform is skipped with a warning.
func RunServe(ctx context.Context, p *Pipeline, c Content, tc *Context) (Content, error) {
	if tc.Mode != config.ModeServe {
		return c, nil
	}
	return p.run(ctx, c, tc, config.FailurePolicySkipTransform)
}

// RunBuild applies p with its configured policy.
func RunBuild(ctx context.Context, p *Pipeline, c Content, tc *Context) (Content, error) {
	return p.Run(ctx, c, tc)
}
