package compiler

import (
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"git.home.luguber.info/inful/sitekiln/internal/asset"
	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
	"git.home.luguber.info/inful/sitekiln/internal/logfields"
	"git.home.luguber.info/inful/sitekiln/internal/metrics"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
)

// Seed identifies a file to compile without a descriptor.
type Seed struct {
	InputPath       string
	OutputExtension string
}

// Compiler dispatches a file to the compile function registered for its
// output extension. Files without one pass through as raw bytes.
// It is safe for concurrent use.
type Compiler struct {
	session  *Session
	registry *Registry
}

// New returns the compile capability for s over reg.
func New(s *Session, reg *Registry) *Compiler {
	return &Compiler{session: s, registry: reg}
}

func (c *Compiler) Session() *Session { return c.session }

func (c *Compiler) Registry() *Registry { return c.registry }

// Compile produces the output content for file.
func (c *Compiler) Compile(ctx context.Context, file *asset.File, opts Options) (transform.Content, error) {
	if opts.Log == nil {
		opts.Log = c.session.Logger
	}
	ext := path.Ext(file.OutputPath)

	fn, ok := c.registry.Lookup(ext)
	if !ok {
		opts.Log.Debug("Passing file through",
			logfields.InputPath(file.InputPath),
			logfields.Extension(ext),
			logfields.Error(kerrors.ErrUnresolvedOutputType))
		raw, err := c.session.Source.ReadRaw(file.InputPath, opts.UseCache)
		if err != nil {
			return transform.Content{}, err
		}
		return transform.Bytes(raw), nil
	}

	start := time.Now()
	out, err := fn(ctx, file, c, opts)
	c.session.Recorder.ObserveCompileDuration(ext, time.Since(start))
	if err != nil {
		c.session.Recorder.IncCompileResult(ext, metrics.ResultFailed)
		if !errors.Is(err, kerrors.ErrCompileFailure) {
			err = fmt.Errorf("%w: %s: %w", kerrors.ErrCompileFailure, file.InputPath, err)
		}
		return transform.Content{}, err
	}
	c.session.Recorder.IncCompileResult(ext, metrics.ResultSuccess)
	return out, nil
}

// CompileSeed derives the descriptor for seed and compiles it.
func (c *Compiler) CompileSeed(ctx context.Context, seed Seed, opts Options) (transform.Content, error) {
	file, err := c.session.Resolver.NewFile(seed.InputPath, seed.OutputExtension)
	if err != nil {
		return transform.Content{}, err
	}
	return c.Compile(ctx, file, opts)
}

// CompileFile implements transform.Compiler using the session cache.
func (c *Compiler) CompileFile(ctx context.Context, inputPath, outputExt string) (transform.Content, error) {
	return c.CompileSeed(ctx, Seed{InputPath: inputPath, OutputExtension: outputExt}, DefaultOptions())
}

var _ transform.Compiler = (*Compiler)(nil)
