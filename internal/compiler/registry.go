package compiler

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"git.home.luguber.info/inful/sitekiln/internal/asset"
	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
)

// Options tune a single compile call.
type Options struct {
	Log      *slog.Logger
	UseCache bool
}

// DefaultOptions reads through the session cache.
func DefaultOptions() Options { return Options{UseCache: true} }

// Func compiles file. c is the session's compile capability, for compilers
// that need to compile other files.
type Func func(ctx context.Context, file *asset.File, c *Compiler, opts Options) (transform.Content, error)

// Factory builds a Func once per session.
type Factory func(ctx context.Context, s *Session) (Func, error)

// Entry routes source files matching Include (minus Ignore) to a compiler
// producing OutputExtension.
type Entry struct {
	Name            string
	Include         string
	Ignore          string
	OutputExtension string
	Factory         Factory
}

// Pattern returns the routing part of e for asset resolution.
func (e Entry) Pattern() asset.Pattern {
	return asset.Pattern{Include: e.Include, Ignore: e.Ignore, OutputExtension: e.OutputExtension}
}

// ValidateExtension checks that ext is a lowercase extension with a leading
// dot and no path separators.
func ValidateExtension(ext string) error {
	switch {
	case len(ext) < 2 || ext[0] != '.':
		return fmt.Errorf("%w: %q must start with a dot", kerrors.ErrInvalidExtension, ext)
	case strings.ContainsAny(ext, `/\`) || strings.Count(ext, ".") != 1:
		return fmt.Errorf("%w: %q", kerrors.ErrInvalidExtension, ext)
	case strings.ToLower(ext) != ext:
		return fmt.Errorf("%w: %q must be lowercase", kerrors.ErrInvalidExtension, ext)
	}
	return nil
}

// Registry is the output extension to compile function table.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
	names map[string]string
}

// NewRegistry validates entries, then runs every factory concurrently and
// waits for all of them. Duplicate extensions are rejected before any
// factory runs.
func NewRegistry(ctx context.Context, entries []Entry, s *Session) (*Registry, error) {
	r := &Registry{funcs: map[string]Func{}, names: map[string]string{}}

	seen := make(map[string]string, len(entries))
	for _, e := range entries {
		if err := ValidateExtension(e.OutputExtension); err != nil {
			return nil, fmt.Errorf("compiler %s: %w", e.Name, err)
		}
		if prev, dup := seen[e.OutputExtension]; dup {
			return nil, fmt.Errorf("%w: %s registered by %s and %s",
				kerrors.ErrDuplicateExtension, e.OutputExtension, prev, e.Name)
		}
		if e.Factory == nil {
			return nil, fmt.Errorf("compiler %s has no factory", e.Name)
		}
		seen[e.OutputExtension] = e.Name
	}

	funcs := make([]Func, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		g.Go(func() error {
			fn, err := e.Factory(gctx, s)
			if err != nil {
				return fmt.Errorf("compiler %s: %w", e.Name, err)
			}
			if fn == nil {
				return fmt.Errorf("compiler %s returned no compile function", e.Name)
			}
			funcs[i] = fn
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i, e := range entries {
		r.funcs[e.OutputExtension] = funcs[i]
		r.names[e.OutputExtension] = e.Name
	}
	return r, nil
}

// Register adds fn for ext after construction.
func (r *Registry) Register(name, ext string, fn Func) error {
	if err := ValidateExtension(ext); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, dup := r.names[ext]; dup {
		return fmt.Errorf("%w: %s registered by %s and %s", kerrors.ErrDuplicateExtension, ext, prev, name)
	}
	r.funcs[ext] = fn
	r.names[ext] = name
	return nil
}

func (r *Registry) Lookup(ext string) (Func, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.funcs[ext]
	return fn, ok
}

// Name returns the entry name registered for ext.
func (r *Registry) Name(ext string) string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.names[ext]
}

// Extensions lists registered extensions in sorted order.
func (r *Registry) Extensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	exts := make([]string, 0, len(r.funcs))
	for ext := range r.funcs {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
