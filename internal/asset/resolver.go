package asset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/text/unicode/norm"

	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
)

// Pattern is the routing part of a compiler entry.
type Pattern struct {
	Include         string
	Ignore          string
	OutputExtension string
}

// ResolveOptions narrows a resolution.
type ResolveOptions struct {
	// Glob is a secondary pattern intersected with Include, matched against
	// the input-root-relative slash path. Used for partial builds.
	Glob string
}

// Resolver maps source files under InputDir to outputs under OutputDir.
type Resolver struct {
	InputDir  string
	OutputDir string
}

// NewResolver returns a resolver for absolute versions of the given roots.
func NewResolver(inputDir, outputDir string) (*Resolver, error) {
	in, err := filepath.Abs(inputDir)
	if err != nil {
		return nil, err
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return nil, err
	}
	return &Resolver{InputDir: in, OutputDir: out}, nil
}

// Resolve returns one descriptor per file matching p.Include, minus p.Ignore,
// intersected with opts.Glob. Results are sorted by input path.
func (r *Resolver) Resolve(p Pattern, opts ResolveOptions) ([]*File, error) {
	for _, pattern := range []string{p.Include, p.Ignore, opts.Glob} {
		if pattern != "" && !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("%w: %q", kerrors.ErrInvalidPattern, pattern)
		}
	}
	if p.Include == "" {
		return nil, nil
	}
	if _, err := os.Stat(r.InputDir); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []*File{}, nil
		}
		return nil, fmt.Errorf("input directory: %w", err)
	}

	matches, err := doublestar.Glob(os.DirFS(r.InputDir), p.Include, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("glob %q: %w", p.Include, err)
	}
	slices.Sort(matches)

	files := make([]*File, 0, len(matches))
	for _, rel := range matches {
		if p.Ignore != "" && doublestar.MatchUnvalidated(p.Ignore, rel) {
			continue
		}
		if opts.Glob != "" && !doublestar.MatchUnvalidated(opts.Glob, rel) {
			continue
		}
		f, err := r.NewFile(filepath.Join(r.InputDir, filepath.FromSlash(rel)), p.OutputExtension)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

// CheckCollisions reports distinct inputs that derive the same output path.
func CheckCollisions(files []*File) error {
	seen := make(map[string]*File, len(files))
	var errs []string
	for _, f := range files {
		if prev, ok := seen[f.OutputPath]; ok && prev.InputPath != f.InputPath {
			errs = append(errs, fmt.Sprintf("%s and %s both write %s", prev.InputPath, f.InputPath, f.OutputPath))
			continue
		}
		seen[f.OutputPath] = f
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %s", kerrors.ErrOutputCollision, strings.Join(errs, "; "))
	}
	return nil
}

// URLToOutputRel maps a request path to a slash-separated path relative to the
// output root. Directory requests resolve to index files and extensionless
// paths receive defaultExt. The result never escapes the root.
func URLToOutputRel(urlPath, defaultExt string) string {
	p := norm.NFC.String(urlPath)
	dirRequest := p == "" || strings.HasSuffix(p, "/")
	p = strings.TrimPrefix(path.Clean("/"+p), "/")

	switch {
	case p == "":
		return "index" + defaultExt
	case dirRequest:
		return p + "/index" + defaultExt
	case path.Ext(p) == "":
		return p + defaultExt
	default:
		return p
	}
}
