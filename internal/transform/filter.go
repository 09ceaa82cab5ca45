package transform

import (
	"fmt"
	"strings"

	"github.com/gobwas/glob"

	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
)

// Filter selects the files a transform applies to. Patterns are globs over
// the output-relative path where ** spans directories. An empty Include
// matches every file.
type Filter struct {
	Include []string
	Exclude []string
}

type matcher struct {
	include []glob.Glob
	exclude []glob.Glob
}

func compileFilter(f *Filter) (*matcher, error) {
	if f == nil {
		return &matcher{}, nil
	}
	include, err := compilePatterns(f.Include)
	if err != nil {
		return nil, err
	}
	exclude, err := compilePatterns(f.Exclude)
	if err != nil {
		return nil, err
	}
	return &matcher{include: include, exclude: exclude}, nil
}

// compilePatterns compiles each pattern. A leading **/ also matches files at
// the root, so it is compiled a second time without the prefix.
func compilePatterns(patterns []string) ([]glob.Glob, error) {
	var out []glob.Glob
	for _, p := range patterns {
		variants := []string{p}
		if rest, ok := strings.CutPrefix(p, "**/"); ok {
			variants = append(variants, rest)
		}
		for _, v := range variants {
			g, err := glob.Compile(v, '/')
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %w", kerrors.ErrInvalidPattern, p, err)
			}
			out = append(out, g)
		}
	}
	return out, nil
}

func (m *matcher) match(path string) bool {
	path = strings.TrimPrefix(path, "/")
	if len(m.include) > 0 && !anyMatch(m.include, path) {
		return false
	}
	return !anyMatch(m.exclude, path)
}

func anyMatch(globs []glob.Glob, path string) bool {
	for _, g := range globs {
		if g.Match(path) {
			return true
		}
	}
	return false
}
