// Package asset discovers source files for a compiler entry and derives their
// output locations.
package asset

import (
	"fmt"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

// File describes one source file routed to an output extension.
// OutputPath is a pure function of InputPath, OutputExtension and the resolver roots.
type File struct {
	InputPath       string
	OutputPath      string
	URL             string
	Slug            string
	PathStem        string
	Extension       string
	OutputExtension string
	Date            time.Time
}

var indexSuffix = regexp.MustCompile(`(^|/)index(\.[a-z0-9]+)?$`)

// NewFile derives the descriptor for inputPath compiled to outputExt.
func (r *Resolver) NewFile(inputPath, outputExt string) (*File, error) {
	abs, err := filepath.Abs(inputPath)
	if err != nil {
		return nil, err
	}
	originalExt := filepath.Ext(abs)
	name := strings.TrimSuffix(filepath.Base(abs), originalExt)
	dir := filepath.Dir(abs)

	relDir, err := filepath.Rel(r.InputDir, dir)
	if err != nil {
		return nil, fmt.Errorf("relative path of %s: %w", abs, err)
	}
	if relDir == ".." || strings.HasPrefix(relDir, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("input %s is outside %s", abs, r.InputDir)
	}

	rootRel := filepath.Join(relDir, name)
	slashRel := filepath.ToSlash(rootRel)
	withExt := slashRel + outputExt

	slug := name
	if name == "index" {
		slug = filepath.Base(dir)
	}

	return &File{
		InputPath:       abs,
		OutputPath:      filepath.Join(r.OutputDir, filepath.FromSlash(withExt)),
		URL:             "/" + indexSuffix.ReplaceAllString(withExt, "$1"),
		Slug:            slug,
		PathStem:        "/" + slashRel,
		Extension:       strings.ToLower(originalExt),
		OutputExtension: outputExt,
		Date:            time.Now(),
	}, nil
}

// OutputRel returns the slash-separated output path relative to the output root.
func (r *Resolver) OutputRel(f *File) string {
	rel, err := filepath.Rel(r.OutputDir, f.OutputPath)
	if err != nil {
		return path.Base(filepath.ToSlash(f.OutputPath))
	}
	return filepath.ToSlash(rel)
}
