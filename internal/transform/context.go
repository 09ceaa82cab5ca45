package transform

import (
	"context"
	"log/slog"

	"git.home.luguber.info/inful/sitekiln/internal/config"
)

// Compiler compiles another source file to text. Transforms use it to
// recurse into the compile step, for example to expand includes.
type Compiler interface {
	CompileFile(ctx context.Context, inputPath, outputExt string) (Content, error)
}

// Context describes the file a pipeline run is processing. One is created
// per built file or per served request.
type Context struct {
	// Path is the output-relative, slash-separated path filters match against.
	Path       string
	InputPath  string
	OutputPath string
	OutputDir  string
	Mode       config.Mode
	Compiler   Compiler
	Config     *config.Config
	Logger     *slog.Logger
}

func (tc *Context) logger(fallback *slog.Logger) *slog.Logger {
	if tc != nil && tc.Logger != nil {
		return tc.Logger
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
