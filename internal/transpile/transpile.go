// Package transpile runs the before/compile/after hook chain that turns page
// or layout source into HTML.
package transpile

import (
	"context"
	"fmt"
	"log/slog"

	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
	"git.home.luguber.info/inful/sitekiln/internal/logfields"
)

// BeforeHook preprocesses source before compilation.
type BeforeHook func(ctx context.Context, content string, data map[string]any) (string, error)

// CompileHook turns preprocessed source into output for extension ext.
type CompileHook func(ctx context.Context, content string, data map[string]any, ext string) (string, error)

// AfterHook postprocesses compiled output.
type AfterHook func(ctx context.Context, content string, data map[string]any) (string, error)

// HookSet groups the optional stages. A nil HookSet is the identity.
type HookSet struct {
	Before  BeforeHook
	Compile CompileHook
	After   AfterHook
}

// Policy picks what Run returns when there is no Compile hook.
type Policy int

const (
	// PolicyMain falls back to the original content, ignoring Before's output.
	PolicyMain Policy = iota
	// PolicyLayout falls back to Before's output.
	PolicyLayout
)

// Run executes hooks over content. Stage errors are returned as is.
func Run(ctx context.Context, content string, data map[string]any, ext string, hooks *HookSet, policy Policy) (string, error) {
	if hooks == nil {
		return content, nil
	}

	processed := content
	if hooks.Before != nil {
		var err error
		if processed, err = hooks.Before(ctx, content, data); err != nil {
			return "", err
		}
	}

	var result string
	switch {
	case hooks.Compile != nil:
		var err error
		if result, err = hooks.Compile(ctx, processed, data, ext); err != nil {
			return "", err
		}
	case policy == PolicyLayout:
		result = processed
	default:
		result = content
	}

	if hooks.After != nil {
		return hooks.After(ctx, result, data)
	}
	return result, nil
}

// Main compiles a page's main content, attributing failures to inputPath.
func Main(ctx context.Context, log *slog.Logger, content string, data map[string]any, ext string, hooks *HookSet, inputPath string) (string, error) {
	out, err := Run(ctx, content, data, ext, hooks, PolicyMain)
	if err != nil {
		orDefault(log).Error("Failed to compile the page",
			logfields.InputPath(inputPath),
			logfields.Error(err))
		return "", fmt.Errorf("%w: Failed to compile the page: %s: %w", kerrors.ErrCompileFailure, inputPath, err)
	}
	return out, nil
}

// Layout compiles a layout around already compiled page content.
func Layout(ctx context.Context, log *slog.Logger, content string, data map[string]any, ext string, hooks *HookSet, layoutPath, pagePath string) (string, error) {
	out, err := Run(ctx, content, data, ext, hooks, PolicyLayout)
	if err != nil {
		orDefault(log).Error("Failed to compile the layout",
			logfields.Layout(layoutPath),
			logfields.InputPath(pagePath),
			logfields.Error(err))
		return "", fmt.Errorf("%w: Failed to compile the layout: %s (content: %s): %w",
			kerrors.ErrCompileFailure, layoutPath, pagePath, err)
	}
	return out, nil
}

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}
