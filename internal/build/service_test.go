package build

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitekiln/internal/compiler"
	"git.home.luguber.info/inful/sitekiln/internal/config"
	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
	ferrors "git.home.luguber.info/inful/sitekiln/internal/foundation/errors"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
)

func quietLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newProject(t *testing.T, mutate func(*config.Config)) *config.Config {
	t.Helper()
	cfg := &config.Config{Dir: config.DirConfig{Root: t.TempDir()}}
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, config.Finalize(cfg))
	return cfg
}

func writeFile(t *testing.T, root, rel, body string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
}

func readOutput(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.Dir.Output, filepath.FromSlash(rel)))
	require.NoError(t, err)
	return string(data)
}

func TestRun_BuildsPagesAssetsAndTransforms(t *testing.T) {
	cfg := newProject(t, func(c *config.Config) {
		c.Compilers.Page.LayoutsDir = "layouts"
		c.Compilers.Style.Enabled = true
		c.Build.Transforms = []config.TransformSpec{{Type: "doctype"}}
	})
	writeFile(t, cfg.Dir.Root, "layouts/base.html", "<html><body>{{.content}}</body></html>")
	writeFile(t, cfg.Dir.Input, "index.html", "---\nlayout: base.html\n---\n<h1>Home</h1>")
	writeFile(t, cfg.Dir.Input, "about/index.html", "<p>about</p>")
	writeFile(t, cfg.Dir.Input, "css/site.css", "body{}")

	var progress bytes.Buffer
	res, err := NewService(quietLogger()).Run(context.Background(), Request{Config: cfg, Options: Options{Progress: &progress}})
	require.NoError(t, err)

	assert.Equal(t, StatusSuccess, res.Status)
	assert.Equal(t, 3, res.Files)
	assert.Equal(t, 3, res.Written)
	assert.NotEmpty(t, res.SessionID)

	assert.Equal(t, "<!DOCTYPE html>\n<html><body><h1>Home</h1></body></html>", readOutput(t, cfg, "index.html"))
	assert.Equal(t, "<p>about</p>", readOutput(t, cfg, "about/index.html"))
	assert.Equal(t, "body{}", readOutput(t, cfg, "css/site.css"))
}

func TestRun_TargetGlobLimitsFiles(t *testing.T) {
	cfg := newProject(t, nil)
	writeFile(t, cfg.Dir.Input, "index.html", "home")
	writeFile(t, cfg.Dir.Input, "blog/post.html", "post")

	res, err := NewService(quietLogger()).Run(context.Background(), Request{Config: cfg, Options: Options{TargetGlob: "blog/**"}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Files)
	assert.Equal(t, "post", readOutput(t, cfg, "blog/post.html"))
	assert.NoFileExists(t, filepath.Join(cfg.Dir.Output, "index.html"))
}

func TestRun_FailedFileFailsBuildButOthersAreWritten(t *testing.T) {
	cfg := newProject(t, nil)
	writeFile(t, cfg.Dir.Input, "good.html", "ok")
	writeFile(t, cfg.Dir.Input, "bad.html", "---\nlayout: missing.html\n---\nx")

	res, err := NewService(quietLogger()).Run(context.Background(), Request{Config: cfg})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, ferrors.CategoryBuild, ferrors.GetCategory(err))
	assert.ErrorIs(t, err, kerrors.ErrMissingLayout)

	require.Len(t, res.Failures, 1)
	assert.Equal(t, filepath.Join(cfg.Dir.Input, "bad.html"), res.Failures[0].InputPath)
	assert.Equal(t, "ok", readOutput(t, cfg, "good.html"))
	assert.NoFileExists(t, filepath.Join(cfg.Dir.Output, "bad.html"))
}

func TestRun_TransformFailureAbortsFile(t *testing.T) {
	cfg := newProject(t, nil)
	writeFile(t, cfg.Dir.Input, "index.html", "x")
	broken := transform.Transform{Name: "broken", Fn: func(context.Context, transform.Content, *transform.Context) (transform.Content, error) {
		return transform.Content{}, errors.New("boom")
	}}

	res, err := NewService(quietLogger()).WithTransforms(broken).Run(context.Background(), Request{Config: cfg})
	require.ErrorIs(t, err, kerrors.ErrTransformFailure)
	assert.Equal(t, 0, res.Written)
}

func TestRun_SkipTransformPolicyKeepsOutput(t *testing.T) {
	cfg := newProject(t, func(c *config.Config) { c.Build.FailurePolicy = "skip" })
	writeFile(t, cfg.Dir.Input, "index.html", "x")
	broken := transform.Transform{Name: "broken", Fn: func(context.Context, transform.Content, *transform.Context) (transform.Content, error) {
		return transform.Content{}, errors.New("boom")
	}}

	_, err := NewService(quietLogger()).WithTransforms(broken).Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, "x", readOutput(t, cfg, "index.html"))
}

func TestRun_OutputCollision(t *testing.T) {
	cfg := newProject(t, func(c *config.Config) { c.Compilers.Page.Markdown = true })
	writeFile(t, cfg.Dir.Input, "a.html", "html")
	writeFile(t, cfg.Dir.Input, "a.md", "md")

	_, err := NewService(quietLogger()).Run(context.Background(), Request{Config: cfg})
	require.ErrorIs(t, err, kerrors.ErrOutputCollision)
}

func TestRun_HooksRunAroundFiles(t *testing.T) {
	cfg := newProject(t, nil)
	writeFile(t, cfg.Dir.Input, "index.html", "x")

	var order []string
	svc := NewService(quietLogger()).
		WithBeforeBuild(func(_ context.Context, s *compiler.Session) error {
			order = append(order, "before:"+string(s.Mode))
			return nil
		}).
		WithAfterBuild(func(_ context.Context, s *compiler.Session) error {
			_, err := os.Stat(filepath.Join(s.Config.Dir.Output, "index.html"))
			order = append(order, "after")
			return err
		})

	_, err := svc.Run(context.Background(), Request{Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, []string{"before:build", "after"}, order)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	cfg := newProject(t, nil)
	writeFile(t, cfg.Dir.Input, "index.html", "x")

	res, err := NewService(quietLogger()).Run(context.Background(), Request{Config: cfg, Options: Options{DryRun: true}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Written)
	assert.NoDirExists(t, cfg.Dir.Output)
}

func TestRun_RequiresConfig(t *testing.T) {
	res, err := NewService(nil).Run(context.Background(), Request{})
	require.Error(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Equal(t, ferrors.CategoryConfig, ferrors.GetCategory(err))
}
