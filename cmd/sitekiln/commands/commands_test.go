package commands

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitekiln/internal/config"
	ferrors "git.home.luguber.info/inful/sitekiln/internal/foundation/errors"
)

func run(t *testing.T, args ...string) error {
	t.Helper()
	cli := &CLI{}
	g := &Global{}
	parser, err := kong.New(cli,
		kong.Name("sitekiln"),
		kong.Vars{"version": "test"},
		kong.Bind(g),
		kong.Exit(func(code int) { t.Fatalf("unexpected exit %d", code) }))
	require.NoError(t, err)
	ctx, err := parser.Parse(args)
	require.NoError(t, err)
	return ctx.Run(cli)
}

func writeFile(t *testing.T, path, body string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
}

func TestInitThenBuild(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sitekiln.yaml")

	require.NoError(t, run(t, "--config", cfgPath, "init"))
	require.Error(t, run(t, "--config", cfgPath, "init"))
	require.NoError(t, run(t, "--config", cfgPath, "init", "--force"))

	writeFile(t, filepath.Join(dir, "layouts", "base.html"), "<html><body>{{.content}}</body></html>")
	writeFile(t, filepath.Join(dir, "src", "index.md"), "---\nlayout: base.html\n---\n# Hi {{.site.Name}}\n")
	writeFile(t, filepath.Join(dir, "src", "css", "site.css"), "body{}")

	require.NoError(t, run(t, "--config", cfgPath, "build", "--no-progress"))

	page, err := os.ReadFile(filepath.Join(dir, "dist", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "<!DOCTYPE html>")
	assert.Contains(t, string(page), "Hi My Site</h1>")

	css, err := os.ReadFile(filepath.Join(dir, "dist", "css", "site.css"))
	require.NoError(t, err)
	assert.Contains(t, string(css), "body{}")
	assert.Contains(t, string(css), "rev. ")
}

func TestBuild_DryRunWritesNothing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sitekiln.yaml")
	writeFile(t, cfgPath, "dir:\n  input: src\n  output: out\n")
	writeFile(t, filepath.Join(dir, "src", "index.html"), "<p>x</p>")

	require.NoError(t, run(t, "--config", cfgPath, "build", "--dry-run", "--no-progress"))
	assert.NoFileExists(t, filepath.Join(dir, "out", "index.html"))
}

func TestBuild_FailureMapsToBuildExitCode(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sitekiln.yaml")
	writeFile(t, cfgPath, "dir:\n  input: src\n")
	writeFile(t, filepath.Join(dir, "src", "index.html"), "---\nlayout: gone.html\n---\n<p>x</p>")

	err := run(t, "--config", cfgPath, "build", "--no-progress")
	require.Error(t, err)
	assert.Equal(t, 11, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestBuild_MissingExplicitConfigIsConfigError(t *testing.T) {
	err := run(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"), "build", "--no-progress")
	require.Error(t, err)
	assert.Equal(t, 7, ferrors.NewCLIErrorAdapter(false, nil).ExitCodeFor(err))
}

func TestLogger_FlagsOverrideFile(t *testing.T) {
	c := &CLI{LogLevel: "error"}
	assert.False(t, c.logger(config.LoggingConfig{Level: config.LogLevelDebug}).Enabled(t.Context(), slog.LevelWarn))

	c = &CLI{Verbose: true}
	assert.True(t, c.logger(config.LoggingConfig{Level: config.LogLevelError}).Enabled(t.Context(), slog.LevelDebug))
}

func TestVersionCommand(t *testing.T) {
	require.NoError(t, run(t, "version"))
}
