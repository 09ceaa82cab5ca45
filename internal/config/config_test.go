package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "sitekiln.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_AppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "site:\n  name: Test\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "src"), cfg.Dir.Input)
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.Dir.Output)
	assert.Equal(t, "localhost", cfg.DevServer.Host)
	assert.Equal(t, 3000, cfg.DevServer.Port)
	assert.True(t, cfg.DevServer.LiveReloadEnabled())
	assert.Equal(t, FailurePolicyAbortFile, cfg.Build.FailurePolicy)
	assert.Equal(t, runtime.NumCPU(), cfg.Build.Concurrency)
	assert.Equal(t, "**/*.html", cfg.Compilers.Page.Include)
	assert.Equal(t, ".html", cfg.Compilers.Page.OutputExtension)
	assert.Equal(t, "content", cfg.Compilers.Page.ContentVariableName)
	assert.Equal(t, "**/*.css", cfg.Compilers.Style.Include)
	assert.Equal(t, LogLevelInfo, cfg.Logging.Level)
	assert.Equal(t, LogFormatText, cfg.Logging.Format)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("SITEKILN_TEST_OUT", "public")
	dir := t.TempDir()
	path := writeConfig(t, dir, "dir:\n  output: ${SITEKILN_TEST_OUT}\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "public"), cfg.Dir.Output)
}

func TestLoad_ReadsDotEnvWithoutOverriding(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("SITEKILN_TEST_IN=pages\nSITEKILN_TEST_KEEP=fromfile\n"), 0o600))
	t.Setenv("SITEKILN_TEST_KEEP", "fromenv")
	path := writeConfig(t, dir, "dir:\n  input: ${SITEKILN_TEST_IN}\n  output: ${SITEKILN_TEST_KEEP}\n")

	cfg, err := Load(path)
	t.Cleanup(func() { _ = os.Unsetenv("SITEKILN_TEST_IN") })
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "pages"), cfg.Dir.Input)
	assert.Equal(t, filepath.Join(dir, "fromenv"), cfg.Dir.Output)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "configuration file not found")
}

func TestParse_RejectsUnknownKeys(t *testing.T) {
	_, err := Parse([]byte("bulid:\n  concurrency: 2\n"))
	require.Error(t, err)
}

func TestFinalize_FailurePolicy(t *testing.T) {
	tests := []struct {
		raw  string
		want FailurePolicy
		ok   bool
	}{
		{"", FailurePolicyAbortFile, true},
		{"skip", FailurePolicySkipTransform, true},
		{"Skip_Transform", FailurePolicySkipTransform, true},
		{"abort-file", FailurePolicyAbortFile, true},
		{"retry", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			cfg := &Config{Dir: DirConfig{Root: t.TempDir()}, Build: BuildConfig{FailurePolicy: FailurePolicy(tt.raw)}}
			err := Finalize(cfg)
			if !tt.ok {
				require.ErrorIs(t, err, kerrors.ErrConfigInvalid)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.Build.FailurePolicy)
		})
	}
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := &Config{
		Dir: DirConfig{Root: t.TempDir(), Input: "same", Output: "same"},
		Build: BuildConfig{Transforms: []TransformSpec{
			{Type: "doctype"},
			{Type: "doctype"},
			{Name: "x"},
		}},
		Compilers: CompilersConfig{Page: PageCompilerConfig{OutputExtension: "html"}},
	}
	err := Finalize(cfg)
	require.ErrorIs(t, err, kerrors.ErrConfigInvalid)
	msg := err.Error()
	assert.Contains(t, msg, "dir.input and dir.output must differ")
	assert.Contains(t, msg, `duplicate name "doctype"`)
	assert.Contains(t, msg, "type is required")
	assert.Contains(t, msg, "must start with '.'")
}

func TestDefault_MarkdownWidensPageInclude(t *testing.T) {
	cfg := &Config{Dir: DirConfig{Root: t.TempDir()}, Compilers: CompilersConfig{Page: PageCompilerConfig{Markdown: true}}}
	require.NoError(t, Finalize(cfg))
	assert.Equal(t, "**/*.{html,md}", cfg.Compilers.Page.Include)
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	t.Setenv("SITEKILN_LOG_LEVEL", "debug")
	dir := t.TempDir()
	path := filepath.Join(dir, "sitekiln.yaml")

	require.NoError(t, Init(path, false))
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, LogLevelDebug, cfg.Logging.Level)
	assert.True(t, cfg.Compilers.Page.Markdown)
	assert.Equal(t, filepath.Join(dir, "layouts"), cfg.Compilers.Page.LayoutsDir)
	require.Len(t, cfg.Build.Transforms, 2)
	assert.Equal(t, "lineBreak", cfg.Build.Transforms[1].Name)
}
