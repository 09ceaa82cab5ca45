package asset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o750))
		require.NoError(t, os.WriteFile(p, []byte(f), 0o600))
	}
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	root := t.TempDir()
	r, err := NewResolver(filepath.Join(root, "src"), filepath.Join(root, "dist"))
	require.NoError(t, err)
	return r
}

func TestNewFile_DerivesOutputLocations(t *testing.T) {
	r := newTestResolver(t)

	tests := []struct {
		name      string
		input     string
		ext       string
		wantRel   string
		wantURL   string
		wantSlug  string
		wantStem  string
		wantSrcEx string
	}{
		{"root index", "index.html", ".html", "index.html", "/", "src", "/index", ".html"},
		{"nested index", "about/index.html", ".html", "about/index.html", "/about/", "about", "/about/index", ".html"},
		{"template to html", "a/b.tpl", ".html", "a/b.html", "/a/b.html", "b", "/a/b", ".tpl"},
		{"uppercase extension", "Guide.MD", ".html", "Guide.html", "/Guide.html", "Guide", "/Guide", ".md"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := r.NewFile(filepath.Join(r.InputDir, filepath.FromSlash(tt.input)), tt.ext)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(r.OutputDir, filepath.FromSlash(tt.wantRel)), f.OutputPath)
			assert.Equal(t, tt.wantRel, r.OutputRel(f))
			assert.Equal(t, tt.wantURL, f.URL)
			assert.Equal(t, tt.wantSlug, f.Slug)
			assert.Equal(t, tt.wantStem, f.PathStem)
			assert.Equal(t, tt.wantSrcEx, f.Extension)
			assert.Equal(t, tt.ext, f.OutputExtension)
			assert.False(t, f.Date.IsZero())
		})
	}
}

func TestNewFile_RejectsPathsOutsideInput(t *testing.T) {
	r := newTestResolver(t)
	_, err := r.NewFile(filepath.Join(r.InputDir, "..", "elsewhere.html"), ".html")
	require.Error(t, err)
}

func TestResolve_IncludeIgnoreAndGlob(t *testing.T) {
	r := newTestResolver(t)
	writeTree(t, r.InputDir,
		"index.tpl",
		"blog/post.tpl",
		"blog/_draft.tpl",
		"blog/deep/nested.tpl",
		"style.css",
	)

	files, err := r.Resolve(Pattern{Include: "**/*.tpl", Ignore: "**/_*", OutputExtension: ".html"}, ResolveOptions{})
	require.NoError(t, err)
	var rels []string
	for _, f := range files {
		rels = append(rels, r.OutputRel(f))
	}
	assert.Equal(t, []string{"blog/deep/nested.html", "blog/post.html", "index.html"}, rels)

	files, err = r.Resolve(Pattern{Include: "**/*.tpl", OutputExtension: ".html"}, ResolveOptions{Glob: "blog/*"})
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "/blog/_draft.html", files[0].URL)
	assert.Equal(t, "/blog/post.html", files[1].URL)
}

func TestResolve_NoMatchesIsEmpty(t *testing.T) {
	r := newTestResolver(t)
	writeTree(t, r.InputDir, "index.html")

	files, err := r.Resolve(Pattern{Include: "**/*.scss", OutputExtension: ".css"}, ResolveOptions{})
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestResolve_MissingInputDirIsEmpty(t *testing.T) {
	r := newTestResolver(t)

	files, err := r.Resolve(Pattern{Include: "**/*.html", OutputExtension: ".html"}, ResolveOptions{})
	require.NoError(t, err)
	assert.NotNil(t, files)
	assert.Empty(t, files)
}

func TestResolve_InvalidPattern(t *testing.T) {
	r := newTestResolver(t)
	writeTree(t, r.InputDir, "index.html")

	_, err := r.Resolve(Pattern{Include: "**/*.[html", OutputExtension: ".html"}, ResolveOptions{})
	require.ErrorIs(t, err, kerrors.ErrInvalidPattern)
}

func TestCheckCollisions(t *testing.T) {
	r := newTestResolver(t)
	a, err := r.NewFile(filepath.Join(r.InputDir, "page.tpl"), ".html")
	require.NoError(t, err)
	b, err := r.NewFile(filepath.Join(r.InputDir, "page.html"), ".html")
	require.NoError(t, err)

	require.NoError(t, CheckCollisions([]*File{a, a}))

	err = CheckCollisions([]*File{a, b})
	require.ErrorIs(t, err, kerrors.ErrOutputCollision)
	assert.Contains(t, err.Error(), a.InputPath)
	assert.Contains(t, err.Error(), b.InputPath)
}

func TestURLToOutputRel(t *testing.T) {
	tests := map[string]string{
		"/":              "index.html",
		"":               "index.html",
		"/about/":        "about/index.html",
		"/about":         "about.html",
		"/css/site.css":  "css/site.css",
		"/../etc/passwd": "etc/passwd.html",
		"/a/../b/":       "b/index.html",
	}
	for in, want := range tests {
		assert.Equal(t, want, URLToOutputRel(in, ".html"), in)
	}
}
