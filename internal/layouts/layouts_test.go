package layouts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
)

func TestLoad_DirectoryAndExplicitFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "default.html"), []byte("d"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post.html"), []byte("p"), 0o600))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "partials"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "partials", "nav.html"), []byte("n"), 0o600))

	c, err := Load(dir, map[string]string{
		"post.html":  "/elsewhere/post.html",
		"extra.html": "/elsewhere/extra.html",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"default.html", "extra.html", "post.html"}, c.Keys())

	p, err := c.Get("default.html")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "default.html"), p)

	p, err = c.Get("post.html")
	require.NoError(t, err)
	assert.Equal(t, "/elsewhere/post.html", p)
}

func TestLoad_MissingDirIsEmpty(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope"), nil)
	require.NoError(t, err)
	assert.Empty(t, c.Keys())
}

func TestGet_MissingLayout(t *testing.T) {
	c, err := Load("", nil)
	require.NoError(t, err)

	_, err = c.Get("fancy.html")
	require.ErrorIs(t, err, kerrors.ErrMissingLayout)
	assert.Equal(t, "layout not found: fancy.html", err.Error())
}
