// Package layouts indexes the layout templates pages can wrap themselves in.
package layouts

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"

	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
)

// Collection maps layout keys (file base names such as "default.html") to paths.
type Collection struct {
	paths map[string]string
}

// Load indexes every regular file directly inside dir, then overlays files.
// Explicit entries win over directory entries. A missing dir yields an empty
// collection.
func Load(dir string, files map[string]string) (*Collection, error) {
	c := &Collection{paths: map[string]string{}}

	if dir != "" {
		matches, err := doublestar.Glob(os.DirFS(dir), "*", doublestar.WithFilesOnly())
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("list layouts in %s: %w", dir, err)
		}
		for _, name := range matches {
			c.paths[name] = filepath.Join(dir, name)
		}
	}
	for key, p := range files {
		c.paths[key] = p
	}
	return c, nil
}

// Get returns the path registered for key.
func (c *Collection) Get(key string) (string, error) {
	p, ok := c.paths[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", kerrors.ErrMissingLayout, key)
	}
	return p, nil
}

// Keys returns the layout keys in sorted order.
func (c *Collection) Keys() []string {
	keys := make([]string, 0, len(c.paths))
	for k := range c.paths {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
