package content

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
	"git.home.luguber.info/inful/sitekiln/internal/frontmatter"
)

// Source reads snapshots through a Cache.
type Source struct {
	Cache *Cache
}

// NewSource returns a Source over cache, creating a default cache when nil.
func NewSource(cache *Cache) *Source {
	if cache == nil {
		cache = NewCache(0)
	}
	return &Source{Cache: cache}
}

// Read returns the snapshot for path. With useCache a cached snapshot is
// returned without touching the filesystem. Otherwise the file is re-read and
// the fresh snapshot replaces the cache entry once the read has succeeded.
func (s *Source) Read(path string, useCache bool) (*Snapshot, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if useCache {
		if snap, ok := s.Cache.Get(abs); ok {
			return snap, nil
		}
	}

	snap, err := load(abs)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(abs, snap)
	return snap, nil
}

// ReadRaw returns the bytes of path without front matter or sidecar
// processing. It shares the cache with Read: a cached snapshot of either
// kind satisfies a cached raw read.
func (s *Source) ReadRaw(path string, useCache bool) ([]byte, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	if useCache {
		if snap, ok := s.Cache.Get(abs); ok {
			return snap.Raw, nil
		}
		if snap, ok := s.Cache.Get(rawKey(abs)); ok {
			return snap.Raw, nil
		}
	}

	raw, err := os.ReadFile(abs)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(rawKey(abs), &Snapshot{Raw: raw})
	return raw, nil
}

// Raw-only entries live beside parsed snapshots so that Read never returns
// a snapshot without metadata.
func rawKey(abs string) string { return "raw:" + abs }

func load(path string) (*Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	meta, body, err := frontmatter.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("front matter in %s: %w", path, err)
	}
	if meta == nil {
		meta = map[string]any{}
	}

	sidecar, err := readSidecar(path)
	if err != nil {
		return nil, err
	}
	for k, v := range sidecar {
		meta[k] = v
	}

	fp, err := Fingerprint(meta, body)
	if err != nil {
		return nil, fmt.Errorf("fingerprint %s: %w", path, err)
	}

	return &Snapshot{
		Meta:        meta,
		Body:        string(body),
		Raw:         raw,
		Fingerprint: fp,
	}, nil
}

// SidecarPath returns the JSON metadata file that accompanies path.
func SidecarPath(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ".json"
}

func readSidecar(path string) (map[string]any, error) {
	sidecar := SidecarPath(path)
	if sidecar == path {
		return nil, nil
	}
	data, err := os.ReadFile(sidecar)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", sidecar, err)
	}

	var fields map[string]any
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", kerrors.ErrInvalidMetadata, sidecar, err)
	}
	return fields, nil
}
