// Package sitedata loads global template data and derives the page index
// exposed to templates.
package sitedata

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// Load decodes every *.yaml, *.yml and *.json file directly inside dir into
// a map keyed by file base name without extension. inline entries win.
func Load(dir string, inline map[string]any) (map[string]any, error) {
	data := map[string]any{}
	if dir != "" {
		matches, err := doublestar.Glob(os.DirFS(dir), "*.{yaml,yml,json,YAML,YML,JSON}", doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("list data files in %s: %w", dir, err)
		}
		for _, name := range matches {
			value, err := decodeFile(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			data[strings.TrimSuffix(name, filepath.Ext(name))] = value
		}
	}
	for k, v := range inline {
		data[k] = v
	}
	return data, nil
}

func decodeFile(path string) (any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var value any
	if strings.EqualFold(filepath.Ext(path), ".json") {
		err = json.Unmarshal(raw, &value)
	} else {
		err = yaml.Unmarshal(raw, &value)
	}
	if err != nil {
		return nil, fmt.Errorf("decode data file %s: %w", path, err)
	}
	return value, nil
}
