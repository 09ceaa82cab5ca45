package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

const exampleConfig = `# sitekiln configuration
site:
  name: My Site
  base_url: https://example.com

dir:
  input: src
  output: dist

compilers:
  page:
    layouts_dir: layouts
    data_dir: data
    markdown: true
    template: true
  style:
    enabled: true
    banner: true
  script:
    enabled: true
    banner: true

build:
  failure_policy: abort-file
  transforms:
    - type: doctype
    - type: lineBreak
      options:
        line_break: "\n"

dev_server:
  host: localhost
  port: 3000
  live_reload: true

logging:
  level: ${SITEKILN_LOG_LEVEL}
  format: text
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("stat config file: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(configPath), 0o750); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
