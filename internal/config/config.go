package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config is the complete sitekiln configuration for one project.
type Config struct {
	Site      SiteConfig      `yaml:"site"`
	Dir       DirConfig       `yaml:"dir"`
	DevServer DevServerConfig `yaml:"dev_server"`
	Build     BuildConfig     `yaml:"build"`
	Compilers CompilersConfig `yaml:"compilers"`
	Cache     CacheConfig     `yaml:"cache"`
	Logging   LoggingConfig   `yaml:"logging"`
	Metrics   MetricsConfig   `yaml:"metrics"`
}

// SiteConfig holds values exposed to templates.
type SiteConfig struct {
	Name    string `yaml:"name,omitempty"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// DirConfig holds the project directories. Relative paths resolve against Root.
type DirConfig struct {
	Root   string `yaml:"root,omitempty"`
	Input  string `yaml:"input,omitempty"`
	Output string `yaml:"output,omitempty"`
}

// DevServerConfig configures serve mode.
type DevServerConfig struct {
	Host       string          `yaml:"host,omitempty"`
	Port       int             `yaml:"port,omitempty"`
	LiveReload *bool           `yaml:"live_reload,omitempty"`
	Transforms []TransformSpec `yaml:"transforms,omitempty"`
}

// LiveReloadEnabled reports whether the live reload hub and script are active.
func (d DevServerConfig) LiveReloadEnabled() bool {
	return d.LiveReload == nil || *d.LiveReload
}

// Addr returns host:port.
func (d DevServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", d.Host, d.Port)
}

// BuildConfig configures build mode.
type BuildConfig struct {
	Concurrency   int             `yaml:"concurrency,omitempty"`
	FailurePolicy FailurePolicy   `yaml:"failure_policy,omitempty"`
	Progress      *bool           `yaml:"progress,omitempty"`
	TargetGlob    string          `yaml:"target_glob,omitempty"`
	Transforms    []TransformSpec `yaml:"transforms,omitempty"`
}

// ProgressEnabled reports whether the build shows a progress bar.
func (b BuildConfig) ProgressEnabled() bool {
	return b.Progress == nil || *b.Progress
}

// TransformSpec declares one built-in transform by type.
type TransformSpec struct {
	Name    string         `yaml:"name,omitempty"`
	Type    string         `yaml:"type"`
	Include []string       `yaml:"include,omitempty"`
	Exclude []string       `yaml:"exclude,omitempty"`
	Options map[string]any `yaml:"options,omitempty"`
}

// CompilersConfig configures the bundled compilers.
type CompilersConfig struct {
	Page   PageCompilerConfig  `yaml:"page"`
	Style  AssetCompilerConfig `yaml:"style"`
	Script AssetCompilerConfig `yaml:"script"`
}

// PageCompilerConfig configures the HTML page compiler.
type PageCompilerConfig struct {
	Disabled            bool              `yaml:"disabled,omitempty"`
	Include             string            `yaml:"include,omitempty"`
	Ignore              string            `yaml:"ignore,omitempty"`
	OutputExtension     string            `yaml:"output_extension,omitempty"`
	LayoutsDir          string            `yaml:"layouts_dir,omitempty"`
	Layouts             map[string]string `yaml:"layouts,omitempty"`
	ContentVariableName string            `yaml:"content_variable_name,omitempty"`
	DataDir             string            `yaml:"data_dir,omitempty"`
	Data                map[string]any    `yaml:"data,omitempty"`
	Markdown            bool              `yaml:"markdown,omitempty"`
	Template            bool              `yaml:"template,omitempty"`
}

// AssetCompilerConfig configures a banner-prefixing style or script compiler.
type AssetCompilerConfig struct {
	Enabled         bool   `yaml:"enabled,omitempty"`
	Include         string `yaml:"include,omitempty"`
	Ignore          string `yaml:"ignore,omitempty"`
	OutputExtension string `yaml:"output_extension,omitempty"`
	Banner          bool   `yaml:"banner,omitempty"`
}

// CacheConfig sizes the session content cache.
type CacheConfig struct {
	Size int `yaml:"size,omitempty"`
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level,omitempty"`
	Format LogFormat `yaml:"format,omitempty"`
}

// MetricsConfig toggles Prometheus metrics.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Path    string `yaml:"path,omitempty"`
}

// Load reads, expands, decodes, defaults and validates a configuration file.
func Load(configPath string) (*Config, error) {
	loadEnvFiles(filepath.Dir(configPath))

	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("configuration file not found: %s", configPath)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", configPath, err)
	}
	if cfg.Dir.Root == "" {
		cfg.Dir.Root = filepath.Dir(configPath)
	}
	if err := Finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML after expanding environment variables. Unknown keys are rejected.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader([]byte(expanded)))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Default returns a defaulted configuration rooted at root.
func Default(root string) (*Config, error) {
	cfg := &Config{Dir: DirConfig{Root: root}}
	if err := Finalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Finalize applies defaults and validates.
func Finalize(cfg *Config) error {
	if err := applyDefaults(cfg); err != nil {
		return err
	}
	return Validate(cfg)
}
