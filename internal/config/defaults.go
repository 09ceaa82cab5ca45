package config

import (
	"fmt"
	"path/filepath"
	"runtime"

	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
)

const (
	defaultInputDir            = "src"
	defaultOutputDir           = "dist"
	defaultHost                = "localhost"
	defaultPort                = 3000
	defaultCacheSize           = 65536
	defaultContentVariableName = "content"
	defaultMetricsPath         = "/metrics"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

func defaultAppliers() []DefaultApplier {
	return []DefaultApplier{
		&DirDefaultApplier{},
		&DevServerDefaultApplier{},
		&BuildDefaultApplier{},
		&CompilersDefaultApplier{},
		&ObservabilityDefaultApplier{},
	}
}

func applyDefaults(cfg *Config) error {
	for _, applier := range defaultAppliers() {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("%w: %s defaults: %w", kerrors.ErrConfigInvalid, applier.Domain(), err)
		}
	}
	return nil
}

// DirDefaultApplier resolves project directories to absolute paths.
type DirDefaultApplier struct{}

func (d *DirDefaultApplier) Domain() string { return "dir" }

func (d *DirDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Dir.Root == "" {
		cfg.Dir.Root = "."
	}
	root, err := filepath.Abs(cfg.Dir.Root)
	if err != nil {
		return err
	}
	cfg.Dir.Root = root
	if cfg.Dir.Input == "" {
		cfg.Dir.Input = defaultInputDir
	}
	if cfg.Dir.Output == "" {
		cfg.Dir.Output = defaultOutputDir
	}
	cfg.Dir.Input = resolveAgainst(root, cfg.Dir.Input)
	cfg.Dir.Output = resolveAgainst(root, cfg.Dir.Output)
	return nil
}

// DevServerDefaultApplier handles serve mode defaults.
type DevServerDefaultApplier struct{}

func (d *DevServerDefaultApplier) Domain() string { return "dev_server" }

func (d *DevServerDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.DevServer.Host == "" {
		cfg.DevServer.Host = defaultHost
	}
	if cfg.DevServer.Port == 0 {
		cfg.DevServer.Port = defaultPort
	}
	defaultTransformNames(cfg.DevServer.Transforms)
	return nil
}

// BuildDefaultApplier handles build mode defaults.
type BuildDefaultApplier struct{}

func (b *BuildDefaultApplier) Domain() string { return "build" }

func (b *BuildDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Build.Concurrency <= 0 {
		cfg.Build.Concurrency = runtime.NumCPU()
	}
	policy, err := NormalizeFailurePolicy(string(cfg.Build.FailurePolicy))
	if err != nil {
		return err
	}
	cfg.Build.FailurePolicy = policy
	defaultTransformNames(cfg.Build.Transforms)
	return nil
}

// CompilersDefaultApplier fills compiler globs and extensions.
type CompilersDefaultApplier struct{}

func (c *CompilersDefaultApplier) Domain() string { return "compilers" }

func (c *CompilersDefaultApplier) ApplyDefaults(cfg *Config) error {
	page := &cfg.Compilers.Page
	if page.Include == "" {
		page.Include = "**/*.html"
		if page.Markdown {
			page.Include = "**/*.{html,md}"
		}
	}
	if page.OutputExtension == "" {
		page.OutputExtension = ".html"
	}
	if page.ContentVariableName == "" {
		page.ContentVariableName = defaultContentVariableName
	}
	if page.LayoutsDir != "" {
		page.LayoutsDir = resolveAgainst(cfg.Dir.Root, page.LayoutsDir)
	}
	for key, p := range page.Layouts {
		page.Layouts[key] = resolveAgainst(cfg.Dir.Root, p)
	}
	if page.DataDir != "" {
		page.DataDir = resolveAgainst(cfg.Dir.Root, page.DataDir)
	}

	applyAssetDefaults(&cfg.Compilers.Style, "**/*.css", ".css")
	applyAssetDefaults(&cfg.Compilers.Script, "**/*.js", ".js")

	if cfg.Cache.Size <= 0 {
		cfg.Cache.Size = defaultCacheSize
	}
	return nil
}

func applyAssetDefaults(a *AssetCompilerConfig, include, ext string) {
	if a.Include == "" {
		a.Include = include
	}
	if a.OutputExtension == "" {
		a.OutputExtension = ext
	}
}

// ObservabilityDefaultApplier normalizes logging and metrics settings.
type ObservabilityDefaultApplier struct{}

func (o *ObservabilityDefaultApplier) Domain() string { return "observability" }

func (o *ObservabilityDefaultApplier) ApplyDefaults(cfg *Config) error {
	cfg.Logging.Level = NormalizeLogLevel(string(cfg.Logging.Level))
	cfg.Logging.Format = NormalizeLogFormat(string(cfg.Logging.Format))
	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = defaultMetricsPath
	}
	return nil
}

func defaultTransformNames(specs []TransformSpec) {
	for i := range specs {
		if specs[i].Name == "" {
			specs[i].Name = specs[i].Type
		}
	}
}

func resolveAgainst(root, p string) string {
	if filepath.IsAbs(p) {
		return filepath.Clean(p)
	}
	return filepath.Join(root, p)
}
