package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	kerrors "git.home.luguber.info/inful/sitekiln/internal/errors"
)

// Validate checks a defaulted configuration and joins every problem found.
func Validate(cfg *Config) error {
	var errs []error
	errs = append(errs, validateDirs(cfg)...)
	errs = append(errs, validateDevServer(cfg)...)
	errs = append(errs, validateCompilers(cfg)...)
	errs = append(errs, validateTransforms("build.transforms", cfg.Build.Transforms)...)
	errs = append(errs, validateTransforms("dev_server.transforms", cfg.DevServer.Transforms)...)
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", kerrors.ErrConfigInvalid, errors.Join(errs...))
}

func validateDirs(cfg *Config) []error {
	var errs []error
	if cfg.Dir.Input == cfg.Dir.Output {
		errs = append(errs, errors.New("dir.input and dir.output must differ"))
	}
	if rel, err := filepath.Rel(cfg.Dir.Output, cfg.Dir.Input); err == nil && !strings.HasPrefix(rel, "..") && rel != "." {
		errs = append(errs, errors.New("dir.input must not be inside dir.output"))
	}
	return errs
}

func validateDevServer(cfg *Config) []error {
	if cfg.DevServer.Port < 0 || cfg.DevServer.Port > 65535 {
		return []error{fmt.Errorf("dev_server.port out of range: %d", cfg.DevServer.Port)}
	}
	return nil
}

func validateCompilers(cfg *Config) []error {
	var errs []error
	check := func(name, ext string) {
		if !strings.HasPrefix(ext, ".") || strings.ContainsAny(ext, `/\`) {
			errs = append(errs, fmt.Errorf("compilers.%s.output_extension %q must start with '.'", name, ext))
		}
	}
	if !cfg.Compilers.Page.Disabled {
		check("page", cfg.Compilers.Page.OutputExtension)
	}
	if cfg.Compilers.Style.Enabled {
		check("style", cfg.Compilers.Style.OutputExtension)
	}
	if cfg.Compilers.Script.Enabled {
		check("script", cfg.Compilers.Script.OutputExtension)
	}
	return errs
}

func validateTransforms(section string, specs []TransformSpec) []error {
	var errs []error
	seen := make(map[string]bool, len(specs))
	for i, s := range specs {
		if s.Type == "" {
			errs = append(errs, fmt.Errorf("%s[%d]: type is required", section, i))
			continue
		}
		if seen[s.Name] {
			errs = append(errs, fmt.Errorf("%s[%d]: duplicate name %q", section, i, s.Name))
		}
		seen[s.Name] = true
	}
	return errs
}
