package transforms

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitekiln/internal/logfields"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
)

var includeDirective = regexp.MustCompile(`<!--#include\s+virtual="([^"]+)"\s*-->`)

// SSIOptions configures SSIShim.
type SSIOptions struct {
	// Dir is the document root include paths are written against. When set,
	// an include path is made relative to Dir before joining the output dir.
	Dir string `mapstructure:"dir"`
	// OnError produces replacement content for an include that cannot be read.
	OnError func(includePath string, err error) string `mapstructure:"-"`
	// Fallback is the replacement used when OnError is nil.
	Fallback string `mapstructure:"fallback"`
}

// SSIShim expands <!--#include virtual="..." --> directives with files from
// the output directory. Includes that resolve outside it are removed.
func SSIShim(opts SSIOptions) transform.Transform {
	const name = "ssiShim"
	return transform.Transform{
		Name:   name,
		Filter: htmlOnly(),
		Fn: func(_ context.Context, c transform.Content, tc *transform.Context) (transform.Content, error) {
			log := tc.Logger
			outputDir, err := filepath.Abs(tc.OutputDir)
			if err != nil {
				return c, err
			}
			out := includeDirective.ReplaceAllStringFunc(c.String(), func(directive string) string {
				includePath := includeDirective.FindStringSubmatch(directive)[1]
				target, ok := resolveInclude(outputDir, opts.Dir, includePath)
				if !ok {
					if log != nil {
						log.Warn("Blocked include outside output directory",
							logfields.Transform(name),
							logfields.Path(includePath))
					}
					return ""
				}
				data, err := os.ReadFile(target)
				if err != nil {
					if opts.OnError != nil {
						return opts.OnError(includePath, err)
					}
					if log != nil {
						log.Warn("Failed to include file",
							logfields.Transform(name),
							logfields.Path(includePath),
							logfields.Error(err))
					}
					return opts.Fallback
				}
				return string(data)
			})
			return transform.Text(out), nil
		},
	}
}

func resolveInclude(outputDir, docRoot, includePath string) (string, bool) {
	var target string
	if docRoot != "" {
		rel, err := filepath.Rel(docRoot, filepath.FromSlash(includePath))
		if err != nil {
			return "", false
		}
		target = filepath.Join(outputDir, rel)
	} else {
		target = filepath.Join(outputDir, filepath.FromSlash(strings.TrimPrefix(includePath, "/")))
	}
	if target != outputDir && !strings.HasPrefix(target, outputDir+string(filepath.Separator)) {
		return "", false
	}
	return target, true
}
