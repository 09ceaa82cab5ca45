// Package banner compiles style and script assets by prefixing a comment
// banner to the source.
package banner

import (
	"context"
	"fmt"
	"time"

	"git.home.luguber.info/inful/sitekiln/internal/asset"
	"git.home.luguber.info/inful/sitekiln/internal/compiler"
	"git.home.luguber.info/inful/sitekiln/internal/config"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
)

const devBanner = `DEVELOPMENT BUILD
Do not edit this file directly.
Run a release build before publishing.`

// Text returns the banner for mode at now, wrapped in a block comment.
func Text(mode config.Mode, now time.Time) string {
	body := fmt.Sprintf("rev. %s\ncopyright © %d", now.Format(time.DateOnly), now.Year())
	if mode == config.ModeServe {
		body = devBanner
	}
	return "/*\n" + body + "\n*/"
}

// Entry returns a compiler entry named name for cfg.
func Entry(name string, cfg config.AssetCompilerConfig) compiler.Entry {
	return compiler.Entry{
		Name:            name,
		Include:         cfg.Include,
		Ignore:          cfg.Ignore,
		OutputExtension: cfg.OutputExtension,
		Factory: func(_ context.Context, s *compiler.Session) (compiler.Func, error) {
			prefix := ""
			if cfg.Banner {
				prefix = Text(s.Mode, time.Now()) + "\n"
			}
			return func(_ context.Context, file *asset.File, c *compiler.Compiler, opts compiler.Options) (transform.Content, error) {
				snap, err := c.Session().Source.Read(file.InputPath, opts.UseCache)
				if err != nil {
					return transform.Content{}, err
				}
				return transform.Text(prefix + string(snap.Raw)), nil
			}, nil
		},
	}
}

// Entries returns the enabled style and script entries.
func Entries(cfg config.CompilersConfig) []compiler.Entry {
	var entries []compiler.Entry
	if cfg.Style.Enabled {
		entries = append(entries, Entry("style", cfg.Style))
	}
	if cfg.Script.Enabled {
		entries = append(entries, Entry("script", cfg.Script))
	}
	return entries
}
