package build

import (
	"git.home.luguber.info/inful/sitekiln/internal/compiler"
	"git.home.luguber.info/inful/sitekiln/internal/compilers/banner"
	"git.home.luguber.info/inful/sitekiln/internal/compilers/page"
	"git.home.luguber.info/inful/sitekiln/internal/config"
)

// DefaultEntries returns the bundled compiler entries enabled in cfg, page
// compiler first.
func DefaultEntries(cfg *config.Config) []compiler.Entry {
	var entries []compiler.Entry
	if !cfg.Compilers.Page.Disabled {
		entries = append(entries, page.Entry(cfg.Compilers.Page))
	}
	return append(entries, banner.Entries(cfg.Compilers)...)
}
