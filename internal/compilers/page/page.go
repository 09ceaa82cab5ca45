// Package page compiles HTML and Markdown pages, optionally wrapping them in
// a layout.
package page

import (
	"context"
	"html/template"
	"maps"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/sitekiln/internal/asset"
	"git.home.luguber.info/inful/sitekiln/internal/compiler"
	"git.home.luguber.info/inful/sitekiln/internal/config"
	"git.home.luguber.info/inful/sitekiln/internal/layouts"
	"git.home.luguber.info/inful/sitekiln/internal/logfields"
	"git.home.luguber.info/inful/sitekiln/internal/sitedata"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
	"git.home.luguber.info/inful/sitekiln/internal/transpile"
)

// Name is the entry name of the page compiler.
const Name = "page"

// Entry returns the page compiler entry for cfg.
func Entry(cfg config.PageCompilerConfig) compiler.Entry {
	return compiler.Entry{
		Name:            Name,
		Include:         cfg.Include,
		Ignore:          cfg.Ignore,
		OutputExtension: cfg.OutputExtension,
		Factory: func(ctx context.Context, s *compiler.Session) (compiler.Func, error) {
			return newPageFunc(ctx, s, cfg)
		},
	}
}

// PageData is exposed to templates as .page.
type PageData struct {
	*asset.File
	Title string
}

type pageCompiler struct {
	cfg     config.PageCompilerConfig
	site    config.SiteConfig
	layouts *layouts.Collection
	data    map[string]any
	pages   []sitedata.Page
	baseURL string
}

func newPageFunc(_ context.Context, s *compiler.Session, cfg config.PageCompilerConfig) (compiler.Func, error) {
	lc, err := layouts.Load(cfg.LayoutsDir, cfg.Layouts)
	if err != nil {
		return nil, err
	}
	data, err := sitedata.Load(cfg.DataDir, cfg.Data)
	if err != nil {
		return nil, err
	}

	files, err := s.Resolver.Resolve(asset.Pattern{
		Include:         cfg.Include,
		Ignore:          cfg.Ignore,
		OutputExtension: cfg.OutputExtension,
	}, asset.ResolveOptions{})
	if err != nil {
		return nil, err
	}
	pages, err := sitedata.Pages(files, s.Source)
	if err != nil {
		return nil, err
	}

	baseURL := s.Config.Site.BaseURL
	if baseURL == "" {
		baseURL = "/"
	}
	pc := &pageCompiler{
		cfg:     cfg,
		site:    s.Config.Site,
		layouts: lc,
		data:    data,
		pages:   pages,
		baseURL: baseURL,
	}
	s.Logger.Debug("Page compiler ready",
		logfields.Files(len(pages)),
		logfields.Compiler(Name))
	return pc.compile, nil
}

func (pc *pageCompiler) compile(ctx context.Context, file *asset.File, c *compiler.Compiler, opts compiler.Options) (transform.Content, error) {
	src := c.Session().Source
	snap, err := src.Read(file.InputPath, opts.UseCache)
	if err != nil {
		return transform.Content{}, err
	}
	meta, err := decodeMeta(snap.Meta)
	if err != nil {
		return transform.Content{}, err
	}

	data := make(map[string]any, len(pc.data)+len(snap.Meta)+4)
	maps.Copy(data, pc.data)
	maps.Copy(data, snap.Meta)
	data["page"] = PageData{File: file, Title: sitedata.Title(snap, file.Slug)}
	data["site"] = pc.site
	data["pages"] = pc.pages
	data["breadcrumbs"] = sitedata.Breadcrumbs(file.PathStem, pc.pages, pc.baseURL)

	templating := pc.cfg.Template
	if meta.Template != nil {
		templating = *meta.Template
	}
	name := filepath.Base(file.InputPath)
	html, err := transpile.Main(ctx, opts.Log, snap.Body, data, file.Extension,
		mainHooks(name, file.Extension, templating), file.InputPath)
	if err != nil {
		return transform.Content{}, err
	}

	if meta.Layout == "" {
		return transform.Text(html), nil
	}

	layoutPath, err := pc.layouts.Get(meta.Layout)
	if err != nil {
		opts.Log.Error("Layout not found",
			logfields.Layout(meta.Layout),
			logfields.InputPath(file.InputPath))
		return transform.Content{}, err
	}
	layoutSnap, err := src.Read(layoutPath, opts.UseCache)
	if err != nil {
		return transform.Content{}, err
	}

	layoutData := maps.Clone(data)
	layoutData[pc.cfg.ContentVariableName] = template.HTML(html) //nolint:gosec // compiled page output is trusted
	html, err = transpile.Layout(ctx, opts.Log, layoutSnap.Body, layoutData, strings.ToLower(filepath.Ext(layoutPath)),
		layoutHooks(filepath.Base(layoutPath)), layoutPath, file.InputPath)
	if err != nil {
		return transform.Content{}, err
	}
	return transform.Text(html), nil
}
