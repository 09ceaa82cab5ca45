package page

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	"git.home.luguber.info/inful/sitekiln/internal/transpile"
)

var markdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(gmhtml.WithUnsafe()),
)

var funcs = template.FuncMap{
	"date": formatDate,
}

// formatDate renders t (a time.Time or an RFC 3339 / YYYY-MM-DD string) with
// a Go reference layout.
func formatDate(t any, layout string) (string, error) {
	switch v := t.(type) {
	case time.Time:
		return v.Format(layout), nil
	case string:
		for _, l := range []string{time.RFC3339, time.DateOnly} {
			if parsed, err := time.Parse(l, v); err == nil {
				return parsed.Format(layout), nil
			}
		}
		return "", fmt.Errorf("date: cannot parse %q", v)
	default:
		return "", fmt.Errorf("date: unsupported value %T", t)
	}
}

func executeTemplate(name, src string, data map[string]any) (string, error) {
	tmpl, err := template.New(name).Funcs(funcs).Parse(src)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func renderMarkdown(_ context.Context, src string, _ map[string]any, _ string) (string, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func templateCompile(name string) transpile.CompileHook {
	return func(_ context.Context, src string, data map[string]any, _ string) (string, error) {
		return executeTemplate(name, src, data)
	}
}

func templateBefore(name string) transpile.BeforeHook {
	return func(_ context.Context, src string, data map[string]any) (string, error) {
		return executeTemplate(name, src, data)
	}
}

// mainHooks picks the hooks for a page body by source extension. Markdown is
// always rendered; templating runs when enabled.
func mainHooks(name, ext string, templating bool) *transpile.HookSet {
	switch strings.ToLower(ext) {
	case ".md", ".markdown":
		hooks := &transpile.HookSet{Compile: renderMarkdown}
		if templating {
			hooks.Before = templateBefore(name)
		}
		return hooks
	case ".html", ".htm", ".tmpl", ".gohtml":
		if templating {
			return &transpile.HookSet{Compile: templateCompile(name)}
		}
	}
	return nil
}

func layoutHooks(name string) *transpile.HookSet {
	return &transpile.HookSet{Compile: templateCompile(name)}
}
