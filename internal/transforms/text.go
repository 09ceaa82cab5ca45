// Package transforms provides the built-in content transforms.
package transforms

import (
	"context"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/sitekiln/internal/transform"
)

var (
	htmlStart    = regexp.MustCompile(`(?i)^<html(?:\s|>)`)
	doctypeStart = regexp.MustCompile(`(?i)^<!doctype html`)
	newline      = regexp.MustCompile(`\r?\n`)
)

// Doctype prepends an HTML5 doctype to documents that start at <html>.
func Doctype() transform.Transform {
	return transform.Transform{
		Name: "doctype",
		Fn: func(_ context.Context, c transform.Content, _ *transform.Context) (transform.Content, error) {
			s := c.String()
			trimmed := strings.TrimSpace(s)
			if htmlStart.MatchString(trimmed) && !doctypeStart.MatchString(trimmed) {
				return transform.Text("<!DOCTYPE html>\n" + s), nil
			}
			return c, nil
		},
	}
}

// LineBreak normalizes every line ending to lb ("\n" when empty).
func LineBreak(lb string) transform.Transform {
	if lb == "" {
		lb = "\n"
	}
	return transform.Transform{
		Name: "lineBreak",
		Fn: func(_ context.Context, c transform.Content, _ *transform.Context) (transform.Content, error) {
			return transform.Text(newline.ReplaceAllLiteralString(c.String(), lb)), nil
		},
	}
}

// CharacterEntities replaces characters at or above U+007F that have a named
// HTML entity with that entity.
func CharacterEntities() transform.Transform {
	return transform.Transform{
		Name: "characterEntities",
		Fn: func(_ context.Context, c transform.Content, _ *transform.Context) (transform.Content, error) {
			s := c.String()
			var b strings.Builder
			b.Grow(len(s))
			for _, r := range s {
				if name, ok := namedEntities[r]; ok {
					b.WriteByte('&')
					b.WriteString(name)
					b.WriteByte(';')
					continue
				}
				b.WriteRune(r)
			}
			return transform.Text(b.String()), nil
		},
	}
}

// InjectPosition selects where InjectToHead places its content.
type InjectPosition string

const (
	HeadStart InjectPosition = "head-start"
	HeadEnd   InjectPosition = "head-end"
)

var (
	headOpen  = regexp.MustCompile(`(?i)<head[^>]*>`)
	headClose = regexp.MustCompile(`(?i)</head>`)
)

// InjectOptions configures InjectToHead.
type InjectOptions struct {
	Name     string         `mapstructure:"name"`
	Content  string         `mapstructure:"content"`
	Position InjectPosition `mapstructure:"position"`
}

// InjectToHead inserts opts.Content right after the opening <head> tag or
// right before </head> (the default). Only the first match is used.
func InjectToHead(opts InjectOptions) transform.Transform {
	name := opts.Name
	if name == "" {
		name = "inject-to-head"
	}
	return transform.Transform{
		Name:   name,
		Filter: htmlOnly(),
		Fn: func(_ context.Context, c transform.Content, _ *transform.Context) (transform.Content, error) {
			return transform.Text(injectHead(c.String(), opts.Content, opts.Position)), nil
		},
	}
}

func injectHead(doc, snippet string, pos InjectPosition) string {
	if pos == HeadStart {
		loc := headOpen.FindStringIndex(doc)
		if loc == nil {
			return doc
		}
		return doc[:loc[1]] + "\n" + snippet + doc[loc[1]:]
	}
	loc := headClose.FindStringIndex(doc)
	if loc == nil {
		return doc
	}
	return doc[:loc[0]] + snippet + "\n" + doc[loc[0]:]
}

func htmlOnly() *transform.Filter {
	return &transform.Filter{Include: []string{"**/*.html"}}
}
