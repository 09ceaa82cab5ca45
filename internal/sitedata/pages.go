package sitedata

import (
	"path"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"git.home.luguber.info/inful/sitekiln/internal/asset"
	"git.home.luguber.info/inful/sitekiln/internal/content"
)

// Page is the template-facing summary of one page.
type Page struct {
	URL      string
	Title    string
	Slug     string
	PathStem string
}

// Breadcrumb is one ancestor link of a page.
type Breadcrumb struct {
	Title string
	Href  string
	Depth int
}

// Title picks the metadata title, then the document <title>, then the slug.
func Title(snap *content.Snapshot, slug string) string {
	if snap != nil {
		if t, ok := snap.Meta["title"].(string); ok && t != "" {
			return t
		}
		if t := documentTitle(snap.Body); t != "" {
			return t
		}
	}
	return slug
}

// documentTitle returns the text of the first <title> element.
func documentTitle(body string) string {
	z := html.NewTokenizer(strings.NewReader(body))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			if name, _ := z.TagName(); atom.Lookup(name) != atom.Title {
				continue
			}
			if z.Next() == html.TextToken {
				return strings.TrimSpace(string(z.Text()))
			}
			return ""
		}
	}
}

// Pages summarizes files in order, reading each through src.
func Pages(files []*asset.File, src *content.Source) ([]Page, error) {
	pages := make([]Page, 0, len(files))
	for _, f := range files {
		snap, err := src.Read(f.InputPath, true)
		if err != nil {
			return nil, err
		}
		pages = append(pages, Page{
			URL:      f.URL,
			Title:    Title(snap, f.Slug),
			Slug:     f.Slug,
			PathStem: f.PathStem,
		})
	}
	return pages, nil
}

// Breadcrumbs returns the index pages above stem plus the page itself,
// shallowest first. Entries above baseURL are dropped.
func Breadcrumbs(stem string, pages []Page, baseURL string) []Breadcrumb {
	baseDepth := depth(baseURL)
	var crumbs []Breadcrumb
	for _, p := range pages {
		if !isAncestor(stem, p.PathStem) {
			continue
		}
		d := depth(p.URL)
		if d < baseDepth {
			continue
		}
		crumbs = append(crumbs, Breadcrumb{Title: p.Title, Href: p.URL, Depth: d})
	}
	slices.SortStableFunc(crumbs, func(a, b Breadcrumb) int { return a.Depth - b.Depth })
	return crumbs
}

func isAncestor(stem, candidate string) bool {
	if stem == candidate {
		return true
	}
	if path.Base(candidate) != "index" {
		return false
	}
	dir := path.Dir(candidate)
	return dir == "/" || strings.HasPrefix(stem, dir+"/")
}

func depth(url string) int {
	n := 0
	for _, seg := range strings.Split(url, "/") {
		if seg != "" {
			n++
		}
	}
	return n
}
