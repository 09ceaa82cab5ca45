package transforms

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register decoder
	_ "image/jpeg" // register decoder
	_ "image/png"  // register decoder
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/net/html"

	"git.home.luguber.info/inful/sitekiln/internal/transform"
)

// DOMFunc edits a parsed document in place.
type DOMFunc func(ctx context.Context, doc *html.Node, tc *transform.Context) error

// DOM parses HTML content, hands the tree to fn and renders it back.
func DOM(name string, fn DOMFunc) transform.Transform {
	return transform.Transform{
		Name:   name,
		Filter: htmlOnly(),
		Fn: func(ctx context.Context, c transform.Content, tc *transform.Context) (transform.Content, error) {
			doc, err := html.Parse(strings.NewReader(c.String()))
			if err != nil {
				return c, fmt.Errorf("parse html: %w", err)
			}
			if err := fn(ctx, doc, tc); err != nil {
				return c, err
			}
			var buf bytes.Buffer
			if err := html.Render(&buf, doc); err != nil {
				return c, fmt.Errorf("render html: %w", err)
			}
			return transform.Text(buf.String()), nil
		},
	}
}

// ImageSizesOptions configures ImageSizes.
type ImageSizesOptions struct {
	// RootDir is where image src paths resolve. Defaults to the output dir.
	RootDir string `mapstructure:"root_dir"`
	// Ext lists file extensions to inspect, without the dot.
	Ext []string `mapstructure:"ext"`
}

type imageSize struct{ width, height int }

// ImageSizes sets width and height on local <img> and <picture><source>
// elements whose files can be decoded.
func ImageSizes(opts ImageSizesOptions) transform.Transform {
	exts := opts.Ext
	if len(exts) == 0 {
		exts = []string{"png", "jpg", "jpeg", "gif"}
	}
	sizes, _ := lru.New(1024)

	return DOM("imageSizes", func(_ context.Context, doc *html.Node, tc *transform.Context) error {
		root := opts.RootDir
		if root == "" {
			root = tc.OutputDir
		}
		walk(doc, func(n *html.Node) {
			if !isSizedImage(n) {
				return
			}
			src := attr(n, "src")
			if !localImage(src, exts) {
				return
			}
			file := filepath.Join(root, filepath.FromSlash(path.Clean("/"+src)))
			info, err := os.Stat(file)
			if err != nil {
				return
			}
			key := file + ":" + strconv.FormatInt(info.Size(), 10)
			var size imageSize
			if v, ok := sizes.Get(key); ok {
				size = v.(imageSize)
			} else {
				size, err = decodeSize(file)
				if err != nil || size.width == 0 || size.height == 0 {
					return
				}
				sizes.Add(key, size)
			}
			setAttr(n, "width", strconv.Itoa(size.width))
			setAttr(n, "height", strconv.Itoa(size.height))
		})
		return nil
	})
}

func walk(n *html.Node, visit func(*html.Node)) {
	visit(n)
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		walk(c, visit)
	}
}

func isSizedImage(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	if n.Data == "img" {
		return true
	}
	return n.Data == "source" && n.Parent != nil && n.Parent.Data == "picture"
}

func localImage(src string, exts []string) bool {
	if src == "" || strings.HasPrefix(src, "//") {
		return false
	}
	for _, scheme := range []string{"data:", "http://", "https://"} {
		if strings.HasPrefix(src, scheme) {
			return false
		}
	}
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(src)), ".")
	return slices.Contains(exts, ext)
}

func decodeSize(file string) (imageSize, error) {
	f, err := os.Open(filepath.Clean(file))
	if err != nil {
		return imageSize{}, err
	}
	defer func() { _ = f.Close() }()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return imageSize{}, err
	}
	return imageSize{width: cfg.Width, height: cfg.Height}, nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}
