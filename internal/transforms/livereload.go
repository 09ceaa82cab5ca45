package transforms

import (
	"context"
	"fmt"
	"regexp"

	"git.home.luguber.info/inful/sitekiln/internal/config"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
)

var bodyClose = regexp.MustCompile(`(?i)</body>`)

// LiveReload injects the live reload client script into served HTML. Build
// output is never touched.
func LiveReload(scriptURL string) transform.Transform {
	tag := fmt.Sprintf(`<script async src=%q></script>`, scriptURL)
	return transform.Transform{
		Name:   "liveReload",
		Filter: htmlOnly(),
		Fn: func(_ context.Context, c transform.Content, tc *transform.Context) (transform.Content, error) {
			if tc.Mode != config.ModeServe {
				return c, nil
			}
			doc := c.String()
			if loc := bodyClose.FindStringIndex(doc); loc != nil {
				return transform.Text(doc[:loc[0]] + tag + doc[loc[0]:]), nil
			}
			return transform.Text(doc + tag), nil
		},
	}
}
