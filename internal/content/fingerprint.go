package content

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/sitekiln/internal/frontmatter"
)

// Fingerprint hashes metadata and body into a stable content identifier.
// The metadata is serialized with sorted keys so map order never matters, and
// an existing fingerprint field is ignored.
func Fingerprint(meta map[string]any, body []byte) (string, error) {
	fields := make(map[string]any, len(meta))
	for k, v := range meta {
		if k == mdfp.FingerprintField {
			continue
		}
		fields[k] = v
	}

	fm := ""
	if len(fields) > 0 {
		serialized, err := frontmatter.Serialize(fields)
		if err != nil {
			return "", err
		}
		fm = strings.TrimSuffix(string(serialized), "\n")
	}
	return mdfp.CalculateFingerprintFromParts(fm, string(body)), nil
}
