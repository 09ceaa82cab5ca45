package logfields

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestHelperKeyNames verifies string-based helper key/value stability.
func TestHelperKeyNames(t *testing.T) {
	cases := []struct {
		name    string
		attrKey string
		attrVal string
		attr    slog.Attr
	}{
		{"SessionID", KeySessionID, "s1", SessionID("s1")},
		{"Mode", KeyMode, "serve", Mode("serve")},
		{"Path", KeyPath, "index.html", Path("index.html")},
		{"InputPath", KeyInputPath, "/src/a.html", InputPath("/src/a.html")},
		{"OutputPath", KeyOutputPath, "/out/a.html", OutputPath("/out/a.html")},
		{"Extension", KeyExtension, ".html", Extension(".html")},
		{"Compiler", KeyCompiler, "page", Compiler("page")},
		{"Transform", KeyTransform, "doctype", Transform("doctype")},
		{"Layout", KeyLayout, "base.html", Layout("base.html")},
		{"Method", KeyMethod, "GET", Method("GET")},
		{"UserAgent", KeyUserAgent, "ua", UserAgent("ua")},
		{"RemoteAddr", KeyRemoteAddr, "1.2.3.4", RemoteAddr("1.2.3.4")},
		{"RequestID", KeyRequestID, "rid", RequestID("rid")},
		{"URL", KeyURL, "http://example", URL("http://example")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			// Key drift would break log ingestion schemas.
			assert.Equal(t, tc.attrKey, tc.attr.Key)
			assert.Equal(t, tc.attrVal, tc.attr.Value.String())
		})
	}
}

func TestNumericHelpers(t *testing.T) {
	assert.Equal(t, KeyStatus, Status(200).Key)
	assert.Equal(t, int64(200), Status(200).Value.Int64())
	assert.Equal(t, KeyFiles, Files(3).Key)
	assert.Equal(t, KeyDurationMS, DurationMS(12.5).Key)
}

func TestErrorHelper(t *testing.T) {
	attr := Error(nil)
	assert.Equal(t, KeyError, attr.Key)
	assert.Empty(t, attr.Value.String())

	attr = Error(errors.New("err-test"))
	assert.Equal(t, "err-test", attr.Value.String())
}
