package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplit_NoFrontmatter_ReturnsBodyOnly(t *testing.T) {
	input := []byte("<p>Hello</p>\n")

	fm, body, had, err := Split(input)
	require.NoError(t, err)
	require.False(t, had)
	require.Empty(t, fm)
	require.Equal(t, input, body)
}

func TestSplit_YAMLFrontmatter_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\nlayout: base.html\n---\n<p>x</p>\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("layout: base.html\n"), fm)
	require.Equal(t, []byte("<p>x</p>\n"), body)
}

func TestSplit_EmptyFrontmatter(t *testing.T) {
	fm, body, had, err := Split([]byte("---\n---\nbody"))
	require.NoError(t, err)
	require.True(t, had)
	require.Empty(t, fm)
	require.Equal(t, []byte("body"), body)
}

func TestSplit_ClosingDelimiterAtEOF(t *testing.T) {
	fm, body, had, err := Split([]byte("---\ntitle: x\n---"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("title: x\n"), fm)
	require.Empty(t, body)
}

func TestSplit_MissingClosingDelimiter_ReturnsError(t *testing.T) {
	_, _, had, err := Split([]byte("---\nkey: value\n# Title\n"))
	require.ErrorIs(t, err, ErrMissingClosingDelimiter)
	require.False(t, had)
}

func TestSplit_CRLF_SplitsFrontmatterAndBody(t *testing.T) {
	fm, body, had, err := Split([]byte("---\r\nkey: value\r\n---\r\n# Title\r\n"))
	require.NoError(t, err)
	require.True(t, had)
	require.Equal(t, []byte("key: value\r\n"), fm)
	require.Equal(t, []byte("# Title\r\n"), body)
}

func TestParse_DecodesFields(t *testing.T) {
	meta, body, err := Parse([]byte("---\ntitle: Home\ntags: [a, b]\n---\nhello"))
	require.NoError(t, err)
	assert.Equal(t, "Home", meta["title"])
	assert.Equal(t, []any{"a", "b"}, meta["tags"])
	assert.Equal(t, []byte("hello"), body)
}

func TestParse_InvalidYAML(t *testing.T) {
	_, _, err := Parse([]byte("---\n: : :\n  - [\n---\nhello"))
	require.Error(t, err)
}

func TestParse_NoFrontmatterYieldsEmptyMap(t *testing.T) {
	meta, body, err := Parse([]byte("plain"))
	require.NoError(t, err)
	assert.NotNil(t, meta)
	assert.Empty(t, meta)
	assert.Equal(t, []byte("plain"), body)
}

func TestSerialize_SortsKeys(t *testing.T) {
	out, err := Serialize(map[string]any{"b": 1, "a": "x"})
	require.NoError(t, err)
	assert.Equal(t, "a: x\nb: 1\n", string(out))

	out, err = Serialize(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
