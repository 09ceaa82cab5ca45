package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

// ErrMissingClosingDelimiter indicates the document started with a YAML
// front matter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml front matter start delimiter found but closing delimiter is missing")

// Split separates YAML front matter (`---` delimited) from the body.
//
// If the document does not start with a delimiter line, had is false and body
// is the full input. A closing delimiter at end of input without a trailing
// newline is accepted.
func Split(content []byte) (fm []byte, body []byte, had bool, err error) {
	nl := detectNewline(content)
	open := []byte("---" + nl)
	if !bytes.HasPrefix(content, open) {
		return nil, content, false, nil
	}

	rest := content[len(open):]
	if bytes.HasPrefix(rest, open) {
		return []byte{}, rest[len(open):], true, nil
	}
	if bytes.Equal(rest, []byte("---")) {
		return []byte{}, []byte{}, true, nil
	}

	closeSeq := []byte(nl + "---" + nl)
	if idx := bytes.Index(rest, closeSeq); idx >= 0 {
		return rest[:idx+len(nl)], rest[idx+len(closeSeq):], true, nil
	}
	closeAtEOF := []byte(nl + "---")
	if bytes.HasSuffix(rest, closeAtEOF) {
		return rest[:len(rest)-len("---")], []byte{}, true, nil
	}
	return nil, nil, false, ErrMissingClosingDelimiter
}

// Parse splits content and decodes its front matter.
// Documents without front matter yield an empty, non-nil map.
func Parse(content []byte) (map[string]any, []byte, error) {
	fm, body, _, err := Split(content)
	if err != nil {
		return nil, nil, err
	}
	fields, err := ParseYAML(fm)
	if err != nil {
		return nil, nil, fmt.Errorf("parse front matter: %w", err)
	}
	return fields, body, nil
}

// ParseYAML parses raw YAML front matter (without --- delimiters) into a map.
func ParseYAML(fm []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(fm)) == 0 {
		return map[string]any{}, nil
	}
	var fields map[string]any
	if err := yaml.Unmarshal(fm, &fields); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = map[string]any{}
	}
	return fields, nil
}

// Serialize renders fields as YAML with sorted keys and LF newlines.
// An empty map serializes to an empty slice.
func Serialize(fields map[string]any) ([]byte, error) {
	if len(fields) == 0 {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(fields); err != nil {
		_ = enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func detectNewline(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i > 0 && content[i-1] == '\r' {
		return "\r\n"
	}
	return "\n"
}
