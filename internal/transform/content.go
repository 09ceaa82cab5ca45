// Package transform runs ordered, filtered post-processing steps over
// compiled output.
package transform

// Content is either text or binary. Neither form is converted implicitly;
// accessors convert on demand.
type Content struct {
	text   string
	raw    []byte
	binary bool
}

// Text wraps s as textual content.
func Text(s string) Content { return Content{text: s} }

// Bytes wraps b as binary content.
func Bytes(b []byte) Content { return Content{raw: b, binary: true} }

func (c Content) IsText() bool { return !c.binary }

func (c Content) String() string {
	if c.binary {
		return string(c.raw)
	}
	return c.text
}

func (c Content) Bytes() []byte {
	if c.binary {
		return c.raw
	}
	return []byte(c.text)
}

func (c Content) Len() int {
	if c.binary {
		return len(c.raw)
	}
	return len(c.text)
}
