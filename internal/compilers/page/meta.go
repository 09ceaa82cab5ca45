package page

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Meta is the typed view of the page metadata the compiler acts on. Other
// fields stay available to templates through the raw map.
type Meta struct {
	Title    string `mapstructure:"title"`
	Layout   string `mapstructure:"layout"`
	Template *bool  `mapstructure:"template"`
}

func decodeMeta(raw map[string]any) (Meta, error) {
	var m Meta
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &m,
	})
	if err != nil {
		return m, err
	}
	if err := dec.Decode(raw); err != nil {
		return m, fmt.Errorf("decode page metadata: %w", err)
	}
	return m, nil
}
