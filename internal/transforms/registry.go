package transforms

import (
	"fmt"

	"github.com/mitchellh/mapstructure"

	"git.home.luguber.info/inful/sitekiln/internal/config"
	"git.home.luguber.info/inful/sitekiln/internal/transform"
)

type lineBreakOptions struct {
	LineBreak string `mapstructure:"line_break"`
}

type builder func(options map[string]any) (transform.Transform, error)

var builders = map[string]builder{
	"doctype":           func(map[string]any) (transform.Transform, error) { return Doctype(), nil },
	"characterEntities": func(map[string]any) (transform.Transform, error) { return CharacterEntities(), nil },
	"lineBreak": func(options map[string]any) (transform.Transform, error) {
		var o lineBreakOptions
		if err := decode(options, &o); err != nil {
			return transform.Transform{}, err
		}
		return LineBreak(o.LineBreak), nil
	},
	"ssiShim": func(options map[string]any) (transform.Transform, error) {
		var o SSIOptions
		if err := decode(options, &o); err != nil {
			return transform.Transform{}, err
		}
		return SSIShim(o), nil
	},
	"injectToHead": func(options map[string]any) (transform.Transform, error) {
		var o InjectOptions
		if err := decode(options, &o); err != nil {
			return transform.Transform{}, err
		}
		switch o.Position {
		case "", HeadStart, HeadEnd:
		default:
			return transform.Transform{}, fmt.Errorf("invalid position %q", o.Position)
		}
		return InjectToHead(o), nil
	},
	"imageSizes": func(options map[string]any) (transform.Transform, error) {
		var o ImageSizesOptions
		if err := decode(options, &o); err != nil {
			return transform.Transform{}, err
		}
		return ImageSizes(o), nil
	},
}

// Types lists the transform types FromConfig understands.
func Types() []string {
	types := make([]string, 0, len(builders))
	for t := range builders {
		types = append(types, t)
	}
	return types
}

// FromConfig builds transforms in declaration order. Spec names and filters
// override the built-in defaults.
func FromConfig(specs []config.TransformSpec) ([]transform.Transform, error) {
	out := make([]transform.Transform, 0, len(specs))
	for _, spec := range specs {
		build, ok := builders[spec.Type]
		if !ok {
			return nil, fmt.Errorf("unknown transform type %q", spec.Type)
		}
		t, err := build(spec.Options)
		if err != nil {
			return nil, fmt.Errorf("transform %s: %w", spec.Name, err)
		}
		if spec.Name != "" {
			t.Name = spec.Name
		}
		if len(spec.Include) > 0 || len(spec.Exclude) > 0 {
			t.Filter = &transform.Filter{Include: spec.Include, Exclude: spec.Exclude}
		}
		out = append(out, t)
	}
	return out, nil
}

func decode(options map[string]any, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(options)
}
