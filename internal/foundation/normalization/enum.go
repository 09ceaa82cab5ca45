// Package normalization maps loosely written configuration strings onto typed enum values.
package normalization

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

var separators = strings.NewReplacer("_", "-", " ", "-")

// Enum resolves spellings such as "Skip_Transform" or " WARNING " to a value of T.
type Enum[T comparable] struct {
	name  string
	def   T
	byKey map[string]T
}

// NewEnum indexes values by their folded spelling. Aliases are plain extra keys.
func NewEnum[T comparable](name string, def T, values map[string]T) *Enum[T] {
	e := &Enum[T]{name: name, def: def, byKey: make(map[string]T, len(values))}
	for k, v := range values {
		e.byKey[fold(k)] = v
	}
	return e
}

// Lookup returns the matching value, or the default for empty or unknown input.
func (e *Enum[T]) Lookup(raw string) T {
	if v, ok := e.byKey[fold(raw)]; ok {
		return v
	}
	return e.def
}

// Parse is Lookup that reports unknown non-empty input.
func (e *Enum[T]) Parse(raw string) (T, error) {
	key := fold(raw)
	if key == "" {
		return e.def, nil
	}
	v, ok := e.byKey[key]
	if !ok {
		var zero T
		return zero, fmt.Errorf("unknown %s %q (want one of: %s)", e.name, raw, strings.Join(e.Names(), ", "))
	}
	return v, nil
}

// Names lists the accepted spellings in sorted order.
func (e *Enum[T]) Names() []string {
	return slices.Sorted(maps.Keys(e.byKey))
}

func fold(s string) string {
	return separators.Replace(cases.Fold().String(strings.TrimSpace(s)))
}
