// Package errors defines the sentinel errors raised by the compile and transform
// core. Messages stay descriptive through wrapping, for example:
//
//	fmt.Errorf("%w: %s", errors.ErrMissingLayout, key)
package errors

import (
	"errors"

	ferrors "git.home.luguber.info/inful/sitekiln/internal/foundation/errors"
)

var (
	// ErrUnresolvedOutputType marks a file whose output extension has no compiler.
	// It is informational: such files are passed through unchanged.
	ErrUnresolvedOutputType = errors.New("no compiler registered for output type")
	// ErrCompileFailure wraps any failure raised by a compiler or a transpile stage.
	ErrCompileFailure = errors.New("compile failed")
	// ErrTransformFailure wraps a failing transform in abort-file mode.
	ErrTransformFailure = errors.New("transform failed")
	// ErrMissingLayout indicates page metadata names an unknown layout.
	ErrMissingLayout = errors.New("layout not found")
	// ErrOutputCollision indicates two inputs derive the same output path.
	ErrOutputCollision = errors.New("output path collision")
	// ErrInvalidExtension indicates a malformed output extension on a compiler entry.
	ErrInvalidExtension = errors.New("invalid output extension")
	// ErrDuplicateExtension indicates two compilers registered for one output extension.
	ErrDuplicateExtension = errors.New("duplicate output extension")
	// ErrDuplicateTransform indicates two transforms share a name in one pipeline.
	ErrDuplicateTransform = errors.New("duplicate transform name")
	// ErrInvalidPattern indicates a glob pattern that cannot be compiled.
	ErrInvalidPattern = errors.New("invalid glob pattern")
	// ErrInvalidMetadata indicates a sibling metadata file that is not valid JSON.
	ErrInvalidMetadata = errors.New("failed to parse JSON metadata file")
	// ErrConfigInvalid indicates configuration validation failed.
	ErrConfigInvalid = errors.New("invalid configuration")
	// ErrNotFound indicates a requested path has neither a compiler nor an output file.
	ErrNotFound = errors.New("not found")
)

// Category maps a sentinel in err's chain to a classification category.
func Category(err error) ferrors.ErrorCategory {
	switch {
	case errors.Is(err, ErrMissingLayout):
		return ferrors.CategoryLayout
	case errors.Is(err, ErrTransformFailure):
		return ferrors.CategoryTransform
	case errors.Is(err, ErrCompileFailure), errors.Is(err, ErrInvalidMetadata):
		return ferrors.CategoryCompile
	case errors.Is(err, ErrConfigInvalid), errors.Is(err, ErrInvalidExtension),
		errors.Is(err, ErrDuplicateExtension), errors.Is(err, ErrDuplicateTransform),
		errors.Is(err, ErrInvalidPattern):
		return ferrors.CategoryConfig
	case errors.Is(err, ErrOutputCollision):
		return ferrors.CategoryValidation
	case errors.Is(err, ErrNotFound):
		return ferrors.CategoryNotFound
	default:
		return ferrors.CategoryInternal
	}
}

// Classify wraps err into a ClassifiedError unless it already is one.
func Classify(err error, message string) error {
	if err == nil {
		return nil
	}
	if _, ok := ferrors.AsClassified(err); ok {
		return err
	}
	return ferrors.WrapError(err, Category(err), message).Build()
}
