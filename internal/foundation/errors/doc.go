// Package errors classifies failures at the edges of sitekiln.
//
// The compile core returns plain errors wrapping the sentinels in
// internal/errors. The build driver, the dev server and the CLI wrap those
// into a ClassifiedError, and the adapters in this package turn the category
// into an exit code or an HTTP status.
//
//	err := errors.WrapError(cause, errors.CategoryCompile, "compile failed").
//		WithContext("input_path", file.InputPath).
//		Build()
package errors
