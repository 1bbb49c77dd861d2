// Package errors provides the classified error primitives used across blogkit.
//
// Errors carry a category (config, content, template, asset, ...), a severity
// and a small context map so the CLI can choose an exit code and the preview
// server can choose a status code without string matching.
//
// Example usage:
//
//	err := errors.NewError(errors.CategoryAsset, "icon not found").
//		WithContext("icon", name).
//		WithCause(readErr).
//		Build()
package errors
