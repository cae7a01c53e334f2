// Package errors provides the classified error primitives used across headlink.
//
// Errors carry a category (not_found, editor, config, ...), a severity and a retry
// strategy, and are built with a fluent builder:
//
//	err := errors.NotFoundError("document not found").
//		WithContext("path", target).
//		Build()
//
// Most link-resolution failures are warnings: callers log them and fall back to the
// unmodified input. The CLI adapter maps categories to process exit codes.
package errors
