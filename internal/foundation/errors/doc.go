// Package errors provides the classified error type used across docsite.
//
// A ClassifiedError carries a category (config, validation, links, ...), a
// severity and a retry hint. The CLI adapter maps categories to exit codes.
//
//	err := errors.LinkError("broken link").
//		WithContext("source", "docs/intro.md").
//		WithContext("target", "/docs/missing").
//		Build()
package errors
