// Package errors provides the classified error primitives used across docgraph.
//
// Every error that crosses a stage boundary carries a category (what kind of
// problem), a severity (whether the build can continue) and a retry hint. The
// pipeline uses the category to decide between isolating a document, recording
// a warning and aborting the build.
//
// Example usage:
//
//	err := errors.DocumentError("malformed frontmatter").
//		WithContext("path", doc.Path).
//		WithCause(parseErr).
//		Build()
package errors
