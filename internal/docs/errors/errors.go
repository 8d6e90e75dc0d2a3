// Package errors provides sentinel errors for content discovery.
package errors

import "errors"

var (
	// ErrContentRootNotFound indicates the configured content directory does not exist.
	ErrContentRootNotFound = errors.New("content directory not found")

	// ErrDirWalkFailed indicates filesystem traversal of the content directory failed.
	ErrDirWalkFailed = errors.New("content directory walk failed")

	// ErrFileReadFailed indicates reading a discovered file failed.
	ErrFileReadFailed = errors.New("content file read failed")

	// ErrInvalidIgnorePattern indicates an ignore pattern is not a valid glob.
	ErrInvalidIgnorePattern = errors.New("invalid ignore pattern")

	// ErrNoDocsFound indicates the content directory holds no markdown documents.
	ErrNoDocsFound = errors.New("no markdown documents found")
)
