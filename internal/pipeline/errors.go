package pipeline

import "errors"

var (
	// ErrDuplicateOutput is the cause of the configuration error raised when
	// two artifacts claim the same output path.
	ErrDuplicateOutput = errors.New("duplicate output path")
	// ErrSlugCollision is the cause of the document error raised when two
	// documents resolve to the same slug.
	ErrSlugCollision = errors.New("slug collision")
)
