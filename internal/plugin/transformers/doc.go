// Package transformers holds the built-in document transformers. Each one
// reads the snapshot produced by the previous transformer and returns the
// next; none of them touch shared state outside Prepare.
package transformers
