package pipeline

import (
	"context"

	"github.com/yuin/goldmark"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/graph"
)

// Plugin is the common surface of transformers, filters and emitters.
type Plugin interface {
	Name() string
}

// Transformer produces the next snapshot of a document. It receives a clone
// it owns and may mutate and return it.
type Transformer interface {
	Plugin
	Transform(ctx context.Context, bc *BuildContext, doc *docmodel.Document) (*docmodel.Document, error)
}

// Preparer is implemented by plugins that load build wide state once before
// any document is transformed.
type Preparer interface {
	Prepare(ctx context.Context, bc *BuildContext) error
}

// MarkdownExtender contributes goldmark extensions to the shared engine.
type MarkdownExtender interface {
	MarkdownExtensions() []goldmark.Extender
}

// LinkPolicyProvider sets the link resolution policy of the build.
type LinkPolicyProvider interface {
	LinkPolicy() graph.Policy
}

// Filter decides whether a document is published. Filters must be pure.
type Filter interface {
	Plugin
	Include(bc *BuildContext, doc *docmodel.Document) bool
}

// DocumentEmitter produces the artifacts of one document. It runs on the
// worker pool and must only read the Site.
type DocumentEmitter interface {
	Plugin
	EmitDocument(ctx context.Context, site *Site, doc *docmodel.Document) ([]Artifact, error)
}

// CollectionEmitter produces artifacts from the whole site.
type CollectionEmitter interface {
	Plugin
	EmitCollection(ctx context.Context, site *Site) ([]Artifact, error)
}

// Artifact is one output file: bytes, or a file copied from Source.
type Artifact struct {
	// Path is output relative and slash separated.
	Path string
	Data []byte
	// Source is an absolute path copied verbatim when Data is nil.
	Source string
	// Emitter is set by the runner.
	Emitter string
}
