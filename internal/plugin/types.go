package plugin

import "fmt"

// Kind identifies which list of the plugin configuration a plugin belongs to.
type Kind string

const (
	// KindTransformer produces the next snapshot of a document.
	KindTransformer Kind = "transformer"

	// KindFilter decides whether a document is published.
	KindFilter Kind = "filter"

	// KindEmitter produces output artifacts.
	KindEmitter Kind = "emitter"
)

// IsValid returns true if the kind is recognized.
func (k Kind) IsValid() bool {
	switch k {
	case KindTransformer, KindFilter, KindEmitter:
		return true
	default:
		return false
	}
}

// String returns the string representation of the kind.
func (k Kind) String() string {
	return string(k)
}

// Kinds returns every kind in pipeline order.
func Kinds() []Kind {
	return []Kind{KindTransformer, KindFilter, KindEmitter}
}

// Metadata describes a registered plugin.
type Metadata struct {
	// Name is the identifier used in the plugins configuration (e.g. "remove-drafts").
	Name string

	// Kind is the pipeline stage the plugin takes part in.
	Kind Kind

	// Description provides a human-readable summary of the plugin's purpose.
	Description string
}

// String returns a human-readable representation of the metadata.
func (m Metadata) String() string {
	return fmt.Sprintf("%s (%s)", m.Name, m.Kind)
}

// Validate checks if the metadata is valid.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if !m.Kind.IsValid() {
		return fmt.Errorf("invalid plugin kind: %s", m.Kind)
	}
	return nil
}
