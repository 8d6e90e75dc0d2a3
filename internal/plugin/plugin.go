// Package plugin is the catalog of named transformers, filters and emitters.
// The configuration refers to plugins by name; the registry turns that list
// into the plugin chains a pipeline runs.
package plugin

import (
	"bytes"
	stderrors "errors"
	"io"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
)

// Factory creates a configured plugin instance.
type Factory func(opts Options) (pipeline.Plugin, error)

// Options is the free form options map of one configured plugin.
type Options map[string]any

// Decode copies the options onto target, a pointer to a struct with yaml tags
// that already holds the plugin defaults. Unknown keys are rejected.
func (o Options) Decode(target any) error {
	if len(o) == 0 {
		return nil
	}
	data, err := yaml.Marshal(map[string]any(o))
	if err != nil {
		return errors.ConfigError("cannot encode plugin options").WithCause(err).Build()
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !stderrors.Is(err, io.EOF) {
		return errors.ConfigError("invalid plugin options").WithCause(err).Build()
	}
	return nil
}

// NoOptions returns a factory for a plugin without options. Any option is
// rejected.
func NoOptions(p pipeline.Plugin) Factory {
	return func(opts Options) (pipeline.Plugin, error) {
		if err := opts.Decode(&struct{}{}); err != nil {
			return nil, err
		}
		return p, nil
	}
}
