package plugin

import (
	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
)

// Chain is the instantiated plugin configuration, in configuration order.
type Chain struct {
	Transformers []pipeline.Transformer
	Filters      []pipeline.Filter
	Emitters     []pipeline.Plugin
}

// Apply copies the chain into pipeline options.
func (c *Chain) Apply(opts *pipeline.Options) {
	opts.Transformers = c.Transformers
	opts.Filters = c.Filters
	opts.Emitters = c.Emitters
}

// Assemble instantiates every configured plugin and checks it implements the
// interface of its list.
func (r *Registry) Assemble(cfg config.PluginsConfig) (*Chain, error) {
	chain := &Chain{}
	for _, spec := range cfg.Transformers {
		p, err := r.New(KindTransformer, spec.Name, spec.Options)
		if err != nil {
			return nil, err
		}
		t, ok := p.(pipeline.Transformer)
		if !ok {
			return nil, wrongShape(KindTransformer, spec.Name)
		}
		chain.Transformers = append(chain.Transformers, t)
	}
	for _, spec := range cfg.Filters {
		p, err := r.New(KindFilter, spec.Name, spec.Options)
		if err != nil {
			return nil, err
		}
		f, ok := p.(pipeline.Filter)
		if !ok {
			return nil, wrongShape(KindFilter, spec.Name)
		}
		chain.Filters = append(chain.Filters, f)
	}
	for _, spec := range cfg.Emitters {
		p, err := r.New(KindEmitter, spec.Name, spec.Options)
		if err != nil {
			return nil, err
		}
		_, isDoc := p.(pipeline.DocumentEmitter)
		_, isColl := p.(pipeline.CollectionEmitter)
		if !isDoc && !isColl {
			return nil, wrongShape(KindEmitter, spec.Name)
		}
		chain.Emitters = append(chain.Emitters, p)
	}
	return chain, nil
}

func wrongShape(kind Kind, name string) error {
	return errors.ConfigError("plugin does not implement its kind").
		WithContext("kind", string(kind)).
		WithContext("plugin", name).
		Build()
}
