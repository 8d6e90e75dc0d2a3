// Package builtin wires the built-in plugins into a registry and builds
// pipelines from a site configuration.
package builtin

import (
	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
	"git.home.luguber.info/inful/docgraph/internal/plugin/emitters"
	"git.home.luguber.info/inful/docgraph/internal/plugin/filters"
	"git.home.luguber.info/inful/docgraph/internal/plugin/transformers"
)

// Registry returns a registry holding every built-in plugin.
func Registry() *plugin.Registry {
	reg := plugin.NewRegistry()
	transformers.Register(reg)
	filters.Register(reg)
	emitters.Register(reg)
	return reg
}

// NewPipeline assembles the plugin chain named by cfg.Plugins and returns a
// pipeline for it. opts supplies the ambient parts (logger, recorder,
// observers); its Config and plugin lists are overwritten.
func NewPipeline(cfg *config.Config, opts pipeline.Options) (*pipeline.Pipeline, error) {
	chain, err := Registry().Assemble(cfg.Plugins)
	if err != nil {
		return nil, err
	}
	opts.Config = cfg
	chain.Apply(&opts)
	return pipeline.New(opts)
}
