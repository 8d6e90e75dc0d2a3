package plugin

import (
	"context"
	stderrors "errors"
	"testing"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
)

// mockTransformer is a test plugin for registry tests.
type mockTransformer struct {
	Suffix string `yaml:"suffix"`
	Limit  int    `yaml:"limit"`
}

func (m *mockTransformer) Name() string { return "mock" }

func (m *mockTransformer) Transform(_ context.Context, _ *pipeline.BuildContext, d *docmodel.Document) (*docmodel.Document, error) {
	return d, nil
}

type namedOnly struct{}

func (namedOnly) Name() string { return "named-only" }

func mockFactory(opts Options) (pipeline.Plugin, error) {
	m := &mockTransformer{Suffix: "-default", Limit: 3}
	if err := opts.Decode(m); err != nil {
		return nil, err
	}
	return m, nil
}

func newMockRegistry(t *testing.T) *Registry {
	t.Helper()
	r := NewRegistry()
	if err := r.Register(Metadata{Name: "mock", Kind: KindTransformer}, mockFactory); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	if err := r.Register(Metadata{Name: "named-only", Kind: KindFilter}, func(Options) (pipeline.Plugin, error) {
		return namedOnly{}, nil
	}); err != nil {
		t.Fatalf("Register() failed: %v", err)
	}
	return r
}

// TestRegistryRegister tests plugin registration.
func TestRegistryRegister(t *testing.T) {
	r := newMockRegistry(t)

	if !r.Has(KindTransformer, "mock") {
		t.Error("Plugin should be registered")
	}
	if r.Has(KindEmitter, "mock") {
		t.Error("Plugin should only be registered for its kind")
	}
	if err := r.Register(Metadata{Name: "mock", Kind: KindTransformer}, mockFactory); err == nil {
		t.Error("Should not allow duplicate registration")
	}
	if r.Count() != 2 {
		t.Errorf("Count() = %d, want 2", r.Count())
	}
}

// TestRegistryRegisterInvalid tests registering plugins with invalid metadata.
func TestRegistryRegisterInvalid(t *testing.T) {
	r := NewRegistry()

	if err := r.Register(Metadata{Kind: KindFilter}, mockFactory); err == nil {
		t.Error("Should not allow plugin without a name")
	}
	if err := r.Register(Metadata{Name: "x", Kind: "theme"}, mockFactory); err == nil {
		t.Error("Should not allow unknown kind")
	}
	if err := r.Register(Metadata{Name: "x", Kind: KindFilter}, nil); err == nil {
		t.Error("Should not allow nil factory")
	}
}

func TestRegistryList(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		r.MustRegister(Metadata{Name: name, Kind: KindEmitter}, mockFactory)
	}

	list := r.List(KindEmitter)
	if len(list) != 3 {
		t.Fatalf("List() returned %d plugins, want 3", len(list))
	}
	for i, want := range []string{"alpha", "mid", "zeta"} {
		if list[i].Name != want {
			t.Errorf("List()[%d] = %s, want %s", i, list[i].Name, want)
		}
	}
	if len(r.List(KindFilter)) != 0 {
		t.Error("List() of an empty kind should be empty")
	}
}

func TestRegistryNew_DecodesOptions(t *testing.T) {
	r := newMockRegistry(t)

	p, err := r.New(KindTransformer, "mock", Options{"suffix": "-x"})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	m := p.(*mockTransformer)
	if m.Suffix != "-x" || m.Limit != 3 {
		t.Errorf("decoded %+v, want suffix -x and default limit 3", m)
	}

	_, err = r.New(KindTransformer, "mock", Options{"sufix": "-x"})
	if err == nil {
		t.Fatal("New() should reject unknown option keys")
	}
	if !errors.HasCategory(err, errors.CategoryConfig) {
		t.Errorf("expected config error, got %v", err)
	}
	ce, _ := errors.AsClassified(err)
	if name, _ := ce.Context().GetString("plugin"); name != "mock" {
		t.Errorf("error context plugin = %q, want mock", name)
	}
}

func TestRegistryNew_Unknown(t *testing.T) {
	r := newMockRegistry(t)
	_, err := r.New(KindEmitter, "nope", nil)
	if !errors.HasCategory(err, errors.CategoryConfig) {
		t.Fatalf("expected config error for unknown plugin, got %v", err)
	}
}

func TestRegistryNew_PlainFactoryError(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(Metadata{Name: "broken", Kind: KindFilter}, func(Options) (pipeline.Plugin, error) {
		return nil, stderrors.New("bad")
	})
	_, err := r.New(KindFilter, "broken", nil)
	if !errors.HasCategory(err, errors.CategoryConfig) {
		t.Fatalf("expected config error, got %v", err)
	}
}

func TestAssemble(t *testing.T) {
	r := newMockRegistry(t)

	chain, err := r.Assemble(config.PluginsConfig{
		Transformers: []config.PluginSpec{{Name: "mock"}, {Name: "mock", Options: map[string]any{"limit": 9}}},
	})
	if err != nil {
		t.Fatalf("Assemble() failed: %v", err)
	}
	if len(chain.Transformers) != 2 {
		t.Fatalf("got %d transformers, want 2", len(chain.Transformers))
	}
	if lim := chain.Transformers[1].(*mockTransformer).Limit; lim != 9 {
		t.Errorf("second transformer limit = %d, want 9", lim)
	}

	var opts pipeline.Options
	chain.Apply(&opts)
	if len(opts.Transformers) != 2 || opts.Filters != nil || opts.Emitters != nil {
		t.Errorf("Apply() copied %+v", opts)
	}
}

func TestAssemble_WrongShape(t *testing.T) {
	r := newMockRegistry(t)
	// named-only is a filter by registration but does not implement Include.
	_, err := r.Assemble(config.PluginsConfig{Filters: []config.PluginSpec{{Name: "named-only"}}})
	if !errors.HasCategory(err, errors.CategoryConfig) {
		t.Fatalf("expected config error, got %v", err)
	}

	r.MustRegister(Metadata{Name: "named-only", Kind: KindEmitter}, func(Options) (pipeline.Plugin, error) {
		return namedOnly{}, nil
	})
	_, err = r.Assemble(config.PluginsConfig{Emitters: []config.PluginSpec{{Name: "named-only"}}})
	if err == nil {
		t.Fatal("emitter with neither shape should be rejected")
	}
}

func TestKind(t *testing.T) {
	for _, k := range Kinds() {
		if !k.IsValid() {
			t.Errorf("%s should be valid", k)
		}
	}
	if Kind("theme").IsValid() {
		t.Error("theme is not a plugin kind")
	}
	if s := (Metadata{Name: "a", Kind: KindFilter}).String(); s != "a (filter)" {
		t.Errorf("String() = %q", s)
	}
}
