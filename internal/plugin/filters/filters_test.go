package filters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/docgraph/internal/docmodel"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

func TestFilters(t *testing.T) {
	tests := []struct {
		name    string
		meta    docmodel.Metadata
		draft   bool
		publish bool
	}{
		{name: "no flags", meta: docmodel.Metadata{}, draft: true, publish: false},
		{name: "draft", meta: docmodel.Metadata{"draft": true}, draft: false, publish: false},
		{name: "draft as string", meta: docmodel.Metadata{"draft": "true"}, draft: false, publish: false},
		{name: "draft false", meta: docmodel.Metadata{"draft": false}, draft: true, publish: false},
		{name: "published", meta: docmodel.Metadata{"publish": true}, draft: true, publish: true},
		{name: "published draft", meta: docmodel.Metadata{"publish": "true", "draft": true}, draft: false, publish: true},
		{name: "unparseable flag", meta: docmodel.Metadata{"draft": "maybe"}, draft: true, publish: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := docmodel.New("a.md", "/c/a.md", nil, time.Time{})
			d.Meta = tt.meta
			assert.Equal(t, tt.draft, RemoveDrafts{}.Include(nil, d), "remove-drafts")
			assert.Equal(t, tt.publish, ExplicitPublish{}.Include(nil, d), "explicit-publish")
		})
	}
}

func TestRegister(t *testing.T) {
	reg := plugin.NewRegistry()
	Register(reg)
	assert.Equal(t, []string{ExplicitPublishName, RemoveDraftsName}, names(reg.List(plugin.KindFilter)))

	_, err := reg.New(plugin.KindFilter, RemoveDraftsName, plugin.Options{"strict": true})
	require.Error(t, err)
}

func names(list []plugin.Metadata) []string {
	out := make([]string, len(list))
	for i, m := range list {
		out[i] = m.Name
	}
	return out
}
