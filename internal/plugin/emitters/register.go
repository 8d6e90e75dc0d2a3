package emitters

import "git.home.luguber.info/inful/docgraph/internal/plugin"

// Register adds every built-in emitter to reg.
func Register(reg *plugin.Registry) {
	add := func(name, desc string, f plugin.Factory) {
		reg.MustRegister(plugin.Metadata{Name: name, Kind: plugin.KindEmitter, Description: desc}, f)
	}
	add(AliasRedirectsName, "redirect pages for document aliases", plugin.NoOptions(AliasRedirects{}))
	add(ComponentResourcesName, "site stylesheet from the theme", plugin.NoOptions(ComponentResources{}))
	add(ContentPageName, "HTML page per document", plugin.NoOptions(ContentPage{}))
	add(FolderPageName, "listing pages for folders without an index document", plugin.NoOptions(FolderPage{}))
	add(TagPageName, "tag pages and the tag index", plugin.NoOptions(TagPage{}))
	add(ContentIndexName, "content index JSON, sitemap and RSS feed", NewContentIndex)
	add(AssetsName, "copy non-markdown content files", plugin.NoOptions(Assets{}))
	add(StaticName, "copy the static directory", NewStatic)
	add(FaviconName, "site icon from the static directory", plugin.NoOptions(Favicon{}))
	add(NotFoundName, "404 page", plugin.NoOptions(NotFound{}))
	add(OGImagesName, "social preview image per document", NewOGImages)
}
