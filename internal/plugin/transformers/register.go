package transformers

import "git.home.luguber.info/inful/docgraph/internal/plugin"

// Register adds every built-in transformer to reg.
func Register(reg *plugin.Registry) {
	add := func(name, desc string, f plugin.Factory) {
		reg.MustRegister(plugin.Metadata{Name: name, Kind: plugin.KindTransformer, Description: desc}, f)
	}
	add(FrontmatterName, "parse frontmatter and normalize title, tags, aliases and slug", NewFrontmatter)
	add(DatesName, "resolve created, modified and published dates by source priority", NewDates)
	add(SyntaxHighlightingName, "highlight fenced code with light and dark themes", NewSyntaxHighlighting)
	add(ObsidianName, "wikilinks, embeds, inline tags, comments and highlights", NewObsidian)
	add(GFMName, "GitHub flavored markdown extensions", NewGFM)
	add(TOCName, "table of contents from headings", NewTOC)
	add(CrawlLinksName, "extract outbound links and set the link resolution policy", NewCrawlLinks)
	add(DescriptionName, "page description from frontmatter or the rendered text", NewDescription)
	add(LatexName, "flag documents containing math", NewLatex)
}
