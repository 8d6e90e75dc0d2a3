package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"git.home.luguber.info/inful/docgraph/internal/config"
	"git.home.luguber.info/inful/docgraph/internal/explorer"
	"git.home.luguber.info/inful/docgraph/internal/graph"
	"git.home.luguber.info/inful/docgraph/internal/paths"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin/builtin"
)

// InspectCmd implements the 'inspect' command.
type InspectCmd struct {
	Content string `short:"i" help:"Override content_dir" type:"path"`
	JSON    bool   `help:"Print machine readable JSON"`
}

func (i *InspectCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(g, root)
	if err != nil {
		return err
	}
	applyDirOverrides(cfg, i.Content, "")
	return RunInspect(context.Background(), cfg, g, os.Stdout, i.JSON)
}

// Inspection is the JSON form of 'inspect'.
type Inspection struct {
	Explorer    *explorer.Node                      `json:"explorer,omitempty"`
	Backlinks   map[paths.FullSlug][]paths.FullSlug `json:"backlinks"`
	BrokenLinks []graph.BrokenLink                  `json:"broken_links"`
	Excluded    map[string]string                   `json:"excluded"`
}

// RunInspect plans a build without writing anything and reports the site's
// structure to out.
func RunInspect(ctx context.Context, cfg *config.Config, g *Global, out io.Writer, asJSON bool) error {
	p, err := builtin.NewPipeline(cfg, pipeline.Options{Logger: g.Logger})
	if err != nil {
		return err
	}
	res, err := p.Plan(ctx)
	if err != nil {
		return err
	}

	in := Inspection{
		Backlinks:   map[paths.FullSlug][]paths.FullSlug{},
		BrokenLinks: res.Report.BrokenLinks,
		Excluded:    res.Report.Excluded,
	}
	if res.Site != nil {
		in.Explorer = res.Site.Explorer
		for _, d := range res.Site.Documents {
			if bl := res.Site.Graph.Backlinks(d.Slug); len(bl) > 0 {
				in.Backlinks[d.Slug] = bl
			}
		}
	}

	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(in)
	}
	printInspection(out, in)
	return nil
}

func printInspection(out io.Writer, in Inspection) {
	_, _ = fmt.Fprintln(out, "Explorer")
	if in.Explorer != nil {
		for _, child := range in.Explorer.Children {
			printNode(out, child, 1)
		}
	}

	_, _ = fmt.Fprintln(out, "\nBacklinks")
	slugs := make([]paths.FullSlug, 0, len(in.Backlinks))
	for s := range in.Backlinks {
		slugs = append(slugs, s)
	}
	sort.Slice(slugs, func(i, j int) bool { return slugs[i] < slugs[j] })
	for _, s := range slugs {
		from := make([]string, len(in.Backlinks[s]))
		for i, b := range in.Backlinks[s] {
			from[i] = string(b)
		}
		_, _ = fmt.Fprintf(out, "  %s <- %s\n", s, strings.Join(from, ", "))
	}

	_, _ = fmt.Fprintf(out, "\nBroken links (%d)\n", len(in.BrokenLinks))
	for _, bl := range in.BrokenLinks {
		line := fmt.Sprintf("  %s: %s (%s)", bl.Path, bl.Target, bl.Reason)
		if len(bl.Candidates) > 0 {
			cands := make([]string, len(bl.Candidates))
			for i, c := range bl.Candidates {
				cands[i] = string(c)
			}
			line += " candidates: " + strings.Join(cands, ", ")
		}
		_, _ = fmt.Fprintln(out, line)
	}

	if len(in.Excluded) > 0 {
		_, _ = fmt.Fprintf(out, "\nExcluded (%d)\n", len(in.Excluded))
		keys := make([]string, 0, len(in.Excluded))
		for k := range in.Excluded {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			_, _ = fmt.Fprintf(out, "  %s (%s)\n", k, in.Excluded[k])
		}
	}
}

func printNode(out io.Writer, n *explorer.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	if n.IsFolder {
		_, _ = fmt.Fprintf(out, "%s%s/\n", indent, n.DisplayName)
	} else {
		_, _ = fmt.Fprintf(out, "%s%s (%s)\n", indent, n.DisplayName, n.Slug)
	}
	for _, c := range n.Children {
		printNode(out, c, depth+1)
	}
}
