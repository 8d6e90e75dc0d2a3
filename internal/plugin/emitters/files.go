package emitters

import (
	"context"
	"os"
	"path"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"

	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
	"git.home.luguber.info/inful/docgraph/internal/paths"
	"git.home.luguber.info/inful/docgraph/internal/pipeline"
	"git.home.luguber.info/inful/docgraph/internal/plugin"
)

const (
	AssetsName  = "assets"
	StaticName  = "static"
	FaviconName = "favicon"
)

// StaticPrefix is the output folder of the static directory.
const StaticPrefix = "static"

// Assets copies every non-markdown content file to its slug.
type Assets struct{}

func (Assets) Name() string { return AssetsName }

func (Assets) EmitCollection(_ context.Context, site *pipeline.Site) ([]pipeline.Artifact, error) {
	out := make([]pipeline.Artifact, 0, len(site.Assets))
	for _, f := range site.Assets {
		out = append(out, pipeline.Artifact{Path: string(paths.SlugifyFilePath(f.RelPath)), Source: f.AbsPath})
	}
	return out, nil
}

// Static copies the configured static directory under static/.
type Static struct {
	// Exclude holds doublestar patterns of files left out, relative to the
	// static directory.
	Exclude []string `yaml:"exclude"`
}

func NewStatic(opts plugin.Options) (pipeline.Plugin, error) {
	s := &Static{Exclude: []string{"**/.*"}}
	if err := opts.Decode(s); err != nil {
		return nil, err
	}
	for _, p := range s.Exclude {
		if !doublestar.ValidatePattern(p) {
			return nil, errors.ConfigError("invalid static exclude pattern").WithContext("pattern", p).Build()
		}
	}
	return s, nil
}

func (s *Static) Name() string { return StaticName }

func (s *Static) EmitCollection(_ context.Context, site *pipeline.Site) ([]pipeline.Artifact, error) {
	dir := site.Config.StaticDir
	if !isDir(dir) {
		return nil, nil
	}
	files, err := doublestar.Glob(os.DirFS(dir), "**", doublestar.WithFilesOnly())
	if err != nil {
		return nil, errors.FileSystemError("failed to list static directory").WithCause(err).WithPath(dir).Build()
	}
	var out []pipeline.Artifact
	for _, rel := range files {
		if s.excluded(rel) {
			continue
		}
		out = append(out, pipeline.Artifact{
			Path:   path.Join(StaticPrefix, rel),
			Source: filepath.Join(dir, filepath.FromSlash(rel)),
		})
	}
	return out, nil
}

func (s *Static) excluded(rel string) bool {
	for _, p := range s.Exclude {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

// faviconSources are looked up in the static directory in order.
var faviconSources = []string{"favicon.ico", "icon.png"}

// Favicon copies the site icon from the static directory to favicon.ico.
type Favicon struct{}

func (Favicon) Name() string { return FaviconName }

func (Favicon) EmitCollection(_ context.Context, site *pipeline.Site) ([]pipeline.Artifact, error) {
	dir := site.Config.StaticDir
	if !isDir(dir) {
		return nil, nil
	}
	for _, name := range faviconSources {
		src := filepath.Join(dir, name)
		if info, err := os.Stat(src); err == nil && info.Mode().IsRegular() {
			return []pipeline.Artifact{{Path: "favicon.ico", Source: src}}, nil
		}
	}
	return nil, nil
}

func isDir(dir string) bool {
	if dir == "" {
		return false
	}
	info, err := os.Stat(dir)
	return err == nil && info.IsDir()
}
