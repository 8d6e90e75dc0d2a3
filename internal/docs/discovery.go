package docs

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	derrors "git.home.luguber.info/inful/docgraph/internal/docs/errors"
	"git.home.luguber.info/inful/docgraph/internal/logfields"
	"git.home.luguber.info/inful/docgraph/internal/paths"
)

// File represents a discovered markdown document or asset.
type File struct {
	AbsPath string    // Absolute path to the file
	RelPath string    // Slash separated path relative to the content root
	IsAsset bool      // True for every non-markdown file
	Size    int64     // Size in bytes at discovery time
	ModTime time.Time // Filesystem modification time
}

// Load reads the file content.
func (f File) Load() ([]byte, error) {
	// #nosec G304 -- path comes from walking the configured content root.
	content, err := os.ReadFile(f.AbsPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrFileReadFailed, f.RelPath, err)
	}
	return content, nil
}

// Discovery walks a content root, applying ignore patterns.
type Discovery struct {
	root    string
	ignore  []string
	exclude []string
}

// NewDiscovery validates the ignore patterns and returns a discovery for root.
// Patterns are doublestar globs matched against root relative paths; a pattern
// matching a directory excludes everything below it. Directories in exclude
// are skipped with their contents wherever they sit, which keeps a build
// output placed inside the content root out of the next build.
func NewDiscovery(root string, ignorePatterns []string, exclude ...string) (*Discovery, error) {
	for _, p := range ignorePatterns {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: %q", derrors.ErrInvalidIgnorePattern, p)
		}
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrContentRootNotFound, root, err)
	}
	d := &Discovery{root: abs, ignore: append([]string(nil), ignorePatterns...)}
	for _, dir := range exclude {
		if dir == "" {
			continue
		}
		a, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", derrors.ErrContentRootNotFound, dir, err)
		}
		if a == abs {
			continue
		}
		d.exclude = append(d.exclude, a)
	}
	return d, nil
}

// Root returns the absolute content root.
func (d *Discovery) Root() string { return d.root }

// Discover returns every non-hidden, non-ignored file below the root, sorted by RelPath.
func (d *Discovery) Discover(ctx context.Context) ([]File, error) {
	info, err := os.Stat(d.root)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", derrors.ErrContentRootNotFound, d.root)
	}

	var files []File
	err = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == d.root {
			return nil
		}

		rel, err := filepath.Rel(d.root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if strings.HasPrefix(entry.Name(), ".") || d.Ignored(rel) || (entry.IsDir() && d.Excluded(path)) {
			if entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if entry.IsDir() || !entry.Type().IsRegular() {
			return nil
		}

		fi, err := entry.Info()
		if err != nil {
			return err
		}
		files = append(files, File{
			AbsPath: path,
			RelPath: rel,
			IsAsset: !paths.IsMarkdown(rel),
			Size:    fi.Size(),
			ModTime: fi.ModTime(),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", derrors.ErrDirWalkFailed, d.root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })

	docsCount := 0
	for _, f := range files {
		if !f.IsAsset {
			docsCount++
		}
	}
	slog.Debug("Discovered content", logfields.Path(d.root), logfields.Count(docsCount), slog.Int("assets", len(files)-docsCount))
	return files, nil
}

// Ignored reports whether a root relative path matches an ignore pattern,
// either directly or through one of its parent directories.
func (d *Discovery) Ignored(rel string) bool {
	for _, p := range d.ignore {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
		if ok, _ := doublestar.Match(p+"/**", rel); ok {
			return true
		}
	}
	return false
}

// Excluded reports whether an absolute path is one of the excluded
// directories or lies below one.
func (d *Discovery) Excluded(path string) bool {
	for _, dir := range d.exclude {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Split partitions files into documents and assets, keeping order.
func Split(files []File) (documents, assets []File) {
	for _, f := range files {
		if f.IsAsset {
			assets = append(assets, f)
		} else {
			documents = append(documents, f)
		}
	}
	return documents, assets
}
