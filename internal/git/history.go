package git

import (
	"context"
	stderrors "errors"
	"log/slog"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"git.home.luguber.info/inful/docgraph/internal/logfields"
)

// History holds per-file commit dates for one worktree.
type History struct {
	root     string
	created  map[string]time.Time
	modified map[string]time.Time
}

// LoadHistory opens the repository containing dir and indexes every file
// touched along the first-parent history of HEAD. A repository without
// commits yields an empty history.
func LoadHistory(ctx context.Context, dir string) (*History, error) {
	repo, err := gogit.PlainOpenWithOptions(dir, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, ClassifyGitError(err, "open", dir)
	}
	wt, err := repo.Worktree()
	if err != nil {
		return nil, ClassifyGitError(err, "worktree", dir)
	}

	h := &History{
		root:     wt.Filesystem.Root(),
		created:  map[string]time.Time{},
		modified: map[string]time.Time{},
	}

	head, err := repo.Head()
	if err != nil {
		if stderrors.Is(err, plumbing.ErrReferenceNotFound) {
			return h, nil
		}
		return nil, ClassifyGitError(err, "head", dir)
	}

	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, ClassifyGitError(err, "commit", dir)
	}

	commits := 0
	for commit != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parent, err := firstParent(commit)
		if err != nil {
			return nil, ClassifyGitError(err, "parent", dir)
		}
		changed, err := changedFiles(ctx, parent, commit)
		if err != nil {
			return nil, ClassifyGitError(err, "diff", dir)
		}
		when := commit.Author.When
		for _, name := range changed {
			// Walking newest to oldest: the first sighting is the latest change,
			// the last sighting the earliest.
			if _, seen := h.modified[name]; !seen {
				h.modified[name] = when
			}
			h.created[name] = when
		}
		commits++
		commit = parent
	}

	slog.Debug("Indexed git history", logfields.Path(h.root), slog.Int("commits", commits), logfields.Count(len(h.modified)))
	return h, nil
}

func firstParent(c *object.Commit) (*object.Commit, error) {
	if c.NumParents() == 0 {
		return nil, nil
	}
	p, err := c.Parent(0)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// changedFiles lists paths that differ between parent and c. For a root
// commit every file of its tree counts as changed.
func changedFiles(ctx context.Context, parent, c *object.Commit) ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	if parent == nil {
		var names []string
		err := tree.Files().ForEach(func(f *object.File) error {
			names = append(names, f.Name)
			return nil
		})
		if err != nil && !stderrors.Is(err, storer.ErrStop) {
			return nil, err
		}
		return names, nil
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}
	changes, err := object.DiffTreeWithOptions(ctx, parentTree, tree, nil)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(changes))
	for _, ch := range changes {
		if ch.To.Name != "" {
			names = append(names, ch.To.Name)
		}
	}
	return names, nil
}

// Dates returns the first and latest commit time of the file at absPath.
func (h *History) Dates(absPath string) (created, modified time.Time, ok bool) {
	if h == nil {
		return time.Time{}, time.Time{}, false
	}
	rel, err := filepath.Rel(h.root, absPath)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	rel = filepath.ToSlash(rel)
	modified, ok = h.modified[rel]
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	return h.created[rel], modified, true
}

// Root returns the worktree root the history is keyed by.
func (h *History) Root() string { return h.root }
