package git

import (
	stderrors "errors"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"git.home.luguber.info/inful/docgraph/internal/foundation/errors"
)

// ErrNotRepository is returned when the content directory is not inside a git worktree.
var ErrNotRepository = stderrors.New("not a git repository")

// GitError simplifies creating a git-scoped ClassifiedError.
func GitError(message string) *errors.ErrorBuilder {
	return errors.NewError(errors.CategoryGit, message)
}

// ClassifyGitError translates go-git errors into ClassifiedErrors.
func ClassifyGitError(err error, op string, dir string) error {
	if err == nil {
		return nil
	}
	if _, ok := errors.AsClassified(err); ok {
		return err
	}

	builder := GitError("git operation failed").
		WithCause(err).
		WithContext("op", op).
		WithPath(dir)

	switch {
	case stderrors.Is(err, gogit.ErrRepositoryNotExists):
		builder.WithCause(stderrors.Join(ErrNotRepository, err)).Warning()
	case stderrors.Is(err, gogit.ErrWorktreeNotProvided):
		builder.Warning()
	case strings.Contains(strings.ToLower(err.Error()), "reference not found"):
		// Empty repository without commits.
		builder.Info()
	}
	return builder.Build()
}
