package sitedata

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	ferrors "git.home.luguber.info/inful/filmshelf/internal/foundation/errors"
)

// Revision returns the HEAD commit hash of the git repository that contains
// root. It returns "" when root is not inside a repository or the repository
// has no commits yet.
func Revision(root string) (string, error) {
	repo, err := git.PlainOpenWithOptions(root, &git.PlainOpenOptions{DetectDotGit: true})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return "", nil
	}
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "open git repository").
			WithContext("path", root).
			Build()
	}

	ref, err := repo.Head()
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", nil
	}
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryFileSystem, "resolve HEAD").
			WithContext("path", root).
			Build()
	}
	return ref.Hash().String(), nil
}
