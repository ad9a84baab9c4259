// Package gitlib wraps libgit2 for the repository queries aliasguard needs.
package gitlib

import (
	"errors"
	"fmt"
	"path/filepath"

	git2go "github.com/libgit2/git2go/v34"
)

// ErrBareRepository is returned for repositories without a working directory.
var ErrBareRepository = errors.New("repository has no working directory")

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	path string
}

// OpenRepository opens the git repository containing path.
// Parent directories are searched, so path may point inside the work tree.
func OpenRepository(path string) (*Repository, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	repo, err := git2go.OpenRepositoryExtended(abs, 0, "")
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	if repo.IsBare() {
		repo.Free()

		return nil, fmt.Errorf("open repository %s: %w", abs, ErrBareRepository)
	}

	return &Repository{repo: repo, path: abs}, nil
}

// Path returns the path the repository was opened from.
func (r *Repository) Path() string {
	return r.path
}

// Workdir returns the absolute working directory, without a trailing separator.
func (r *Repository) Workdir() string {
	return filepath.Clean(r.repo.Workdir())
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// lookupTree resolves a revision (commit, tag, branch, tree) to its tree.
func (r *Repository) lookupTree(rev string) (*git2go.Tree, error) {
	obj, err := r.repo.RevparseSingle(rev)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", rev, err)
	}
	defer obj.Free()

	peeled, err := obj.Peel(git2go.ObjectTree)
	if err != nil {
		return nil, fmt.Errorf("peel %q to tree: %w", rev, err)
	}
	defer peeled.Free()

	tree, err := peeled.AsTree()
	if err != nil {
		return nil, fmt.Errorf("tree of %q: %w", rev, err)
	}

	return tree, nil
}
