package gitlib

import (
	"fmt"
	"path/filepath"

	git2go "github.com/libgit2/git2go/v34"
)

// ChangeAction represents the type of change in a diff.
type ChangeAction int

const (
	// Insert indicates a new file was added, tracked or not.
	Insert ChangeAction = iota
	// Delete indicates a file was removed.
	Delete
	// Modify indicates a file was modified, renamed or copied.
	Modify
)

// String returns the action name.
func (a ChangeAction) String() string {
	switch a {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Modify:
		return "modify"
	default:
		return "unknown"
	}
}

// Change is a single file that differs between a revision and the work tree.
// Path is slash-separated and relative to the working directory.
type Change struct {
	Action ChangeAction
	Path   string
}

// Changes lists the files that differ between rev's tree and the working
// directory, staged changes and untracked files included.
func (r *Repository) Changes(rev string) ([]Change, error) {
	tree, err := r.lookupTree(rev)
	if err != nil {
		return nil, err
	}
	defer tree.Free()

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	opts.Flags |= git2go.DiffIncludeUntracked | git2go.DiffRecurseUntracked

	diff, err := r.repo.DiffTreeToWorkdirWithIndex(tree, &opts)
	if err != nil {
		return nil, fmt.Errorf("diff %q against workdir: %w", rev, err)
	}

	defer func() { _ = diff.Free() }()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("get num deltas: %w", err)
	}

	changes := make([]Change, 0, numDeltas)

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			return nil, fmt.Errorf("get delta %d: %w", i, deltaErr)
		}

		switch delta.Status {
		case git2go.DeltaAdded, git2go.DeltaUntracked:
			changes = append(changes, Change{Action: Insert, Path: delta.NewFile.Path})
		case git2go.DeltaModified, git2go.DeltaRenamed, git2go.DeltaCopied, git2go.DeltaTypeChange:
			changes = append(changes, Change{Action: Modify, Path: delta.NewFile.Path})
		case git2go.DeltaDeleted:
			changes = append(changes, Change{Action: Delete, Path: delta.OldFile.Path})
		case git2go.DeltaUnmodified, git2go.DeltaIgnored, git2go.DeltaUnreadable, git2go.DeltaConflicted:
			continue
		}
	}

	return changes, nil
}

// ChangedFiles returns the absolute paths of files added or modified since rev.
// Deleted files are excluded since there is nothing left to lint.
func (r *Repository) ChangedFiles(rev string) ([]string, error) {
	changes, err := r.Changes(rev)
	if err != nil {
		return nil, err
	}

	workdir := r.Workdir()
	files := make([]string, 0, len(changes))

	for _, change := range changes {
		if change.Action == Delete {
			continue
		}

		files = append(files, filepath.Join(workdir, filepath.FromSlash(change.Path)))
	}

	return files, nil
}
