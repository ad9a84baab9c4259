// Package workspace finds the files of a project to lint and lints them in
// parallel.
package workspace

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Options controls file discovery.
type Options struct {
	// Extensions are the file extensions to lint, with leading dot.
	Extensions []string

	// Ignores are glob patterns relative to the root.
	Ignores []string

	// MaxFileSize skips larger files. Zero disables the limit.
	MaxFileSize int64

	// Only, when non-nil, restricts discovery to these absolute paths.
	Only []string
}

// Discovery is the outcome of walking one or more roots.
type Discovery struct {
	// Files are the paths to lint, in walk order, joined onto the root as given.
	Files []string

	// Skipped are files left out for exceeding MaxFileSize.
	Skipped []string
}

// alwaysSkipped are directories never descended into.
var alwaysSkipped = map[string]bool{
	".git": true,
	".hg":  true,
	".svn": true,
}

// Discover walks root and returns the files to lint. When root is a file it
// is returned as is, bypassing extension and ignore filters, since naming a
// file explicitly means it should be linted.
func Discover(ctx context.Context, root string, opts Options) (*Discovery, error) {
	matcher, err := NewMatcher(opts.Ignores)
	if err != nil {
		return nil, err
	}

	extensions := make(map[string]bool, len(opts.Extensions))
	for _, ext := range opts.Extensions {
		extensions[strings.ToLower(ext)] = true
	}

	only := newPathSet(opts.Only)
	discovery := &Discovery{}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}

	if !info.IsDir() {
		discovery.add(root, info.Size(), opts.MaxFileSize, only)

		return discovery, nil
	}

	walkErr := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		ctxErr := ctx.Err()
		if ctxErr != nil {
			return ctxErr
		}

		if path == root {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}

		rel = filepath.ToSlash(rel)

		if entry.IsDir() {
			if alwaysSkipped[entry.Name()] || matcher.MatchDir(rel) {
				return filepath.SkipDir
			}

			return nil
		}

		if !entry.Type().IsRegular() {
			return nil
		}

		if !extensions[strings.ToLower(filepath.Ext(path))] || matcher.Match(rel) {
			return nil
		}

		fileInfo, infoErr := entry.Info()
		if infoErr != nil {
			return infoErr
		}

		discovery.add(path, fileInfo.Size(), opts.MaxFileSize, only)

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("discover %s: %w", root, walkErr)
	}

	return discovery, nil
}

func (d *Discovery) add(path string, size, maxSize int64, only pathSet) {
	if only != nil && !only.contains(path) {
		return
	}

	if maxSize > 0 && size > maxSize {
		d.Skipped = append(d.Skipped, path)

		return
	}

	d.Files = append(d.Files, path)
}

// Merge appends other, dropping files already present.
func (d *Discovery) Merge(other *Discovery) {
	d.Files = appendUnique(d.Files, other.Files)
	d.Skipped = appendUnique(d.Skipped, other.Skipped)
}

func appendUnique(dst, src []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, path := range dst {
		seen[path] = true
	}

	for _, path := range src {
		if !seen[path] {
			seen[path] = true
			dst = append(dst, path)
		}
	}

	return dst
}

// pathSet holds canonical absolute paths. A nil set matches everything.
type pathSet map[string]bool

func newPathSet(paths []string) pathSet {
	if paths == nil {
		return nil
	}

	set := make(pathSet, len(paths))
	for _, path := range paths {
		set[canonical(path)] = true
	}

	return set
}

func (s pathSet) contains(path string) bool {
	return s[canonical(path)]
}

// canonical resolves path to an absolute, symlink-free form so that paths
// reported by git and paths found by walking compare equal.
func canonical(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		// Deleted or unreadable files keep their absolute form.
		return abs
	}

	return resolved
}
