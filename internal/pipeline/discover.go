package pipeline

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/treeconv/internal/planner"
)

// Discover walks root top-down in lexical order and returns the files whose
// extension is one of suffixes. Directories deeper than maxDepth (root is
// depth 0) are pruned, so maxDepth 0 returns only root's own files. Regular
// files and symlinks to regular files qualify; symlinked directories are
// not followed.
//
// Only a root that cannot be read fails discovery. Entries below it that
// cannot be read are left out and returned in skipped.
func Discover(root string, maxDepth int, suffixes []string) (files []string, skipped []error, err error) {
	fi, err := os.Stat(root)
	if err != nil {
		return nil, nil, fmt.Errorf("input folder: %w", err)
	}
	if !fi.IsDir() {
		return nil, nil, fmt.Errorf("input folder: %s is not a directory", root)
	}
	// A trailing separator makes the walk resolve a symlinked root.
	walkRoot := root
	if !strings.HasSuffix(walkRoot, string(filepath.Separator)) {
		walkRoot += string(filepath.Separator)
	}

	err = filepath.WalkDir(walkRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == walkRoot || d == nil {
				return err
			}
			skipped = append(skipped, err)
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if dirDepth(walkRoot, path) > maxDepth {
				return filepath.SkipDir
			}
			return nil
		}
		if !planner.ExtensionAllowed(d.Name(), suffixes) {
			return nil
		}
		switch {
		case d.Type().IsRegular():
			files = append(files, path)
		case d.Type()&fs.ModeSymlink != 0:
			if target, err := os.Stat(path); err == nil && target.Mode().IsRegular() {
				files = append(files, path)
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return files, skipped, nil
}

// dirDepth returns the number of path elements between root and dir.
func dirDepth(root, dir string) int {
	rel, err := filepath.Rel(root, dir)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
