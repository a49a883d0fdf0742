package vfs

import (
	"os"
	"path/filepath"

	"github.com/cyanprint/cyancore/internal/cyanerr"
	"github.com/cyanprint/cyancore/internal/ignore"
)

// LoadPaths reads exactly the given relative paths out of dir into a VFS,
// skipping any that don't exist, anything under .git/, and the project
// state file itself. This is the path-list mode used for a brand new
// target directory, where the set of paths of interest is exactly what the
// incoming composition produced.
func LoadPaths(dir string, paths []Path) (*VFS, error) {
	result := New()
	for _, p := range paths {
		if containsGitComponent(string(p)) || p == Path(stateFileName) {
			continue
		}

		full := filepath.Join(dir, string(p))
		info, err := os.Stat(full)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, &cyanerr.IOError{Op: "stat " + full, Err: err}
		}
		if info.IsDir() {
			continue
		}

		content, err := os.ReadFile(full)
		if err != nil {
			return nil, &cyanerr.IOError{Op: "read " + full, Err: err}
		}
		result.AddPath(p, content)
	}
	return result, nil
}

// LoadTree walks dir honoring gitignore rules (project-level, user-global,
// and .git/info/exclude) and reads every regular file into a VFS, keyed by
// its path relative to dir. The .git directory and the project state file
// are always excluded. Broken symlinks and unreadable entries are skipped,
// not fatal.
func LoadTree(dir string) (*VFS, error) {
	matcher, err := ignore.New(dir)
	if err != nil {
		return nil, &cyanerr.IOError{Op: "build ignore matcher for " + dir, Err: err}
	}

	result := New()
	err = matcher.WalkDir(dir, func(path string, d os.DirEntry, isDir bool) error {
		if isDir {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			// Entry vanished or cannot be stat'ed: skip it. Symlinks,
			// broken or not, are dropped by the regular-file check below.
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return nil
		}
		if containsGitComponent(rel) || rel == stateFileName {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			// Permission denied or similar: skip, not fatal.
			return nil
		}

		p, err := NewPath(rel)
		if err != nil {
			return nil
		}
		result.AddPath(p, content)
		return nil
	})
	if err != nil {
		return nil, &cyanerr.IOError{Op: "walk " + dir, Err: err}
	}

	return result, nil
}
