// Package ignore adapts gitignore-style pattern matching for the loader's
// walk mode: project-level .gitignore files, the repository's own
// .git/info/exclude, and the user's global excludes file all contribute
// patterns to a single matcher, mirroring how git itself layers these three
// sources.
package ignore

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/go-git/go-git/v5/plumbing/format/gitignore"
)

// Matcher decides whether a path under rootPath should be skipped.
type Matcher struct {
	matcher  gitignore.Matcher
	rootPath string
}

// New builds a Matcher for rootPath from three sources, lowest to highest
// precedence the way git itself orders them: the user's global excludes
// file, the repository's .git/info/exclude, then every .gitignore found
// while walking rootPath.
func New(rootPath string) (*Matcher, error) {
	var patterns []gitignore.Pattern

	if global, err := readGlobalExcludes(); err == nil {
		patterns = append(patterns, global...)
	}

	patterns = append(patterns, readInfoExclude(rootPath)...)

	fs := osfs.New(rootPath)
	projectPatterns, err := gitignore.ReadPatterns(fs, nil)
	if err == nil {
		patterns = append(patterns, projectPatterns...)
	}

	return &Matcher{
		matcher:  gitignore.NewMatcher(patterns),
		rootPath: rootPath,
	}, nil
}

// readGlobalExcludes reads the user-global ignore file at the conventional
// git location (~/.config/git/ignore), falling back to ~/.gitignore_global.
func readGlobalExcludes() ([]gitignore.Pattern, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	candidates := []string{
		filepath.Join(home, ".config", "git", "ignore"),
		filepath.Join(home, ".gitignore_global"),
	}

	for _, candidate := range candidates {
		if patterns, err := readPatternFile(candidate, nil); err == nil {
			return patterns, nil
		}
	}
	return nil, os.ErrNotExist
}

// readInfoExclude reads <rootPath>/.git/info/exclude, if present.
func readInfoExclude(rootPath string) []gitignore.Pattern {
	patterns, err := readPatternFile(filepath.Join(rootPath, ".git", "info", "exclude"), nil)
	if err != nil {
		return nil
	}
	return patterns
}

func readPatternFile(path string, domain []string) ([]gitignore.Pattern, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []gitignore.Pattern
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, gitignore.ParsePattern(line, domain))
	}
	return patterns, scanner.Err()
}

// IsIgnored reports whether path should be skipped. path is made relative to
// rootPath with filepath.Rel, so it must be given in the same form as rootPath
// (both absolute, or both relative to the working directory). The repository's own .git directory is always ignored regardless
// of any pattern.
func (m *Matcher) IsIgnored(path string, isDir bool) (bool, error) {
	if isDir && filepath.Base(path) == ".git" {
		return true, nil
	}

	relPath, err := filepath.Rel(m.rootPath, path)
	if err != nil {
		return false, err
	}
	if relPath == "." {
		return false, nil
	}

	parts := strings.Split(relPath, string(os.PathSeparator))
	return m.matcher.Match(parts, isDir), nil
}

// WalkDir walks the file tree rooted at root, calling fn for every file or
// directory not excluded by gitignore rules. Returning filepath.SkipDir from
// fn behaves as it does for filepath.WalkDir.
func (m *Matcher) WalkDir(root string, fn func(path string, d os.DirEntry, isDir bool) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			// Unreadable entries (permission denied, broken symlink) are
			// skipped rather than aborting the whole walk.
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		isDir := d.IsDir()
		ignored, err := m.IsIgnored(path, isDir)
		if err != nil {
			return nil
		}
		if ignored {
			if isDir {
				return filepath.SkipDir
			}
			return nil
		}

		return fn(path, d, isDir)
	})
}
