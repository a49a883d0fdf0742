// Package merge implements the three-way VFS merge described in spec §4.4: a
// default pure-Go line-level merge (diff3.go) and an optional
// repository-backed alternative with rename detection (gitmerge.go). Both
// satisfy the Merger interface and are externally indistinguishable except
// for rename fidelity.
package merge

import (
	"log/slog"

	"github.com/cyanprint/cyancore/internal/vfs"
)

// Merger performs a three-way merge of base, local and incoming into a
// single result VFS over the union of incoming's paths.
type Merger interface {
	Merge(base, local, incoming *vfs.VFS) (*vfs.VFS, []Conflict, error)
}

// Conflict records a path where the three-way merge could not reconcile
// local and incoming against base. The merge itself still succeeds — the
// result holds conflict-marked content for that path — this is purely for
// the log channel spec §4.4 describes.
type Conflict struct {
	Path vfs.Path
}

// conflictMarkers formats the Git-style conflict representation spec §4.4
// mandates, preserving all three sides.
func conflictMarkers(ours, original, theirs string) string {
	return "<<<<<<< ours\n" + ours +
		"\n||||||| original\n" + original +
		"\n=======\n" + theirs +
		"\n>>>>>>> theirs\n"
}

// logConflict writes the non-fatal merge-conflict line to the given logger,
// or is a no-op if logger is nil.
func logConflict(logger *slog.Logger, path vfs.Path) {
	if logger == nil {
		return
	}
	logger.Warn("merge conflict", "path", string(path))
}
