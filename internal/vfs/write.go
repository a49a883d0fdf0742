package vfs

import (
	"os"
	"path/filepath"

	"github.com/cyanprint/cyancore/internal/cyanerr"
)

// Write persists every (path, content) pair in v under targetDir. Parent
// directories are created as needed. If the destination resolves to an
// existing directory the entry is skipped silently — this protects a
// user-created directory from being clobbered by a same-named file the
// template wants to emit. An error on any single write fails the whole
// operation; files already written remain on disk, which is acceptable
// because the merger is idempotent on rerun.
func Write(targetDir string, v *VFS) error {
	for p, content := range v.files {
		full := filepath.Join(targetDir, string(p))

		if info, err := os.Stat(full); err == nil && info.IsDir() {
			continue
		}

		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return &cyanerr.IOError{Op: "mkdir for " + full, Err: err}
		}

		if err := os.WriteFile(full, content, 0o644); err != nil {
			return &cyanerr.IOError{Op: "write " + full, Err: err}
		}
	}
	return nil
}
