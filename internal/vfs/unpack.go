package vfs

import (
	"archive/tar"
	"bytes"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/cyanprint/cyancore/internal/cyanerr"
)

// stateFileName is the well-known project state file name. A template that
// emits it in its own archive is almost certainly a mistake (it would
// silently corrupt or pre-empt the next run's classification), so Unpack
// rejects it outright per spec's resolved Open Question rather than letting
// it flow into the composition's output.
const stateFileName = ".cyan_state.yaml"

// Unpack decompresses and reads a gzip'd tar archive into a VFS. Directory
// entries are skipped; any entry with a path component equal to ".git" is
// skipped; entries with absolute or escaping paths are rejected. A truncated
// archive or invalid gzip stream surfaces as ArchiveError.
func Unpack(archiveData []byte) (*VFS, error) {
	gz, err := gzip.NewReader(bytes.NewReader(archiveData))
	if err != nil {
		return nil, &cyanerr.ArchiveError{Reason: "invalid gzip stream", Err: err}
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	result := New()

	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &cyanerr.ArchiveError{Reason: "truncated or malformed tar stream", Err: err}
		}

		if hdr.Typeflag == tar.TypeDir {
			continue
		}
		if hdr.Typeflag != tar.TypeReg {
			// Symlinks, devices, etc. carry no file content of interest to a
			// template output tree.
			continue
		}

		if containsGitComponent(hdr.Name) {
			continue
		}

		p, err := NewPath(hdr.Name)
		if err != nil {
			return nil, &cyanerr.ArchiveError{Reason: "entry path escapes archive root: " + hdr.Name, Err: err}
		}

		if p == Path(stateFileName) {
			return nil, &cyanerr.ArchiveError{Reason: "template archive emits " + stateFileName}
		}

		buf := make([]byte, 0, hdr.Size)
		w := bytes.NewBuffer(buf)
		if _, err := io.Copy(w, tr); err != nil {
			return nil, &cyanerr.ArchiveError{Reason: "failed reading entry " + hdr.Name, Err: err}
		}

		result.AddPath(p, w.Bytes())
	}

	return result, nil
}

func containsGitComponent(name string) bool {
	name = strings.ReplaceAll(name, "\\", "/")
	for _, part := range strings.Split(name, "/") {
		if part == ".git" {
			return true
		}
	}
	return false
}
