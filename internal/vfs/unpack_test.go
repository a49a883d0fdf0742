package vfs

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/cyanprint/cyancore/internal/cyanerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type tarEntry struct {
	name    string
	content string
	dir     bool
}

func buildArchive(t *testing.T, entries []tarEntry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)

	for _, e := range entries {
		if e.dir {
			require.NoError(t, tw.WriteHeader(&tar.Header{Name: e.name, Typeflag: tar.TypeDir, Mode: 0o755}))
			continue
		}
		hdr := &tar.Header{Name: e.name, Typeflag: tar.TypeReg, Mode: 0o644, Size: int64(len(e.content))}
		require.NoError(t, tw.WriteHeader(hdr))
		_, err := tw.Write([]byte(e.content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestUnpackReadsRegularFiles(t *testing.T) {
	archive := buildArchive(t, []tarEntry{
		{name: "dir", dir: true},
		{name: "dir/a.txt", content: "alpha"},
		{name: "b.txt", content: "beta"},
	})

	v, err := Unpack(archive)
	require.NoError(t, err)

	a, ok := v.Get("dir/a.txt")
	assert.True(t, ok)
	assert.Equal(t, "alpha", string(a))

	b, ok := v.Get("b.txt")
	assert.True(t, ok)
	assert.Equal(t, "beta", string(b))

	assert.Equal(t, 2, v.Len())
}

func TestUnpackSkipsGitComponents(t *testing.T) {
	archive := buildArchive(t, []tarEntry{
		{name: ".git/HEAD", content: "ref: refs/heads/main"},
		{name: "sub/.git/config", content: "x"},
		{name: "keep.txt", content: "keep"},
	})

	v, err := Unpack(archive)
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())
	_, ok := v.Get("keep.txt")
	assert.True(t, ok)
}

func TestUnpackRejectsStateFile(t *testing.T) {
	archive := buildArchive(t, []tarEntry{
		{name: stateFileName, content: "active: true"},
	})

	_, err := Unpack(archive)
	require.Error(t, err)
	var archiveErr *cyanerr.ArchiveError
	assert.ErrorAs(t, err, &archiveErr)
}

func TestUnpackRejectsEscapingPath(t *testing.T) {
	archive := buildArchive(t, []tarEntry{
		{name: "../escape.txt", content: "evil"},
	})

	_, err := Unpack(archive)
	require.Error(t, err)
	var archiveErr *cyanerr.ArchiveError
	assert.ErrorAs(t, err, &archiveErr)
}

func TestUnpackRejectsInvalidGzip(t *testing.T) {
	_, err := Unpack([]byte("not a gzip stream"))
	require.Error(t, err)
	var archiveErr *cyanerr.ArchiveError
	assert.ErrorAs(t, err, &archiveErr)
}
