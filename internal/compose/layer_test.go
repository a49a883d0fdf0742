package compose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyanprint/cyancore/internal/vfs"
)

func mustVFS(t *testing.T, kv map[string]string) *vfs.VFS {
	t.Helper()
	v := vfs.New()
	for k, val := range kv {
		require.NoError(t, v.Add(k, []byte(val)))
	}
	return v
}

func TestLayerLaterWins(t *testing.T) {
	v1 := mustVFS(t, map[string]string{"shared.txt": "a", "only1.txt": "1"})
	v2 := mustVFS(t, map[string]string{"shared.txt": "b"})

	got := Layer(v1, v2)

	content, ok := got.Get("shared.txt")
	require.True(t, ok)
	assert.Equal(t, "b", string(content))

	content, ok = got.Get("only1.txt")
	require.True(t, ok)
	assert.Equal(t, "1", string(content))
}

func TestLayerEmptySequenceIsEmptyVFS(t *testing.T) {
	got := Layer()
	assert.Equal(t, 0, got.Len())
}
