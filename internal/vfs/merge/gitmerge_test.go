package merge

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyanprint/cyancore/internal/vfs"
)

func TestDetectRenamesFindsRenamedFile(t *testing.T) {
	base := mustVFS(t, map[string]string{
		"old_name.txt": "some content that is reasonably long so similarity scoring finds a match\n",
	})
	incoming := mustVFS(t, map[string]string{
		"new_name.txt": "some content that is reasonably long so similarity scoring finds a match\n",
	})

	renames, err := detectRenames(base, incoming, defaultRenameScore)
	require.NoError(t, err)
	assert.Equal(t, vfs.Path("new_name.txt"), renames[vfs.Path("old_name.txt")])
}

func TestDetectRenamesIgnoresUnrelatedAddDelete(t *testing.T) {
	base := mustVFS(t, map[string]string{"gone.txt": "aaaaaaaa"})
	incoming := mustVFS(t, map[string]string{"arrived.txt": "zzzzzzzz"})

	renames, err := detectRenames(base, incoming, defaultRenameScore)
	require.NoError(t, err)
	assert.Empty(t, renames)
}

func TestGitMergerFollowsEditAcrossRename(t *testing.T) {
	original := "alpha\nbeta\ngamma\n"
	base := mustVFS(t, map[string]string{"old.txt": original})
	local := mustVFS(t, map[string]string{"old.txt": "alpha\nEDITED\ngamma\n"})
	incoming := mustVFS(t, map[string]string{"new.txt": original})

	m := NewGitMerger(nil)
	result, conflicts, err := m.Merge(base, local, incoming)
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	content, ok := result.Get("new.txt")
	require.True(t, ok)
	assert.Equal(t, "alpha\nEDITED\ngamma\n", string(content))
}

func TestApplyRenamesSkipsWhenLocalClobbersTarget(t *testing.T) {
	base := mustVFS(t, map[string]string{"old.txt": "base"})
	local := mustVFS(t, map[string]string{"new.txt": "local already wrote here"})
	renames := map[vfs.Path]vfs.Path{"old.txt": "new.txt"}

	remappedBase, remappedLocal := applyRenames(base, local, renames)

	_, baseHasOld := remappedBase.Get("old.txt")
	assert.True(t, baseHasOld)
	content, ok := remappedLocal.Get("new.txt")
	assert.True(t, ok)
	assert.Equal(t, "local already wrote here", string(content))
}
