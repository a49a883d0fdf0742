package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRefLatest(t *testing.T) {
	ref, err := ParseRef("alice/tpl")
	require.NoError(t, err)
	assert.Equal(t, "alice", ref.Username)
	assert.Equal(t, "tpl", ref.TemplateName)
	assert.Nil(t, ref.Version)
}

func TestParseRefPinned(t *testing.T) {
	ref, err := ParseRef("alice/tpl:3")
	require.NoError(t, err)
	require.NotNil(t, ref.Version)
	assert.Equal(t, int64(3), *ref.Version)
}

func TestParseRefRejectsMalformed(t *testing.T) {
	for _, s := range []string{"tpl", "alice/", "/tpl", "alice/tpl:abc", "alice/tpl:0", "alice/tpl:-1"} {
		_, err := ParseRef(s)
		assert.Error(t, err, s)
	}
}
