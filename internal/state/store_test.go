package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileIsEmptyState(t *testing.T) {
	ps, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, ps)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()

	ps := ProjectState{
		"alice/tpl": TemplateState{
			Active: true,
			History: []TemplateHistoryEntry{
				{
					Version: 1,
					Time:    time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
					Answers: map[string]Answer{
						"name":  NewStringAnswer("alice"),
						"tags":  NewStrArrayAnswer([]string{"a", "b"}),
						"ci":    NewBoolAnswer(true),
					},
					DeterministicStates: map[string]string{"seed": "xyz"},
				},
			},
		},
	}

	require.NoError(t, Save(dir, ps))

	loaded, err := Load(dir)
	require.NoError(t, err)

	entry := loaded["alice/tpl"].History[0]
	assert.Equal(t, int64(1), entry.Version)
	assert.Equal(t, "alice", entry.Answers["name"].Str)
	assert.Equal(t, []string{"a", "b"}, entry.Answers["tags"].StrArray)
	assert.Equal(t, true, entry.Answers["ci"].Bool)
	assert.Equal(t, "xyz", entry.DeterministicStates["seed"])
}
