package vfs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAddAndGetRoundTrip(t *testing.T) {
	v := New()
	assert.NoError(t, v.Add("a/b.txt", []byte("hello")))

	content, ok := v.Get("a/b.txt")
	assert.True(t, ok)
	assert.Equal(t, []byte("hello"), content)
}

func TestGetMissingIsNotOK(t *testing.T) {
	v := New()
	_, ok := v.Get("nope.txt")
	assert.False(t, ok)
}

func TestAddRejectsInvalidPath(t *testing.T) {
	v := New()
	err := v.Add("../escape.txt", []byte("x"))
	assert.Error(t, err)
}

func TestCloneIsIndependent(t *testing.T) {
	v := New()
	assert.NoError(t, v.Add("a.txt", []byte("original")))

	clone := v.Clone()
	clone.AddPath(Path("a.txt"), []byte("mutated"))

	original, ok := v.Get("a.txt")
	assert.True(t, ok)
	assert.Equal(t, []byte("original"), original)

	mutated, ok := clone.Get("a.txt")
	assert.True(t, ok)
	assert.Equal(t, []byte("mutated"), mutated)
}

func TestPathsAndLen(t *testing.T) {
	v := New()
	assert.Equal(t, 0, v.Len())

	assert.NoError(t, v.Add("a.txt", []byte("1")))
	assert.NoError(t, v.Add("b.txt", []byte("2")))

	assert.Equal(t, 2, v.Len())
	assert.ElementsMatch(t, []Path{"a.txt", "b.txt"}, v.Paths())
}
