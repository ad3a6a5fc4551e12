package binaryset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBinarySet_AppendAndGet(t *testing.T) {
	set := New()
	assert.Equal(t, 0, set.Len())

	set.Append("trie", []byte("abc"))
	set.Append("offsets", []byte("defg"))

	data, err := set.GetByName("trie")
	require.NoError(t, err)
	assert.Equal(t, []byte("abc"), data)

	_, err = set.GetByName("nope")
	assert.ErrorIs(t, err, ErrBlobMissing)

	assert.True(t, set.Contains("offsets"))
	assert.False(t, set.Contains("nope"))
	assert.Equal(t, 2, set.Len())
	assert.Equal(t, int64(7), set.Size())
	assert.Equal(t, []string{"trie", "offsets"}, set.Names())
}

func TestBinarySet_AppendReplacesInPlace(t *testing.T) {
	set := New()
	set.Append("a", []byte("1"))
	set.Append("b", []byte("2"))
	set.Append("a", []byte("replaced"))

	assert.Equal(t, []string{"a", "b"}, set.Names())

	data, err := set.GetByName("a")
	require.NoError(t, err)
	assert.Equal(t, []byte("replaced"), data)
}

func TestBinarySet_All(t *testing.T) {
	set := New()
	set.Append("one", []byte{1})
	set.Append("two", []byte{2})
	set.Append("three", []byte{3})

	var names []string
	for name, data := range set.All() {
		names = append(names, name)
		require.Len(t, data, 1)
	}
	assert.Equal(t, []string{"one", "two", "three"}, names)

	// Early stop.
	for range set.All() {
		break
	}
}
