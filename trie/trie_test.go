package trie

import (
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// words contains duplicates and heavy prefix overlap on purpose.
var words = []string{
	"apple", "app", "banana", "application", "band",
	"app", "bandana", "apply", "can", "candle",
}

// sortedWords is the distinct sorted form of words; the ordinal of a key is
// its index here.
var sortedWords = []string{
	"app", "apple", "application", "apply", "banana",
	"band", "bandana", "can", "candle",
}

func TestTrie_BuildAndLookup(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Build(words))

	assert.Equal(t, len(sortedWords), tr.Len())

	for want, key := range sortedWords {
		id, ok := tr.Lookup(key)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, uint64(want), id, "key %q", key)
	}

	// Prefixes of keys, extensions of keys and foreign keys all miss.
	for _, miss := range []string{"", "a", "ap", "appl", "applications", "bana", "cand", "zebra"} {
		_, ok := tr.Lookup(miss)
		assert.False(t, ok, "key %q", miss)
	}
}

func TestTrie_EmptyKey(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Build([]string{"b", "", "a"}))

	// The empty string sorts first.
	id, ok := tr.Lookup("")
	require.True(t, ok)
	assert.Equal(t, uint64(0), id)

	id, ok = tr.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, uint64(1), id)

	assert.Equal(t, []uint64{0, 1, 2}, slices.Collect(tr.PredictiveSearch("")))
}

func TestTrie_EmptyKeySet(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Build(nil))

	assert.Equal(t, 0, tr.Len())

	_, ok := tr.Lookup("")
	assert.False(t, ok)
	_, ok = tr.Lookup("anything")
	assert.False(t, ok)

	assert.Empty(t, slices.Collect(tr.PredictiveSearch("")))
}

func TestTrie_ZeroValue(t *testing.T) {
	var tr Trie

	assert.Equal(t, 0, tr.Len())
	_, ok := tr.Lookup("x")
	assert.False(t, ok)
	assert.Empty(t, slices.Collect(tr.PredictiveSearch("")))
}

func TestTrie_PredictiveSearch(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Build(words))

	tests := []struct {
		prefix string
		want   []uint64
	}{
		{"", []uint64{0, 1, 2, 3, 4, 5, 6, 7, 8}},
		{"a", []uint64{0, 1, 2, 3}},
		{"ap", []uint64{0, 1, 2, 3}},
		{"app", []uint64{0, 1, 2, 3}},
		{"appl", []uint64{1, 2, 3}}, // "app" itself is too short to match
		{"apple", []uint64{1}},
		{"ban", []uint64{4, 5, 6}},
		{"band", []uint64{5, 6}},
		{"candle", []uint64{8}},
		{"z", nil},
		{"bandanaz", nil},
		{"apples", nil},
	}

	for _, tt := range tests {
		got := slices.Collect(tr.PredictiveSearch(tt.prefix))
		assert.Equal(t, tt.want, got, "prefix %q", tt.prefix)
	}
}

func TestTrie_PredictiveSearch_EarlyStop(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Build(words))

	var got []uint64
	for id := range tr.PredictiveSearch("") {
		got = append(got, id)
		if len(got) == 3 {
			break
		}
	}
	assert.Equal(t, []uint64{0, 1, 2}, got)
}

func TestTrie_Rebuild(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Build([]string{"one", "two"}))
	require.NoError(t, tr.Build([]string{"three"}))

	assert.Equal(t, 1, tr.Len())
	_, ok := tr.Lookup("one")
	assert.False(t, ok)

	id, ok := tr.Lookup("three")
	require.True(t, ok)
	assert.Equal(t, uint64(0), id)
}

func TestTrie_Randomized(t *testing.T) {
	rng := rand.New(rand.NewSource(1)) //nolint:gosec

	// A tiny alphabet forces shared prefixes and mid-label splits.
	randomKey := func(maxLen int) string {
		var sb strings.Builder
		for n := rng.Intn(maxLen + 1); n > 0; n-- {
			sb.WriteByte("abc"[rng.Intn(3)])
		}
		return sb.String()
	}

	keys := make([]string, 500)
	for i := range keys {
		keys[i] = randomKey(8)
	}

	uniq := slices.Clone(keys)
	slices.Sort(uniq)
	uniq = slices.Compact(uniq)

	tr := New()
	require.NoError(t, tr.Build(keys))
	require.Equal(t, len(uniq), tr.Len())

	for want, key := range uniq {
		id, ok := tr.Lookup(key)
		require.True(t, ok, "key %q", key)
		require.Equal(t, uint64(want), id, "key %q", key)
	}

	for i := 0; i < 1000; i++ {
		probe := randomKey(10)

		id, ok := tr.Lookup(probe)
		rank, found := slices.BinarySearch(uniq, probe)
		require.Equal(t, found, ok, "probe %q", probe)
		if found {
			require.Equal(t, uint64(rank), id, "probe %q", probe)
		}

		var want []uint64
		for j, key := range uniq {
			if strings.HasPrefix(key, probe) {
				want = append(want, uint64(j))
			}
		}
		got := slices.Collect(tr.PredictiveSearch(probe))
		require.Equal(t, want, got, "prefix %q", probe)
	}
}

func BenchmarkTrie_Lookup(b *testing.B) {
	keys := make([]string, 10000)
	for i := range keys {
		keys[i] = fmt.Sprintf("user-%05d@example.com", i)
	}

	tr := New()
	if err := tr.Build(keys); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := tr.Lookup(keys[i%len(keys)]); !ok {
			b.Fatal("missing key")
		}
	}
}

func BenchmarkTrie_PredictiveSearch(b *testing.B) {
	keys := make([]string, 10000)
	for i := range keys {
		keys[i] = fmt.Sprintf("user-%05d@example.com", i)
	}

	tr := New()
	if err := tr.Build(keys); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		n := 0
		for range tr.PredictiveSearch("user-0042") {
			n++
		}
		if n != 10 {
			b.Fatalf("got %d matches", n)
		}
	}
}
