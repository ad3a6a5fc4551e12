package trie

import (
	"bytes"
	"encoding/binary"
	"io"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/strigo/persistence"
)

func TestTrie_SerializeRoundTrip(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Build(words))

	var buf bytes.Buffer
	n, err := tr.WriteTo(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)
	assert.Equal(t, tr.Size(), n)

	got := New()
	m, err := got.ReadFrom(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, n, m)

	assert.Equal(t, tr.Len(), got.Len())
	for want, key := range sortedWords {
		id, ok := got.Lookup(key)
		require.True(t, ok, "key %q", key)
		assert.Equal(t, uint64(want), id)
	}
	assert.Equal(t,
		slices.Collect(tr.PredictiveSearch("")),
		slices.Collect(got.PredictiveSearch("")))

	// The dump is deterministic.
	var again bytes.Buffer
	_, err = got.WriteTo(&again)
	require.NoError(t, err)
	assert.Equal(t, buf.Bytes(), again.Bytes())
}

func TestTrie_SerializeEmpty(t *testing.T) {
	for name, tr := range map[string]*Trie{
		"zero":  New(),
		"built": mustBuild(t, nil),
	} {
		var buf bytes.Buffer
		_, err := tr.WriteTo(&buf)
		require.NoError(t, err, name)

		got := New()
		_, err = got.ReadFrom(&buf)
		require.NoError(t, err, name)
		assert.Equal(t, 0, got.Len(), name)
	}
}

func TestTrie_ReadFrom_BadMagic(t *testing.T) {
	data := serialize(t, words)
	data[0] ^= 0xFF

	got := mustBuild(t, []string{"keep"})
	_, err := got.ReadFrom(bytes.NewReader(data))
	assert.ErrorIs(t, err, persistence.ErrInvalidMagic)

	// A failed load leaves the receiver untouched.
	_, ok := got.Lookup("keep")
	assert.True(t, ok)
}

func TestTrie_ReadFrom_BadVersion(t *testing.T) {
	data := serialize(t, words)
	binary.LittleEndian.PutUint16(data[4:], Version+1)

	_, err := New().ReadFrom(bytes.NewReader(data))
	assert.ErrorIs(t, err, persistence.ErrInvalidVersion)
}

func TestTrie_ReadFrom_ChecksumMismatch(t *testing.T) {
	data := serialize(t, words)
	data[len(data)-6] ^= 0x01 // a label byte

	_, err := New().ReadFrom(bytes.NewReader(data))
	var mismatch *persistence.ChecksumMismatchError
	assert.ErrorAs(t, err, &mismatch)
}

func TestTrie_ReadFrom_Truncated(t *testing.T) {
	data := serialize(t, words)

	for _, cut := range []int{1, 3, headerSize - 1, headerSize + 7, len(data) / 2, len(data) - 1} {
		_, err := New().ReadFrom(bytes.NewReader(data[:cut]))
		assert.Error(t, err, "cut at %d", cut)
	}
}

func TestTrie_ReadFrom_CountExceedsNodes(t *testing.T) {
	data := serialize(t, words)
	binary.LittleEndian.PutUint64(data[6:], 1<<40)

	_, err := New().ReadFrom(bytes.NewReader(data))
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestTrie_ReadFrom_Malformed(t *testing.T) {
	corruptions := map[string]func(data []byte){
		"root label": func(data []byte) {
			// node 0 labelLen
			binary.LittleEndian.PutUint32(data[headerSize+4:], 1)
		},
		"child order": func(data []byte) {
			// node 0 firstChild must be 1
			binary.LittleEndian.PutUint32(data[headerSize+8:], 0)
		},
		"label arena": func(data []byte) {
			// node 1 labelLen far beyond the arena
			binary.LittleEndian.PutUint32(data[headerSize+nodeBytes+4:], 1<<30)
		},
		"ordinal range": func(data []byte) {
			// node 1 id beyond the key count
			binary.LittleEndian.PutUint32(data[headerSize+nodeBytes+16:], 1<<20)
		},
	}

	for name, corrupt := range corruptions {
		data := serialize(t, words)
		corrupt(data)
		reseal(data)

		_, err := New().ReadFrom(bytes.NewReader(data))
		assert.ErrorIs(t, err, ErrMalformed, name)
	}
}

func FuzzTrie_ReadFrom(f *testing.F) {
	tr := New()
	if err := tr.Build([]string{"", "app", "apple", "band", "bandana"}); err != nil {
		f.Fatal(err)
	}
	var buf bytes.Buffer
	if _, err := tr.WriteTo(&buf); err != nil {
		f.Fatal(err)
	}

	f.Add(buf.Bytes())
	f.Add([]byte{})
	f.Add(buf.Bytes()[:headerSize])

	f.Fuzz(func(t *testing.T, data []byte) {
		got := New()
		if _, err := got.ReadFrom(bytes.NewReader(data)); err != nil {
			return
		}

		// Whatever decodes must behave like a trie: the full enumeration
		// yields each ordinal exactly once, in order.
		want := uint64(0)
		for id := range got.PredictiveSearch("") {
			if id != want {
				t.Fatalf("enumeration yielded %d, want %d", id, want)
			}
			want++
		}
		if int(want) != got.Len() {
			t.Fatalf("enumerated %d keys, Len() = %d", want, got.Len())
		}
	})
}

// serialize builds a trie from keys and returns its serialized form.
func serialize(t *testing.T, keys []string) []byte {
	t.Helper()

	var buf bytes.Buffer
	_, err := mustBuild(t, keys).WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

// reseal recomputes the checksum trailer after a test mutated the payload.
func reseal(data []byte) {
	sum := persistence.CalculateChecksum(data[:len(data)-4])
	binary.LittleEndian.PutUint32(data[len(data)-4:], sum)
}

func mustBuild(t testing.TB, keys []string) *Trie {
	t.Helper()

	tr := New()
	require.NoError(t, tr.Build(keys))
	return tr
}

var _ io.WriterTo = (*Trie)(nil)
var _ io.ReaderFrom = (*Trie)(nil)
