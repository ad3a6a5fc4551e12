package strigo

import (
	"io"
	"iter"

	"github.com/hupe1980/strigo/trie"
)

// Engine is the compressed-trie capability the index is built on. The
// default implementation is trie.Trie; any structure with equivalent
// lookup and prefix-enumeration semantics can be plugged in via WithEngine.
//
// Build assigns every distinct key a dense ordinal in [0, Len()) and
// replaces any previous contents. Lookup and PredictiveSearch answer in
// that ordinal space; ordinals are only meaningful relative to one built
// engine and do not survive a rebuild with a different key set.
//
// WriteTo and ReadFrom must be deterministic and exactly inverse to each
// other. ReadFrom replaces the engine contents; on error the previous
// contents are unspecified, which is fine because the index never exposes
// an engine whose decode failed.
//
// A built engine must be safe for concurrent readers.
type Engine interface {
	// Build constructs the engine from the given values. Duplicates are
	// permitted and collapse onto one ordinal.
	Build(values []string) error

	// Lookup returns the ordinal of value, or false if the engine does not
	// contain value.
	Lookup(value string) (uint64, bool)

	// PredictiveSearch enumerates the ordinals of all stored values that
	// start with prefix. An empty prefix enumerates every value. The
	// sequence is finite and single-use.
	PredictiveSearch(prefix string) iter.Seq[uint64]

	// Len returns the number of distinct stored values.
	Len() int

	io.WriterTo
	io.ReaderFrom
}

var _ Engine = (*trie.Trie)(nil)

// defaultEngine returns the engine used when none is configured.
func defaultEngine() Engine {
	return trie.New()
}
