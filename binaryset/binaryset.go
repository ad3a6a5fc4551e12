// Package binaryset holds the named binary segments an index serializes
// into, plus the storage-tier hooks (slicing, compression, envelope framing)
// applied to them before they leave the process.
package binaryset

import (
	"errors"
	"fmt"
	"iter"
)

// ErrBlobMissing is returned when a named blob is not present in the set.
var ErrBlobMissing = errors.New("blob missing")

// BinarySet is an insertion-ordered collection of named byte blobs.
//
// A BinarySet is not safe for concurrent mutation; the index only ever
// mutates one from a single goroutine.
type BinarySet struct {
	names []string
	blobs map[string][]byte
}

// New creates an empty set.
func New() *BinarySet {
	return &BinarySet{
		blobs: make(map[string][]byte),
	}
}

// Append adds a named blob. Appending an existing name replaces its data but
// keeps its original position.
func (s *BinarySet) Append(name string, data []byte) {
	if _, ok := s.blobs[name]; !ok {
		s.names = append(s.names, name)
	}
	s.blobs[name] = data
}

// GetByName returns the blob with the given name.
func (s *BinarySet) GetByName(name string) ([]byte, error) {
	data, ok := s.blobs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrBlobMissing, name)
	}
	return data, nil
}

// Contains reports whether the set holds a blob with the given name.
func (s *BinarySet) Contains(name string) bool {
	_, ok := s.blobs[name]
	return ok
}

// Names returns the blob names in insertion order.
func (s *BinarySet) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Len returns the number of blobs.
func (s *BinarySet) Len() int {
	return len(s.names)
}

// Size returns the total payload bytes across all blobs.
func (s *BinarySet) Size() int64 {
	var total int64
	for _, data := range s.blobs {
		total += int64(len(data))
	}
	return total
}

// All iterates over the blobs in insertion order.
func (s *BinarySet) All() iter.Seq2[string, []byte] {
	return func(yield func(string, []byte) bool) {
		for _, name := range s.names {
			if !yield(name, s.blobs[name]) {
				return
			}
		}
	}
}
