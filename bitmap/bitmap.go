// Package bitmap provides a fixed-length bit vector over row offsets.
//
// A Bitmap marks which rows of a column satisfy a predicate: bit i set means
// "row i matches". It wraps the official Roaring Bitmap implementation for
// compressed storage and fast set algebra.
package bitmap

import (
	"iter"

	"github.com/RoaringBitmap/roaring/v2"
)

// Bitmap is a fixed-length bit vector of length n.
// Bits outside [0, n) are never set by any operation.
type Bitmap struct {
	n  uint32
	rb *roaring.Bitmap
}

// New creates an all-zero bitmap of length n.
func New(n uint32) *Bitmap {
	return &Bitmap{
		n:  n,
		rb: roaring.New(),
	}
}

// NewFull creates an all-one bitmap of length n.
func NewFull(n uint32) *Bitmap {
	b := New(n)
	b.SetAll()
	return b
}

// Len returns the fixed length of the bitmap.
func (b *Bitmap) Len() uint32 {
	return b.n
}

// Set sets bit i. The caller must ensure i < Len().
func (b *Bitmap) Set(i uint32) {
	b.rb.Add(i)
}

// Clear clears bit i.
func (b *Bitmap) Clear(i uint32) {
	b.rb.Remove(i)
}

// Test reports whether bit i is set.
func (b *Bitmap) Test(i uint32) bool {
	return b.rb.Contains(i)
}

// SetAll sets all bits in [0, Len()).
func (b *Bitmap) SetAll() {
	if b.n == 0 {
		return
	}
	b.rb.AddRange(0, uint64(b.n))
}

// ClearAll clears every bit.
func (b *Bitmap) ClearAll() {
	b.rb.Clear()
}

// Not returns a new bitmap with every bit in [0, Len()) flipped.
// The receiver is unchanged.
func (b *Bitmap) Not() *Bitmap {
	return &Bitmap{
		n:  b.n,
		rb: roaring.Flip(b.rb, 0, uint64(b.n)),
	}
}

// And intersects the receiver with other in place.
func (b *Bitmap) And(other *Bitmap) {
	b.rb.And(other.rb)
}

// Or unions the receiver with other in place.
func (b *Bitmap) Or(other *Bitmap) {
	b.rb.Or(other.rb)
}

// Equal reports whether two bitmaps have the same length and the same bits.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if other == nil {
		return false
	}
	return b.n == other.n && b.rb.Equals(other.rb)
}

// Cardinality returns the number of set bits.
func (b *Bitmap) Cardinality() uint64 {
	return b.rb.GetCardinality()
}

// IsEmpty returns true if no bit is set.
func (b *Bitmap) IsEmpty() bool {
	return b.rb.IsEmpty()
}

// Clone returns a deep copy of the bitmap.
func (b *Bitmap) Clone() *Bitmap {
	return &Bitmap{
		n:  b.n,
		rb: b.rb.Clone(),
	}
}

// Iterator returns an iterator over the set bits in ascending order.
func (b *Bitmap) Iterator() iter.Seq[uint32] {
	return func(yield func(uint32) bool) {
		it := b.rb.Iterator()
		for it.HasNext() {
			if !yield(it.Next()) {
				return
			}
		}
	}
}

// ToArray returns the set bits as a sorted slice.
func (b *Bitmap) ToArray() []uint32 {
	return b.rb.ToArray()
}

// GetSizeInBytes returns the compressed size of the bitmap in bytes.
func (b *Bitmap) GetSizeInBytes() uint64 {
	return b.rb.GetSizeInBytes()
}
