package trie

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unsafe"

	"github.com/hupe1980/strigo/persistence"
)

// Serialized segment layout, all little-endian:
//
//	magic   uint32
//	version uint16
//	count   uint64  distinct keys
//	nodes   uint32  node records
//	labels  uint32  label arena bytes
//	node records, five uint32 words each
//	label arena
//	crc32   uint32  IEEE checksum of everything above
const (
	// Magic identifies a serialized trie segment ("STRI").
	Magic uint32 = 0x53545249

	// Version is the current segment format version.
	Version uint16 = 1

	headerSize = 4 + 2 + 8 + 4 + 4
	nodeWords  = 5
	nodeBytes  = nodeWords * 4
)

// ErrMalformed is returned by ReadFrom when a segment fails structural
// validation.
var ErrMalformed = errors.New("malformed trie segment")

// Size returns the exact number of bytes WriteTo produces.
func (t *Trie) Size() int64 {
	return headerSize + int64(len(t.nodes))*nodeBytes + int64(len(t.labels)) + 4
}

// WriteTo serializes the trie. It implements io.WriterTo.
func (t *Trie) WriteTo(w io.Writer) (int64, error) {
	cnt := &countingWriter{w: w}
	cw := persistence.NewChecksumWriter(cnt)
	bw := persistence.NewBinaryWriter(cw)

	if err := bw.WriteUint32(Magic); err != nil {
		return cnt.n, err
	}
	if err := bw.WriteUint16(Version); err != nil {
		return cnt.n, err
	}
	if err := bw.WriteUint64(uint64(t.count)); err != nil {
		return cnt.n, err
	}
	if err := bw.WriteUint32(uint32(len(t.nodes))); err != nil {
		return cnt.n, err
	}
	if err := bw.WriteUint32(uint32(len(t.labels))); err != nil {
		return cnt.n, err
	}
	if err := bw.WriteUint32Slice(t.nodeWordsView()); err != nil {
		return cnt.n, err
	}
	if err := bw.WriteBytes(t.labels); err != nil {
		return cnt.n, err
	}

	// The trailer is the checksum of everything before it, so it bypasses
	// the checksumming writer.
	if err := persistence.NewBinaryWriter(cnt).WriteUint32(cw.Sum()); err != nil {
		return cnt.n, err
	}
	return cnt.n, nil
}

// ReadFrom deserializes a segment produced by WriteTo. It implements
// io.ReaderFrom. The receiver is only modified after the whole segment has
// been read, checksummed and validated.
func (t *Trie) ReadFrom(r io.Reader) (int64, error) {
	cnt := &countingReader{r: r}
	cr := persistence.NewChecksumReader(cnt)
	br := persistence.NewBinaryReader(cr)

	magic, err := br.ReadUint32()
	if err != nil {
		return cnt.n, err
	}
	if magic != Magic {
		return cnt.n, fmt.Errorf("%w: 0x%08x", persistence.ErrInvalidMagic, magic)
	}

	version, err := br.ReadUint16()
	if err != nil {
		return cnt.n, err
	}
	if version != Version {
		return cnt.n, fmt.Errorf("%w: %d", persistence.ErrInvalidVersion, version)
	}

	count, err := br.ReadUint64()
	if err != nil {
		return cnt.n, err
	}
	nodeCount, err := br.ReadUint32()
	if err != nil {
		return cnt.n, err
	}
	labelsLen, err := br.ReadUint32()
	if err != nil {
		return cnt.n, err
	}
	if count > uint64(nodeCount) {
		return cnt.n, fmt.Errorf("%w: key count %d exceeds node count %d", ErrMalformed, count, nodeCount)
	}

	rawNodes, err := persistence.ReadCapped(cr, int(nodeCount)*nodeBytes)
	if err != nil {
		return cnt.n, err
	}
	labels, err := persistence.ReadCapped(cr, int(labelsLen))
	if err != nil {
		return cnt.n, err
	}

	expected, err := persistence.NewBinaryReader(cnt).ReadUint32()
	if err != nil {
		return cnt.n, err
	}
	if err := cr.Verify(expected); err != nil {
		return cnt.n, err
	}

	nodes := make([]node, nodeCount)
	for i := range nodes {
		off := i * nodeBytes
		nodes[i] = node{
			labelOff:   binary.LittleEndian.Uint32(rawNodes[off+0:]),
			labelLen:   binary.LittleEndian.Uint32(rawNodes[off+4:]),
			firstChild: binary.LittleEndian.Uint32(rawNodes[off+8:]),
			childCount: binary.LittleEndian.Uint32(rawNodes[off+12:]),
			id:         binary.LittleEndian.Uint32(rawNodes[off+16:]),
		}
	}
	if err := validateNodes(nodes, labels, count); err != nil {
		return cnt.n, err
	}

	t.nodes = nodes
	t.labels = labels
	t.count = int(count)
	return cnt.n, nil
}

// nodeWordsView views the node array as raw uint32 words. A node is five
// uint32 fields with no padding, so the reinterpretation is exact on the
// supported platforms.
func (t *Trie) nodeWordsView() []uint32 {
	if len(t.nodes) == 0 {
		return nil
	}
	return unsafe.Slice((*uint32)(unsafe.Pointer(&t.nodes[0])), len(t.nodes)*nodeWords)
}

// validateNodes checks that a decoded segment is a canonical breadth-first
// dump: child blocks tile the node array in order, the label arena is laid
// out in node order, sibling labels are strictly ordered by first byte, and
// terminal ids form a permutation of [1, count]. Anything else can only come
// from corruption and could send lookups out of bounds.
func validateNodes(nodes []node, labels []byte, count uint64) error {
	if len(nodes) == 0 {
		if count != 0 || len(labels) != 0 {
			return fmt.Errorf("%w: empty node table with residual data", ErrMalformed)
		}
		return nil
	}

	nextChild := uint64(1)
	labelOff := uint64(0)
	seen := make([]bool, count)
	terminals := uint64(0)

	for i := range nodes {
		nd := &nodes[i]
		if uint64(nd.labelOff) != labelOff {
			return fmt.Errorf("%w: node %d label offset %d, want %d", ErrMalformed, i, nd.labelOff, labelOff)
		}
		if i == 0 {
			if nd.labelLen != 0 {
				return fmt.Errorf("%w: root has a non-empty label", ErrMalformed)
			}
		} else if nd.labelLen == 0 {
			return fmt.Errorf("%w: node %d has an empty label", ErrMalformed, i)
		}
		labelOff += uint64(nd.labelLen)
		if labelOff > uint64(len(labels)) {
			return fmt.Errorf("%w: node %d label exceeds arena", ErrMalformed, i)
		}

		if uint64(nd.firstChild) != nextChild {
			return fmt.Errorf("%w: node %d breaks breadth-first child order", ErrMalformed, i)
		}
		nextChild += uint64(nd.childCount)
		if nextChild > uint64(len(nodes)) {
			return fmt.Errorf("%w: node %d child range out of bounds", ErrMalformed, i)
		}

		if nd.id != 0 {
			if uint64(nd.id) > count {
				return fmt.Errorf("%w: node %d ordinal %d out of range", ErrMalformed, i, nd.id-1)
			}
			if seen[nd.id-1] {
				return fmt.Errorf("%w: duplicate ordinal %d", ErrMalformed, nd.id-1)
			}
			seen[nd.id-1] = true
			terminals++
		}
	}
	if labelOff != uint64(len(labels)) {
		return fmt.Errorf("%w: %d unused label bytes", ErrMalformed, uint64(len(labels))-labelOff)
	}
	if nextChild != uint64(len(nodes)) {
		return fmt.Errorf("%w: %d orphaned nodes", ErrMalformed, uint64(len(nodes))-nextChild)
	}
	if terminals != count {
		return fmt.Errorf("%w: %d terminal nodes, want %d", ErrMalformed, terminals, count)
	}

	// Sibling order is what binary search relies on. Label offsets were
	// validated above, so indexing the arena is safe here.
	for i := range nodes {
		nd := &nodes[i]
		for c := nd.firstChild + 1; c < nd.firstChild+nd.childCount; c++ {
			if labels[nodes[c-1].labelOff] >= labels[nodes[c].labelOff] {
				return fmt.Errorf("%w: node %d children out of order", ErrMalformed, i)
			}
		}
	}

	// Ordinals are ranks in the sorted key set, so a pre-order walk must
	// meet them in ascending order. The walk terminates because the child
	// blocks tile the array.
	next := uint32(1)
	stack := make([]uint32, 0, 64)
	stack = append(stack, 0)
	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		nd := &nodes[idx]
		if nd.id != 0 {
			if nd.id != next {
				return fmt.Errorf("%w: ordinal %d out of pre-order position", ErrMalformed, nd.id-1)
			}
			next++
		}
		for i := nd.childCount; i > 0; i-- {
			stack = append(stack, nd.firstChild+i-1)
		}
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (cw *countingWriter) Write(p []byte) (int, error) {
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	return n, err
}

type countingReader struct {
	r io.Reader
	n int64
}

func (cr *countingReader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	cr.n += int64(n)
	return n, err
}
