// Package trie implements a static radix trie over string keys.
//
// A trie is built once from a key set and is immutable afterwards. Each
// distinct key receives a dense ordinal equal to its rank in the sorted key
// set, so a pre-order walk enumerates ordinals in ascending order. Nodes are
// flattened into a single array with a shared label arena, which keeps
// lookups cache friendly and makes serialization a plain dump of the arrays.
package trie

import (
	"errors"
	"iter"
	"math"
	"slices"
)

// ErrTooManyKeys is returned by Build when the distinct key count exceeds
// the uint32 ordinal space.
var ErrTooManyKeys = errors.New("too many distinct keys")

// node is one flattened trie node. The children of a node occupy a
// contiguous block of the node array, ordered by the first byte of their
// edge label.
type node struct {
	labelOff   uint32 // start of the edge label in the label arena
	labelLen   uint32 // edge label length, zero only for the root
	firstChild uint32 // index of the first child
	childCount uint32 // number of children
	id         uint32 // ordinal+1 for terminal nodes, zero otherwise
}

// Trie is a static radix trie mapping string keys to dense ordinals in
// [0, Len()). The zero value is empty; call Build to populate it.
type Trie struct {
	nodes  []node
	labels []byte
	count  int
}

// New creates an empty trie.
func New() *Trie {
	return &Trie{}
}

// Build replaces the trie contents with the given keys. Duplicates collapse
// onto a single ordinal; the ordinal of a key is its rank in the sorted set
// of distinct keys.
func (t *Trie) Build(keys []string) error {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	if len(sorted) > math.MaxUint32 {
		return ErrTooManyKeys
	}

	t.flatten(buildNode(sorted, 0, len(sorted), 0, 0), len(sorted))
	return nil
}

// Len returns the number of distinct keys.
func (t *Trie) Len() int {
	return t.count
}

// Lookup returns the ordinal of key, or false if the trie does not contain
// key.
func (t *Trie) Lookup(key string) (uint64, bool) {
	if len(t.nodes) == 0 {
		return 0, false
	}

	idx := uint32(0)
	pos := 0
	for pos < len(key) {
		child, ok := t.findChild(&t.nodes[idx], key[pos])
		if !ok {
			return 0, false
		}
		nd := &t.nodes[child]
		lbl := t.labels[nd.labelOff : nd.labelOff+nd.labelLen]
		if len(key)-pos < len(lbl) {
			return 0, false
		}
		for i := 1; i < len(lbl); i++ { // first byte matched by findChild
			if key[pos+i] != lbl[i] {
				return 0, false
			}
		}
		pos += len(lbl)
		idx = child
	}

	if nd := &t.nodes[idx]; nd.id != 0 {
		return uint64(nd.id - 1), true
	}
	return 0, false
}

// PredictiveSearch returns an iterator over the ordinals of all keys that
// start with prefix, in ascending order. An empty prefix enumerates every
// key.
func (t *Trie) PredictiveSearch(prefix string) iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		if len(t.nodes) == 0 {
			return
		}
		start, ok := t.descend(prefix)
		if !ok {
			return
		}

		// Pre-order walk. Children are pushed in reverse so they pop in
		// label order, which for rank ordinals means ascending ids.
		stack := []uint32{start}
		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			nd := &t.nodes[idx]
			if nd.id != 0 && !yield(uint64(nd.id-1)) {
				return
			}
			for i := nd.childCount; i > 0; i-- {
				stack = append(stack, nd.firstChild+i-1)
			}
		}
	}
}

// descend walks the trie along prefix and returns the topmost node whose
// subtree contains exactly the keys starting with prefix. The prefix may end
// inside an edge label.
func (t *Trie) descend(prefix string) (uint32, bool) {
	idx := uint32(0)
	pos := 0
	for pos < len(prefix) {
		child, ok := t.findChild(&t.nodes[idx], prefix[pos])
		if !ok {
			return 0, false
		}
		nd := &t.nodes[child]
		lbl := t.labels[nd.labelOff : nd.labelOff+nd.labelLen]
		n := min(len(lbl), len(prefix)-pos)
		for i := 1; i < n; i++ {
			if prefix[pos+i] != lbl[i] {
				return 0, false
			}
		}
		pos += n
		idx = child
	}
	return idx, true
}

// findChild locates the child of nd whose edge label starts with c. The
// child block is sorted by first label byte, so a binary search suffices.
func (t *Trie) findChild(nd *node, c byte) (uint32, bool) {
	lo, hi := nd.firstChild, nd.firstChild+nd.childCount
	for lo < hi {
		mid := lo + (hi-lo)/2
		switch b := t.labels[t.nodes[mid].labelOff]; {
		case b == c:
			return mid, true
		case b < c:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0, false
}

// flatten lays the builder tree out in breadth-first order so that every
// node's children occupy a contiguous block and the label arena follows the
// node order.
func (t *Trie) flatten(root *builderNode, count int) {
	queue := make([]*builderNode, 1, count+1)
	queue[0] = root

	nodes := make([]node, 0, count+1)
	var labels []byte

	for i := 0; i < len(queue); i++ {
		bn := queue[i]
		nodes = append(nodes, node{
			labelOff:   uint32(len(labels)),
			labelLen:   uint32(len(bn.label)),
			firstChild: uint32(len(queue)),
			childCount: uint32(len(bn.children)),
			id:         bn.id,
		})
		labels = append(labels, bn.label...)
		queue = append(queue, bn.children...)
	}

	t.nodes = nodes
	t.labels = labels
	t.count = count
}

// builderNode is the mutable tree used during construction.
type builderNode struct {
	label    string
	id       uint32 // ordinal+1, zero when not terminal
	children []*builderNode
}

// buildNode builds the subtree covering keys[lo:hi), which all share their
// first depth bytes. The node's edge label is keys[lo][start:depth]. Keys
// must be sorted and free of duplicates.
func buildNode(keys []string, lo, hi, start, depth int) *builderNode {
	var label string
	if lo < hi {
		label = keys[lo][start:depth]
	}

	bn := &builderNode{label: label}
	if lo < hi && len(keys[lo]) == depth {
		bn.id = uint32(lo) + 1
		lo++
	}

	for i := lo; i < hi; {
		c := keys[i][depth]
		j := i + 1
		for j < hi && keys[j][depth] == c {
			j++
		}
		// The group shares byte c at depth. Extend the edge to the longest
		// prefix common to the whole group, which for sorted keys is the
		// common prefix of its first and last key.
		end := depth + commonPrefixLen(keys[i], keys[j-1], depth)
		bn.children = append(bn.children, buildNode(keys, i, j, depth, end))
		i = j
	}
	return bn
}

// commonPrefixLen returns the length of the common prefix of a and b beyond
// the first depth bytes, which are known to be equal.
func commonPrefixLen(a, b string, depth int) int {
	n := min(len(a), len(b))
	i := depth
	for i < n && a[i] == b[i] {
		i++
	}
	return i - depth
}
