package strigo

import (
	"context"
	"fmt"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/strigo/bitmap"
)

// CompareOp is the comparison operator of a single-bound Range query.
type CompareOp uint8

// Comparison operators accepted by Range. They exist for interface
// completeness; every Range call fails with ErrRangeUnsupported.
const (
	LessThan CompareOp = iota
	LessEqual
	GreaterThan
	GreaterEqual
)

// Index is an immutable, disk-serializable index over a column of string
// values. It answers IN, NOT IN, and prefix-match queries with bitmaps over
// row offsets: bit i set means "row i matches".
//
// An Index starts unbuilt. Exactly one successful Build or Load transitions
// it to built; afterwards it is read-only and any number of goroutines may
// query it concurrently. A second Build or Load fails with ErrAlreadyBuilt
// and leaves the first build untouched.
type Index struct {
	mu    sync.Mutex  // serializes Build and Load
	built atomic.Bool // set once, after all state is committed

	engine  Engine
	rowToID []uint64            // row offset -> ordinal, immutable once built
	offsets map[uint64][]uint32 // ordinal -> ascending row offsets, rebuilt on every Build/Load
	rows    uint32

	opts options
}

// New creates an unbuilt index. Call Build or Load before querying.
func New(optFns ...Option) *Index {
	o := applyOptions(optFns)
	if o.engine == nil {
		o.engine = defaultEngine()
	}

	return &Index{
		engine: o.engine,
		opts:   o,
	}
}

// Build constructs the index over values, where values[i] is the string at
// row offset i. Duplicate values are expected; each distinct value keeps
// the list of rows that hold it.
//
// Build runs to completion in the calling goroutine. On failure the index
// stays unbuilt and Build may be retried.
func (idx *Index) Build(ctx context.Context, values []string) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	start := time.Now()
	err := idx.build(values)
	idx.opts.metricsCollector.RecordBuild(len(values), time.Since(start), err)
	idx.opts.logger.LogBuild(ctx, len(values), idx.engine.Len(), err)
	return err
}

func (idx *Index) build(values []string) error {
	if idx.built.Load() {
		return ErrAlreadyBuilt
	}
	// Row offsets live in uint32 bitmap space.
	if uint64(len(values)) > math.MaxUint32 {
		return fmt.Errorf("%w: %d", ErrTooManyRows, len(values))
	}

	if err := idx.engine.Build(values); err != nil {
		return fmt.Errorf("build engine: %w", err)
	}
	rowToID, err := fillStrIDs(idx.engine, values)
	if err != nil {
		return err
	}

	idx.rowToID = rowToID
	idx.offsets = fillOffsets(rowToID)
	idx.rows = uint32(len(values))
	idx.built.Store(true)
	return nil
}

// In returns the bitmap of rows whose value is one of the given values.
// Values absent from the index contribute no rows; they are not an error.
func (idx *Index) In(values ...string) (*bitmap.Bitmap, error) {
	start := time.Now()
	bm, err := idx.in(values)
	idx.opts.metricsCollector.RecordQuery(OpIn, time.Since(start), err)
	idx.logQuery(OpIn, bm, err)
	return bm, err
}

func (idx *Index) in(values []string) (*bitmap.Bitmap, error) {
	if !idx.built.Load() {
		return nil, ErrNotBuilt
	}

	bm := bitmap.New(idx.rows)
	for _, v := range values {
		id, ok := idx.engine.Lookup(v)
		if !ok {
			continue
		}
		for _, off := range idx.offsets[id] {
			bm.Set(off)
		}
	}
	return bm, nil
}

// NotIn returns the bitmap of rows whose value is none of the given values.
// It is always the exact complement of In for the same values.
func (idx *Index) NotIn(values ...string) (*bitmap.Bitmap, error) {
	start := time.Now()
	bm, err := idx.notIn(values)
	idx.opts.metricsCollector.RecordQuery(OpNotIn, time.Since(start), err)
	idx.logQuery(OpNotIn, bm, err)
	return bm, err
}

func (idx *Index) notIn(values []string) (*bitmap.Bitmap, error) {
	if !idx.built.Load() {
		return nil, ErrNotBuilt
	}

	// Start from all rows and carve out the matches, rather than negating
	// an In bitmap.
	bm := bitmap.NewFull(idx.rows)
	for _, v := range values {
		id, ok := idx.engine.Lookup(v)
		if !ok {
			continue
		}
		for _, off := range idx.offsets[id] {
			bm.Clear(off)
		}
	}
	return bm, nil
}

// PrefixMatch returns the bitmap of rows whose value starts with prefix.
// An empty prefix matches every row.
func (idx *Index) PrefixMatch(prefix string) (*bitmap.Bitmap, error) {
	start := time.Now()
	bm, err := idx.prefixMatch(prefix)
	idx.opts.metricsCollector.RecordQuery(OpPrefixMatch, time.Since(start), err)
	idx.logQuery(OpPrefixMatch, bm, err)
	return bm, err
}

func (idx *Index) prefixMatch(prefix string) (*bitmap.Bitmap, error) {
	if !idx.built.Load() {
		return nil, ErrNotBuilt
	}

	bm := bitmap.New(idx.rows)
	for id := range idx.engine.PredictiveSearch(prefix) {
		for _, off := range idx.offsets[id] {
			bm.Set(off)
		}
	}
	return bm, nil
}

// Range fails with ErrRangeUnsupported regardless of arguments. String
// range comparison is out of scope for this index.
func (idx *Index) Range(value string, op CompareOp) (*bitmap.Bitmap, error) {
	return nil, ErrRangeUnsupported
}

// RangeBetween fails with ErrRangeUnsupported regardless of arguments.
func (idx *Index) RangeBetween(lower string, lowerInclusive bool, upper string, upperInclusive bool) (*bitmap.Bitmap, error) {
	return nil, ErrRangeUnsupported
}

// Rows returns the number of rows supplied at build time, or 0 while the
// index is unbuilt.
func (idx *Index) Rows() int {
	if !idx.built.Load() {
		return 0
	}
	return int(idx.rows)
}

// Cardinality returns the number of distinct values, or 0 while the index
// is unbuilt.
func (idx *Index) Cardinality() int {
	if !idx.built.Load() {
		return 0
	}
	return idx.engine.Len()
}

// Size returns the approximate serialized size of the index in bytes: the
// engine dump plus the offsets segment.
func (idx *Index) Size() int64 {
	if !idx.built.Load() {
		return 0
	}

	size := int64(len(idx.rowToID)) * 8
	if s, ok := idx.engine.(interface{ Size() int64 }); ok {
		size += s.Size()
	}
	return size
}

func (idx *Index) logQuery(op string, bm *bitmap.Bitmap, err error) {
	var matched uint64
	if bm != nil {
		matched = bm.Cardinality()
	}
	idx.opts.logger.LogQuery(op, matched, err)
}
