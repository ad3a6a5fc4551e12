package strigo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/strigo/binaryset"
	"github.com/hupe1980/strigo/blobstore"
	"github.com/hupe1980/strigo/persistence"
)

// Segment names inside a serialized binary set.
const (
	// TrieKey names the segment holding the engine's self-describing dump.
	TrieKey = "trie"

	// OffsetsKey names the segment holding the row -> ordinal array as raw
	// native-endian uint64 words.
	OffsetsKey = "offsets"
)

// Serialize encodes the index into a binary set with two segments: the
// engine dump under TrieKey and the row -> ordinal array under OffsetsKey.
// The configured slicing and compression options are applied on the way
// out; Load reverses them transparently.
func (idx *Index) Serialize(ctx context.Context) (*binaryset.BinarySet, error) {
	start := time.Now()
	set, err := idx.serialize()
	idx.opts.metricsCollector.RecordSerialize(time.Since(start), err)

	var blobs int
	var size int64
	if set != nil {
		blobs = set.Len()
		size = set.Size()
	}
	idx.opts.logger.LogSerialize(ctx, blobs, size, err)
	return set, err
}

func (idx *Index) serialize() (*binaryset.BinarySet, error) {
	if !idx.built.Load() {
		return nil, ErrNotBuilt
	}

	var buf bytes.Buffer
	if s, ok := idx.engine.(interface{ Size() int64 }); ok {
		buf.Grow(int(s.Size()))
	}
	if _, err := idx.engine.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("serialize engine: %w", err)
	}

	set := binaryset.New()
	set.Append(TrieKey, buf.Bytes())
	set.Append(OffsetsKey, persistence.Uint64SliceBytes(idx.rowToID))

	return binaryset.Disassemble(set, idx.opts.sliceOptions...)
}

// Load builds the index from a serialized binary set. The instance must be
// unbuilt; on any failure it stays unbuilt with no partial state.
//
// The offsets segment is reinterpreted in place where alignment allows, so
// the set's buffers must not be mutated while the index is in use.
func (idx *Index) Load(ctx context.Context, set *binaryset.BinarySet) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	start := time.Now()
	err := idx.load(set)
	idx.opts.metricsCollector.RecordLoad(time.Since(start), err)
	idx.opts.logger.LogLoad(ctx, int(idx.rows), idx.engine.Len(), err)
	return err
}

func (idx *Index) load(set *binaryset.BinarySet) error {
	if idx.built.Load() {
		return ErrAlreadyBuilt
	}

	assembled, err := binaryset.Assemble(set)
	if err != nil {
		return fmt.Errorf("assemble segments: %w", err)
	}

	trieData, err := assembled.GetByName(TrieKey)
	if err != nil {
		return err
	}
	offsetsData, err := assembled.GetByName(OffsetsKey)
	if err != nil {
		return err
	}

	if _, err := idx.engine.ReadFrom(bytes.NewReader(trieData)); err != nil {
		return fmt.Errorf("%w: decode engine: %w", ErrSegmentCorrupt, err)
	}
	rowToID, err := persistence.Uint64SliceFromBytes(offsetsData)
	if err != nil {
		return fmt.Errorf("%w: offsets segment of %d bytes: %w", ErrSegmentCorrupt, len(offsetsData), err)
	}

	// Every ordinal must resolve inside the decoded engine.
	distinct := uint64(idx.engine.Len())
	for i, id := range rowToID {
		if id >= distinct {
			return fmt.Errorf("%w: row %d holds ordinal %d, engine has %d values", ErrSegmentCorrupt, i, id, distinct)
		}
	}

	idx.rowToID = rowToID
	idx.offsets = fillOffsets(rowToID)
	idx.rows = uint32(len(rowToID))
	idx.built.Store(true)
	return nil
}

// SaveFile serializes the index into a single envelope file. The write is
// staged in a uniquely named temp file and atomically renamed, so a crash
// never leaves a half-written index behind.
func (idx *Index) SaveFile(ctx context.Context, path string) error {
	set, err := idx.Serialize(ctx)
	if err == nil {
		err = persistence.SaveToFile(path, func(w io.Writer) error {
			_, werr := set.WriteTo(w)
			return werr
		})
	}
	idx.opts.logger.LogSave(ctx, path, err)
	return err
}

// OpenFile loads an index from a file written by SaveFile.
func OpenFile(ctx context.Context, path string, optFns ...Option) (*Index, error) {
	idx := New(optFns...)

	set := binaryset.New()
	err := persistence.LoadFromFile(path, func(r io.Reader) error {
		_, rerr := set.ReadFrom(r)
		return rerr
	})
	if err == nil {
		err = idx.Load(ctx, set)
	}
	idx.opts.logger.LogOpen(ctx, path, err)
	if err != nil {
		return nil, err
	}
	return idx, nil
}

// Save uploads the serialized index to a blob store, one object per
// segment under the given key prefix.
func (idx *Index) Save(ctx context.Context, store blobstore.BlobStore, prefix string) error {
	set, err := idx.Serialize(ctx)
	if err == nil {
		err = binaryset.Upload(ctx, store, prefix, set, idx.opts.transferOptions...)
	}
	idx.opts.logger.LogSave(ctx, prefix, err)
	return err
}

// Open loads an index from a blob store prefix written by Save.
func Open(ctx context.Context, store blobstore.BlobStore, prefix string, optFns ...Option) (*Index, error) {
	idx := New(optFns...)

	set, err := binaryset.Download(ctx, store, prefix, idx.opts.transferOptions...)
	if err == nil {
		err = idx.Load(ctx, set)
	}
	idx.opts.logger.LogOpen(ctx, prefix, err)
	if err != nil {
		return nil, err
	}
	return idx, nil
}
