// Package strigo provides an immutable, disk-serializable string index for
// scalar filtering in Go.
//
// Strigo indexes one column of string values and answers three query types,
// each returning a bitmap over row offsets: exact-set membership (In),
// exact-set exclusion (NotIn), and prefix matching (PrefixMatch). It is the
// scalar-filtering counterpart to a vector index in an analytical storage
// engine: the bitmaps it produces are intersected with vector search
// candidates or other per-row filters.
//
// # Quick Start
//
//	ctx := context.Background()
//	idx := strigo.New()
//	_ = idx.Build(ctx, []string{"berlin", "paris", "berlin", "oslo"})
//
//	bm, _ := idx.In("berlin")        // rows {0, 2}
//	bm, _ = idx.NotIn("berlin")      // rows {1, 3}
//	bm, _ = idx.PrefixMatch("b")     // rows {0, 2}
//
// An index is built exactly once, from Build or Load, and is immutable
// afterwards. Any number of goroutines may query a built index without
// coordination.
//
// # Persistence
//
// Local file:
//
//	_ = idx.SaveFile(ctx, "./data/city.idx")
//	idx, _ = strigo.OpenFile(ctx, "./data/city.idx")
//
// Blob store (S3, MinIO, local directory, in-memory):
//
//	store, _ := s3.New(ctx, "my-bucket", s3.WithPrefix("indexes/"))
//	_ = idx.Save(ctx, store, "city/v1")
//	idx, _ = strigo.Open(ctx, store, "city/v1")
//
// Serialized form is two segments, the trie dump and the row-to-ordinal
// array, optionally sliced and compressed for the storage tier via
// WithSliceSize and WithCompression.
//
// # Key Features
//
//   - Static radix trie engine with dense ordinal IDs (pluggable via WithEngine)
//   - Roaring-backed result bitmaps with set algebra
//   - Checksummed, versioned segment format with atomic file saves
//   - Cloud-native storage (S3, S3 Express, MinIO) with concurrent transfers
//   - Transfer throttling via a shared resource controller
//   - Arrow column ingestion (String, LargeString, dictionary-encoded)
//
// String range comparison is deliberately unsupported: Range and
// RangeBetween always fail with ErrRangeUnsupported.
package strigo
