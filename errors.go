package strigo

import (
	"errors"
)

var (
	// ErrAlreadyBuilt is returned when Build or Load is called on an index
	// that is already built. The first build is left untouched.
	ErrAlreadyBuilt = errors.New("index already built")

	// ErrNotBuilt is returned when a query or Serialize is called before
	// the index has been built or loaded.
	ErrNotBuilt = errors.New("index not built")

	// ErrRangeUnsupported is returned by Range and RangeBetween. String
	// range comparison is out of scope for this index.
	ErrRangeUnsupported = errors.New("operation not supported: string range comparison")

	// ErrTooManyRows is returned by Build when the row count exceeds the
	// uint32 offset space of the result bitmaps.
	ErrTooManyRows = errors.New("too many rows")

	// ErrInconsistent is returned when a value handed to Build cannot be
	// found in the engine immediately after the engine was built from it.
	// This is an internal fault, not a user error.
	ErrInconsistent = errors.New("engine and input values out of sync")

	// ErrSegmentCorrupt is returned by Load when a segment fails to decode:
	// an offsets segment whose length is not a multiple of the word width,
	// an ordinal out of range, or an engine rejecting its own dump.
	ErrSegmentCorrupt = errors.New("corrupt index segment")
)
