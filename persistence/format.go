package persistence

import "errors"

var (
	// ErrInvalidMagic is returned when a serialized segment does not start
	// with the expected magic number.
	ErrInvalidMagic = errors.New("invalid magic number")

	// ErrInvalidVersion is returned when a serialized segment was written
	// with an unsupported format version.
	ErrInvalidVersion = errors.New("unsupported version")

	// ErrSizeMisaligned is returned when a raw byte segment is not a whole
	// multiple of the element width it is supposed to encode.
	ErrSizeMisaligned = errors.New("byte length is not a multiple of the element width")
)
