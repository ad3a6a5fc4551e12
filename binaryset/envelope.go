package binaryset

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/hupe1980/strigo/persistence"
)

// Envelope layout, all little-endian:
//
//	magic   uint32
//	version uint16
//	count   uint32  blobs
//	per blob: nameLen uint16, name, dataLen uint64, data
//	crc32   uint32  IEEE checksum of everything above
const (
	// EnvelopeMagic identifies a serialized blob envelope ("STRG").
	EnvelopeMagic uint32 = 0x53545247

	// EnvelopeVersion is the current envelope format version.
	EnvelopeVersion uint16 = 1
)

// ErrMalformed is returned by ReadFrom when an envelope fails structural
// validation.
var ErrMalformed = errors.New("malformed envelope")

// WriteTo writes the set as a single self-describing envelope. It implements
// io.WriterTo.
func (s *BinarySet) WriteTo(w io.Writer) (int64, error) {
	cnt := &countingWriter{w: w}
	cw := persistence.NewChecksumWriter(cnt)
	bw := persistence.NewBinaryWriter(cw)

	if err := bw.WriteUint32(EnvelopeMagic); err != nil {
		return cnt.n, err
	}
	if err := bw.WriteUint16(EnvelopeVersion); err != nil {
		return cnt.n, err
	}
	if err := bw.WriteUint32(uint32(s.Len())); err != nil {
		return cnt.n, err
	}

	for name, data := range s.All() {
		if len(name) > math.MaxUint16 {
			return cnt.n, fmt.Errorf("blob name too long: %d bytes", len(name))
		}
		if err := bw.WriteUint16(uint16(len(name))); err != nil {
			return cnt.n, err
		}
		if err := bw.WriteBytes([]byte(name)); err != nil {
			return cnt.n, err
		}
		if err := bw.WriteUint64(uint64(len(data))); err != nil {
			return cnt.n, err
		}
		if err := bw.WriteBytes(data); err != nil {
			return cnt.n, err
		}
	}

	// The trailer is the checksum of everything before it, so it bypasses
	// the checksumming writer.
	if err := persistence.NewBinaryWriter(cnt).WriteUint32(cw.Sum()); err != nil {
		return cnt.n, err
	}
	return cnt.n, nil
}

// ReadFrom replaces the set contents with an envelope written by WriteTo. It
// implements io.ReaderFrom. The receiver is only modified after the whole
// envelope has been read and checksummed.
func (s *BinarySet) ReadFrom(r io.Reader) (int64, error) {
	cnt := &countingReader{r: r}
	cr := persistence.NewChecksumReader(cnt)
	br := persistence.NewBinaryReader(cr)

	magic, err := br.ReadUint32()
	if err != nil {
		return cnt.n, err
	}
	if magic != EnvelopeMagic {
		return cnt.n, fmt.Errorf("%w: 0x%08x", persistence.ErrInvalidMagic, magic)
	}

	version, err := br.ReadUint16()
	if err != nil {
		return cnt.n, err
	}
	if version != EnvelopeVersion {
		return cnt.n, fmt.Errorf("%w: %d", persistence.ErrInvalidVersion, version)
	}

	count, err := br.ReadUint32()
	if err != nil {
		return cnt.n, err
	}

	loaded := New()
	for i := uint32(0); i < count; i++ {
		nameLen, err := br.ReadUint16()
		if err != nil {
			return cnt.n, err
		}
		name, err := persistence.ReadCapped(cr, int(nameLen))
		if err != nil {
			return cnt.n, err
		}

		dataLen, err := br.ReadUint64()
		if err != nil {
			return cnt.n, err
		}
		if dataLen > math.MaxInt64 {
			return cnt.n, fmt.Errorf("%w: blob %q claims %d bytes", ErrMalformed, name, dataLen)
		}
		data, err := persistence.ReadCapped(cr, int(dataLen))
		if err != nil {
			return cnt.n, err
		}

		if loaded.Contains(string(name)) {
			return cnt.n, fmt.Errorf("%w: duplicate blob %q", ErrMalformed, name)
		}
		loaded.Append(string(name), data)
	}

	expected, err := persistence.NewBinaryReader(cnt).ReadUint32()
	if err != nil {
		return cnt.n, err
	}
	if err := cr.Verify(expected); err != nil {
		return cnt.n, err
	}

	*s = *loaded
	return cnt.n, nil
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
