package hash

import (
	"hash"
	"hash/crc32"
)

// castagnoli is computed once at startup; MakeTable is not free.
var castagnoli = crc32.MakeTable(crc32.Castagnoli)

// CRC32C returns the CRC32-Castagnoli checksum of data. The stdlib routine
// uses SSE4.2 or the ARM CRC extension when the CPU has it.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoli)
}

// NewCRC32C returns a streaming CRC32-Castagnoli hash.
func NewCRC32C() hash.Hash32 {
	return crc32.New(castagnoli)
}
