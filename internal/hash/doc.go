// Package hash provides the CRC32-Castagnoli (CRC32C) helpers used to
// validate object-store uploads. S3 verifies CRC32C server-side, so the
// multipart uploader attaches a per-part checksum computed here. The
// polynomial is hardware-accelerated on amd64 (SSE4.2) and arm64 (CRC
// extension).
//
// Segment files on disk carry a CRC32-IEEE trailer instead; see the
// persistence package.
//
// One-shot:
//
//	checksum := hash.CRC32C(data)
//
// Streaming:
//
//	h := hash.NewCRC32C()
//	h.Write(chunk1)
//	h.Write(chunk2)
//	checksum := h.Sum32()
package hash
