//go:build amd64 || arm64

// Package persistence provides the binary codec for index segments: a
// little-endian writer/reader pair, raw-word slice IO, CRC32 framing
// helpers, and atomic save/load of segment files.
//
// Slice IO reinterprets []uint32 and []uint64 backing arrays as bytes
// (no copy, no per-element encoding). That ties the format to
// little-endian machines with natural alignment, which the build
// constraint above and a startup check in safety.go enforce. Misaligned
// input data is still decoded correctly via a copying fallback.
package persistence
