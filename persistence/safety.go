package persistence

import (
	"encoding/binary"
	"errors"
	"fmt"
	"runtime"
	"unsafe"
)

var (
	// ErrUnsupportedArchitecture is returned when running on an unsupported CPU architecture.
	ErrUnsupportedArchitecture = errors.New("unsupported architecture: only amd64 and arm64 are supported")

	// ErrBigEndian is returned when running on a big-endian system.
	ErrBigEndian = errors.New("big-endian systems are not supported")

	// ErrUnalignedAccess is returned when a slice fails its word-alignment check.
	ErrUnalignedAccess = errors.New("unaligned memory access detected")
)

// The raw-slice reads and writes in binary.go reinterpret []uint32 and
// []uint64 backing arrays as bytes. That is only sound on little-endian
// machines with naturally aligned allocations, so the package refuses to
// start anywhere else. The build constraint in doc.go catches most of
// this at compile time; the init check catches exotic ports.
func init() {
	if err := validatePlatform(); err != nil {
		panic(fmt.Sprintf("strigo/persistence: %v", err))
	}
}

func validatePlatform() error {
	if arch := runtime.GOARCH; arch != "amd64" && arch != "arm64" {
		return fmt.Errorf("%w: %s", ErrUnsupportedArchitecture, arch)
	}
	if binary.NativeEndian.Uint16([]byte{0x01, 0x00}) != 1 {
		return ErrBigEndian
	}
	return nil
}

// validateAlignment checks that the slice's backing array starts on a
// word boundary. The Go allocator always aligns these; the check guards
// slices carved out of larger buffers by hand.
func validateAlignment[T uint32 | uint64](slice []T) error {
	if len(slice) == 0 {
		return nil
	}
	align := uintptr(unsafe.Alignof(slice[0]))
	ptr := uintptr(unsafe.Pointer(&slice[0]))
	if ptr%align != 0 {
		return fmt.Errorf("%w: %d-byte words at address 0x%x", ErrUnalignedAccess, align, ptr)
	}
	return nil
}
