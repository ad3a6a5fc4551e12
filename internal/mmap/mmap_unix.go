//go:build unix

package mmap

import (
	"os"

	"golang.org/x/sys/unix"
)

func mapFile(f *os.File, size int) ([]byte, func() error, error) {
	data, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return nil, nil, err
	}
	return data, func() error { return unix.Munmap(data) }, nil
}

func advise(data []byte, a Advice) error {
	var hint int
	switch a {
	case AdviceSequential:
		hint = unix.MADV_SEQUENTIAL
	case AdviceRandom:
		hint = unix.MADV_RANDOM
	case AdviceWillNeed:
		hint = unix.MADV_WILLNEED
	case AdviceDontNeed:
		hint = unix.MADV_DONTNEED
	default:
		hint = unix.MADV_NORMAL
	}

	// madvise wants page-aligned addresses on Linux. The hint is advisory,
	// so an EINVAL from an unaligned slice is not worth surfacing.
	if err := unix.Madvise(data, hint); err != nil && err != unix.EINVAL {
		return err
	}
	return nil
}
