//go:build linux

package mmap

import (
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

func osMap(f *os.File, offset int64, length int) ([]byte, error) {
	// PROT_NONE keeps the kernel from materializing page contents as a
	// side effect of the mapping call; mincore works regardless of the
	// mapping protection.
	return unix.Mmap(int(f.Fd()), offset, length, unix.PROT_NONE, unix.MAP_PRIVATE)
}

func osUnmap(data []byte) error {
	return unix.Munmap(data)
}

func osResidency(data, vec []byte) error {
	ret, _, errno := unix.Syscall(
		unix.SYS_MINCORE,
		uintptr(unsafe.Pointer(&data[0])),
		uintptr(len(data)),
		uintptr(unsafe.Pointer(&vec[0])),
	)
	if ret != 0 {
		return errno
	}
	return nil
}
