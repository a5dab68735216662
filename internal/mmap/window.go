package mmap

import (
	"os"
	"sync/atomic"
)

// pagesize is queried once; the kernel's mapping and residency
// granularity cannot change within a process lifetime.
var pagesize = os.Getpagesize()

// Window represents a read-only, non-populating mapping of one byte range
// of a file. It owns the mapped region and is responsible for unmapping it.
type Window struct {
	data   []byte
	offset int64
	closed atomic.Bool
}

// Map maps [offset, offset+length) of f with no-access protection.
// offset must be non-negative and a multiple of the system page size,
// length must be positive.
func Map(f *os.File, offset int64, length int) (*Window, error) {
	if length <= 0 {
		return nil, ErrInvalidLength
	}
	if offset < 0 || offset%int64(pagesize) != 0 {
		return nil, ErrMisalignedOffset
	}

	data, err := osMap(f, offset, length)
	if err != nil {
		return nil, err
	}

	return &Window{data: data, offset: offset}, nil
}

// Close unmaps the window. It is idempotent.
func (w *Window) Close() error {
	if w.closed.Swap(true) {
		return nil // Already closed
	}
	if w.data != nil {
		return osUnmap(w.data)
	}
	return nil
}

// Len returns the mapped length in bytes.
func (w *Window) Len() int {
	return len(w.data)
}

// Offset returns the byte offset of the window within the file.
func (w *Window) Offset() int64 {
	return w.offset
}

// Residency fills vec with one entry per mapped page, bit 0 set when the
// page is currently resident in the page cache. vec must hold at least
// ceil(Len()/pagesize) entries; entries beyond the page count are left
// untouched.
func (w *Window) Residency(vec []byte) error {
	if w.closed.Load() {
		return ErrClosed
	}

	pages := (len(w.data) + pagesize - 1) / pagesize
	if len(vec) < pages {
		return ErrShortVector
	}

	return osResidency(w.data, vec[:pages])
}
