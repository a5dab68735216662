package mmap

import "errors"

var (
	// ErrClosed is returned when attempting to access a closed window.
	ErrClosed = errors.New("mmap: window is closed")
	// ErrInvalidLength is returned when the requested window length is not positive.
	ErrInvalidLength = errors.New("mmap: invalid window length")
	// ErrMisalignedOffset is returned when the window offset is negative or not page-aligned.
	ErrMisalignedOffset = errors.New("mmap: offset is not page-aligned")
	// ErrShortVector is returned when the residency vector cannot hold one entry per mapped page.
	ErrShortVector = errors.New("mmap: residency vector too short")
	// ErrUnsupported is returned on platforms without mmap/mincore support.
	ErrUnsupported = errors.New("mmap: not supported on this platform")
)
