package fincore

import "fmt"

// ErrWindowMap indicates that mapping a window of the file failed.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrWindowMap struct {
	Offset int64
	Length int
	cause  error
}

func (e *ErrWindowMap) Error() string {
	return fmt.Sprintf("mmap window [%d, %d) failed: %v", e.Offset, e.Offset+int64(e.Length), e.cause)
}

func (e *ErrWindowMap) Unwrap() error { return e.cause }

// ErrResidencyQuery indicates that the kernel residency query failed on
// a mapped window.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrResidencyQuery struct {
	Offset int64
	cause  error
}

func (e *ErrResidencyQuery) Error() string {
	return fmt.Sprintf("mincore at offset %d failed: %v", e.Offset, e.cause)
}

func (e *ErrResidencyQuery) Unwrap() error { return e.cause }
