package fincore

import "github.com/RoaringBitmap/roaring/v2/roaring64"

// Status classifies the outcome of probing a single file.
type Status int

const (
	// StatusOK means the file was measured completely.
	StatusOK Status = iota
	// StatusOpenFailed means the file could not be opened; its size is unknown.
	StatusOpenFailed
	// StatusStatFailed means the file size could not be obtained after a successful open.
	StatusStatFailed
	// StatusMapFailed means the first window mapping failed.
	StatusMapFailed
	// StatusQueryFailed means the kernel residency query failed mid-scan.
	StatusQueryFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusOpenFailed:
		return "open failed"
	case StatusStatFailed:
		return "fstat failed"
	case StatusMapFailed:
		return "mmap failed"
	case StatusQueryFailed:
		return "mincore failed"
	default:
		return "unknown"
	}
}

// Measurement is the result of probing one file. It is finalized when
// ProbeFile returns and never mutated afterwards.
//
// No partial totals are reported: ResidentPages is only meaningful when
// Status is StatusOK. Size is unknown when Status is StatusOpenFailed.
type Measurement struct {
	Path          string
	Size          int64
	ResidentPages int64
	Status        Status
	Err           error

	// PageMap holds the file-relative indices of the resident pages. It
	// is only populated when the Prober was created with WithPageMap.
	PageMap *roaring64.Bitmap
}

// Failed reports whether the measurement ended in any failure state.
func (m Measurement) Failed() bool {
	return m.Status != StatusOK
}

// TotalPages returns the number of pages spanned by the file, i.e. the
// upper bound for ResidentPages.
func (m Measurement) TotalPages(pageSize int) int64 {
	if m.Size <= 0 || pageSize <= 0 {
		return 0
	}
	return (m.Size + int64(pageSize) - 1) / int64(pageSize)
}
