package fincore

import (
	"os"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"

	"github.com/hupe1980/fincore/internal/mmap"
)

// DefaultWindowPages is the number of pages covered by one mapping
// window. For large files mmap is called iteratively, one window at a
// time; with 4KiB pages the default window spans 128MiB of the file.
const DefaultWindowPages = 32 * 1024

// scan walks the file in window-sized steps and accumulates the resident
// page count. It either succeeds for the whole file or returns an error
// with no partial total; remaining windows are not attempted after a
// failure.
func (p *Prober) scan(f *os.File, size int64, pm *roaring64.Bitmap) (int64, error) {
	windowBytes := int64(p.windowPages) * int64(p.pageSize)

	var total int64

	for offset := int64(0); offset < size; offset += windowBytes {
		length := size - offset
		if length > windowBytes {
			length = windowBytes
		}

		n, err := p.scanWindow(f, offset, int(length), pm)
		if err != nil {
			return 0, err
		}

		total += n
	}

	return total, nil
}

// scanWindow maps one window of the file, counts its resident pages and
// unmaps it again. At most one window is mapped at any time.
func (p *Prober) scanWindow(f *os.File, offset int64, length int, pm *roaring64.Bitmap) (int64, error) {
	start := time.Now()

	w, err := mmap.Map(f, offset, length)
	if err != nil {
		return 0, &ErrWindowMap{Offset: offset, Length: length, cause: err}
	}
	defer w.Close()

	n, pages, err := p.countResident(w, pm)
	if err != nil {
		return 0, err
	}

	p.metrics.RecordWindow(pages, n, time.Since(start))

	return n, nil
}

// countResident fills the residency buffer for the mapped window and
// consumes every entry it just wrote. Set entries are reset as they are
// consumed so that a shorter window later on cannot observe stale flags
// from this one.
func (p *Prober) countResident(w *mmap.Window, pm *roaring64.Bitmap) (int64, int, error) {
	pages := (w.Len() + p.pageSize - 1) / p.pageSize

	vec := p.buf[:pages]
	if err := w.Residency(vec); err != nil {
		return 0, 0, &ErrResidencyQuery{Offset: w.Offset(), cause: err}
	}

	windowPage := uint64(w.Offset() / int64(p.pageSize))

	var n int64
	for i := pages - 1; i >= 0; i-- {
		if vec[i]&0x1 != 0 {
			vec[i] = 0
			n++

			if pm != nil {
				pm.Add(windowPage + uint64(i))
			}
		}
	}

	return n, pages, nil
}
