// Package fincore reports how many pages of a file's contents currently
// reside in the operating system's page cache.
//
// Measurement is non-intrusive: file ranges are mapped with no-access
// protection so the probe itself never faults pages in, and only the
// kernel's existing residency record (mincore) is consulted. Large files
// are scanned through a bounded mapping window, so peak virtual address
// space and scratch memory are independent of file size.
//
// # Quick Start
//
//	prober := fincore.New()
//
//	m := prober.ProbeFile("/etc/passwd")
//	if m.Failed() {
//	    log.Fatal(m.Err)
//	}
//	fmt.Printf("%d of %d pages in core\n", m.ResidentPages, m.TotalPages(prober.PageSize()))
//
// # Options
//
// Probing behavior is configured through functional options:
//
//	prober := fincore.New(
//	    fincore.WithWindowPages(64 * 1024),       // window size in pages
//	    fincore.WithPageMap(true),                // record resident page indices
//	    fincore.WithLogger(fincore.NoopLogger()), // silence warnings
//	    fincore.WithMetrics(collector),           // operational metrics
//	)
//
// A Prober reuses a single residency buffer across windows and files and
// is therefore not safe for concurrent use; create one Prober per
// goroutine.
package fincore

import (
	"errors"
	"os"
	"time"

	"github.com/RoaringBitmap/roaring/v2/roaring64"
)

// Prober measures page cache residency of files.
type Prober struct {
	pageSize    int
	windowPages int
	buf         []byte
	pageMap     bool
	logger      *Logger
	metrics     MetricsCollector
}

// New creates a Prober. The system page size is queried once here and
// treated as a constant for the Prober's lifetime.
func New(optFns ...Option) *Prober {
	o := applyOptions(optFns)

	return &Prober{
		pageSize:    os.Getpagesize(),
		windowPages: o.windowPages,
		// The buffer holds one residency entry per page of a window. It
		// is sized from the same value as the window itself, so a window
		// can never outgrow it.
		buf:     make([]byte, o.windowPages),
		pageMap: o.pageMap,
		logger:  o.logger,
		metrics: o.metrics,
	}
}

// PageSize returns the system page size used for accounting.
func (p *Prober) PageSize() int {
	return p.pageSize
}

// ProbeFile measures the file at path and returns a finalized
// Measurement. Failures are contained per file: an error probing one
// path never affects probing of the next.
func (p *Prober) ProbeFile(path string) Measurement {
	start := time.Now()

	m := p.probe(path)
	p.metrics.RecordProbe(time.Since(start), m.Err)

	return m
}

func (p *Prober) probe(path string) Measurement {
	m := Measurement{Path: path}

	logger := p.logger.WithPath(path)

	f, err := os.Open(path)
	if err != nil {
		logger.Warn("failed to open", "error", err)
		m.Status = StatusOpenFailed
		m.Err = err
		return m
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		logger.Warn("failed to do fstat", "error", err)
		m.Status = StatusStatFailed
		m.Err = err
		return m
	}
	m.Size = fi.Size()

	// Mapping a zero-length range is invalid; an empty file simply has
	// no resident pages.
	if m.Size == 0 {
		m.Status = StatusOK
		return m
	}

	var pm *roaring64.Bitmap
	if p.pageMap {
		pm = roaring64.NewBitmap()
	}

	total, err := p.scan(f, m.Size, pm)
	if err != nil {
		var (
			me *ErrWindowMap
			qe *ErrResidencyQuery
		)
		switch {
		case errors.As(err, &me):
			logger.Warn("failed to do mmap", "offset", me.Offset, "error", err)
			m.Status = StatusMapFailed
		case errors.As(err, &qe):
			logger.Warn("failed to do mincore", "offset", qe.Offset, "error", err)
			m.Status = StatusQueryFailed
		default:
			logger.Warn("probe failed", "error", err)
			m.Status = StatusQueryFailed
		}
		m.Err = err
		return m
	}

	m.ResidentPages = total
	m.PageMap = pm
	m.Status = StatusOK

	logger.Debug("probe completed",
		"size", m.Size,
		"resident_pages", total,
	)

	return m
}
