//go:build linux

package fincore

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/fincore/internal/mmap"
)

func writeTestFile(t *testing.T, size int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "probe_test")
	err := os.WriteFile(path, bytes.Repeat([]byte{'x'}, size), 0o600)
	require.NoError(t, err)

	return path
}

func TestProber_EmptyFile(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	p := New(WithMetrics(metrics), WithLogger(NoopLogger()))

	m := p.ProbeFile(writeTestFile(t, 0))

	require.False(t, m.Failed())
	assert.Equal(t, StatusOK, m.Status)
	assert.Equal(t, int64(0), m.Size)
	assert.Equal(t, int64(0), m.ResidentPages)

	// The mapping/query path must not run for an empty file.
	assert.Equal(t, int64(0), metrics.WindowCount.Load())
	assert.Equal(t, int64(1), metrics.ProbeCount.Load())
}

func TestProber_OpenFailedContinuesBatch(t *testing.T) {
	p := New(WithLogger(NoopLogger()))

	m := p.ProbeFile("/no/such/file")
	require.True(t, m.Failed())
	assert.Equal(t, StatusOpenFailed, m.Status)
	assert.Error(t, m.Err)

	// The prober stays usable for the next path.
	m = p.ProbeFile(writeTestFile(t, os.Getpagesize()))
	assert.Equal(t, StatusOK, m.Status)
}

func TestProber_CountWithinBounds(t *testing.T) {
	p := New(WithLogger(NoopLogger()))

	size := 2*os.Getpagesize() + os.Getpagesize()/2
	m := p.ProbeFile(writeTestFile(t, size))

	require.False(t, m.Failed())
	assert.Equal(t, int64(size), m.Size)
	assert.Equal(t, int64(3), m.TotalPages(p.PageSize()))
	assert.GreaterOrEqual(t, m.ResidentPages, int64(0))
	assert.LessOrEqual(t, m.ResidentPages, int64(3))
}

func TestProber_WindowCountExactMultiple(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	p := New(WithWindowPages(1), WithMetrics(metrics), WithLogger(NoopLogger()))

	m := p.ProbeFile(writeTestFile(t, 2*os.Getpagesize()))

	require.False(t, m.Failed())
	assert.Equal(t, int64(2), metrics.WindowCount.Load())
	assert.Equal(t, int64(2), metrics.PagesScanned.Load())
}

func TestProber_FinalShortWindow(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	p := New(WithWindowPages(1), WithMetrics(metrics), WithLogger(NoopLogger()))

	// One byte past a window boundary produces a final window of length 1.
	m := p.ProbeFile(writeTestFile(t, 2*os.Getpagesize()+1))

	require.False(t, m.Failed())
	assert.Equal(t, int64(3), metrics.WindowCount.Load())
	assert.Equal(t, int64(3), metrics.PagesScanned.Load())
	assert.LessOrEqual(t, m.ResidentPages, int64(3))
}

func TestProber_MapFailedOnDirectory(t *testing.T) {
	p := New(WithLogger(NoopLogger()))

	m := p.ProbeFile(t.TempDir())

	require.True(t, m.Failed())
	assert.Equal(t, StatusMapFailed, m.Status)
	assert.Equal(t, int64(0), m.ResidentPages)
}

func TestProber_PageMap(t *testing.T) {
	p := New(WithPageMap(true), WithLogger(NoopLogger()))

	path := writeTestFile(t, 4*os.Getpagesize())

	// Read the file once so at least the read pages have a chance of
	// being resident.
	_, err := os.ReadFile(path)
	require.NoError(t, err)

	m := p.ProbeFile(path)

	require.False(t, m.Failed())
	require.NotNil(t, m.PageMap)
	assert.Equal(t, uint64(m.ResidentPages), m.PageMap.GetCardinality())

	if !m.PageMap.IsEmpty() {
		assert.Less(t, m.PageMap.Maximum(), uint64(m.TotalPages(p.PageSize())))
	}
}

func TestProber_PageMapDisabledByDefault(t *testing.T) {
	p := New(WithLogger(NoopLogger()))

	m := p.ProbeFile(writeTestFile(t, os.Getpagesize()))

	require.False(t, m.Failed())
	assert.Nil(t, m.PageMap)
}

func TestProber_QueryFailedAbortsScan(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	p := New(WithWindowPages(1), WithMetrics(metrics), WithLogger(NoopLogger()))

	// Doubling the accounting page size makes every residency vector too
	// short for the pages its window really spans, so the first window's
	// query fails.
	p.pageSize = 2 * os.Getpagesize()

	m := p.ProbeFile(writeTestFile(t, 4*os.Getpagesize()))

	require.True(t, m.Failed())
	assert.Equal(t, StatusQueryFailed, m.Status)

	var qe *ErrResidencyQuery
	require.ErrorAs(t, m.Err, &qe)
	assert.ErrorIs(t, m.Err, mmap.ErrShortVector)

	// No partial total, and the remaining windows were never queried.
	assert.Equal(t, int64(0), m.ResidentPages)
	assert.Equal(t, int64(0), metrics.WindowCount.Load())
}

func TestCountResident_ClosedWindow(t *testing.T) {
	p := New(WithLogger(NoopLogger()))

	f, err := os.Open(writeTestFile(t, os.Getpagesize()))
	require.NoError(t, err)
	defer f.Close()

	w, err := mmap.Map(f, 0, os.Getpagesize())
	require.NoError(t, err)
	require.NoError(t, w.Close())

	_, _, err = p.countResident(w, nil)

	var qe *ErrResidencyQuery
	require.ErrorAs(t, err, &qe)
	assert.Equal(t, int64(0), qe.Offset)
	assert.ErrorIs(t, err, mmap.ErrClosed)
}

func TestProber_WarningCarriesPath(t *testing.T) {
	h := &captureHandler{}
	p := New(WithLogger(NewLogger(h)))

	p.ProbeFile("/no/such/file")

	require.Len(t, h.records, 1)
	assert.Equal(t, slog.LevelWarn, h.records[0].Level)
	assert.Equal(t, "failed to open", h.records[0].Message)

	v, ok := h.attr("path")
	require.True(t, ok)
	assert.Equal(t, "/no/such/file", v.String())
}

func TestProber_Idempotent(t *testing.T) {
	p := New(WithLogger(NoopLogger()))

	path := writeTestFile(t, 3*os.Getpagesize())

	first := p.ProbeFile(path)
	second := p.ProbeFile(path)

	require.False(t, first.Failed())
	require.False(t, second.Failed())
	assert.Equal(t, first.Size, second.Size)
	assert.LessOrEqual(t, second.ResidentPages, second.TotalPages(p.PageSize()))
}
