package fincore

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordProbe is called once per probed file.
	// duration is the total time taken, err is nil if successful.
	RecordProbe(duration time.Duration, err error)

	// RecordWindow is called after each successfully queried window.
	// pages is the number of pages covered by the window, resident the
	// number of them found in core.
	RecordWindow(pages int, resident int64, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordProbe(time.Duration, error)       {}
func (NoopMetricsCollector) RecordWindow(int, int64, time.Duration) {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	ProbeCount      atomic.Int64
	ProbeErrors     atomic.Int64
	ProbeTotalNanos atomic.Int64
	WindowCount     atomic.Int64
	PagesScanned    atomic.Int64
	PagesResident   atomic.Int64
}

func (c *BasicMetricsCollector) RecordProbe(duration time.Duration, err error) {
	c.ProbeCount.Add(1)
	if err != nil {
		c.ProbeErrors.Add(1)
	}
	c.ProbeTotalNanos.Add(duration.Nanoseconds())
}

func (c *BasicMetricsCollector) RecordWindow(pages int, resident int64, duration time.Duration) {
	c.WindowCount.Add(1)
	c.PagesScanned.Add(int64(pages))
	c.PagesResident.Add(resident)
}
