package fincore

type options struct {
	windowPages int
	pageMap     bool
	logger      *Logger
	metrics     MetricsCollector
}

// Option configures Prober construction behavior.
type Option func(*options)

func applyOptions(optFns []Option) options {
	o := options{
		windowPages: DefaultWindowPages,
		logger:      NewLogger(nil),
		metrics:     NoopMetricsCollector{},
	}

	for _, fn := range optFns {
		fn(&o)
	}

	return o
}

// WithWindowPages configures the number of pages covered by one mapping
// window. The residency buffer is sized from the same value, so a window
// can never outgrow the buffer.
//
// If n is not positive, DefaultWindowPages is used.
func WithWindowPages(n int) Option {
	return func(o *options) {
		if n <= 0 {
			n = DefaultWindowPages
		}
		o.windowPages = n
	}
}

// WithPageMap configures whether the indices of resident pages are
// recorded in Measurement.PageMap in addition to the count.
func WithPageMap(enabled bool) Option {
	return func(o *options) {
		o.pageMap = enabled
	}
}

// WithLogger configures the logger used for per-file warnings.
//
// If nil is passed, the default text logger is used.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NewLogger(nil)
		}
		o.logger = l
	}
}

// WithMetrics configures the metrics collector.
//
// If nil is passed, metrics collection is disabled.
func WithMetrics(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metrics = mc
	}
}
