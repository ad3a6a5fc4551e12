package strigo

import (
	"log/slog"

	"github.com/hupe1980/strigo/binaryset"
)

type options struct {
	engine           Engine
	metricsCollector MetricsCollector
	logger           *Logger
	sliceOptions     []binaryset.SliceOption
	transferOptions  []binaryset.TransferOption
}

// Option configures an Index at construction time.
type Option func(*options)

// WithEngine replaces the default trie engine. The engine must be empty;
// Build or Load populates it.
//
// If nil is passed, the default engine is used.
func WithEngine(e Engine) Option {
	return func(o *options) {
		o.engine = e
	}
}

// WithSliceSize caps the size of the segment slices Serialize hands to the
// storage tier. Segments larger than this are split into numbered slices.
func WithSliceSize(n int) Option {
	return func(o *options) {
		o.sliceOptions = append(o.sliceOptions, binaryset.WithSliceSize(n))
	}
}

// WithCompression compresses segment slices during Serialize. Load
// decompresses transparently regardless of this option.
func WithCompression(c binaryset.CompressionType) Option {
	return func(o *options) {
		o.sliceOptions = append(o.sliceOptions, binaryset.WithCompression(c))
	}
}

// WithTransferOptions configures the blob transfers performed by Save and
// Open, for example concurrency or a shared resource controller.
func WithTransferOptions(opts ...binaryset.TransferOption) Option {
	return func(o *options) {
		o.transferOptions = append(o.transferOptions, opts...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring
// operations. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &strigo.BasicMetricsCollector{}
//	idx := strigo.New(strigo.WithMetricsCollector(metrics))
//	// ... build and query ...
//	stats := metrics.GetStats()
//	fmt.Printf("Queries: %d, Avg latency: %dns\n", stats.QueryCount, stats.QueryAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
//
// Example with JSON logging:
//
//	logger := strigo.NewJSONLogger(slog.LevelInfo)
//	idx := strigo.New(strigo.WithLogger(logger))
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
