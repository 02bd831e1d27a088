package mirrorview

import "time"

// Option configures an Engine with optional dependencies.
type Option func(*engineOptions)

// engineOptions holds optional Engine configuration.
type engineOptions struct {
	strategy SelectionStrategy
	metrics  MetricsCollector
	logger   Logger
	clock    func() time.Time
}

// WithStrategy sets a custom selection strategy, overriding the one derived
// from the configuration (stratified when Buckets is set, quota otherwise).
//
// Parameters:
//   - strategy: SelectionStrategy implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	s := strategy.NewQuota(3, strategy.WithStrict())
//	engine, err := mirrorview.New(cfg, stores, provider, mirrorview.WithStrategy(s))
func WithStrategy(strategy SelectionStrategy) Option {
	return func(o *engineOptions) {
		o.strategy = strategy
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	collector := metrics.NewPrometheus(nil, "mirrorview")
//	engine, err := mirrorview.New(cfg, stores, provider, mirrorview.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *engineOptions) {
		o.metrics = metrics
	}
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	logger := logging.NewSlogDefault()
//	engine, err := mirrorview.New(cfg, stores, provider, mirrorview.WithLogger(logger))
func WithLogger(logger Logger) Option {
	return func(o *engineOptions) {
		o.logger = logger
	}
}

// WithClock sets the time source used for reservation and commit timestamps.
// Tests inject a fixed clock to get deterministic documents.
//
// Parameters:
//   - clock: Function returning the current time
//
// Returns:
//   - Option: Functional option for New
func WithClock(clock func() time.Time) Option {
	return func(o *engineOptions) {
		o.clock = clock
	}
}
