package statesync

import (
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// engineConfig holds resolved engine options.
type engineConfig struct {
	immediate     bool
	deep          bool
	debug         bool
	bidirectional bool
	logger        *slog.Logger
	metrics       *Metrics
	tracer        trace.Tracer
	observer      Observer
}

func defaultConfig() engineConfig {
	return engineConfig{
		immediate: true,
		logger:    slog.Default(),
	}
}

// Option configures a Synchronize call.
type Option interface {
	isOption()
	apply(cfg *engineConfig)
}

type optionFunc func(*engineConfig)

func (f optionFunc) isOption()               {}
func (f optionFunc) apply(cfg *engineConfig) { f(cfg) }

// DeepCompare switches the engine-wide change detection from shallow
// (reference/primitive) to structural equality. Individual mappings can
// override either way via Mapping.Deep.
func DeepCompare() Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.deep = true
	})
}

// NoImmediate suppresses the initial evaluation at registration time.
// By default every mapping fires once immediately so targets start in
// sync with the source.
func NoImmediate() Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.immediate = false
	})
}

// Debug enables per-update debug logging and the one-time-per-path
// missing-path diagnostic.
func Debug() Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.debug = true
	})
}

// Bidirectional enables target-to-source write-back for every mapping.
// Per-mapping Mapping.Bidirectional enables it selectively instead.
func Bidirectional() Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.bidirectional = true
	})
}

// WithLogger sets the logger used for engine diagnostics.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(cfg *engineConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	})
}

// WithMetrics attaches Prometheus metrics to the engine. The same Metrics
// instance can be shared by several engines.
func WithMetrics(m *Metrics) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.metrics = m
	})
}

// WithTracer enables an OpenTelemetry span per processed update.
func WithTracer(tracer trace.Tracer) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.tracer = tracer
	})
}

// WithObserver attaches an observer that receives one Event per processed
// update, e.g. the devtool event hub.
func WithObserver(o Observer) Option {
	return optionFunc(func(cfg *engineConfig) {
		cfg.observer = o
	})
}
