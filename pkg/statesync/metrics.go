package statesync

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the engine's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "statesync").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the engine metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithSubsystem sets the metrics subsystem.
func WithSubsystem(subsystem string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Subsystem = subsystem
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// WithRegistry sets the Prometheus registry to register metrics with.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

// Metrics holds the engine's Prometheus collectors. One Metrics instance
// can be shared across engines; attach it with WithMetrics.
type Metrics struct {
	// updates counts processed updates by result
	// (applied, suppressed, skipped, error).
	updates *prometheus.CounterVec

	// stageErrors counts non-fatal pipeline stage failures by stage.
	stageErrors *prometheus.CounterVec

	// pathMisses counts path resolutions that found nothing.
	pathMisses prometheus.Counter

	// activeMappings tracks currently registered mappings.
	activeMappings prometheus.Gauge
}

// NewMetrics creates and registers the engine metrics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	cfg := MetricsConfig{
		Namespace: "statesync",
		Registry:  prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	factory := promauto.With(cfg.Registry)

	return &Metrics{
		updates: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "updates_total",
			Help:        "Processed synchronization updates by result.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"result"}),
		stageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "stage_errors_total",
			Help:        "Non-fatal pipeline stage failures by stage.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"stage"}),
		pathMisses: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "path_misses_total",
			Help:        "Path resolutions that did not find a value in the source.",
			ConstLabels: cfg.ConstLabels,
		}),
		activeMappings: factory.NewGauge(prometheus.GaugeOpts{
			Namespace:   cfg.Namespace,
			Subsystem:   cfg.Subsystem,
			Name:        "active_mappings",
			Help:        "Currently registered synchronization mappings.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}
