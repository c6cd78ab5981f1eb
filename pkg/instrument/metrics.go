package instrument

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/vango-dev/reactivity/pkg/reactivity"
)

// MetricsConfig configures the Prometheus observer.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "reactivity").
	Namespace string

	// Subsystem is the metrics subsystem (default: "").
	Subsystem string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for effect run duration.
	// Default: prometheus.DefBuckets
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus observer.
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

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) {
		c.Buckets = buckets
	}
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) {
		c.Registry = registry
	}
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "reactivity",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// Metrics is an Observer that records Prometheus metrics:
//
//   - reactivity_tracks_total: reads made while an effect was active
//   - reactivity_subscriptions_total: reads that added a subscription
//   - reactivity_triggers_total: triggers by source
//   - reactivity_trigger_fanout: subscribers notified per trigger
//   - reactivity_effect_runs_total: effect runs by kind (effect, computed)
//   - reactivity_effect_run_duration_seconds: effect run duration by kind
//   - reactivity_targets, reactivity_subscribers: registry size, read at
//     scrape time
type Metrics struct {
	tracks        prometheus.Counter
	subscriptions prometheus.Counter
	triggers      *prometheus.CounterVec
	fanout        prometheus.Histogram
	runs          *prometheus.CounterVec
	runDuration   *prometheus.HistogramVec
}

var _ reactivity.Observer = (*Metrics)(nil)

// NewMetrics registers the metrics with the configured registry and returns
// the observer. Registering twice with the same registry panics.
func NewMetrics(opts ...MetricsOption) *Metrics {
	config := defaultMetricsConfig()
	for _, opt := range opts {
		opt(&config)
	}
	factory := promauto.With(config.Registry)

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "targets",
		Help:        "Number of reactive targets in the registry",
		ConstLabels: config.ConstLabels,
	}, func() float64 { return float64(reactivity.ReadStats().Targets) })

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace:   config.Namespace,
		Subsystem:   config.Subsystem,
		Name:        "subscribers",
		Help:        "Number of effect subscriptions held by target properties",
		ConstLabels: config.ConstLabels,
	}, func() float64 { return float64(reactivity.ReadStats().Subscriptions) })

	return &Metrics{
		tracks: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "tracks_total",
			Help:        "Total number of reads made while an effect was active",
			ConstLabels: config.ConstLabels,
		}),

		subscriptions: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "subscriptions_total",
			Help:        "Total number of reads that subscribed an effect",
			ConstLabels: config.ConstLabels,
		}),

		triggers: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "triggers_total",
			Help:        "Total number of triggers with at least one subscriber",
			ConstLabels: config.ConstLabels,
		}, []string{"source"}),

		fanout: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "trigger_fanout",
			Help:        "Subscribers notified per trigger",
			ConstLabels: config.ConstLabels,
			Buckets:     []float64{1, 2, 4, 8, 16, 32, 64, 128},
		}),

		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_runs_total",
			Help:        "Total number of effect runs",
			ConstLabels: config.ConstLabels,
		}, []string{"kind"}),

		runDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Subsystem:   config.Subsystem,
			Name:        "effect_run_duration_seconds",
			Help:        "Effect run duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}, []string{"kind"}),
	}
}

// OnTrack implements reactivity.Observer.
func (m *Metrics) OnTrack(_ context.Context, ev reactivity.TrackEvent) {
	m.tracks.Inc()
	if ev.New {
		m.subscriptions.Inc()
	}
}

// OnTrigger implements reactivity.Observer.
func (m *Metrics) OnTrigger(ctx context.Context, ev reactivity.TriggerEvent) (context.Context, func()) {
	m.triggers.WithLabelValues(ev.Source.String()).Inc()
	m.fanout.Observe(float64(ev.Subscribers))
	return ctx, nil
}

// OnRun implements reactivity.Observer.
func (m *Metrics) OnRun(ctx context.Context, ev reactivity.RunEvent) (context.Context, func()) {
	kind := runKind(ev)
	m.runs.WithLabelValues(kind).Inc()
	start := time.Now()
	return ctx, func() {
		m.runDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	}
}

func runKind(ev reactivity.RunEvent) string {
	if ev.Computed {
		return "computed"
	}
	return "effect"
}
