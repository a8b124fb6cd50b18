package signup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the form's Prometheus metrics.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "signup").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for draft write duration.
	// Default: prometheus.DefBuckets
	Buckets []float64
}

// MetricsOption configures the form's Prometheus metrics.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) {
		c.Namespace = namespace
	}
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) {
		c.ConstLabels = labels
	}
}

// Metrics holds the Prometheus collectors for a form.
// A nil *Metrics records nothing.
type Metrics struct {
	submissions   *prometheus.CounterVec
	draftWrites   *prometheus.CounterVec
	draftDuration prometheus.Histogram
	fieldChanges  prometheus.Counter
}

// NewMetrics registers the form collectors with reg.
func NewMetrics(reg prometheus.Registerer, opts ...MetricsOption) *Metrics {
	config := MetricsConfig{
		Namespace: "signup",
		Buckets:   prometheus.DefBuckets,
	}
	for _, opt := range opts {
		opt(&config)
	}

	factory := promauto.With(reg)

	return &Metrics{
		submissions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "submissions_total",
			Help:        "Total number of form submissions by result",
			ConstLabels: config.ConstLabels,
		}, []string{"result"}),

		draftWrites: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "draft_writes_total",
			Help:        "Total number of draft writes by status",
			ConstLabels: config.ConstLabels,
		}, []string{"status"}),

		draftDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace:   config.Namespace,
			Name:        "draft_write_duration_seconds",
			Help:        "Draft write duration in seconds",
			ConstLabels: config.ConstLabels,
			Buckets:     config.Buckets,
		}),

		fieldChanges: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   config.Namespace,
			Name:        "field_changes_total",
			Help:        "Total number of form value changes",
			ConstLabels: config.ConstLabels,
		}),
	}
}

func (m *Metrics) recordSubmission(result string) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(result).Inc()
}

func (m *Metrics) recordDraftWrite(status string, seconds float64) {
	if m == nil {
		return
	}
	m.draftWrites.WithLabelValues(status).Inc()
	m.draftDuration.Observe(seconds)
}

func (m *Metrics) recordChanges(n int) {
	if m == nil {
		return
	}
	m.fieldChanges.Add(float64(n))
}
