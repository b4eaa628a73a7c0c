package probe

import (
	"fmt"
	"io"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/prometheus/common/expfmt"
)

// Metrics holds the Prometheus instruments for the prober.
type Metrics struct {
	registry *prometheus.Registry
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
	up       *prometheus.GaugeVec
}

// NewMetrics creates and registers the prober metrics on a private
// registry, so repeated construction in tests cannot collide.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tictoc_probe_duration_seconds",
				Help:    "Elapsed monotonic time of each probe round trip",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 14),
			},
			[]string{"target"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tictoc_probe_failures_total",
				Help: "Total probes that failed after retries",
			},
			[]string{"target"},
		),
		up: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "tictoc_probe_up",
				Help: "Whether the last probe of the target succeeded",
			},
			[]string{"target"},
		),
	}

	m.registry.MustRegister(m.duration)
	m.registry.MustRegister(m.failures)
	m.registry.MustRegister(m.up)

	return m
}

// Observe records a successful probe duration in seconds.
func (m *Metrics) Observe(target string, seconds float64) {
	m.duration.WithLabelValues(target).Observe(seconds)
	m.up.WithLabelValues(target).Set(1)
}

// Fail records a failed probe.
func (m *Metrics) Fail(target string) {
	m.failures.WithLabelValues(target).Inc()
	m.up.WithLabelValues(target).Set(0)
}

// Handler serves the registry in Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Dump writes the current metric families to w in Prometheus text
// format. Used by one-shot mode instead of running the HTTP server.
func (m *Metrics) Dump(w io.Writer) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}

	encoder := expfmt.NewEncoder(w, expfmt.FmtText)
	for _, mf := range families {
		if err := encoder.Encode(mf); err != nil {
			return fmt.Errorf("failed to encode metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
