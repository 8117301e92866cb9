package state

import (
	"time"

	"github.com/dogechain-lab/smartwallet/helper/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics represents the executor metrics
type Metrics struct {
	// Submitted requests
	submissions prometheus.Counter
	// Requests rolled back as a whole
	reverted prometheus.Counter
	// Authorizations consumed
	authApplied prometheus.Counter
	// Authorizations refused
	authRejected prometheus.Counter
	// Owners set by initialize
	initializations prometheus.Counter
	// Submit duration in milliseconds
	submitTime prometheus.Histogram
}

func (m *Metrics) collectors() []prometheus.Collector {
	cs := []prometheus.Collector{}

	for _, c := range []prometheus.Collector{
		m.submissions, m.reverted, m.authApplied, m.authRejected, m.initializations, m.submitTime,
	} {
		if c != nil {
			cs = append(cs, c)
		}
	}

	return cs
}

// Register registers the collectors on reg
func (m *Metrics) Register(reg prometheus.Registerer) {
	for _, c := range m.collectors() {
		reg.MustRegister(c)
	}
}

func (m *Metrics) observe(out *Outcome, start time.Time) {
	metrics.CounterInc(m.submissions)
	metrics.ObserveSince(m.submitTime, start)

	if out.Reverted {
		metrics.CounterInc(m.reverted)
	}

	for _, res := range out.Results {
		if IsFatal(res.Err) {
			metrics.CounterInc(m.authRejected)
		} else if !out.Reverted {
			metrics.CounterInc(m.authApplied)
		}
	}
}

func (m *Metrics) initialized() {
	metrics.CounterInc(m.initializations)
}

// GetPrometheusMetrics return the executor metrics instance
func GetPrometheusMetrics(namespace string, labelsWithValues ...string) *Metrics {
	constLabels := metrics.ParseLabels(labelsWithValues...)

	counter := func(name string) prometheus.Counter {
		return prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Subsystem:   "delegation",
			Name:        name,
			Help:        metrics.Help(name),
			ConstLabels: constLabels,
		})
	}

	return &Metrics{
		submissions:     counter("submissions"),
		reverted:        counter("reverted_submissions"),
		authApplied:     counter("authorizations_applied"),
		authRejected:    counter("authorizations_rejected"),
		initializations: counter("initializations"),
		submitTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Subsystem:   "delegation",
			Name:        "submit_time",
			Help:        "Submit time (milliseconds)",
			ConstLabels: constLabels,
		}),
	}
}

// NilMetrics will return the non operational executor metrics
func NilMetrics() *Metrics {
	return &Metrics{}
}
