// Package metrics exposes Prometheus counters for GST rate resolution.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"gstrate/internal/domain"
)

// Metrics holds the resolver counters. A nil *Metrics is valid and records nothing.
type Metrics struct {
	resolutions      *prometheus.CounterVec
	providerFailures *prometheus.CounterVec
	providerSkips    *prometheus.CounterVec
}

// New creates the counters and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		resolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gstrate",
			Name:      "resolutions_total",
			Help:      "GST rate resolutions by the source that answered.",
		}, []string{"source"}),
		providerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gstrate",
			Name:      "provider_failures_total",
			Help:      "Failed external tax rate lookups by provider.",
		}, []string{"provider"}),
		providerSkips: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "gstrate",
			Name:      "provider_skips_total",
			Help:      "Lookups that skipped a provider because it was rate limited.",
		}, []string{"provider"}),
	}
	reg.MustRegister(m.resolutions, m.providerFailures, m.providerSkips)
	return m
}

// ObserveResolution counts a resolution answered by source. Provider sources
// are reported as "provider" to keep label cardinality fixed.
func (m *Metrics) ObserveResolution(source domain.RateSource) {
	if m == nil {
		return
	}
	label := string(source)
	if source.IsProvider() {
		label = "provider"
	}
	m.resolutions.WithLabelValues(label).Inc()
}

// ObserveProviderFailure counts a failed lookup against provider.
func (m *Metrics) ObserveProviderFailure(provider string) {
	if m == nil {
		return
	}
	m.providerFailures.WithLabelValues(provider).Inc()
}

// ObserveProviderSkip counts a lookup that skipped provider.
func (m *Metrics) ObserveProviderSkip(provider string) {
	if m == nil {
		return
	}
	m.providerSkips.WithLabelValues(provider).Inc()
}

// Resolutions returns the resolution counter for a source label.
func (m *Metrics) Resolutions(source string) prometheus.Counter {
	return m.resolutions.WithLabelValues(source)
}

// ProviderFailures returns the failure counter for provider.
func (m *Metrics) ProviderFailures(provider string) prometheus.Counter {
	return m.providerFailures.WithLabelValues(provider)
}

// ProviderSkips returns the skip counter for provider.
func (m *Metrics) ProviderSkips(provider string) prometheus.Counter {
	return m.providerSkips.WithLabelValues(provider)
}
