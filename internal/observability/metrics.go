package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// pollen forecast service.
type Metrics struct {
	FetchRequests *prometheus.CounterVec // labels: outcome={success,auth_error,api_error,connection_error,decode_error}
	FetchDuration prometheus.Histogram

	RefreshCycles        *prometheus.CounterVec // labels: result={success,failure}
	LastRefreshTimestamp prometheus.Gauge
	CoordinatorRunning   prometheus.Gauge

	// Current first-day UPI value per coarse pollen type.
	PollenIndex *prometheus.GaugeVec // labels: type={GRASS,TREE,WEED}

	UpdatesPublished prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		FetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollen",
			Name:      "fetch_requests_total",
			Help:      "Pollen API fetches by outcome.",
		}, []string{"outcome"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "pollen",
			Name:      "fetch_duration_seconds",
			Help:      "Pollen API request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		RefreshCycles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "pollen",
			Name:      "refresh_cycles_total",
			Help:      "Completed coordinator refresh cycles by result.",
		}, []string{"result"}),
		LastRefreshTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pollen",
			Name:      "last_successful_refresh_timestamp_seconds",
			Help:      "Unix time of the last successful forecast refresh.",
		}),
		CoordinatorRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "pollen",
			Name:      "coordinator_running",
			Help:      "1 when the refresh coordinator is active, 0 when stopped.",
		}),
		PollenIndex: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "pollen",
			Name:      "index_upi",
			Help:      "Current first-day Universal Pollen Index value per pollen type.",
		}, []string{"type"}),
		UpdatesPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "pollen",
			Name:      "updates_published_total",
			Help:      "Forecast update events published to the updates topic.",
		}),
	}

	prometheus.MustRegister(
		m.FetchRequests,
		m.FetchDuration,
		m.RefreshCycles,
		m.LastRefreshTimestamp,
		m.CoordinatorRunning,
		m.PollenIndex,
		m.UpdatesPublished,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		FetchRequests:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "pollen", Name: "fetch_requests_total"}, []string{"outcome"}),
		FetchDuration:        prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: "pollen", Name: "fetch_duration_seconds"}),
		RefreshCycles:        prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "pollen", Name: "refresh_cycles_total"}, []string{"result"}),
		LastRefreshTimestamp: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pollen", Name: "last_successful_refresh_timestamp_seconds"}),
		CoordinatorRunning:   prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "pollen", Name: "coordinator_running"}),
		PollenIndex:          prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: "pollen", Name: "index_upi"}, []string{"type"}),
		UpdatesPublished:     prometheus.NewCounter(prometheus.CounterOpts{Namespace: "pollen", Name: "updates_published_total"}),
	}
}
