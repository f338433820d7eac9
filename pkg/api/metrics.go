package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// metrics holds the collectors exported on /metrics. Each server owns its
// registry so tests can build several servers side by side.
type metrics struct {
	registry *prometheus.Registry

	// searchTotal counts searches by kind and outcome (found, not_found, error)
	searchTotal *prometheus.CounterVec

	// searchDuration tracks search latency
	searchDuration *prometheus.HistogramVec

	// cacheTotal counts result cache lookups by outcome (hit, miss)
	cacheTotal *prometheus.CounterVec

	// storeSamples is the number of samples in the served store
	storeSamples prometheus.Gauge
}

func newMetrics() *metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &metrics{
		registry: reg,
		searchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "imurun_search_total",
			Help: "Total searches by kind and result",
		}, []string{"kind", "result"}),
		searchDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "imurun_search_duration_seconds",
			Help:    "Search duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
		}, []string{"kind"}),
		cacheTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "imurun_search_cache_total",
			Help: "Search result cache lookups by result",
		}, []string{"result"}),
		storeSamples: factory.NewGauge(prometheus.GaugeOpts{
			Name: "imurun_store_samples",
			Help: "Number of samples held by the store",
		}),
	}
}
