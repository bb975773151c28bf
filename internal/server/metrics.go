package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "adminshell"

// metrics holds the Prometheus collectors for route resolution and live
// navigation sessions.
type metrics struct {
	resolutions     *prometheus.CounterVec
	resolveDuration prometheus.Histogram
	redirects       *prometheus.CounterVec
	sessions        prometheus.Gauge
	navigations     *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resolutions_total",
			Help:      "Route resolutions by matched route pattern and outcome",
		}, []string{"route", "outcome"}),

		resolveDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "resolve_duration_seconds",
			Help:      "Time spent resolving a path against the route table",
			Buckets:   []float64{.00001, .00005, .0001, .0005, .001, .005, .01},
		}),

		redirects: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "redirects_total",
			Help:      "Redirects followed during resolution",
		}, []string{"from", "to"}),

		sessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      "navigation_sessions",
			Help:      "Open live navigation sessions",
		}),

		navigations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "navigations_total",
			Help:      "Navigations settled in live sessions by outcome",
		}, []string{"outcome"}),
	}
}
