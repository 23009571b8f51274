package monitoring

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	comparisonsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aavc_comparisons_total",
			Help: "Total number of comparison runs completed",
		},
		[]string{"symbol"},
	)

	comparisonDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aavc_comparison_duration_seconds",
			Help:    "Wall-clock duration of comparison runs",
			Buckets: prometheus.DefBuckets,
		},
	)

	comparisonStrategies = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aavc_comparison_strategies",
			Help:    "Number of strategies per comparison run",
			Buckets: []float64{1, 2, 3, 4, 6, 8, 12},
		},
	)

	simulationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aavc_simulations_total",
			Help: "Total number of single-strategy simulations completed",
		},
		[]string{"strategy"},
	)

	dataFetchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aavc_data_fetch_errors_total",
			Help: "Total number of price-data fetch failures",
		},
		[]string{"provider"},
	)
)

func init() {
	prometheus.MustRegister(comparisonsTotal)
	prometheus.MustRegister(comparisonDuration)
	prometheus.MustRegister(comparisonStrategies)
	prometheus.MustRegister(simulationsTotal)
	prometheus.MustRegister(dataFetchErrorsTotal)
}

// RecordComparison records one completed comparison run.
func RecordComparison(symbol string, strategies int, duration time.Duration) {
	comparisonsTotal.WithLabelValues(symbol).Inc()
	comparisonDuration.Observe(duration.Seconds())
	comparisonStrategies.Observe(float64(strategies))
}

// RecordSimulation records one completed single-strategy simulation.
func RecordSimulation(strategy string) {
	simulationsTotal.WithLabelValues(strategy).Inc()
}

// RecordDataFetchError records a failed price-data fetch.
func RecordDataFetchError(provider string) {
	dataFetchErrorsTotal.WithLabelValues(provider).Inc()
}

// Handler exposes the Prometheus metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
