package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jonathan/project-estimator/internal/calibration"
)

// Metrics holds the Prometheus collectors exposed by the server.
type Metrics struct {
	registry *prometheus.Registry

	EstimateRequests *prometheus.CounterVec
	EstimateDuration prometheus.Histogram
	CalibrationRows  prometheus.Gauge
	CalibrationRecs  prometheus.Gauge
	SourceWarnings   prometheus.Gauge
}

// NewMetrics creates and registers the service collectors on a private
// registry, so tests can create multiple instances without collisions.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		EstimateRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "estimator_requests_total",
			Help: "Estimation requests by outcome.",
		}, []string{"status"}),
		EstimateDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "estimator_request_duration_seconds",
			Help:    "Estimation request duration.",
			Buckets: prometheus.DefBuckets,
		}),
		CalibrationRows: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "estimator_calibration_rows",
			Help: "Rows ingested by the most recent calibration load.",
		}),
		CalibrationRecs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "estimator_calibration_records",
			Help: "Records in the current calibration store.",
		}),
		SourceWarnings: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "estimator_calibration_warnings",
			Help: "Source warnings from the most recent calibration load.",
		}),
	}

	registry.MustRegister(
		m.EstimateRequests,
		m.EstimateDuration,
		m.CalibrationRows,
		m.CalibrationRecs,
		m.SourceWarnings,
	)
	return m
}

// ObserveLoad records the outcome of a calibration load.
func (m *Metrics) ObserveLoad(stats *calibration.LoadStats) {
	if stats == nil {
		return
	}
	m.CalibrationRows.Set(float64(stats.RowsLoaded))
	m.CalibrationRecs.Set(float64(stats.Records))
	m.SourceWarnings.Set(float64(len(stats.Warnings)))
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
