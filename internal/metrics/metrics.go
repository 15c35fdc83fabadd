package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	FieldsScanned  *prometheus.CounterVec
	APIErrors      prometheus.Counter
	RequestSeconds *prometheus.HistogramVec
	ActiveWorkers  prometheus.Gauge
	CaptureDates   prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		FieldsScanned: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "fieldscope_fields_scanned_total",
			Help: "Total number of processed field scans.",
		}, []string{"status"}),
		APIErrors: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fieldscope_provider_api_errors_total",
			Help: "Total number of errors received from the imagery provider API.",
		}),
		RequestSeconds: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fieldscope_provider_request_duration_seconds",
			Help:    "Duration of requests to the imagery provider API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"provider"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "fieldscope_active_workers",
			Help: "Current number of active workers scanning fields.",
		}),
		CaptureDates: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "fieldscope_capture_dates_found_total",
			Help: "Total number of capture dates discovered across all fields.",
		}),
	}
}
