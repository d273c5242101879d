package s3

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	RequestsTotal  *prometheus.CounterVec   // Количество запросов к S3 по операциям и кодам ответа
	RequestLatency *prometheus.HistogramVec // Время выполнения запроса, включая подпись
}

var metrics = newMetrics()

func newMetrics() *Metrics {
	return &Metrics{
		RequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3client_requests_total",
				Help: "Total number of S3 requests",
			},
			[]string{"operation", "code"}, // code: HTTP статус или "error" при сбое транспорта
		),
		RequestLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "s3client_request_latency_seconds",
				Help:    "Latency of S3 requests",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}
