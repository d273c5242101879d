package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics - метрики уровня приложения: команды CLI и объем прочитанных данных.
// Метрики запросов к S3 и провайдеров учетных данных живут в своих пакетах.
type Metrics struct {
	CommandsTotal    *prometheus.CounterVec   // Количество выполненных команд
	CommandDuration  *prometheus.HistogramVec // Длительность команды
	ObjectBytesTotal prometheus.Counter       // Байт объектов, выданных командой cat
	BucketsListed    prometheus.Gauge         // Бакетов в последнем ответе ListBuckets
}

// metrics регистрируется в default registry один раз на процесс
var metrics = newMetrics()

func newMetrics() *Metrics {
	return &Metrics{
		CommandsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3client_commands_total",
				Help: "Total number of executed CLI commands",
			},
			[]string{"command", "result"}, // ls/cat, success/error
		),
		CommandDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "s3client_command_duration_seconds",
				Help:    "Duration of CLI commands in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),
		ObjectBytesTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "s3client_object_bytes_total",
				Help: "Total number of object bytes written to stdout",
			},
		),
		BucketsListed: promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "s3client_buckets_listed",
				Help: "Number of buckets returned by the last ListBuckets call",
			},
		),
	}
}

// GetMetrics возвращает метрики приложения
func GetMetrics() *Metrics {
	return metrics
}
