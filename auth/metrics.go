package auth

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	CredentialsRequestsTotal *prometheus.CounterVec // Количество обращений к провайдерам учетных данных
}

// metrics регистрируется в default registry один раз на процесс
var metrics = newMetrics()

func newMetrics() *Metrics {
	return &Metrics{
		CredentialsRequestsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "s3client_credentials_requests_total",
				Help: "Total number of credentials provider calls",
			},
			[]string{"provider", "result"}, // env/static/profile, success/error
		),
	}
}
