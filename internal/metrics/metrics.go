// Package metrics содержит счётчики Prometheus для исходящих запросов агента.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics набор метрик шлюза: счётчик запросов по пути и исходу
// и gauge текущих запросов в полёте.
type Metrics struct {
	Requests *prometheus.CounterVec
	InFlight prometheus.Gauge
}

// New регистрирует метрики в переданном Registerer.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		Requests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "legaltrack_api_requests_total",
			Help: "Outgoing backend requests by path and outcome.",
		}, []string{"path", "outcome"}),
		InFlight: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "legaltrack_api_inflight_requests",
			Help: "Backend requests currently in flight.",
		}),
	}
}
