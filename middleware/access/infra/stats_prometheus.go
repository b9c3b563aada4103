package infra

import (
	"context"
	"strconv"

	"messaging-gateway/middleware/access/domain"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusStatsStore expõe as decisões do pipeline como contador Prometheus.
// Key e Path ficam de fora dos labels por causa da cardinalidade.
type PrometheusStatsStore struct {
	decisions *prometheus.CounterVec
}

func NewPrometheusStatsStore(reg prometheus.Registerer) (*PrometheusStatsStore, error) {
	decisions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "messaging_gateway",
		Name:      "access_decisions_total",
		Help:      "Requests seen by the access pipeline, by outcome and terminating gate",
	}, []string{"outcome", "gate", "method", "status"})

	if err := reg.Register(decisions); err != nil {
		return nil, err
	}
	return &PrometheusStatsStore{decisions: decisions}, nil
}

func (s *PrometheusStatsStore) Record(_ context.Context, ev domain.StatsEvent) error {
	outcome := "denied"
	if ev.Allowed {
		outcome = "allowed"
	}
	gate := ev.Gate
	if gate == "" {
		gate = "none"
	}
	s.decisions.WithLabelValues(outcome, gate, ev.Method, strconv.Itoa(ev.Status)).Inc()
	return nil
}

// Collector permite inspecionar o contador (ex.: testutil em testes).
func (s *PrometheusStatsStore) Collector() *prometheus.CounterVec { return s.decisions }
