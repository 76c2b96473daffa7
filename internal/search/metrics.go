package search

import "github.com/prometheus/client_golang/prometheus"

const (
	outcomeOK          = "ok"
	outcomeUnavailable = "unavailable"
	outcomeBadStatus   = "bad_status"
	outcomeBadBody     = "bad_body"
)

type Metrics struct {
	Upstream *prometheus.CounterVec
	Stale    prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Upstream: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "inventar",
				Name:      "search_upstream_requests_total",
				Help:      "Remote search calls by outcome",
			},
			[]string{"outcome"},
		),
		Stale: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventar",
			Name:      "search_stale_responses_total",
			Help:      "Responses discarded because a newer search was issued",
		}),
	}
	reg.MustRegister(m.Upstream, m.Stale)
	return m
}

func (m *Metrics) upstream(outcome string) {
	if m != nil {
		m.Upstream.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) stale() {
	if m != nil {
		m.Stale.Inc()
	}
}
