package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// AdoptionMetrics counts lifecycle transitions on adoption requests.
type AdoptionMetrics struct {
	transitions *prometheus.CounterVec
}

// NewAdoptionMetrics registers the adoption lifecycle counters.
func NewAdoptionMetrics(reg prometheus.Registerer) *AdoptionMetrics {
	if reg == nil {
		return &AdoptionMetrics{}
	}
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "adoption_request_transitions_total",
		Help: "Adoption request state transitions by resulting state.",
	}, []string{"transition"})
	reg.MustRegister(transitions)
	return &AdoptionMetrics{transitions: transitions}
}

// IncTransition increments the counter for the named transition.
func (m *AdoptionMetrics) IncTransition(transition string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(transition)).Inc()
}
