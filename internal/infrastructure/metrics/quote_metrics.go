package metrics

import (
	"loncheras_plus/internal/domain/entities"
	"loncheras_plus/internal/usecase/interfaces"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// QuoteMetrics counts lifecycle events reported by the quote usecase.
type QuoteMetrics struct {
	created     *prometheus.CounterVec
	transitions *prometheus.CounterVec
	deleted     *prometheus.CounterVec
}

var _ interfaces.IQuoteObserver = (*QuoteMetrics)(nil)

// NewQuoteMetrics registers the counters on reg (prometheus.DefaultRegisterer in main).
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	factory := promauto.With(reg)
	return &QuoteMetrics{
		created: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loncheras_quotes_created_total",
			Help: "Quotes created, by initial status.",
		}, []string{"status"}),
		transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loncheras_quote_transitions_total",
			Help: "Persisted quote status changes.",
		}, []string{"from", "to", "source"}),
		deleted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "loncheras_quotes_deleted_total",
			Help: "Quotes hard deleted, by status at deletion.",
		}, []string{"status"}),
	}
}

func (m *QuoteMetrics) QuoteCreated(status entities.QuoteStatus) {
	m.created.WithLabelValues(string(status)).Inc()
}

func (m *QuoteMetrics) QuoteTransitioned(from, to entities.QuoteStatus, source string) {
	if source == "" {
		source = "generic"
	}
	m.transitions.WithLabelValues(string(from), string(to), source).Inc()
}

func (m *QuoteMetrics) QuoteDeleted(status entities.QuoteStatus) {
	m.deleted.WithLabelValues(string(status)).Inc()
}
