package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors of the purchase flow.
type Metrics struct {
	RecipientsRejected *prometheus.CounterVec
	RecipientsToggled  *prometheus.CounterVec
	InviteEmails       prometheus.Histogram
	DraftsSubmitted    prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		RecipientsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Name: "game_market_recipients_rejected_total",
			Help: "Recipient selections refused by the age restriction, by reason",
		}, []string{"reason"}),
		RecipientsToggled: f.NewCounterVec(prometheus.CounterOpts{
			Name: "game_market_recipients_toggled_total",
			Help: "Accepted recipient selections and deselections",
		}, []string{"direction"}),
		InviteEmails: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "game_market_invite_emails",
			Help:    "Valid invite emails extracted per committed input",
			Buckets: []float64{0, 1, 2, 5, 10, 25},
		}),
		DraftsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Name: "game_market_drafts_submitted_total",
			Help: "Purchase drafts handed off to checkout",
		}),
	}
}

// Observe* methods are no-ops on a nil *Metrics.
func (m *Metrics) ObserveRejected(reason string) {
	if m == nil {
		return
	}
	m.RecipientsRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) ObserveToggled(checked bool) {
	if m == nil {
		return
	}
	direction := "remove"
	if checked {
		direction = "add"
	}
	m.RecipientsToggled.WithLabelValues(direction).Inc()
}

func (m *Metrics) ObserveInviteEmails(n int) {
	if m == nil {
		return
	}
	m.InviteEmails.Observe(float64(n))
}

func (m *Metrics) ObserveSubmitted() {
	if m == nil {
		return
	}
	m.DraftsSubmitted.Inc()
}
