// Package metrics exposes ledger activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mmynk/eatnsplit/internal/calculator"
	"github.com/mmynk/eatnsplit/internal/models"
)

// Metrics holds the ledger collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	FriendsAdded    prometheus.Counter
	SplitsApplied   *prometheus.CounterVec // by payer
	SplitsRejected  *prometheus.CounterVec // by reason
	Friends         prometheus.Gauge
	TotalOwed       prometheus.Gauge
	TotalOwing      prometheus.Gauge
	EventsPublished *prometheus.CounterVec // by routing key and result
}

// New registers the ledger collectors (plus Go and process collectors) in a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		FriendsAdded: f.NewCounter(prometheus.CounterOpts{
			Namespace: "eatnsplit",
			Name:      "friends_added_total",
			Help:      "Friends added to the registry.",
		}),
		SplitsApplied: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eatnsplit",
			Name:      "splits_applied_total",
			Help:      "Bill splits applied to a friend's balance.",
		}, []string{"payer"}),
		SplitsRejected: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eatnsplit",
			Name:      "splits_rejected_total",
			Help:      "Bill splits refused before touching any balance.",
		}, []string{"reason"}),
		Friends: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "eatnsplit",
			Name:      "friends",
			Help:      "Friends in the registry.",
		}),
		TotalOwed: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "eatnsplit",
			Name:      "total_owed",
			Help:      "Sum of positive balances (friends owe the user).",
		}),
		TotalOwing: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "eatnsplit",
			Name:      "total_owing",
			Help:      "Sum of negative balances as a positive amount (the user owes friends).",
		}),
		EventsPublished: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "eatnsplit",
			Name:      "events_published_total",
			Help:      "Ledger events handed to the publisher.",
		}, []string{"routing_key", "result"}),
	}
}

// ObserveSplit counts an applied split.
func (m *Metrics) ObserveSplit(payer models.Payer) {
	m.SplitsApplied.WithLabelValues(string(payer)).Inc()
}

// ObserveRejection counts a refused split.
func (m *Metrics) ObserveRejection(reason string) {
	m.SplitsRejected.WithLabelValues(reason).Inc()
}

// ObserveEvent counts a publish attempt.
func (m *Metrics) ObserveEvent(routingKey string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.EventsPublished.WithLabelValues(routingKey, result).Inc()
}

// SetLedger refreshes the gauges from the current roster.
func (m *Metrics) SetLedger(friends int, s calculator.Summary) {
	m.Friends.Set(float64(friends))
	m.TotalOwed.Set(s.TotalOwed)
	m.TotalOwing.Set(s.TotalOwing)
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
