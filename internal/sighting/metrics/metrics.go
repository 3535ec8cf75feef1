package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Load outcomes.
const (
	OutcomeOK         = "ok"
	OutcomeFailed     = "failed"
	OutcomeSuperseded = "superseded"
	OutcomeAbandoned  = "abandoned"
)

// Delete outcomes. A delete whose notification failed still counts as a
// delete; the notification outcome is tracked separately.
const (
	DeleteOK                 = "ok"
	DeleteStoreFailed        = "store_failed"
	DeleteNotificationFailed = "notification_failed"
)

// Edit outcomes.
const (
	EditSubmitted  = "submitted"
	EditFailed     = "failed"
	EditIneligible = "ineligible"
)

type Metrics struct {
	Loads          *prometheus.CounterVec
	LoadDuration   prometheus.Histogram
	Deletes        *prometheus.CounterVec
	Edits          *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// New registers the sighting lifecycle metrics with the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the metrics with reg. Tests pass a fresh
// prometheus.NewRegistry() so repeated construction does not collide.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Loads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catwatch_sighting_loads_total",
			Help: "Total number of sighting list loads by outcome",
		}, []string{"outcome"}),
		LoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "catwatch_sighting_load_duration_seconds",
			Help:    "Duration of sighting store list calls",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		Deletes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catwatch_sighting_deletes_total",
			Help: "Total number of sighting deletes by outcome",
		}, []string{"outcome"}),
		Edits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "catwatch_sighting_edits_total",
			Help: "Total number of sighting edit attempts by outcome",
		}, []string{"outcome"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "catwatch_sighting_active_sessions",
			Help: "Current number of live owner sessions",
		}),
	}
}

func (m *Metrics) IncrementLoad(outcome string) {
	m.Loads.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveLoadDuration(start time.Time) {
	m.LoadDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) IncrementDelete(outcome string) {
	m.Deletes.WithLabelValues(outcome).Inc()
}

func (m *Metrics) IncrementEdit(outcome string) {
	m.Edits.WithLabelValues(outcome).Inc()
}

func (m *Metrics) SessionOpened() {
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	m.ActiveSessions.Dec()
}
