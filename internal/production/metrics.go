package production

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/comalice/formx/internal/core"
	"github.com/comalice/formx/internal/primitives"
)

const (
	namespace = "formx"
	subsystem = "form"
)

// Metrics is a prometheus Observer.
type Metrics struct {
	actionsTotal       *prometheus.CounterVec
	transitionsTotal   *prometheus.CounterVec
	validationDuration *prometheus.HistogramVec
	submitDuration     *prometheus.HistogramVec
}

var _ core.Observer = (*Metrics)(nil)

// NewMetrics registers the form metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		actionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "actions_total",
				Help:      "Total number of actions dispatched to the form reducer",
			},
			[]string{"action", "result"},
		),
		transitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "transitions_total",
				Help:      "Total number of status transitions",
			},
			[]string{"from", "to"},
		),
		validationDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "validation_duration_seconds",
				Help:      "Duration of validator runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		submitDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "submit_duration_seconds",
				Help:      "Duration of submit handler runs in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
	}
}

func (m *Metrics) ObserveAction(a primitives.Action, accepted bool) {
	result := "accepted"
	if !accepted {
		result = "dropped"
	}
	m.actionsTotal.WithLabelValues(string(a.Type), result).Inc()
}

func (m *Metrics) ObserveTransition(from, to primitives.Status) {
	m.transitionsTotal.WithLabelValues(string(from), string(to)).Inc()
}

func (m *Metrics) ObserveValidation(d time.Duration, err error) {
	m.validationDuration.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

func (m *Metrics) ObserveSubmit(d time.Duration, err error) {
	m.submitDuration.WithLabelValues(outcome(err)).Observe(d.Seconds())
}

func outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
