// Package metrics holds the Prometheus collectors for wizard activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder struct {
	reg *prometheus.Registry

	transitions *prometheus.CounterVec
	rejections  *prometheus.CounterVec
	completions prometheus.Counter
	started     prometheus.Counter
}

// New registers the wizard collectors plus the Go and process collectors on
// a private registry.
func New() *Recorder {
	r := &Recorder{
		reg: prometheus.NewRegistry(),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "smartmcq",
				Subsystem: "wizard",
				Name:      "transitions_total",
				Help:      "Successful wizard transitions by direction",
			},
			[]string{"direction"},
		),
		rejections: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "smartmcq",
				Subsystem: "wizard",
				Name:      "rejections_total",
				Help:      "Rejected wizard transitions by direction and reason",
			},
			[]string{"direction", "reason"},
		),
		completions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smartmcq",
			Subsystem: "wizard",
			Name:      "completions_total",
			Help:      "Wizard flows that reached completion",
		}),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "smartmcq",
			Subsystem: "wizard",
			Name:      "sessions_started_total",
			Help:      "Wizard sessions started",
		}),
	}
	r.reg.MustRegister(
		r.transitions,
		r.rejections,
		r.completions,
		r.started,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

// A nil *Recorder is valid and records nothing.

func (r *Recorder) Transition(direction string) {
	if r != nil {
		r.transitions.WithLabelValues(direction).Inc()
	}
}

func (r *Recorder) Rejection(direction, reason string) {
	if r != nil {
		r.rejections.WithLabelValues(direction, reason).Inc()
	}
}

func (r *Recorder) Completion() {
	if r != nil {
		r.completions.Inc()
	}
}

func (r *Recorder) SessionStarted() {
	if r != nil {
		r.started.Inc()
	}
}

func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
