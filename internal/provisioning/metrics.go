package provisioning

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/imamik/slicectl/internal/slice"
)

// Poll results recorded by Metrics.
const (
	pollOK        = "ok"
	pollTransient = "transient"
	pollError     = "error"
)

// Metrics records provisioning activity. A nil *Metrics records nothing.
type Metrics struct {
	submissions  *prometheus.CounterVec
	polls        *prometheus.CounterVec
	transitions  *prometheus.CounterVec
	waitDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
// A nil reg leaves the collectors unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "slicectl",
				Subsystem: "provisioning",
				Name:      "submissions_total",
				Help:      "Total number of slice submissions by result",
			},
			[]string{"result"},
		),
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "slicectl",
				Subsystem: "provisioning",
				Name:      "polls_total",
				Help:      "Total number of readiness polls by result",
			},
			[]string{"result"},
		),
		transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "slicectl",
				Subsystem: "provisioning",
				Name:      "transitions_total",
				Help:      "Total number of slice lifecycle transitions",
			},
			[]string{"from", "to"},
		),
		waitDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "slicectl",
				Subsystem: "provisioning",
				Name:      "wait_ready_duration_seconds",
				Help:      "Time spent waiting for slice readiness by final state",
				Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1s to ~34min
			},
			[]string{"state"},
		),
	}
	if reg != nil {
		reg.MustRegister(m.submissions, m.polls, m.transitions, m.waitDuration)
	}
	return m
}

func (m *Metrics) recordSubmission(result string) {
	if m != nil {
		m.submissions.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) recordPoll(result string) {
	if m != nil {
		m.polls.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) recordTransition(from, to slice.State) {
	if m != nil {
		m.transitions.WithLabelValues(string(from), string(to)).Inc()
	}
}

func (m *Metrics) recordWait(state slice.State, seconds float64) {
	if m != nil {
		m.waitDuration.WithLabelValues(string(state)).Observe(seconds)
	}
}
