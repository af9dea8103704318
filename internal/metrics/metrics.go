package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus instruments shared by every bot session in the
// process. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	framesReceived  *prometheus.CounterVec
	framesUnmatched prometheus.Counter
	decodeFailures  prometheus.Counter
	commandsSent    *prometheus.CounterVec
	intentsResolved *prometheus.CounterVec
	sessionsActive  prometheus.Gauge
}

// New creates the instruments on a private registry, along with the Go
// runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		framesReceived: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hanabot_frames_received_total",
			Help: "Decoded frames received from the server by command name.",
		}, []string{"command"}),
		framesUnmatched: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hanabot_frames_unmatched_total",
			Help: "Frames whose command name the bot does not know.",
		}),
		decodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hanabot_decode_failures_total",
			Help: "Frames that were malformed or carried an unparsable payload.",
		}),
		commandsSent: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hanabot_commands_sent_total",
			Help: "Commands sent to the server by command name.",
		}, []string{"command"}),
		intentsResolved: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hanabot_intents_resolved_total",
			Help: "Join and follow intents that produced a table join.",
		}, []string{"kind"}),
		sessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hanabot_sessions_active",
			Help: "Bot sessions currently running.",
		}),
	}

	m.registry.MustRegister(
		m.framesReceived,
		m.framesUnmatched,
		m.decodeFailures,
		m.commandsSent,
		m.intentsResolved,
		m.sessionsActive,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) FrameReceived(command string) {
	if m == nil {
		return
	}
	m.framesReceived.WithLabelValues(command).Inc()
}

func (m *Metrics) FrameUnmatched() {
	if m == nil {
		return
	}
	m.framesUnmatched.Inc()
}

func (m *Metrics) DecodeFailed() {
	if m == nil {
		return
	}
	m.decodeFailures.Inc()
}

func (m *Metrics) CommandSent(command string) {
	if m == nil {
		return
	}
	m.commandsSent.WithLabelValues(command).Inc()
}

func (m *Metrics) IntentResolved(kind string) {
	if m == nil {
		return
	}
	m.intentsResolved.WithLabelValues(kind).Inc()
}

func (m *Metrics) SessionStarted() {
	if m == nil {
		return
	}
	m.sessionsActive.Inc()
}

func (m *Metrics) SessionEnded() {
	if m == nil {
		return
	}
	m.sessionsActive.Dec()
}

// Registry exposes the underlying registry, mostly for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
