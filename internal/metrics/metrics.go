package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mathadventures"

// Metrics holds the service's Prometheus collectors on a private registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	answers          *prometheus.CounterVec
	answerSeconds    prometheus.Histogram
	sessionsFinished *prometheus.CounterVec
	activeGames      prometheus.Gauge
	persistFailures  prometheus.Counter
	persistQueue     prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answers submitted, by result.",
		}, []string{"result"}),
		answerSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "answer_duration_seconds",
			Help:      "Time from presenting a question to receiving the answer.",
			Buckets:   []float64{0.5, 1, 2, 3, 5, 8, 13, 20, 30},
		}),
		sessionsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_finished_total",
			Help:      "Finished sessions, by mode and level.",
		}, []string{"mode", "level"}),
		activeGames: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_games",
			Help:      "Games currently in the PLAYING state.",
		}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_persist_failures_total",
			Help:      "Failed history writes.",
		}),
		persistQueue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "history_persist_queue_depth",
			Help:      "History writes waiting for a worker.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.answers,
		m.answerSeconds,
		m.sessionsFinished,
		m.activeGames,
		m.persistFailures,
		m.persistQueue,
	)
	return m
}

// Registry exposes the underlying registry for tests and extra collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAnswer(correct bool, took time.Duration) {
	if m == nil {
		return
	}
	result := "incorrect"
	if correct {
		result = "correct"
	}
	m.answers.WithLabelValues(result).Inc()
	m.answerSeconds.Observe(took.Seconds())
}

func (m *Metrics) ObserveSessionFinished(mode, level string) {
	if m == nil {
		return
	}
	m.sessionsFinished.WithLabelValues(mode, level).Inc()
}

func (m *Metrics) SetActiveGames(n int) {
	if m == nil {
		return
	}
	m.activeGames.Set(float64(n))
}

func (m *Metrics) PersistFailed() {
	if m == nil {
		return
	}
	m.persistFailures.Inc()
}

func (m *Metrics) SetPersistQueueDepth(n int) {
	if m == nil {
		return
	}
	m.persistQueue.Set(float64(n))
}
