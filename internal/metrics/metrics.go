// Package metrics exposes quiz activity to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	reg *prometheus.Registry

	SessionsStarted  *prometheus.CounterVec
	ActiveSessions   prometheus.Gauge
	Answers          *prometheus.CounterVec
	AttemptsFinished *prometheus.CounterVec
	ScoreRatio       *prometheus.HistogramVec
	Retries          prometheus.Counter
	Forwarded        *prometheus.CounterVec
}

// New registers every collector on a fresh registry, plus the Go and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		reg: reg,
		SessionsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flashcards_sessions_started_total",
			Help: "Quiz sessions started, by content.",
		}, []string{"content"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flashcards_sessions_active",
			Help: "Quiz sessions currently held in memory.",
		}),
		Answers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flashcards_answers_total",
			Help: "Accepted answers, by content and correctness.",
		}, []string{"content", "correct"}),
		AttemptsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flashcards_attempts_finished_total",
			Help: "Completed passes through a deck, by content.",
		}, []string{"content"}),
		ScoreRatio: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "flashcards_attempt_score_ratio",
			Help:    "Score divided by max score for finished attempts.",
			Buckets: prometheus.LinearBuckets(0, 0.1, 11),
		}, []string{"content"}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flashcards_retries_total",
			Help: "Retry actions taken from the results screen.",
		}),
		Forwarded: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flashcards_statements_forwarded_total",
			Help: "Statements forwarded to the LRS, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.SessionsStarted, m.ActiveSessions, m.Answers, m.AttemptsFinished,
		m.ScoreRatio, m.Retries, m.Forwarded,
	)
	return m
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

func (m *Metrics) SessionStarted(contentID string) {
	m.SessionsStarted.WithLabelValues(contentID).Inc()
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionEnded() { m.ActiveSessions.Dec() }

func (m *Metrics) Answered(contentID string, correct bool) {
	label := "false"
	if correct {
		label = "true"
	}
	m.Answers.WithLabelValues(contentID, label).Inc()
}

func (m *Metrics) Finished(contentID string, score, maxScore int) {
	m.AttemptsFinished.WithLabelValues(contentID).Inc()
	if maxScore > 0 {
		m.ScoreRatio.WithLabelValues(contentID).Observe(float64(score) / float64(maxScore))
	}
}

func (m *Metrics) Retried() { m.Retries.Inc() }

func (m *Metrics) ForwardResult(n int, err error) {
	if n > 0 {
		m.Forwarded.WithLabelValues("ok").Add(float64(n))
	}
	if err != nil {
		m.Forwarded.WithLabelValues("failed").Inc()
	}
}
