// Package metrics exposes round and click counters for Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry        *prometheus.Registry
	RoundsStarted   prometheus.Counter
	RoundsCompleted prometheus.Counter
	RoundsAbandoned prometheus.Counter
	Clicks          *prometheus.CounterVec
	BestScore       prometheus.Gauge
	RoundHits       prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RoundsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "rounds_started_total",
			Help:      "Rounds started.",
		}),
		RoundsCompleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "rounds_completed_total",
			Help:      "Rounds that ran until time expired.",
		}),
		RoundsAbandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "rounds_abandoned_total",
			Help:      "Rounds the player left before time expired.",
		}),
		Clicks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "clicks_total",
			Help:      "Board clicks during a round, by result.",
		}, []string{"result"}),
		BestScore: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aimtrainer",
			Name:      "best_score",
			Help:      "Best hit count seen by this process.",
		}),
		RoundHits: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aimtrainer",
			Name:      "round_hits",
			Help:      "Hits per completed round.",
			Buckets:   prometheus.LinearBuckets(0, 10, 10),
		}),
	}
	m.registry.MustRegister(m.RoundsStarted, m.RoundsCompleted, m.RoundsAbandoned, m.Clicks, m.BestScore, m.RoundHits)
	return m
}

func (m *Metrics) ObserveClick(hit bool) {
	if hit {
		m.Clicks.WithLabelValues("hit").Inc()
		return
	}
	m.Clicks.WithLabelValues("miss").Inc()
}

func (m *Metrics) ObserveRoundEnd(hits, best int) {
	m.RoundsCompleted.Inc()
	m.RoundHits.Observe(float64(hits))
	m.BestScore.Set(float64(best))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
