// Package observability exposes engine lifecycle events as Prometheus
// metrics. The hooks plug into the runtime via domain.LifecycleHooks and
// can be merged with caller-provided hooks.
package observability

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aretw0/switchboard/pkg/domain"
)

// Metrics holds the Prometheus collectors for the routing engine.
type Metrics struct {
	hops        *prometheus.CounterVec
	hopDuration *prometheus.HistogramVec
	hopErrors   *prometheus.CounterVec
	escalations prometheus.Counter
	runs        *prometheus.CounterVec
	runTurns    prometheus.Histogram
}

// NewMetrics registers the engine collectors with the given registerer.
// Pass prometheus.DefaultRegisterer for the usual global registry.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		hops: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "switchboard",
			Name:      "hops_total",
			Help:      "Handler invocations, by handler name.",
		}, []string{"handler"}),
		hopDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "switchboard",
			Name:      "hop_duration_seconds",
			Help:      "Wall-clock duration of handler invocations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler"}),
		hopErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "switchboard",
			Name:      "hop_errors_total",
			Help:      "Handler invocations that returned an error or panicked.",
		}, []string{"handler"}),
		escalations: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "switchboard",
			Name:      "escalations_total",
			Help:      "Fallback escalations triggered by unreachable routing targets.",
		}),
		runs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "switchboard",
			Name:      "runs_total",
			Help:      "Completed engine runs, by outcome.",
		}, []string{"outcome"}),
		runTurns: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "switchboard",
			Name:      "run_turns",
			Help:      "Turns consumed per run when it ended.",
			Buckets:   []float64{1, 2, 3, 5, 8, 13, 21},
		}),
	}
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnHopStart: func(_ context.Context, ev *domain.HopEvent) {
			m.hops.WithLabelValues(ev.HandlerName).Inc()
		},
		OnHopEnd: func(_ context.Context, ev *domain.HopEvent) {
			m.hopDuration.WithLabelValues(ev.HandlerName).Observe(ev.Duration.Seconds())
			if ev.Err != nil {
				m.hopErrors.WithLabelValues(ev.HandlerName).Inc()
			}
		},
		OnEscalation: func(_ context.Context, _ *domain.HopEvent) {
			m.escalations.Inc()
		},
		OnRunEnd: func(_ context.Context, ev *domain.RunEvent) {
			m.runs.WithLabelValues(string(ev.Outcome)).Inc()
			m.runTurns.Observe(float64(ev.TurnCount))
		},
	}
}
