package observability_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/switchboard/pkg/domain"
	"github.com/aretw0/switchboard/pkg/observability"
)

func TestMetricsHooks(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	hooks := observability.NewMetrics(reg).Hooks()

	ctx := context.Background()
	hooks.OnHopStart(ctx, &domain.HopEvent{HandlerName: "router"})
	hooks.OnHopEnd(ctx, &domain.HopEvent{HandlerName: "router", Duration: 20 * time.Millisecond})
	hooks.OnHopStart(ctx, &domain.HopEvent{HandlerName: "billing"})
	hooks.OnHopEnd(ctx, &domain.HopEvent{HandlerName: "billing", Err: assert.AnError})
	hooks.OnEscalation(ctx, &domain.HopEvent{HandlerName: "router"})
	hooks.OnRunEnd(ctx, &domain.RunEvent{Outcome: domain.OutcomeEscalated, TurnCount: 2})

	expected := `
		# HELP switchboard_hops_total Handler invocations, by handler name.
		# TYPE switchboard_hops_total counter
		switchboard_hops_total{handler="billing"} 1
		switchboard_hops_total{handler="router"} 1

		# HELP switchboard_hop_errors_total Handler invocations that returned an error or panicked.
		# TYPE switchboard_hop_errors_total counter
		switchboard_hop_errors_total{handler="billing"} 1

		# HELP switchboard_escalations_total Fallback escalations triggered by unreachable routing targets.
		# TYPE switchboard_escalations_total counter
		switchboard_escalations_total 1

		# HELP switchboard_runs_total Completed engine runs, by outcome.
		# TYPE switchboard_runs_total counter
		switchboard_runs_total{outcome="escalated"} 1
	`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"switchboard_hops_total",
		"switchboard_hop_errors_total",
		"switchboard_escalations_total",
		"switchboard_runs_total",
	))
}

func TestMetricsHooks_MergeWithCallerHooks(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	metrics := observability.NewMetrics(reg)

	var sawHandler string
	merged := metrics.Hooks().Merge(domain.LifecycleHooks{
		OnHopStart: func(_ context.Context, ev *domain.HopEvent) {
			sawHandler = ev.HandlerName
		},
	})

	merged.OnHopStart(context.Background(), &domain.HopEvent{HandlerName: "router"})

	assert.Equal(t, "router", sawHandler)
	count, err := testutil.GatherAndCount(reg, "switchboard_hops_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
