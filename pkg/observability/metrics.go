package observability

import (
	"context"
	"errors"
	"net/http"

	"github.com/aretw0/trmc/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the trmc Prometheus collectors on a dedicated registry.
type Metrics struct {
	registry    *prometheus.Registry
	runs        *prometheus.CounterVec
	steps       prometheus.Counter
	iterations  prometheus.Histogram
	failures    *prometheus.CounterVec
	diagnostics *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trmc_runs_total",
				Help: "Total number of finished runs by halt reason",
			},
			[]string{"reason"},
		),
		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "trmc_steps_total",
			Help: "Total number of executed iterations across all runs",
		}),
		iterations: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "trmc_run_iterations",
			Help:    "Iterations executed per run",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trmc_run_failures_total",
				Help: "Total number of aborted runs by cause",
			},
			[]string{"cause"},
		),
		diagnostics: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "trmc_diagnostics_total",
				Help: "Total number of validator diagnostics by kind",
			},
			[]string{"kind"},
		),
	}

	m.registry.MustRegister(m.runs, m.steps, m.iterations, m.failures, m.diagnostics)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record every halted run.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnHalt: func(_ context.Context, e *domain.HaltEvent) {
			m.ObserveHalt(e)
		},
	}
}

// ObserveHalt records one finished run.
func (m *Metrics) ObserveHalt(e *domain.HaltEvent) {
	if e.Result != nil {
		m.runs.WithLabelValues(string(e.Result.Reason)).Inc()
		m.steps.Add(float64(e.Result.Iterations))
		m.iterations.Observe(float64(e.Result.Iterations))
	}
	if e.Err != nil {
		m.failures.WithLabelValues(FailureCause(e.Err)).Inc()
	}
}

// ObserveReport records the diagnostics of a validation.
func (m *Metrics) ObserveReport(report *domain.Report) {
	for _, d := range report.Diagnostics {
		m.diagnostics.WithLabelValues(string(d.Kind)).Inc()
	}
}

// FailureCause classifies a run error into a low-cardinality label.
func FailureCause(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidJump):
		return "invalid_jump"
	case errors.Is(err, domain.ErrStepLimit):
		return "step_limit"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "other"
	}
}

// ChainHooks merges hook sets; each callback runs in argument order.
func ChainHooks(hooks ...domain.LifecycleHooks) domain.LifecycleHooks {
	var steps []func(context.Context, *domain.StepEvent)
	var halts []func(context.Context, *domain.HaltEvent)
	for _, h := range hooks {
		if h.OnStep != nil {
			steps = append(steps, h.OnStep)
		}
		if h.OnHalt != nil {
			halts = append(halts, h.OnHalt)
		}
	}

	var chained domain.LifecycleHooks
	if len(steps) > 0 {
		chained.OnStep = func(ctx context.Context, e *domain.StepEvent) {
			for _, fn := range steps {
				fn(ctx, e)
			}
		}
	}
	if len(halts) > 0 {
		chained.OnHalt = func(ctx context.Context, e *domain.HaltEvent) {
			for _, fn := range halts {
				fn(ctx, e)
			}
		}
	}
	return chained
}
