package observability

import (
	"context"
	"net/http"
	"strconv"

	"github.com/aretw0/jsonview/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "jsonview"

// Metrics holds the collectors updated by engine lifecycle hooks.
type Metrics struct {
	Resolutions *prometheus.CounterVec
	Actions     *prometheus.CounterVec
	Conditions  *prometheus.CounterVec
	Malformed   prometheus.Counter

	registry *prometheus.Registry
}

// NewMetrics creates the collectors and registers them on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		Resolutions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "resolutions_total",
				Help:      "Action names resolved, by the strategy that handled them.",
			},
			[]string{"strategy"},
		),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "actions_total",
				Help:      "Actions looked up by the runner, by type and outcome.",
			},
			[]string{"type", "outcome"},
		),
		Conditions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "conditions_total",
				Help:      "Conditions evaluated, by kind and whether they matched.",
			},
			[]string{"kind", "matched"},
		),
		Malformed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "malformed_expressions_total",
				Help:      "Expression conditions that failed to compile or evaluate.",
			},
		),
		registry: prometheus.NewRegistry(),
	}
	m.registry.MustRegister(m.Resolutions, m.Actions, m.Conditions, m.Malformed)
	return m
}

// Registry returns the registry the collectors live on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the collectors in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnResolve: func(ctx context.Context, e *domain.ResolveEvent) {
			m.Resolutions.WithLabelValues(string(e.Strategy)).Inc()
		},
		OnAction: func(ctx context.Context, e *domain.ActionEvent) {
			m.Actions.WithLabelValues(e.Action.Type, outcome(e)).Inc()
		},
		OnCondition: func(ctx context.Context, e *domain.ConditionEvent) {
			if e.Malformed {
				m.Malformed.Inc()
			}
			m.Conditions.WithLabelValues(e.Kind.String(), strconv.FormatBool(e.Matched)).Inc()
		},
	}
}

func outcome(e *domain.ActionEvent) string {
	switch {
	case !e.Handled && e.Err != nil:
		return "skipped"
	case !e.Handled:
		return "unknown"
	case e.Err != nil:
		return "error"
	}
	return "ok"
}
