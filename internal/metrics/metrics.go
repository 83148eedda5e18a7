// Package metrics instruments the scheme with prometheus collectors. The
// Registry implements scheme.Monitor so the scheme stays decoupled from
// the metrics backend.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vk/blockflow/internal/port"
)

// Registry bundles the scheme's prometheus collectors.
type Registry struct {
	registry *prometheus.Registry

	TicksTotal   prometheus.Counter
	TickDuration prometheus.Histogram

	HookExecutionsTotal *prometheus.CounterVec
	HookFailuresTotal   *prometheus.CounterVec
	HookDuration        *prometheus.HistogramVec

	RebuildsTotal *prometheus.CounterVec

	RunningBlocks        prometheus.Gauge
	ExecutionOrderLength *prometheus.GaugeVec
}

// New creates a registry with all collectors registered.
func New() *Registry {
	r := &Registry{registry: prometheus.NewRegistry()}

	r.TicksTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "blockflow_ticks_total",
			Help: "Total number of scheme update cycles",
		},
	)

	r.TickDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "blockflow_tick_duration_seconds",
			Help:    "Duration of one scheme update cycle",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05, 0.1},
		},
	)

	r.HookExecutionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockflow_hook_executions_total",
			Help: "Block hook invocations",
		},
		[]string{"block", "layer"},
	)

	r.HookFailuresTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockflow_hook_failures_total",
			Help: "Block hook invocations that returned an error",
		},
		[]string{"block", "layer"},
	)

	r.HookDuration = promauto.With(r.registry).NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "blockflow_hook_duration_seconds",
			Help:    "Block hook runtime",
			Buckets: []float64{0.00001, 0.0001, 0.001, 0.005, 0.01, 0.05},
		},
		[]string{"block", "layer"},
	)

	r.RebuildsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "blockflow_graph_rebuilds_total",
			Help: "Layer graph rebuild attempts",
		},
		[]string{"layer", "status"},
	)

	r.RunningBlocks = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "blockflow_running_blocks",
			Help: "Number of blocks currently running",
		},
	)

	r.ExecutionOrderLength = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "blockflow_execution_order_length",
			Help: "Number of blocks in a layer's execution order",
		},
		[]string{"layer"},
	)

	return r
}

// Handler returns the HTTP handler exposing the collectors.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// RecordTick implements scheme.Monitor.
func (r *Registry) RecordTick(d time.Duration) {
	r.TicksTotal.Inc()
	r.TickDuration.Observe(d.Seconds())
}

// RecordHook implements scheme.Monitor.
func (r *Registry) RecordHook(blockName string, layer port.Layer, d time.Duration, err error) {
	r.HookExecutionsTotal.WithLabelValues(blockName, layer.String()).Inc()
	r.HookDuration.WithLabelValues(blockName, layer.String()).Observe(d.Seconds())
	if err != nil {
		r.HookFailuresTotal.WithLabelValues(blockName, layer.String()).Inc()
	}
}

// RecordRebuild implements scheme.Monitor.
func (r *Registry) RecordRebuild(layer port.Layer, ok bool) {
	status := "ok"
	if !ok {
		status = "error"
	}
	r.RebuildsTotal.WithLabelValues(layer.String(), status).Inc()
}

// SetRunningBlocks implements scheme.Monitor.
func (r *Registry) SetRunningBlocks(n int) {
	r.RunningBlocks.Set(float64(n))
}

// SetOrderLength implements scheme.Monitor.
func (r *Registry) SetOrderLength(layer port.Layer, n int) {
	r.ExecutionOrderLength.WithLabelValues(layer.String()).Set(float64(n))
}
