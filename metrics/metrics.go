// Package metrics holds the Prometheus collectors for the studio.
package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"prompt_page_studio/composer"
	"prompt_page_studio/features"
	"prompt_page_studio/generator"
	"prompt_page_studio/widget"
)

// Registry holds every studio metric on its own prometheus.Registry.
type Registry struct {
	reg *prometheus.Registry

	Conflicts       *prometheus.CounterVec
	Invalid         prometheus.Counter
	Submits         *prometheus.CounterVec
	Generations     *prometheus.CounterVec
	WidgetRenders   *prometheus.CounterVec
	ActiveSessions  prometheus.Gauge
	RequestDuration *prometheus.HistogramVec
}

var _ composer.Observer = (*Registry)(nil)

func New() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),
		Conflicts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_feature_conflicts_total",
			Help: "Enable attempts rejected because another feature in the group was on",
		}, []string{"feature"}),
		Invalid: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studio_validation_failures_total",
			Help: "Submits refused by validation",
		}),
		Submits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_submits_total",
			Help: "Page submits by mode and result",
		}, []string{"mode", "result"}),
		Generations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_generations_total",
			Help: "AI review drafts by result",
		}, []string{"result"}),
		WidgetRenders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studio_widget_renders_total",
			Help: "Embeddable widget generations by target",
		}, []string{"target"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "studio_active_sessions",
			Help: "Open edit sessions",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studio_http_request_duration_seconds",
			Help:    "HTTP request duration by route and status",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"route", "status"}),
	}
	r.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.Conflicts, r.Invalid, r.Submits, r.Generations,
		r.WidgetRenders, r.ActiveSessions, r.RequestDuration,
	)
	return r
}

// Handler serves the registry in the Prometheus text format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

func (r *Registry) Conflict(feature features.Key) {
	r.Conflicts.WithLabelValues(string(feature)).Inc()
}

func (r *Registry) ValidationFailed(int) {
	r.Invalid.Inc()
}

func (r *Registry) Submitted(mode composer.Mode, err error) {
	r.Submits.WithLabelValues(string(mode), submitResult(err)).Inc()
}

func (r *Registry) Generated(err error) {
	result := "ok"
	switch {
	case errors.Is(err, generator.ErrUnavailable):
		result = "unavailable"
	case err != nil:
		result = "error"
	}
	r.Generations.WithLabelValues(result).Inc()
}

// WidgetRendered counts one widget generation.
func (r *Registry) WidgetRendered(target widget.Target) {
	r.WidgetRenders.WithLabelValues(string(target)).Inc()
}

func submitResult(err error) string {
	var (
		verr *composer.ValidationError
		perr *composer.PersistenceError
	)
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &verr):
		return "invalid"
	case errors.As(err, &perr):
		return "store_error"
	default:
		return "error"
	}
}
