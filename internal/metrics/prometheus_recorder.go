package metrics

import (
	"fmt"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	renderDuration *prom.HistogramVec
	renders        *prom.CounterVec
	findings       *prom.CounterVec
	reloads        *prom.CounterVec
	lastRender     prom.Gauge
}

// NewPrometheusRecorder constructs the metrics and registers them on reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		renderDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "docsite",
			Name:      "render_duration_seconds",
			Help:      "Duration of configuration document rendering",
			Buckets:   prom.DefBuckets,
		}, []string{"format"}),
		renders: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "renders_total",
			Help:      "Configuration renders by format and result",
		}, []string{"format", "result"}),
		findings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "findings_total",
			Help:      "Validation and link check findings by stage and result",
		}, []string{"stage", "result"}),
		reloads: prom.NewCounterVec(prom.CounterOpts{
			Namespace: "docsite",
			Name:      "reloads_total",
			Help:      "Watch mode re-evaluations by trigger",
		}, []string{"trigger"}),
		lastRender: prom.NewGauge(prom.GaugeOpts{
			Namespace: "docsite",
			Name:      "last_render_timestamp_seconds",
			Help:      "Unix time of the last successful render",
		}),
	}
	reg.MustRegister(pr.renderDuration, pr.renders, pr.findings, pr.reloads, pr.lastRender)
	return pr
}

func (p *PrometheusRecorder) ObserveRenderDuration(format string, d time.Duration) {
	if p == nil {
		return
	}
	p.renderDuration.WithLabelValues(format).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncRender(format string, result ResultLabel) {
	if p == nil {
		return
	}
	p.renders.WithLabelValues(format, string(result)).Inc()
	if result == ResultSuccess {
		p.lastRender.SetToCurrentTime()
	}
}

func (p *PrometheusRecorder) AddFindings(stage string, result ResultLabel, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.findings.WithLabelValues(stage, string(result)).Add(float64(n))
}

func (p *PrometheusRecorder) IncReload(trigger string) {
	if p == nil {
		return
	}
	p.reloads.WithLabelValues(trigger).Inc()
}

// WriteTextfile writes every metric in g to path in the text exposition format.
func WriteTextfile(path string, g prom.Gatherer) error {
	if err := prom.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
