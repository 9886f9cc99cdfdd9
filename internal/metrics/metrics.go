package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	labelResult = "result"
	labelField  = "field"

	ResultRendered = "rendered"
	ResultEmpty    = "empty"
	ResultError    = "error"

	ResultOK           = "ok"
	ResultUnauthorized = "unauthorized"
	ResultInvalid      = "invalid"
	ResultFailed       = "failed"
)

var (
	renders = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kgm_render_total",
		Help: "Active game render requests by outcome.",
	}, []string{labelResult})

	saves = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kgm_admin_saves_total",
		Help: "Admin save attempts by field and outcome.",
	}, []string{labelField, labelResult})

	renditions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "kgm_media_renditions_generated_total",
		Help: "Image renditions generated on demand.",
	})
)

// Render records the outcome of one render.
func Render(result string) {
	renders.WithLabelValues(result).Inc()
}

// Save records the outcome of one admin save of field.
func Save(field, result string) {
	saves.WithLabelValues(field, result).Inc()
}

// RenditionGenerated counts a generated rendition.
func RenditionGenerated() {
	renditions.Inc()
}
