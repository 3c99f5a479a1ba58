package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	stageDuration  *prometheus.HistogramVec
	errorsTotal    *prometheus.CounterVec
	predictions    *prometheus.CounterVec
	lastConfidence *prometheus.GaugeVec
	sinkPublished  *prometheus.CounterVec
}

// New creates a Prometheus metrics recorder registered on reg.
func New(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		stageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "stockpulse_pipeline_stage_seconds",
				Help:    "Duration of prediction pipeline stages in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			},
			[]string{"stage"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_errors_total",
				Help: "Total number of errors by kind",
			},
			[]string{"kind"},
		),
		predictions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_predictions_total",
				Help: "Total number of predictions served",
			},
			[]string{"symbol", "direction"},
		),
		lastConfidence: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "stockpulse_last_confidence_percent",
				Help: "Confidence of the last prediction for a symbol",
			},
			[]string{"symbol"},
		),
		sinkPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "stockpulse_sink_published_total",
				Help: "Prediction events written to an analytics backend",
			},
			[]string{"backend"},
		),
	}
}

// RecordStage records pipeline stage latency in seconds.
func (r *Recorder) RecordStage(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordPrediction records a served prediction.
func (r *Recorder) RecordPrediction(symbol, direction string, confidence float64) {
	r.predictions.WithLabelValues(symbol, direction).Inc()
	r.lastConfidence.WithLabelValues(symbol).Set(confidence)
}

// RecordSinkPublished records an event written to a backend.
func (r *Recorder) RecordSinkPublished(backend string) {
	r.sinkPublished.WithLabelValues(backend).Inc()
}

// Nop discards every measurement.
type Nop struct{}

func (Nop) RecordStage(string, float64) {}
func (Nop) RecordError(string) {}
func (Nop) RecordPrediction(string, string, float64) {}
func (Nop) RecordSinkPublished(string) {}
