// Package metrics provides Prometheus metrics for the generation pipeline
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Generation outcomes
const (
	OutcomeOK       = "ok"
	OutcomeDegraded = "degraded"
	OutcomeFailed   = "failed"
)

// Metrics holds the pipeline counters. A nil *Metrics records nothing.
type Metrics struct {
	GenerationsTotal    *prometheus.CounterVec
	GenerationDuration  *prometheus.HistogramVec
	RetrievalsTotal     *prometheus.CounterVec
	ExtractionsTotal    *prometheus.CounterVec
	PDFFallbacksTotal   prometheus.Counter
	SynthesesTotal      *prometheus.CounterVec
	CasesRecordedTotal  prometheus.Counter
	ConversationAppends prometheus.Counter
}

// NewMetrics creates the metrics and registers them with reg
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.GenerationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nyaymitra_generations_total",
			Help: "Total number of generation requests by call site and outcome",
		},
		[]string{"call_site", "outcome"},
	)

	m.GenerationDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "nyaymitra_generation_duration_seconds",
			Help:    "Duration of provider calls in seconds",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"provider"},
	)

	m.RetrievalsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nyaymitra_retrievals_total",
			Help: "Total number of case-law searches by outcome",
		},
		[]string{"outcome"},
	)

	m.ExtractionsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nyaymitra_extractions_total",
			Help: "Total number of document extractions by format and status",
		},
		[]string{"format", "status"},
	)

	m.PDFFallbacksTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "nyaymitra_pdf_fallbacks_total",
			Help: "Number of PDF extractions served by the fallback parser",
		},
	)

	m.SynthesesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nyaymitra_speech_syntheses_total",
			Help: "Total number of speech syntheses by status",
		},
		[]string{"status"},
	)

	m.CasesRecordedTotal = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "nyaymitra_cases_recorded_total",
			Help: "Number of case records appended to the ledger",
		},
	)

	m.ConversationAppends = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "nyaymitra_conversation_turns_total",
			Help: "Number of conversation turns appended",
		},
	)

	return m
}

// RecordGeneration records a generation outcome and its duration
func (m *Metrics) RecordGeneration(callSite, provider, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.GenerationsTotal.WithLabelValues(callSite, outcome).Inc()
	m.GenerationDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// RecordRetrieval records whether a search produced a result
func (m *Metrics) RecordRetrieval(found bool) {
	if m == nil {
		return
	}
	outcome := "hit"
	if !found {
		outcome = "none"
	}
	m.RetrievalsTotal.WithLabelValues(outcome).Inc()
}

// RecordExtraction records an extraction attempt
func (m *Metrics) RecordExtraction(format string, err error) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(format, status(err)).Inc()
}

// RecordPDFFallback records a PDF served by the fallback parser
func (m *Metrics) RecordPDFFallback() {
	if m == nil {
		return
	}
	m.PDFFallbacksTotal.Inc()
}

// RecordSynthesis records a speech synthesis attempt
func (m *Metrics) RecordSynthesis(err error) {
	if m == nil {
		return
	}
	m.SynthesesTotal.WithLabelValues(status(err)).Inc()
}

// RecordCase records a ledger append
func (m *Metrics) RecordCase() {
	if m == nil {
		return
	}
	m.CasesRecordedTotal.Inc()
}

// RecordTurn records a conversation append
func (m *Metrics) RecordTurn() {
	if m == nil {
		return
	}
	m.ConversationAppends.Inc()
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
