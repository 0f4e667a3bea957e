package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordGeneration(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordGeneration("chat", "generative", OutcomeDegraded, time.Second)
	m.RecordGeneration("chat", "generative", OutcomeDegraded, time.Second)
	m.RecordGeneration("verdict", "generative", OutcomeOK, time.Second)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("chat", OutcomeDegraded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.GenerationsTotal.WithLabelValues("verdict", OutcomeOK)))
}

func TestRecordRetrievalAndExtraction(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.RecordRetrieval(false)
	m.RecordRetrieval(true)
	m.RecordExtraction("pdf", nil)
	m.RecordExtraction("pdf", errors.New("bad"))
	m.RecordPDFFallback()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.RetrievalsTotal.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.RetrievalsTotal.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("pdf", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PDFFallbacksTotal))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordGeneration("chat", "chat", OutcomeOK, 0)
		m.RecordRetrieval(true)
		m.RecordExtraction("txt", nil)
		m.RecordPDFFallback()
		m.RecordSynthesis(nil)
		m.RecordCase()
		m.RecordTurn()
	})
}
