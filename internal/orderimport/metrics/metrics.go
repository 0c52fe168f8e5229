package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/shandysiswandi/goorder/internal/orderimport/pipeline"
)

type ImportOutcome string

const (
	ImportOutcomeCompleted ImportOutcome = "completed"
	ImportOutcomeFatalRead ImportOutcome = "fatal_read"
	ImportOutcomeCanceled  ImportOutcome = "canceled"
	ImportOutcomeTimeout   ImportOutcome = "timeout"
	ImportOutcomeError     ImportOutcome = "error"
)

const MetricsPrefix = "goorder_import_"

// Metrics records order import progress. It satisfies pipeline.Observer.
type Metrics struct {
	rowsRejected     *prometheus.CounterVec
	rowsProcessed    *prometheus.CounterVec
	batchesCompleted prometheus.Counter
	batchDuration    prometheus.Histogram
	importsFinished  *prometheus.CounterVec
	importDuration   prometheus.Histogram
	importsRunning   prometheus.Gauge
}

// NewMetrics registers the import instruments on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	rowsRejectedOpts := prometheus.CounterOpts{
		Name: MetricsPrefix + "rows_rejected_total",
		Help: "Number of rows rejected by validation grouped by field",
	}
	rowsProcessedOpts := prometheus.CounterOpts{
		Name: MetricsPrefix + "rows_processed_total",
		Help: "Number of rows handled by row workers grouped by outcome",
	}
	batchesCompletedOpts := prometheus.CounterOpts{
		Name: MetricsPrefix + "batches_completed_total",
		Help: "Number of batches whose rows all finished",
	}
	batchDurationOpts := prometheus.HistogramOpts{
		Name:    MetricsPrefix + "batch_duration_seconds",
		Help:    "Time spent processing one batch",
		Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
	}
	importsFinishedOpts := prometheus.CounterOpts{
		Name: MetricsPrefix + "runs_total",
		Help: "Number of finished imports grouped by outcome",
	}
	importDurationOpts := prometheus.HistogramOpts{
		Name:    MetricsPrefix + "run_duration_seconds",
		Help:    "Wall clock time of a whole import",
		Buckets: prometheus.ExponentialBuckets(0.1, 2, 14),
	}
	importsRunningOpts := prometheus.GaugeOpts{
		Name: MetricsPrefix + "runs_in_progress",
		Help: "Number of imports currently running",
	}

	return &Metrics{
		rowsRejected:     factory.NewCounterVec(rowsRejectedOpts, []string{"field"}),
		rowsProcessed:    factory.NewCounterVec(rowsProcessedOpts, []string{"outcome"}),
		batchesCompleted: factory.NewCounter(batchesCompletedOpts),
		batchDuration:    factory.NewHistogram(batchDurationOpts),
		importsFinished:  factory.NewCounterVec(importsFinishedOpts, []string{"outcome"}),
		importDuration:   factory.NewHistogram(importDurationOpts),
		importsRunning:   factory.NewGauge(importsRunningOpts),
	}
}

func (m *Metrics) RowRejected(field string) {
	m.rowsRejected.With(map[string]string{"field": field}).Inc()
}

func (m *Metrics) RowProcessed(ok bool) {
	outcome := "success"
	if !ok {
		outcome = "failure"
	}
	m.rowsProcessed.With(map[string]string{"outcome": outcome}).Inc()
}

func (m *Metrics) BatchCompleted(_ int, elapsed time.Duration) {
	m.batchesCompleted.Inc()
	m.batchDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ImportFinished(result entity.ImportResult, err error) {
	m.importsFinished.With(map[string]string{"outcome": string(OutcomeOf(err))}).Inc()
	m.importDuration.Observe(float64(result.TotalTimeMs) / 1000)
}

// ImportStarted marks an import as running. The returned func marks it done.
func (m *Metrics) ImportStarted() func() {
	m.importsRunning.Inc()
	return m.importsRunning.Dec
}

func OutcomeOf(err error) ImportOutcome {
	switch {
	case err == nil:
		return ImportOutcomeCompleted
	case errors.Is(err, pipeline.ErrFatalRead):
		return ImportOutcomeFatalRead
	case errors.Is(err, pipeline.ErrImportCanceled):
		return ImportOutcomeCanceled
	case errors.Is(err, pipeline.ErrCompletionTimeout):
		return ImportOutcomeTimeout
	default:
		return ImportOutcomeError
	}
}

// Handler exposes everything gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
