package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/shandysiswandi/goorder/internal/orderimport/pipeline"
)

var _ pipeline.Observer = (*Metrics)(nil)

func TestMetricsRecordsProgress(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RowRejected(pipeline.FieldAmount)
	m.RowRejected(pipeline.FieldAmount)
	m.RowProcessed(true)
	m.RowProcessed(true)
	m.RowProcessed(false)
	m.BatchCompleted(3, 20*time.Millisecond)
	m.ImportFinished(entity.ImportResult{TotalTimeMs: 1500}, nil)
	m.ImportFinished(entity.ImportResult{}, fmt.Errorf("%w: boom", pipeline.ErrFatalRead))

	if got := testutil.ToFloat64(m.rowsRejected.WithLabelValues(pipeline.FieldAmount)); got != 2 {
		t.Fatalf("expected 2 rejected rows, got %v", got)
	}
	if got := testutil.ToFloat64(m.rowsProcessed.WithLabelValues("success")); got != 2 {
		t.Fatalf("expected 2 successful rows, got %v", got)
	}
	if got := testutil.ToFloat64(m.rowsProcessed.WithLabelValues("failure")); got != 1 {
		t.Fatalf("expected 1 failed row, got %v", got)
	}
	if got := testutil.ToFloat64(m.batchesCompleted); got != 1 {
		t.Fatalf("expected 1 batch, got %v", got)
	}
	if got := testutil.ToFloat64(m.importsFinished.WithLabelValues(string(ImportOutcomeFatalRead))); got != 1 {
		t.Fatalf("expected 1 fatal read import, got %v", got)
	}
	if got := testutil.CollectAndCount(m.importDuration); got != 1 {
		t.Fatalf("expected one duration series, got %d", got)
	}
}

func TestImportStartedTracksRunning(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	doneA := m.ImportStarted()
	doneB := m.ImportStarted()
	if got := testutil.ToFloat64(m.importsRunning); got != 2 {
		t.Fatalf("expected 2 running, got %v", got)
	}
	doneA()
	doneB()
	if got := testutil.ToFloat64(m.importsRunning); got != 0 {
		t.Fatalf("expected 0 running, got %v", got)
	}
}

func TestOutcomeOf(t *testing.T) {
	cases := map[ImportOutcome]error{
		ImportOutcomeCompleted: nil,
		ImportOutcomeFatalRead: fmt.Errorf("%w: eof", pipeline.ErrFatalRead),
		ImportOutcomeCanceled:  fmt.Errorf("%w: %w", pipeline.ErrImportCanceled, context.Canceled),
		ImportOutcomeTimeout:   fmt.Errorf("%w after 1s", pipeline.ErrCompletionTimeout),
		ImportOutcomeError:     errors.New("other"),
	}
	for want, err := range cases {
		if got := OutcomeOf(err); got != want {
			t.Fatalf("OutcomeOf(%v) = %s, want %s", err, got, want)
		}
	}
}

func TestHandlerExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)
	m.BatchCompleted(1, time.Millisecond)

	rec := httptest.NewRecorder()
	Handler(reg).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), MetricsPrefix+"batches_completed_total 1") {
		t.Fatalf("expected batch counter in output:\n%s", rec.Body.String())
	}
}
