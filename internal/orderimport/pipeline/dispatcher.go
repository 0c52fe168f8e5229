package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgroutine"
)

// Dispatcher runs batch tasks on a bounded goroutine manager. Submit blocks
// while every slot is busy, which paces the reader.
type Dispatcher struct {
	manager  *pkgroutine.Manager
	pool     *RowPool
	agg      *Aggregator
	observer Observer
}

func NewDispatcher(workers int, pool *RowPool, agg *Aggregator, observer Observer) *Dispatcher {
	if observer == nil {
		observer = nopObserver{}
	}

	return &Dispatcher{
		manager:  pkgroutine.NewManager(workers),
		pool:     pool,
		agg:      agg,
		observer: observer,
	}
}

// Submit schedules batch. A rejected batch has all of its rows counted as
// failures and the returned error wraps ErrSubmissionRejected.
func (d *Dispatcher) Submit(ctx context.Context, batch entity.Batch) error {
	d.agg.BatchDispatched()

	err := d.manager.Go(ctx, func(ctx context.Context) error {
		start := time.Now()
		if err := d.pool.ProcessBatch(ctx, batch, d.record); err != nil {
			slog.WarnContext(ctx, "batch interrupted", "seq", batch.Seq, "rows", batch.Len(), "error", err)
			return fmt.Errorf("batch %d: %w", batch.Seq, err)
		}

		d.agg.BatchCompleted()
		d.observer.BatchCompleted(batch.Len(), time.Since(start))
		slog.DebugContext(ctx, "batch completed", "seq", batch.Seq, "rows", batch.Len(), "elapsed", time.Since(start).String())
		return nil
	})
	if err != nil {
		d.agg.AddFail(int64(batch.Len()))
		for range batch.Orders {
			d.observer.RowProcessed(false)
		}
		slog.WarnContext(ctx, "batch submission rejected", "seq", batch.Seq, "rows", batch.Len(), "error", err)
		return fmt.Errorf("%w: batch %d: %w", ErrSubmissionRejected, batch.Seq, err)
	}

	return nil
}

// Shutdown stops accepting batches. Batches already scheduled keep running.
func (d *Dispatcher) Shutdown() {
	d.manager.Shutdown()
}

// AwaitTermination waits for every scheduled batch task or until ctx ends.
// Errors of interrupted batches are joined into the returned error.
func (d *Dispatcher) AwaitTermination(ctx context.Context) error {
	return d.manager.WaitContext(ctx)
}

func (d *Dispatcher) record(outcome entity.RowOutcome) {
	d.agg.RecordOutcome(outcome)
	d.observer.RowProcessed(outcome.OK)
}
