package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

func TestDispatcherCompletesBatches(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	pool := NewRowPool(2, RowHandlerFunc(func(ctx context.Context, order entity.Order) error { return nil }))
	defer pool.Close()

	d := NewDispatcher(2, pool, agg, nil)
	for seq := int64(1); seq <= 3; seq++ {
		if err := d.Submit(context.Background(), makeBatch(seq, 4)); err != nil {
			t.Fatalf("submit %d: %v", seq, err)
		}
	}
	d.Shutdown()
	if err := d.AwaitTermination(context.Background()); err != nil {
		t.Fatalf("await: %v", err)
	}

	stats := agg.Snapshot()
	if stats.SuccessCount != 12 || stats.TotalBatches != 3 || stats.CompletedBatches != 3 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestDispatcherRejectsAfterShutdown(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	pool := NewRowPool(1, RowHandlerFunc(func(ctx context.Context, order entity.Order) error { return nil }))
	defer pool.Close()

	d := NewDispatcher(1, pool, agg, nil)
	d.Shutdown()

	err := d.Submit(context.Background(), makeBatch(1, 3))
	if !errors.Is(err, ErrSubmissionRejected) {
		t.Fatalf("expected ErrSubmissionRejected, got %v", err)
	}

	stats := agg.Snapshot()
	if stats.FailCount != 3 || stats.TotalCount != 3 || stats.SuccessCount != 0 {
		t.Fatalf("expected rejected rows counted as failures, got %+v", stats)
	}
	if stats.CompletedBatches != 0 {
		t.Fatalf("expected no completed batch, got %d", stats.CompletedBatches)
	}
}

func TestDispatcherRejectsCanceledContext(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	pool := NewRowPool(1, RowHandlerFunc(func(ctx context.Context, order entity.Order) error { return nil }))
	defer pool.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := NewDispatcher(1, pool, agg, nil)
	if err := d.Submit(ctx, makeBatch(1, 2)); !errors.Is(err, ErrSubmissionRejected) {
		t.Fatalf("expected ErrSubmissionRejected, got %v", err)
	}
	if got := agg.Snapshot().FailCount; got != 2 {
		t.Fatalf("expected 2 failures, got %d", got)
	}
}
