package pipeline

import (
	"sync"
	"testing"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

func TestAggregatorConcurrentUpdates(t *testing.T) {
	t.Parallel()

	agg := NewAggregator()
	var wg sync.WaitGroup
	for g := 0; g < 50; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.BatchDispatched()
			for i := 0; i < 1000; i++ {
				agg.RecordOutcome(entity.RowOutcome{OK: i%10 != 0})
				if i%100 == 0 {
					stats := agg.Snapshot()
					if stats.SuccessCount+stats.FailCount != stats.TotalCount {
						t.Errorf("invariant broken mid-run: %+v", stats)
					}
				}
			}
			agg.AddFail(2)
			agg.BatchCompleted()
		}()
	}
	wg.Wait()

	stats := agg.Snapshot()
	if stats.TotalCount != 50*1002 {
		t.Fatalf("expected total %d, got %d", 50*1002, stats.TotalCount)
	}
	if stats.SuccessCount != 50*900 {
		t.Fatalf("expected success %d, got %d", 50*900, stats.SuccessCount)
	}
	if stats.FailCount != 50*102 {
		t.Fatalf("expected fail %d, got %d", 50*102, stats.FailCount)
	}
	if stats.TotalBatches != 50 || stats.CompletedBatches != 50 {
		t.Fatalf("unexpected batch counters: %+v", stats)
	}
}
