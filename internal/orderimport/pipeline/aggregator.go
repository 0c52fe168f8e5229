package pipeline

import (
	"sync/atomic"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

// Aggregator holds the counters of one import run. It is safe for concurrent
// use and a fresh one is created per run.
type Aggregator struct {
	success    atomic.Int64
	fail       atomic.Int64
	dispatched atomic.Int64
	completed  atomic.Int64
}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

func (a *Aggregator) RecordOutcome(outcome entity.RowOutcome) {
	if outcome.OK {
		a.success.Add(1)
		return
	}
	a.fail.Add(1)
}

func (a *Aggregator) AddFail(n int64) {
	a.fail.Add(n)
}

func (a *Aggregator) BatchDispatched() {
	a.dispatched.Add(1)
}

func (a *Aggregator) BatchCompleted() {
	a.completed.Add(1)
}

// Snapshot derives the total from the two outcome counters it read, so the
// returned statistics always satisfy SuccessCount + FailCount == TotalCount.
func (a *Aggregator) Snapshot() entity.ImportStatistics {
	success := a.success.Load()
	fail := a.fail.Load()

	return entity.ImportStatistics{
		TotalCount:       success + fail,
		SuccessCount:     success,
		FailCount:        fail,
		TotalBatches:     a.dispatched.Load(),
		CompletedBatches: a.completed.Load(),
	}
}
