package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

type rowTask struct {
	ctx    context.Context
	order  entity.Order
	record func(entity.RowOutcome)
	wg     *sync.WaitGroup
}

// RowPool is the shared set of long-lived row workers of one run.
//
// Every batch task fans its rows out to the same workers, so no more than
// the configured number of rows are processed at once across all batches.
type RowPool struct {
	handler RowHandler
	tasks   chan rowTask
	quit    chan struct{}
	once    sync.Once
	workers sync.WaitGroup
	active  atomic.Int64
}

func NewRowPool(workers int, handler RowHandler) *RowPool {
	if workers < 1 {
		workers = 1
	}

	p := &RowPool{
		handler: handler,
		tasks:   make(chan rowTask),
		quit:    make(chan struct{}),
	}

	p.workers.Add(workers)
	for i := 0; i < workers; i++ {
		go p.work()
	}

	return p
}

// ProcessBatch runs every order of batch through the pool and returns only
// once each of them produced its outcome. record is called once per row.
//
// When ctx ends first it returns the context error; rows that were not yet
// picked up by a worker are not processed and produce no outcome.
func (p *RowPool) ProcessBatch(ctx context.Context, batch entity.Batch, record func(entity.RowOutcome)) error {
	var wg sync.WaitGroup

	for _, order := range batch.Orders {
		wg.Add(1)
		select {
		case p.tasks <- rowTask{ctx: ctx, order: order, record: record, wg: &wg}:
		case <-ctx.Done():
			wg.Done()
			return ctx.Err()
		case <-p.quit:
			wg.Done()
			return ErrPoolClosed
		}
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Active reports how many rows are being handled right now.
func (p *RowPool) Active() int64 {
	return p.active.Load()
}

// Close stops the workers after their current row. It is safe to call more than once.
func (p *RowPool) Close() {
	p.once.Do(func() { close(p.quit) })
}

// AwaitQuiescence waits until every worker has exited or ctx ends.
func (p *RowPool) AwaitQuiescence(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.workers.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *RowPool) work() {
	defer p.workers.Done()

	for {
		select {
		case <-p.quit:
			return
		case task := <-p.tasks:
			p.run(task)
		}
	}
}

func (p *RowPool) run(task rowTask) {
	p.active.Add(1)
	defer p.active.Add(-1)
	defer task.wg.Done()

	err := p.handle(task.ctx, task.order)
	task.record(entity.RowOutcome{Line: task.order.Line, OK: err == nil, Err: err})
}

func (p *RowPool) handle(ctx context.Context, order entity.Order) (err error) {
	defer func() {
		if rvr := recover(); rvr != nil {
			slog.ErrorContext(ctx, "panic while handling order row", "line", order.Line, "because", rvr, "stack", string(debug.Stack()))
			err = fmt.Errorf("%w: line %d: panic: %v", ErrRowProcessing, order.Line, rvr)
		}
	}()

	if herr := p.handler.HandleRow(ctx, order); herr != nil {
		return fmt.Errorf("%w: line %d: %w", ErrRowProcessing, order.Line, herr)
	}

	return nil
}
