package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

// Coordinator ends a run: it stops submissions, drains batch tasks, stops
// the row workers and freezes the counters into an ImportResult.
type Coordinator struct {
	dispatcher *Dispatcher
	pool       *RowPool
	agg        *Aggregator
	timeout    time.Duration
	cancelRun  context.CancelFunc
}

func NewCoordinator(dispatcher *Dispatcher, pool *RowPool, agg *Aggregator, timeout time.Duration, cancelRun context.CancelFunc) *Coordinator {
	if timeout <= 0 {
		timeout = DefaultCompletionTimeout
	}

	return &Coordinator{
		dispatcher: dispatcher,
		pool:       pool,
		agg:        agg,
		timeout:    timeout,
		cancelRun:  cancelRun,
	}
}

// Complete waits for the run to drain against a single deadline shared by
// the batch tasks and the row workers. On expiry it cancels the run and
// returns the partial counts with an error wrapping ErrCompletionTimeout.
func (c *Coordinator) Complete(ctx context.Context, started time.Time) (entity.ImportResult, error) {
	c.dispatcher.Shutdown()

	waitCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.dispatcher.AwaitTermination(waitCtx); err != nil {
		if waitCtx.Err() != nil {
			return c.abort(ctx, waitCtx.Err(), started)
		}
		slog.WarnContext(ctx, "some batches ended early", "error", err)
	}

	c.pool.Close()
	if err := c.pool.AwaitQuiescence(waitCtx); err != nil {
		return c.abort(ctx, err, started)
	}

	return c.result(started, nil), nil
}

func (c *Coordinator) abort(ctx context.Context, cause error, started time.Time) (entity.ImportResult, error) {
	if c.cancelRun != nil {
		c.cancelRun()
	}
	c.pool.Close()

	err := fmt.Errorf("import canceled: %w", cause)
	if errors.Is(cause, context.DeadlineExceeded) {
		err = fmt.Errorf("%w after %s", ErrCompletionTimeout, c.timeout)
	}

	stats := c.agg.Snapshot()
	slog.ErrorContext(ctx, "import did not drain in time",
		"timeout", c.timeout.String(),
		"dispatched_batches", stats.TotalBatches,
		"completed_batches", stats.CompletedBatches,
		"active_rows", c.pool.Active(),
		"error", err,
	)

	return c.result(started, err), err
}

func (c *Coordinator) result(started time.Time, err error) entity.ImportResult {
	stats := c.agg.Snapshot()
	res := entity.ImportResult{
		TotalCount:   stats.TotalCount,
		SuccessCount: stats.SuccessCount,
		FailCount:    stats.FailCount,
		TotalBatches: stats.TotalBatches,
		TotalTimeMs:  time.Since(started).Milliseconds(),
	}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}
