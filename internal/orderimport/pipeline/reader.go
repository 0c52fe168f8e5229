package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

// Reader validates rows from a RowSource and groups the valid ones into
// batches. Invalid rows are counted as failures and never leave the reader.
type Reader struct {
	src        RowSource
	batchSize  int
	headerRows int
	agg        *Aggregator
	observer   Observer
	seq        int64
}

func NewReader(src RowSource, batchSize, headerRows int, agg *Aggregator, observer Observer) *Reader {
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}
	if observer == nil {
		observer = nopObserver{}
	}

	return &Reader{
		src:        src,
		batchSize:  batchSize,
		headerRows: headerRows,
		agg:        agg,
		observer:   observer,
	}
}

// Run reads until the source is exhausted, handing every full batch and the
// trailing partial batch to emit. It returns an error wrapping ErrFatalRead
// when the stream breaks and ErrImportCanceled when ctx ends; batches emitted
// so far stay emitted.
func (r *Reader) Run(ctx context.Context, emit func(ctx context.Context, batch entity.Batch)) error {
	orders := make([]entity.Order, 0, r.batchSize)
	seen := 0

	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrImportCanceled, err)
		}

		row, err := r.src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// a body cut off by a closed request surfaces as a read error
			if cerr := ctx.Err(); cerr != nil {
				return fmt.Errorf("%w: %w", ErrImportCanceled, cerr)
			}
			return fmt.Errorf("%w: %w", ErrFatalRead, err)
		}

		seen++
		if seen <= r.headerRows || isBlank(row) {
			continue
		}

		order, err := ValidateRow(row)
		if err != nil {
			r.agg.AddFail(1)
			r.observer.RowRejected(rejectedField(err))
			slog.WarnContext(ctx, "order row rejected", "line", row.Line, "error", err)
			continue
		}

		orders = append(orders, order)
		if len(orders) == r.batchSize {
			emit(ctx, r.nextBatch(orders))
			orders = make([]entity.Order, 0, r.batchSize)
		}
	}

	if len(orders) > 0 {
		emit(ctx, r.nextBatch(orders))
	}

	return nil
}

func (r *Reader) nextBatch(orders []entity.Order) entity.Batch {
	r.seq++
	return entity.Batch{Seq: r.seq, Orders: orders}
}

func rejectedField(err error) string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Field
	}
	return "unknown"
}
