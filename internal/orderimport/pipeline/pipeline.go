package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"time"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
)

const (
	DefaultBatchSize         = 1000
	DefaultOuterMultiplier   = 2
	DefaultCompletionTimeout = 10 * time.Minute
	DefaultHeaderRows        = 1
)

// Config sizes one import run. Zero values fall back to the defaults except
// HeaderRows, where zero means the sheet has no header.
type Config struct {
	BatchSize         int
	OuterMultiplier   int
	InnerWorkers      int
	CompletionTimeout time.Duration
	HeaderRows        int
}

func DefaultConfig() Config {
	return Config{
		BatchSize:         DefaultBatchSize,
		OuterMultiplier:   DefaultOuterMultiplier,
		InnerWorkers:      runtime.NumCPU(),
		CompletionTimeout: DefaultCompletionTimeout,
		HeaderRows:        DefaultHeaderRows,
	}
}

func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.BatchSize < 1 {
		c.BatchSize = def.BatchSize
	}
	if c.OuterMultiplier < 1 {
		c.OuterMultiplier = def.OuterMultiplier
	}
	if c.InnerWorkers < 1 {
		c.InnerWorkers = def.InnerWorkers
	}
	if c.CompletionTimeout <= 0 {
		c.CompletionTimeout = def.CompletionTimeout
	}
	if c.HeaderRows < 0 {
		c.HeaderRows = 0
	}
	return c
}

// OuterWorkers is the number of batch tasks allowed in flight.
func (c Config) OuterWorkers() int {
	return runtime.NumCPU() * c.withDefaults().OuterMultiplier
}

// RowHandler processes one validated order, typically by persisting it.
// It must honor ctx; a returned error or a panic fails only that row.
type RowHandler interface {
	HandleRow(ctx context.Context, order entity.Order) error
}

type RowHandlerFunc func(ctx context.Context, order entity.Order) error

func (f RowHandlerFunc) HandleRow(ctx context.Context, order entity.Order) error {
	return f(ctx, order)
}

// Observer receives progress notifications. Implementations must be safe
// for concurrent use.
type Observer interface {
	RowRejected(field string)
	RowProcessed(ok bool)
	BatchCompleted(rows int, elapsed time.Duration)
	ImportFinished(result entity.ImportResult, err error)
}

type nopObserver struct{}

func (nopObserver) RowRejected(string) {}
func (nopObserver) RowProcessed(bool) {}
func (nopObserver) BatchCompleted(int, time.Duration) {}
func (nopObserver) ImportFinished(entity.ImportResult, error) {}

type Option func(*Importer)

func WithObserver(o Observer) Option {
	return func(im *Importer) {
		if o != nil {
			im.observer = o
		}
	}
}

// Importer runs order imports. Every call to Import gets its own pools and
// counters, so one Importer serves any number of sequential or concurrent runs.
type Importer struct {
	cfg      Config
	handler  RowHandler
	observer Observer
}

func NewImporter(cfg Config, handler RowHandler, opts ...Option) *Importer {
	im := &Importer{
		cfg:      cfg.withDefaults(),
		handler:  handler,
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(im)
	}
	return im
}

func (im *Importer) Config() Config {
	return im.cfg
}

// Import reads src to the end and returns the frozen statistics of the run.
//
// Row and batch failures are only counted. The returned error is non-nil
// when the stream was unreadable (ErrFatalRead), ctx ended while reading
// (ErrImportCanceled) or the run did not drain before the completion timeout
// (ErrCompletionTimeout); the result then
// carries the partial counts and the same message in its Error field.
func (im *Importer) Import(ctx context.Context, src RowSource) (entity.ImportResult, error) {
	if im.handler == nil {
		return entity.ImportResult{}, errors.New("order import: missing row handler")
	}

	started := time.Now()
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	agg := NewAggregator()
	pool := NewRowPool(im.cfg.InnerWorkers, im.handler)
	dispatcher := NewDispatcher(im.cfg.OuterWorkers(), pool, agg, im.observer)
	reader := NewReader(src, im.cfg.BatchSize, im.cfg.HeaderRows, agg, im.observer)
	coordinator := NewCoordinator(dispatcher, pool, agg, im.cfg.CompletionTimeout, cancel)

	slog.InfoContext(ctx, "order import started",
		"batch_size", im.cfg.BatchSize,
		"outer_workers", im.cfg.OuterWorkers(),
		"inner_workers", im.cfg.InnerWorkers,
	)

	readErr := reader.Run(runCtx, func(ctx context.Context, batch entity.Batch) {
		_ = dispatcher.Submit(ctx, batch)
	})
	if readErr != nil {
		slog.ErrorContext(ctx, "order import aborted while reading", "error", readErr)
		cancel()
	}

	result, err := coordinator.Complete(ctx, started)
	if readErr != nil {
		if err != nil {
			slog.ErrorContext(ctx, "order import also failed to drain", "error", err)
		}
		err = readErr
		result.Error = readErr.Error()
	}

	im.observer.ImportFinished(result, err)
	slog.InfoContext(ctx, "order import finished", "summary", result.Description())

	return result, err
}
