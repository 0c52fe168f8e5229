package usecase

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/shandysiswandi/goorder/internal/orderimport/entity"
	"github.com/shandysiswandi/goorder/internal/orderimport/pipeline"
	"github.com/shandysiswandi/goorder/internal/pkg/pkgerror"
	"github.com/shandysiswandi/goorder/internal/pkg/pkglog"
	"github.com/shandysiswandi/goorder/internal/pkg/pkguid"
)

type JobStore interface {
	CreateJob(ctx context.Context, job entity.ImportJob) error
	UpdateJob(ctx context.Context, jobID string, fn func(job *entity.ImportJob)) error
	GetJob(ctx context.Context, jobID string) (entity.ImportJob, error)
}

type OrderRepository interface {
	SaveOrder(ctx context.Context, order entity.Order) error
}

type Runner interface {
	Go(ctx context.Context, f func(ctx context.Context) error) error
}

type Clock interface {
	Now() time.Time
}

// idValidator is implemented by id generators that can reject malformed ids
// without a store lookup.
type idValidator interface {
	Valid(id string) bool
}

// Metrics observes import runs. metrics.Metrics implements it.
type Metrics interface {
	pipeline.Observer
	ImportStarted() func()
}

type Dependency struct {
	Jobs     JobStore
	Orders   OrderRepository
	Pipeline pipeline.Config
	Metrics  Metrics
	Runner   Runner
	Clock    Clock
	ID       pkguid.StringID
	OrderID  pkguid.NumberID
	RootCtx  context.Context
}

type Usecase struct {
	jobs     JobStore
	importer *pipeline.Importer
	metrics  Metrics
	runner   Runner
	clock    Clock
	id       pkguid.StringID
	rootCtx  context.Context
}

func New(dep Dependency) *Usecase {
	root := dep.RootCtx
	if root == nil {
		root = context.Background()
	}

	clock := dep.Clock
	if clock == nil {
		clock = realClock{}
	}

	m := dep.Metrics
	if m == nil {
		m = noopMetrics{}
	}

	writer := orderWriter{orders: dep.Orders, ids: dep.OrderID}

	return &Usecase{
		jobs:     dep.Jobs,
		importer: pipeline.NewImporter(dep.Pipeline, writer, pipeline.WithObserver(m)),
		metrics:  m,
		runner:   dep.Runner,
		clock:    clock,
		id:       dep.ID,
		rootCtx:  root,
	}
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// Import runs a whole import while the caller waits.
//
// The result is returned even when the run failed, so callers can report the
// partial counts next to the error.
func (u *Usecase) Import(ctx context.Context, in ImportInput) (entity.ImportResult, error) {
	src, err := openSource(in)
	if err != nil {
		return entity.ImportResult{}, err
	}
	defer func() {
		if cerr := src.Close(); cerr != nil {
			slog.WarnContext(ctx, "failed to close import source", "file", in.FileName, "error", cerr)
		}
	}()

	done := u.metrics.ImportStarted()
	defer done()

	result, err := u.importer.Import(ctx, src)
	if err != nil {
		return result, mapImportErr(err, result)
	}

	return result, nil
}

// Submit registers an import job and processes r in the background. r is
// read until EOF or until the job fails; if it is an io.Closer it is closed
// once the job ends.
func (u *Usecase) Submit(ctx context.Context, fileName string, r io.Reader) (SubmitResult, error) {
	if u.jobs == nil || u.id == nil || u.runner == nil {
		return SubmitResult{}, pkgerror.NewServer(errors.New("missing dependency"))
	}

	if _, err := pipeline.FormatFromFileName(fileName); err != nil {
		return SubmitResult{}, unsupportedFormat()
	}

	jobID := u.id.Generate()
	if err := u.jobs.CreateJob(ctx, entity.ImportJob{
		ID:       jobID,
		FileName: fileName,
		Status:   entity.ImportStatusQueued,
	}); err != nil {
		return SubmitResult{}, normalizeErr(err)
	}

	jobCtx := pkglog.SetImportID(pkglog.CarryCorrelationID(u.rootCtx, ctx), jobID)
	err := u.runner.Go(jobCtx, func(ctx context.Context) error {
		if err := u.processJob(ctx, jobID, fileName, r); err != nil {
			slog.ErrorContext(ctx, "import job failed", "error", err)
			return err
		}
		return nil
	})
	if err != nil {
		_ = u.jobs.UpdateJob(ctx, jobID, func(job *entity.ImportJob) {
			job.Status = entity.ImportStatusFailed
			job.Err = "import service is not accepting jobs"
			job.EndedAt = u.clock.Now().Unix()
		})
		return SubmitResult{}, pkgerror.NewServer(fmt.Errorf("schedule import %s: %w", jobID, err))
	}

	return SubmitResult{ImportID: jobID}, nil
}

func (u *Usecase) Status(ctx context.Context, importID string) (StatusResult, error) {
	if importID == "" {
		return StatusResult{}, pkgerror.NewInvalidInput(errors.New("import_id is required"))
	}

	if v, ok := u.id.(idValidator); ok && !v.Valid(importID) {
		return StatusResult{}, mapStoreErr(pkgerror.ErrNotFound)
	}

	job, err := u.jobs.GetJob(ctx, importID)
	if err != nil {
		return StatusResult{}, mapStoreErr(err)
	}

	return StatusResult{Job: job}, nil
}

func (u *Usecase) processJob(ctx context.Context, jobID, fileName string, r io.Reader) error {
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	startedAt := u.clock.Now().Unix()
	if err := u.jobs.UpdateJob(ctx, jobID, func(job *entity.ImportJob) {
		job.Status = entity.ImportStatusProcessing
		job.StartedAt = startedAt
	}); err != nil {
		return err
	}

	result, err := u.Import(ctx, ImportInput{FileName: fileName, Body: r})

	endedAt := u.clock.Now().Unix()
	status := entity.ImportStatusDone
	errMsg := ""
	if err != nil {
		status = entity.ImportStatusFailed
		errMsg = errorMessage(err)
	}

	if metaErr := u.jobs.UpdateJob(ctx, jobID, func(job *entity.ImportJob) {
		job.Status = status
		job.Err = errMsg
		job.EndedAt = endedAt
		job.Result = result
	}); metaErr != nil {
		return metaErr
	}

	return err
}

func openSource(in ImportInput) (pipeline.RowSource, error) {
	format, err := pipeline.FormatFromFileName(in.FileName)
	if err != nil {
		return nil, unsupportedFormat()
	}

	if in.Body == nil {
		return nil, pkgerror.NewBusiness("uploaded file is empty", pkgerror.CodeInvalidInput)
	}

	body := bufio.NewReader(in.Body)
	if _, err := body.Peek(1); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, pkgerror.NewBusiness("uploaded file is empty", pkgerror.CodeInvalidInput)
		}
		return nil, pkgerror.NewInvalidContent(err, "uploaded file cannot be read")
	}

	src, err := pipeline.OpenSource(format, body)
	if err != nil {
		return nil, pkgerror.NewInvalidContent(err, fmt.Sprintf("uploaded file is not a valid %s file", format))
	}

	return src, nil
}

func unsupportedFormat() error {
	return pkgerror.NewBusiness("only .xlsx and .csv files are supported", pkgerror.CodeInvalidInput)
}

func mapImportErr(err error, result entity.ImportResult) error {
	msg := result.Description()
	switch {
	case errors.Is(err, pipeline.ErrFatalRead):
		return pkgerror.NewInvalidContent(err, msg)
	case errors.Is(err, pipeline.ErrCompletionTimeout):
		return pkgerror.NewTimeout(err, msg)
	case errors.Is(err, pipeline.ErrImportCanceled):
		return pkgerror.NewInternal(err, msg)
	default:
		return pkgerror.NewInternal(err, msg)
	}
}

func mapStoreErr(err error) error {
	if errors.Is(err, pkgerror.ErrNotFound) {
		return pkgerror.NewBusiness("import not found", pkgerror.CodeNotFound)
	}
	return normalizeErr(err)
}

func normalizeErr(err error) error {
	var perr *pkgerror.Error
	if errors.As(err, &perr) {
		return perr
	}
	return pkgerror.NewServer(err)
}

func errorMessage(err error) string {
	var perr *pkgerror.Error
	if errors.As(err, &perr) && perr.Msg() != "" {
		return perr.Msg()
	}
	return err.Error()
}

type noopMetrics struct{}

func (noopMetrics) RowRejected(string) {}
func (noopMetrics) RowProcessed(bool) {}
func (noopMetrics) BatchCompleted(int, time.Duration) {}
func (noopMetrics) ImportFinished(entity.ImportResult, error) {}
func (noopMetrics) ImportStarted() func() { return func() {} }
