package pipeline

import (
	"errors"
	"fmt"
)

var (
	// ErrRowValidation marks a row rejected before it reached a worker.
	ErrRowValidation = errors.New("row validation failed")
	// ErrRowProcessing marks a row whose handler returned an error or panicked.
	ErrRowProcessing = errors.New("row processing failed")
	// ErrSubmissionRejected is returned when a batch is offered after shutdown
	// or after the run was canceled.
	ErrSubmissionRejected = errors.New("batch submission rejected")
	// ErrCompletionTimeout is returned when batches or workers do not drain in time.
	ErrCompletionTimeout = errors.New("import did not complete before the deadline")
	// ErrFatalRead aborts a run when the input stream cannot be decoded.
	ErrFatalRead = errors.New("input stream is unreadable")
	// ErrImportCanceled aborts a run whose context ended while rows were still being read.
	ErrImportCanceled = errors.New("import canceled while reading")
	// ErrUnsupportedFormat is returned for uploads that are neither xlsx nor csv.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrPoolClosed is returned by ProcessBatch once the row pool stopped.
	ErrPoolClosed = errors.New("row pool is closed")
)

// ValidationError describes why a single row was rejected.
type ValidationError struct {
	Line   int
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s %s", e.Line, e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrRowValidation
}
