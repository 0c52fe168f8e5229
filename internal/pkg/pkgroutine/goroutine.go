package pkgroutine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
)

// DefaultMaxGoroutine is used when NewManager receives a non-positive limit.
const DefaultMaxGoroutine int = 10

var (
	// ErrManagerClosed is returned by Go once Shutdown has been called.
	ErrManagerClosed = errors.New("goroutine manager is closed")
	// ErrPanic is recorded when a scheduled function panics.
	ErrPanic = errors.New("panic occurred in goroutine")
)

// Manager runs functions in goroutines with a configurable concurrency limit.
//
// It collects errors returned by tasks and can be waited on using Wait or
// WaitContext. After Shutdown no new work is accepted, while work already
// scheduled keeps running.
type Manager struct {
	mu     sync.Mutex
	closed bool
	errs   []error
	wg     sync.WaitGroup
	sema   chan struct{}
}

// NewManager creates a new Manager with the provided maximum concurrency.
func NewManager(maxGoroutine int) *Manager {
	if maxGoroutine < 1 {
		maxGoroutine = DefaultMaxGoroutine
	}

	return &Manager{
		sema: make(chan struct{}, maxGoroutine), // Semaphore to limit goroutines
	}
}

// Go schedules f to run in a goroutine, blocking until a slot is free.
//
// It returns ErrManagerClosed after Shutdown, or the context error when pCtx
// ends before a slot could be acquired. In both cases f is never run.
func (g *Manager) Go(pCtx context.Context, f func(ctx context.Context) error) error {
	if g.isClosed() {
		return ErrManagerClosed
	}
	if err := pCtx.Err(); err != nil {
		return err
	}

	select {
	case g.sema <- struct{}{}: // Acquire a semaphore slot
	case <-pCtx.Done():
		slog.WarnContext(pCtx, "goroutine canceled before start", "because", pCtx.Err())
		return pCtx.Err()
	}

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		<-g.sema
		return ErrManagerClosed
	}
	g.wg.Add(1)
	g.mu.Unlock()

	go func() {
		defer g.wg.Done()
		defer func() {
			<-g.sema // Release semaphore slot

			if rvr := recover(); rvr != nil {
				stack := debug.Stack()
				slog.ErrorContext(pCtx, "panic occurred in goroutine", "because", rvr, "stack", string(stack))
				g.addErr(fmt.Errorf("%w: %v", ErrPanic, rvr))
			}
		}()

		if err := f(pCtx); err != nil {
			g.addErr(err)
		}
	}()

	return nil
}

// Shutdown stops accepting new work. It is safe to call more than once.
func (g *Manager) Shutdown() {
	g.mu.Lock()
	g.closed = true
	g.mu.Unlock()
}

// Running reports how many scheduled functions currently hold a slot.
func (g *Manager) Running() int {
	return len(g.sema)
}

// Wait blocks until all scheduled goroutines finish and returns any collected errors.
func (g *Manager) Wait() error {
	g.wg.Wait()

	return g.collected()
}

// WaitContext is Wait bounded by ctx. When ctx ends first it returns the
// context error and leaves the remaining goroutines running.
func (g *Manager) WaitContext(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		g.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return g.collected()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (g *Manager) isClosed() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.closed
}

func (g *Manager) addErr(err error) {
	g.mu.Lock()
	g.errs = append(g.errs, err)
	g.mu.Unlock()
}

func (g *Manager) collected() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return errors.Join(g.errs...)
}
