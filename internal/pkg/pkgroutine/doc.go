// Package pkgroutine runs background work with a bounded number of goroutines.
//
// The Manager type limits concurrency, collects returned errors, records
// panics, and supports a drain-on-shutdown sequence (Shutdown then Wait or
// WaitContext). Import jobs and the per-run batch dispatcher both use it.
package pkgroutine
