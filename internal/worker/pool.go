// Package worker implements the bounded fan-out-across-sources model
// spec.md §5 describes: the source engine itself runs one logical task per
// operation, and this package is the "enclosing service" that spawns one
// task per source, bounded by a semaphore, under a per-task deadline, and
// streams results back in completion order rather than input order.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/bookscraper/internal/models"
)

const (
	// DefaultConcurrency bounds how many source tasks run at once
	// (spec.md §5 "semaphore (default 20)").
	DefaultConcurrency = 20

	// DefaultTaskDeadline is applied per source task when the caller
	// doesn't override it (spec.md §5 "per-task deadline (10-15s)").
	DefaultTaskDeadline = 12 * time.Second
)

// Task is one unit of fan-out work against a single source: search, toc,
// content, or check. Its result is opaque to the pool.
type Task func(ctx context.Context, source *models.SourceSpec) (any, error)

// Result pairs one source with its task's outcome.
type Result struct {
	Source *models.SourceSpec
	Value  any
	Err    error
}

// Pool bounds concurrent per-source tasks with a semaphore and enforces a
// per-task deadline, streaming results back in completion order.
type Pool struct {
	Concurrency int
	Deadline    time.Duration
	Logger      arbor.ILogger
}

// New returns a Pool with spec.md §5's defaults; either field may be
// overridden directly before Run.
func New(logger arbor.ILogger) *Pool {
	return &Pool{Concurrency: DefaultConcurrency, Deadline: DefaultTaskDeadline, Logger: logger}
}

// Run spawns one goroutine per source, bounded by p.Concurrency, each
// running task under a context.WithTimeout(p.Deadline) derived from ctx.
// Results are pushed to the returned channel as each task finishes - not
// in the order sources were given - and the channel is closed once every
// task has reported. Cancelling ctx stops queued tasks from acquiring a
// slot and cancels every task already in flight; either way each source
// still produces exactly one Result, so the channel always closes after
// len(sources) sends.
func (p *Pool) Run(ctx context.Context, sources []*models.SourceSpec, task Task) <-chan Result {
	concurrency := p.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	deadline := p.Deadline
	if deadline <= 0 {
		deadline = DefaultTaskDeadline
	}

	results := make(chan Result, len(sources))
	sem := make(chan struct{}, concurrency)

	var wg sync.WaitGroup
	for _, src := range sources {
		src := src
		wg.Add(1)
		go func() {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				results <- Result{Source: src, Err: ctx.Err()}
				return
			}
			defer func() { <-sem }()

			taskCtx, cancel := context.WithTimeout(ctx, deadline)
			defer cancel()

			value, err := task(taskCtx, src)
			if err != nil && p.Logger != nil {
				p.Logger.Warn().Err(err).Str("source", src.Name).Msg("source task failed")
			}
			results <- Result{Source: src, Value: value, Err: err}
		}()
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	return results
}
