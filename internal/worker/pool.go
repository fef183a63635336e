// Package worker fans statement analyses across a bounded goroutine pool.
// Workers share only read-only configuration, so the fan-out needs no
// locking beyond the channel handoff.
package worker

import (
	"context"
	"sync"

	"github.com/insightdelivered/mca-underwriting-engine/internal/models"
)

// Result pairs one input path with its analysis or failure.
type Result struct {
	Path     string
	Analysis *models.Analysis
	Err      error
}

// Run processes paths with at most workers goroutines and returns results in
// input order. A canceled context stops new work; in-flight analyses finish.
func Run(ctx context.Context, paths []string, workers int, fn func(context.Context, string) (*models.Analysis, error)) []Result {
	if workers < 1 {
		workers = 1
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	results := make([]Result, len(paths))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				a, err := fn(ctx, paths[i])
				results[i] = Result{Path: paths[i], Analysis: a, Err: err}
			}
		}()
	}

	for i := range paths {
		select {
		case <-ctx.Done():
			results[i] = Result{Path: paths[i], Err: ctx.Err()}
			continue
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	return results
}
