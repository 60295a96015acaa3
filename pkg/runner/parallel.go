package runner

import (
	"context"
	"sync"
)

// parallelResult pairs a run with its original index so runs
// can be returned in submission order.
type parallelResult struct {
	index int
	run   *SuiteRun
	err   error
}

// runParallel evaluates suites concurrently with a semaphore
// limiting maxConcurrency goroutines. Runs are returned in the
// same order as paths; failed or canceled entries are left out
// and the first error is returned.
func runParallel(
	ctx context.Context,
	r *DefaultRunner,
	paths []string,
	maxConcurrency int,
) ([]*SuiteRun, error) {
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	sem := make(chan struct{}, maxConcurrency)
	resultsCh := make(chan parallelResult, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		go func(idx int, path string) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				resultsCh <- parallelResult{index: idx, err: ctx.Err()}
				return
			}

			// The outcome is opened on this goroutine, which owns
			// it for the whole suite.
			run, err := r.Run(ctx, path)
			resultsCh <- parallelResult{index: idx, run: run, err: err}
		}(i, path)
	}

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	ordered := make([]parallelResult, len(paths))
	for pr := range resultsCh {
		ordered[pr.index] = pr
	}

	var firstErr error
	runs := make([]*SuiteRun, 0, len(paths))
	for _, pr := range ordered {
		if pr.err != nil && firstErr == nil {
			firstErr = pr.err
		}
		if pr.run != nil {
			runs = append(runs, pr.run)
		}
	}
	return runs, firstErr
}
