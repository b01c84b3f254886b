package iteration

import (
	"context"
	"fmt"
	"runtime"
	"sync"
)

// Iterator runs a function over a slice with a configurable strategy.
// Results keep the input order.
type Iterator struct {
	config Config
}

// NewIterator creates a new iterator with given config
func NewIterator(config Config) *Iterator {
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = runtime.NumCPU()
	}
	if config.Strategy == "" {
		config.Strategy = StrategySequential
	}
	return &Iterator{config: config}
}

// Config returns the effective configuration
func (it *Iterator) Config() Config {
	return it.config
}

// Process applies fn to every item and returns the results in input order.
// It fails fast: the first error, or cancellation of ctx, stops the run.
func Process[T, R any](ctx context.Context, it *Iterator, items []T, fn ProcessFunc[T, R]) ([]R, error) {
	if len(items) == 0 {
		return []R{}, nil
	}

	if it.config.Strategy == StrategyParallel && it.config.MaxConcurrent > 1 {
		return processParallel(ctx, it.config.MaxConcurrent, items, fn)
	}
	return processSequential(ctx, items, fn)
}

// processSequential processes items one by one (fail-fast)
func processSequential[T, R any](ctx context.Context, items []T, fn ProcessFunc[T, R]) ([]R, error) {
	results := make([]R, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("stopped before item %d: %w", i, err)
		}
		output, err := fn(ctx, item, i)
		if err != nil {
			return nil, fmt.Errorf("failed processing item %d: %w", i, err)
		}
		results[i] = output
	}

	return results, nil
}

// processParallel processes items concurrently with a worker pool (fail-fast)
func processParallel[T, R any](ctx context.Context, workers int, items []T, fn ProcessFunc[T, R]) ([]R, error) {
	numItems := len(items)
	results := make([]R, numItems)

	if workers > numItems {
		workers = numItems
	}

	workCh := make(chan int, numItems)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstError error
	processed := 0

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range workCh {
				if ctx.Err() != nil {
					return
				}
				output, err := fn(ctx, items[idx], idx)

				mu.Lock()
				if err != nil {
					if firstError == nil {
						firstError = fmt.Errorf("failed processing item %d: %w", idx, err)
						cancel()
					}
				} else {
					results[idx] = output
					processed++
				}
				mu.Unlock()
			}
		}()
	}

sendLoop:
	for i := 0; i < numItems; i++ {
		select {
		case <-ctx.Done():
			break sendLoop
		case workCh <- i:
		}
	}
	close(workCh)

	wg.Wait()

	if firstError != nil {
		return nil, firstError
	}
	if processed < numItems {
		return nil, fmt.Errorf("stopped after %d of %d items: %w", processed, numItems, context.Cause(ctx))
	}

	return results, nil
}
