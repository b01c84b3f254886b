package iteration

import "context"

// Strategy defines how batch entries are processed
type Strategy string

const (
	StrategySequential Strategy = "sequential" // Process entries one by one
	StrategyParallel   Strategy = "parallel"   // Process entries with a worker pool
)

// Config holds configuration for batch iteration
type Config struct {
	Strategy      Strategy // sequential or parallel
	MaxConcurrent int      // Max concurrent workers (0 = runtime.NumCPU())
}

// ProcessFunc is called for each entry. Returning an error stops the run.
type ProcessFunc[T, R any] func(ctx context.Context, item T, index int) (R, error)
