package cmd

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wehubfusion/Prism/pkg/dataset"
	"github.com/wehubfusion/Prism/pkg/logging"
)

func newBatchCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch [file]",
		Short: "Run a batch of transform requests",
		Long: `Batch reads one request object or an array of requests, each
{"id", "dataset", "options"}, and prints one response per request.
Requests in a batch share the memo cache.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			requests, err := dataset.DecodeRequests(data)
			if err != nil {
				return err
			}

			tr := dataset.NewTransformer(a.cfg, dataset.WithLogger(logging.NewZapLogger(a.logger)))
			start := time.Now()
			responses, err := tr.TransformBatch(cmd.Context(), requests)
			if err != nil {
				return err
			}

			failed := 0
			for _, resp := range responses {
				if resp.Error != "" {
					failed++
				}
			}
			stats := tr.CacheStats()
			a.logger.Info("Batch completed",
				zap.Int("requests", len(responses)),
				zap.Int("failed", failed),
				zap.Int64("cache_hits", stats.Hits),
				zap.Duration("elapsed", time.Since(start)))

			return newEnvelope().
				meta("requests", len(responses)).
				meta("failed", failed).
				meta("mode", string(a.cfg.BatchMode)).
				meta("cache.hits", stats.Hits).
				meta("cache.misses", stats.Misses).
				meta("elapsed_ms", time.Since(start).Milliseconds()).
				payload("responses", responses).
				write(cmd.OutOrStdout(), a.v.GetBool(keyPretty))
		},
	}

	f := cmd.Flags()
	f.String("batch-mode", "", "sequential or parallel (default sequential)")
	f.Int("max-concurrent", 0, "workers in parallel mode (default GOMAXPROCS)")
	a.bind(f.Lookup("batch-mode"), keyBatchMode)
	a.bind(f.Lookup("max-concurrent"), keyMaxConcurrent)

	return cmd
}
