package cmd

import (
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wehubfusion/Prism/pkg/dataset"
	perrors "github.com/wehubfusion/Prism/pkg/errors"
	"github.com/wehubfusion/Prism/pkg/logging"
)

func newTransformCmd(a *app) *cobra.Command {
	var (
		id   string
		opts dataset.RequestOptions
	)

	cmd := &cobra.Command{
		Use:   "transform [file]",
		Short: "Transform one dataset read from a file or stdin",
		Long: `Transform reads a dataset (JSON, or a comma separated list) and prints
the item descriptors, grouped when --groupby is set.`,
		Example: `  echo '[{"id":1,"name":"One"}]' | prism transform --datafield id --displayfield name
  prism transform rows.json --groupby createdAt --match day --pretty`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args)
			if err != nil {
				return err
			}

			tr := dataset.NewTransformer(a.cfg, dataset.WithLogger(logging.NewZapLogger(a.logger)))
			start := time.Now()
			responses, err := tr.TransformBatch(cmd.Context(), []dataset.Request{{
				ID:      id,
				Dataset: data,
				Options: opts,
			}})
			if err != nil {
				return err
			}
			resp := responses[0]
			if resp.Error != "" {
				return perrors.NewError(resp.Code, "transform failed", errors.New(resp.Error))
			}

			a.logger.Debug("Transformed dataset",
				zap.String("id", resp.ID),
				zap.Int("items", len(resp.Result.Items)),
				zap.Duration("elapsed", time.Since(start)))

			return newEnvelope().
				meta("id", resp.ID).
				meta("items", len(resp.Result.Items)).
				meta("groups", len(resp.Result.Groups)).
				meta("elapsed_ms", time.Since(start).Milliseconds()).
				payload("result", resp.Result).
				write(cmd.OutOrStdout(), a.v.GetBool(keyPretty))
		},
	}

	f := cmd.Flags()
	f.StringVar(&id, "id", "", "request id (default is a random UUID)")
	f.StringVar(&opts.DataField, "datafield", "", "identity field path; empty or \"All Fields\" uses whole objects")
	f.StringVar(&opts.DisplayField, "displayfield", "", "label field path")
	f.StringVar(&opts.DisplayLabel, "displaylabel", "", "alternative label field path")
	f.StringVar(&opts.DisplayExpression, "displayexpression", "", "label template, e.g. \"{{first}} {{last}}\"")
	f.StringVar(&opts.ImageField, "imagefield", "", "image field path")
	f.StringVar(&opts.ImageExpression, "imageexpression", "", "image template")
	f.StringVar(&opts.OrderBy, "orderby", "", "order spec, e.g. \"name:asc,age:desc\"")
	f.StringVar(&opts.GroupBy, "groupby", "", "group field path")
	f.StringVar(&opts.DataPath, "datapath", "", "path of the collection inside the input")
	f.StringVar(&opts.ItemChildren, "itemchildren", "", "field holding nested child collections")
	f.StringVar(&opts.Match, "match", "", "group mode: word, alphabet, hour, day, week, month or year")
	f.StringVar(&opts.DateFormat, "dateformat", "", "date format of time group labels")
	f.BoolVar(&opts.AllowEmpty, "allow-empty", false, "keep items with blank keys or labels")
	f.IntVar(&opts.Offset, "offset", 0, "first running index")

	return cmd
}
