package dataset

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	perrors "github.com/wehubfusion/Prism/pkg/errors"
	"github.com/wehubfusion/Prism/pkg/iteration"
	"github.com/wehubfusion/Prism/pkg/logging"
)

// TransformBatch runs every request and returns one response per request,
// in request order. Problems with a single request are reported in its
// Response; the returned error is only set when ctx ends the batch early.
func (t *Transformer) TransformBatch(ctx context.Context, requests []Request) ([]Response, error) {
	it := iteration.NewIterator(iteration.Config{
		Strategy:      iteration.Strategy(t.cfg.BatchMode),
		MaxConcurrent: t.cfg.MaxConcurrent,
	})

	t.logger.Debug("Processing batch",
		logging.F("requests", len(requests)),
		logging.F("mode", string(t.cfg.BatchMode)))

	return iteration.Process(ctx, it, requests, t.handle)
}

func (t *Transformer) handle(ctx context.Context, req Request, index int) (Response, error) {
	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, span := t.tracer.Start(ctx, "prism.transform",
		trace.WithAttributes(
			attribute.String("prism.request.id", id),
			attribute.Int("prism.request.index", index),
		))
	defer span.End()

	resp := Response{ID: id}

	opts, err := req.Options.ToOptions()
	if err == nil {
		resp.Result, resp.Cached, err = t.transform(req.data(), opts)
	}
	if err != nil {
		resp.Error = err.Error()
		resp.Code = perrors.Code(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		t.logger.Warn("Rejected transform request",
			logging.F("id", id),
			logging.F("index", index),
			logging.F("error", err))
		return resp, nil
	}

	span.SetAttributes(
		attribute.Int("prism.items", len(resp.Result.Items)),
		attribute.Int("prism.groups", len(resp.Result.Groups)),
		attribute.Bool("prism.cache_hit", resp.Cached),
	)
	return resp, nil
}
