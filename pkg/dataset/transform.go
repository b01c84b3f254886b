package dataset

import (
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/language"

	"github.com/wehubfusion/Prism/pkg/cache"
	"github.com/wehubfusion/Prism/pkg/config"
	"github.com/wehubfusion/Prism/pkg/logging"
)

const tracerName = "github.com/wehubfusion/Prism/pkg/dataset"

// Transformer runs the dataset pipeline and memoizes its results.
// It is safe for concurrent use.
type Transformer struct {
	cfg    config.Config
	cache  cache.Cache[*Result]
	logger logging.Logger
	now    func() time.Time
	tracer trace.Tracer
}

// TransformerOption customizes a Transformer.
type TransformerOption func(*Transformer)

// WithLogger sets the logger. Nil keeps the no-op logger.
func WithLogger(logger logging.Logger) TransformerOption {
	return func(t *Transformer) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithCache replaces the cache built from the configured size.
func WithCache(c cache.Cache[*Result]) TransformerOption {
	return func(t *Transformer) {
		if c != nil {
			t.cache = c
		}
	}
}

// WithClock sets the source of "now" for relative date labels.
func WithClock(now func() time.Time) TransformerOption {
	return func(t *Transformer) {
		if now != nil {
			t.now = now
		}
	}
}

// WithTracer sets the tracer used by batch processing.
func WithTracer(tracer trace.Tracer) TransformerOption {
	return func(t *Transformer) {
		if tracer != nil {
			t.tracer = tracer
		}
	}
}

// NewTransformer creates a transformer. Zero-valued config fields fall back
// to config.Default.
func NewTransformer(cfg config.Config, opts ...TransformerOption) *Transformer {
	def := config.Default()
	if cfg.Location == nil {
		cfg.Location = def.Location
	}
	if cfg.DefaultDateFormat == "" {
		cfg.DefaultDateFormat = def.DefaultDateFormat
	}
	if !cfg.BatchMode.Valid() {
		cfg.BatchMode = def.BatchMode
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = def.MaxConcurrent
	}

	t := &Transformer{
		cfg:    cfg,
		logger: &logging.NoOpLogger{},
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.cache == nil {
		t.cache = cache.New[*Result](cfg.CacheSize)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(tracerName)
	}
	return t
}

// Config returns the transformer's effective configuration.
func (t *Transformer) Config() config.Config {
	return t.cfg
}

// Transform shapes dataset according to opts. Results are memoized by
// argument identity and shared between callers, so they must not be
// modified.
func (t *Transformer) Transform(dataset interface{}, opts Options) (*Result, error) {
	res, _, err := t.transform(dataset, opts)
	return res, err
}

// transform also reports whether the result came from the cache.
func (t *Transformer) transform(dataset interface{}, opts Options) (*Result, bool, error) {
	if err := opts.Validate(); err != nil {
		return nil, false, err
	}
	opts = t.withDefaults(opts)
	now := t.now().In(opts.Location)

	args := []interface{}{dataset, opts}
	if opts.GroupBy != "" && opts.Match.IsTimeRollup() {
		// relative labels change at midnight
		args = append(args, now.Format(time.DateOnly))
	}
	key, cacheable := cache.Key(args...)
	if cacheable {
		if res, ok := t.cache.Get(key); ok {
			t.logger.Debug("Transform cache hit", logging.F("items", len(res.Items)))
			return res, true, nil
		}
	} else {
		t.logger.Debug("Transform arguments are not cacheable")
	}

	res := t.run(dataset, opts, now)
	if cacheable {
		t.cache.Add(key, res)
	}
	return res, false, nil
}

func (t *Transformer) withDefaults(opts Options) Options {
	if opts.Location == nil {
		opts.Location = t.cfg.Location
	}
	if opts.Locale == language.Und {
		opts.Locale = t.cfg.Locale
	}
	if opts.DefaultDateFormat == "" {
		opts.DefaultDateFormat = t.cfg.DefaultDateFormat
	}
	return opts
}

// run executes normalize, dedup, order, children and grouping.
func (t *Transformer) run(dataset interface{}, opts Options, now time.Time) *Result {
	env := envFor(opts)

	items := normalize(dataset, opts, opts.Offset, env)
	normalized := len(items)
	items = Dedup(items, opts)
	if fields := ParseOrderBy(opts.OrderBy); len(fields) > 0 {
		items = orderItems(items, fields, "", env)
	}
	resolveChildren(items, opts, env)

	res := &Result{Items: items}
	if opts.GroupBy != "" {
		res.GroupedBy = opts.GroupBy
		res.Groups = groupItems(items, GroupOptions{
			GroupBy:           opts.GroupBy,
			Match:             opts.Match,
			OrderBy:           opts.OrderBy,
			DateFormat:        opts.DateFormat,
			DefaultDateFormat: opts.DefaultDateFormat,
			Now:               now,
			Location:          opts.Location,
			Locale:            opts.Locale,
		}, env)
		if res.Groups == nil {
			res.Groups = []*Group{}
		}
	}

	t.logger.Debug("Transformed dataset",
		logging.F("normalized", normalized),
		logging.F("items", len(res.Items)),
		logging.F("groups", len(res.Groups)))
	return res
}

// CacheStats reports the memo cache counters.
func (t *Transformer) CacheStats() cache.Stats {
	return t.cache.Stats()
}

// Purge drops every memoized result.
func (t *Transformer) Purge() {
	t.cache.Purge()
}

var defaultTransformer = sync.OnceValue(func() *Transformer {
	return NewTransformer(config.LoadConfig())
})

// Default returns the process-wide transformer configured from the environment.
func Default() *Transformer {
	return defaultTransformer()
}

// Transform runs the pipeline on the process-wide transformer.
func Transform(dataset interface{}, opts Options) (*Result, error) {
	return Default().Transform(dataset, opts)
}
