package pipeline

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/flowplot/pkg/cache"
	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
	"github.com/matzehuels/flowplot/pkg/observability"
	"github.com/matzehuels/flowplot/pkg/render"
	"github.com/matzehuels/flowplot/pkg/render/svg"
	"github.com/matzehuels/flowplot/pkg/stats"
)

// Runner executes the pipeline with caching. It holds no per-run state and
// may be shared between goroutines.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Styles gates.Store
	Logger *log.Logger

	// convert turns SVG into PNG or PDF. Tests replace it.
	convert func(ctx context.Context, format string, svg []byte, scale float64) ([]byte, error)
}

// NewRunner returns a runner. A nil cache disables caching, a nil keyer is
// the default keyer and a nil store leaves violins in the chart colour.
func NewRunner(c cache.Cache, keyer cache.Keyer, styles gates.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Styles: styles, Logger: logger, convert: convert}
}

func convert(ctx context.Context, format string, svgData []byte, scale float64) ([]byte, error) {
	switch format {
	case FormatPNG:
		return render.ToPNG(ctx, svgData, scale)
	case FormatPDF:
		return render.ToPDF(ctx, svgData)
	}
	return nil, ValidateFormat(format)
}

// Execute loads the dataset, renders the chart and converts it to every
// requested format, reusing cached artifacts when all formats are cached.
func (r *Runner) Execute(ctx context.Context, opts Options) (result *Result, err error) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Render().OnRenderStart(ctx, opts.Kind, opts.Formats)
	defer func() {
		observability.Render().OnRenderComplete(ctx, opts.Kind, opts.Formats, time.Since(start), err)
	}()

	result = &Result{Kind: opts.Kind, Artifacts: make(map[string][]byte, len(opts.Formats))}

	in, err := load(opts, cache.Hash)
	if err != nil {
		return nil, err
	}
	result.InputHash = in.hash
	result.Stats.Groups = in.groups
	result.Stats.LoadTime = time.Since(start)

	stylesHash, err := r.stylesHash(ctx, opts)
	if err != nil {
		return nil, err
	}
	keys := make(map[string]string, len(opts.Formats))
	for _, f := range opts.Formats {
		keys[f] = r.Keyer.ArtifactKey(in.hash, opts.ArtifactKeyOpts(f, stylesHash))
	}

	if !opts.Refresh && opts.Page == nil {
		if cached, ok := r.lookup(ctx, keys); ok {
			result.Artifacts = cached
			result.CacheInfo.RenderHit = true
			// A cached chart is not redrawn, so its report is computed here.
			if opts.Kind == KindBoxplots {
				report := stats.Compute(in.boxplots)
				result.Report = &report
			}
			opts.Logger.Debug("artifacts from cache", "kind", opts.Kind, "formats", opts.Formats)
			return result, nil
		}
	}

	page := opts.Page
	if page == nil {
		page = svg.NewPage()
	}
	renderStart := time.Now()
	svgData, report, err := draw(ctx, page, in, opts, r.Styles)
	if err != nil {
		return nil, errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "render %s", opts.Kind)
	}
	result.Report = report
	result.Stats.RenderTime = time.Since(renderStart)
	opts.Logger.Info("rendered chart", "kind", opts.Kind, "groups", in.groups, "duration", result.Stats.RenderTime)

	convertStart := time.Now()
	artifacts, err := r.convertAll(ctx, svgData, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.ConvertTime = time.Since(convertStart)

	for f, data := range artifacts {
		if err := r.Cache.Set(ctx, keys[f], data, cache.TTLArtifact); err != nil {
			opts.Logger.Warn("cache write failed", "format", f, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return result, nil
}

// lookup returns every format from the cache, or false if any is missing.
func (r *Runner) lookup(ctx context.Context, keys map[string]string) (map[string][]byte, bool) {
	out := make(map[string][]byte, len(keys))
	for f, key := range keys {
		data, hit, err := r.Cache.Get(ctx, key)
		if err != nil || !hit {
			observability.Cache().OnCacheMiss(ctx, "artifact")
			return nil, false
		}
		out[f] = data
	}
	observability.Cache().OnCacheHit(ctx, "artifact")
	return out, true
}

// convertAll produces every requested format from the SVG concurrently.
func (r *Runner) convertAll(ctx context.Context, svgData []byte, opts Options) (map[string][]byte, error) {
	var mu sync.Mutex
	out := make(map[string][]byte, len(opts.Formats))
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range opts.Formats {
		if f == FormatSVG {
			out[f] = svgData
			continue
		}
		g.Go(func() error {
			data, err := r.convert(gctx, f, svgData, opts.Scale)
			if err != nil {
				return errors.Wrap(errors.GetCodeOr(err, errors.ErrCodeInternal), err, "convert %s", f)
			}
			mu.Lock()
			out[f] = data
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// stylesHash fingerprints the stored gate styles a violin chart is drawn
// with, so recolouring a gate invalidates cached violins.
func (r *Runner) stylesHash(ctx context.Context, opts Options) (string, error) {
	if opts.Kind != KindViolins || r.Styles == nil {
		return "", nil
	}
	styles, err := r.Styles.List(ctx)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeStore, err, "list gate styles")
	}
	data, err := json.Marshal(styles)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "encode gate styles")
	}
	return cache.Hash(data), nil
}

// Close releases the cache and the style store.
func (r *Runner) Close() error {
	var errs []error
	if r.Cache != nil {
		errs = append(errs, r.Cache.Close())
	}
	if r.Styles != nil {
		errs = append(errs, r.Styles.Close())
	}
	return errors.Join(errs...)
}
