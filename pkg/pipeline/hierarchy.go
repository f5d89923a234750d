package pipeline

import (
	"context"

	"github.com/matzehuels/flowplot/pkg/cache"
	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/gates"
	"github.com/matzehuels/flowplot/pkg/observability"
	"github.com/matzehuels/flowplot/pkg/render/hierarchy"
)

// Hierarchy renders the gate hierarchy of schema, filled with the runner's
// stored styles, in one format. Diagrams are cached by their DOT source.
func (r *Runner) Hierarchy(ctx context.Context, schema *gates.Schema, format string) ([]byte, error) {
	if err := ValidateFormat(format); err != nil {
		return nil, err
	}
	var styles []gates.Style
	if r.Styles != nil {
		var err error
		if styles, err = r.Styles.List(ctx); err != nil {
			return nil, errors.Wrap(errors.ErrCodeStore, err, "list gate styles")
		}
	}
	dot := schema.DOT(styles)
	key := r.Keyer.HierarchyKey(cache.Hash([]byte(dot)), format)

	if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
		observability.Cache().OnCacheHit(ctx, "hierarchy")
		return data, nil
	}
	observability.Cache().OnCacheMiss(ctx, "hierarchy")

	svgData, err := hierarchy.RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	data := svgData
	if format != FormatSVG {
		if data, err = r.convert(ctx, format, svgData, DefaultScale); err != nil {
			return nil, err
		}
	}
	if err := r.Cache.Set(ctx, key, data, cache.TTLHierarchy); err == nil {
		observability.Cache().OnCacheSet(ctx, "hierarchy", len(data))
	}
	return data, nil
}
