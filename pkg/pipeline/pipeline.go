// Package pipeline turns chart datasets into rendered artifacts.
//
// The CLI and the HTTP server share this package so both apply the same
// defaults, validation and caching. A run has three stages:
//
//  1. Load: read and validate the violin or box plot dataset
//  2. Render: draw the chart into an SVG page container
//  3. Convert: produce PNG and PDF from the SVG with rsvg-convert
//
// Artifacts are cached under a key built from the input's content hash and
// every option that changes the output bytes.
//
//	runner := pipeline.NewRunner(cache, nil, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Kind:    pipeline.KindViolins,
//	    Input:   "violins.json",
//	    Formats: []string{"svg", "png"},
//	})
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/flowplot/pkg/cache"
	"github.com/matzehuels/flowplot/pkg/errors"
	"github.com/matzehuels/flowplot/pkg/render/svg"
	"github.com/matzehuels/flowplot/pkg/render/violin"
	"github.com/matzehuels/flowplot/pkg/stats"
)

// Chart kinds.
const (
	KindViolins  = "violins"
	KindBoxplots = "boxplots"
	KindColorbar = "colorbar"
)

// Output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// Defaults shared by the CLI and the server.
const (
	DefaultSeed  = uint64(42)
	DefaultScale = 2.0
	DefaultColor = violin.DefaultColor
)

// ValidKinds is the set of chart kinds.
var ValidKinds = map[string]bool{
	KindViolins:  true,
	KindBoxplots: true,
	KindColorbar: true,
}

// ValidFormats is the set of output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// Options configures one pipeline run. It is decoded from API requests.
type Options struct {
	Kind string `json:"kind"`

	// Input is a dataset file path; Data holds the same JSON inline.
	// Colour bars need neither.
	Input string `json:"input,omitempty"`
	Data  []byte `json:"data,omitempty"`

	Formats []string `json:"formats,omitempty"`
	Scale   float64  `json:"scale,omitempty"`
	Refresh bool     `json:"refresh,omitempty"`

	// Color is the violin fill for groups without a stored style.
	Color string `json:"color,omitempty"`

	// Seed makes box plot jitter reproducible.
	Seed uint64 `json:"seed,omitempty"`

	// Stops and Palette define the colour bar scale; an empty palette is
	// viridis over the stops' extent.
	Stops     []float64 `json:"stops,omitempty"`
	Palette   []string  `json:"palette,omitempty"`
	StopTicks bool      `json:"stop_ticks,omitempty"`

	// Interaction endpoints embedded in the SVG.
	RecolorEndpoint string `json:"-"`
	SelectEndpoint  string `json:"-"`

	// Page receives the drawn chart. When set the runner always renders so
	// the page reflects the current data; the cache is still written.
	Page   *svg.Page   `json:"-"`
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result is the outcome of a run.
type Result struct {
	Kind      string
	InputHash string

	// Artifacts holds the output bytes keyed by format.
	Artifacts map[string][]byte

	// Report is the frequency table of a box plot run.
	Report *stats.Report

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats holds timings and sizes of a run.
type Stats struct {
	Groups      int
	LoadTime    time.Duration
	RenderTime  time.Duration
	ConvertTime time.Duration
}

// CacheInfo reports whether the artifacts came from the cache.
type CacheInfo struct {
	RenderHit bool
}

// ValidateKind checks that kind is a known chart kind.
func ValidateKind(kind string) error {
	if !ValidKinds[kind] {
		return errors.New(errors.ErrCodeInvalidChart, "invalid chart kind: %q (must be one of: violins, boxplots, colorbar)", kind)
	}
	return nil
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateAndSetDefaults checks the options and fills in defaults. It is
// idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := ValidateKind(o.Kind); err != nil {
		return err
	}
	if o.Kind != KindColorbar && o.Input == "" && len(o.Data) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "%s chart needs an input file or inline data", o.Kind)
	}

	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	o.Formats = slices.Compact(slices.Sorted(slices.Values(o.Formats)))
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if o.Scale <= 0 {
		o.Scale = DefaultScale
	}

	if o.Color == "" {
		o.Color = DefaultColor
	}
	if err := errors.ValidateColor(o.Color); err != nil {
		return err
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}

	if o.Kind == KindColorbar {
		if err := o.validateColorbar(); err != nil {
			return err
		}
	}

	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

func (o *Options) validateColorbar() error {
	if len(o.Stops) == 0 {
		o.Stops = []float64{0, 1}
	}
	if !slices.IsSorted(o.Stops) {
		return errors.New(errors.ErrCodeInvalidInput, "colour bar stops must be ascending: %v", o.Stops)
	}
	if len(o.Palette) > 0 && len(o.Palette) != len(o.Stops) {
		return errors.New(errors.ErrCodeInvalidInput,
			"%d palette colours for %d stops", len(o.Palette), len(o.Stops))
	}
	for _, c := range o.Palette {
		if err := errors.ValidateColor(c); err != nil {
			return err
		}
	}
	return nil
}

// HasFormat reports whether f was requested.
func (o *Options) HasFormat(f string) bool { return slices.Contains(o.Formats, f) }

// ArtifactKeyOpts returns the cache key options for format.
func (o *Options) ArtifactKeyOpts(format, stylesHash string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Kind: o.Kind, Format: format}
	if format == FormatPNG {
		k.Scale = o.Scale
	}
	switch o.Kind {
	case KindViolins:
		k.Color = o.Color
		k.Styles = stylesHash
		if o.RecolorEndpoint != "" {
			k.Endpoints = []string{o.RecolorEndpoint}
		}
	case KindBoxplots:
		k.Seed = o.Seed
		if o.SelectEndpoint != "" {
			k.Endpoints = []string{o.SelectEndpoint}
		}
	case KindColorbar:
		k.Stops = o.Stops
		k.Palette = o.Palette
		if o.StopTicks {
			k.Endpoints = []string{"stop-ticks"}
		}
	}
	return k
}
