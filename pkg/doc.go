// Package pkg provides the core libraries for flowplot chart rendering.
//
// # Overview
//
// flowplot draws three linked charts for grouped cytometry data: violin
// plots of per-population densities, box plots of per-condition population
// frequencies with jittered samples, and a vertical colour bar legend.
// Violins share their colours with a gate style store, so recolouring a
// gate updates every chart that shows it.
//
// # Architecture
//
// The typical data flow:
//
//	events CSV / violins JSON / boxplots JSON / Gating-ML
//	         ↓
//	    [io] and [dataset] (decode, normalise, validate)
//	         ↓
//	    [density] and [stats] (KDE curves, frequencies, quartiles)
//	         ↓
//	    [render/violin], [render/boxplot], [render/colorbar] on [render/svg]
//	         ↓
//	    SVG/PDF/PNG/JSON output via [render] and [pipeline]
//
// # Main Packages
//
// [dataset] - Input records, violin and box plot data with normalisation.
//
// [gates] - Gate schema, Gating-ML import and the style store (memory,
// Redis, MongoDB) that holds each gate's colour.
//
// [scale] - Linear, band, ordinal and continuous colour scales.
//
// [render/svg] - A small element tree with axes and a concurrency-safe
// container that charts draw into.
//
// [pipeline] - Validation, caching and rendering shared by CLI and server.
//
// [server] - HTTP endpoints serving live charts and accepting recolours.
//
// [cache] - File and Redis artifact caches with optional lz4 compression.
//
// [config] - TOML configuration with environment overrides.
//
// [dataset]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/dataset
// [gates]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/gates
// [scale]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/scale
// [io]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/io
// [density]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/density
// [stats]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/stats
// [render]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/render
// [render/svg]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/render/svg
// [render/violin]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/render/violin
// [render/boxplot]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/render/boxplot
// [render/colorbar]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/render/colorbar
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/pipeline
// [server]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/server
// [cache]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/flowplot/pkg/config
package pkg
