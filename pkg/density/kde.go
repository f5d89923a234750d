package density

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/matzehuels/flowplot/pkg/dataset"
	"github.com/matzehuels/flowplot/pkg/errors"
)

// DefaultBins is the number of bin centres used when none is given.
const DefaultBins = 64

// normalReference is the rule-of-thumb constant for a Gaussian kernel,
// 2 * (sqrt(pi) * 2!^3 * R(K) / (2 * 2 * 4! * k2^2))^(1/5) with R(K) the
// kernel's L2 norm and k2 its variance.
var normalReference = func() float64 {
	l2 := 1 / (2 * math.Sqrt(math.Pi))
	num := math.Sqrt(math.Pi) * 8 * l2
	den := 2.0 * 2 * 24
	return 2 * math.Pow(num/den, 1.0/5)
}()

// Bandwidth returns the normal-reference bandwidth of x:
// C * min(sd, IQR/1.349) * n^(-1/5). It returns 0 when x has fewer than two
// values or no spread.
func Bandwidth(x []float64) float64 {
	if len(x) < 2 {
		return 0
	}
	sorted := slices.Clone(x)
	slices.Sort(sorted)

	sd := stat.StdDev(sorted, nil)
	iqr := (stat.Quantile(0.75, stat.Empirical, sorted, nil) - stat.Quantile(0.25, stat.Empirical, sorted, nil)) / 1.349
	sigma := sd
	if iqr > 0 && iqr < sd {
		sigma = iqr
	}
	if !(sigma > 0) {
		return 0
	}
	return normalReference * sigma * math.Pow(float64(len(x)), -0.2)
}

func gaussian(u float64) float64 {
	return 0.3989422804014327 * math.Exp(-u*u/2)
}

// Estimate evaluates the kernel density of values at each grid point with
// bandwidth bw. A non-positive bw falls back to [Bandwidth].
func Estimate(values, grid []float64, bw float64) []float64 {
	out := make([]float64, len(grid))
	if len(values) == 0 {
		return out
	}
	if !(bw > 0) {
		bw = Bandwidth(values)
	}
	if !(bw > 0) {
		return out
	}
	norm := 1 / (bw * float64(len(values)))
	k := make([]float64, len(values))
	for i, g := range grid {
		for j, v := range values {
			k[j] = gaussian((v - g) / bw)
		}
		out[i] = floats.Sum(k) * norm
	}
	return out
}

// Centres returns n bin centres evenly dividing [lo, hi].
func Centres(lo, hi float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{(lo + hi) / 2}
	}
	w := (hi - lo) / float64(n)
	out := make([]float64, n)
	floats.Span(out, lo+w/2, hi-w/2)
	return out
}

// Group is a named sample of one channel.
type Group struct {
	Name   string
	ID     string
	Values []float64
}

// GroupEvents collects channel values of the events tagged with each name.
// ids[i], when present, becomes the group ID; otherwise the name is used.
func GroupEvents(events dataset.Events, channel string, names, ids []string) []Group {
	out := make([]Group, len(names))
	for i, name := range names {
		id := name
		if i < len(ids) && ids[i] != "" {
			id = ids[i]
		}
		out[i] = Group{Name: name, ID: id, Values: events.Channel(channel, name)}
	}
	return out
}

// Violins estimates every group on shared bin centres spanning the pooled
// extent and scales each curve to a peak of 1. Groups without values get a
// flat zero curve.
func Violins(groups []Group, bins int) (dataset.ViolinData, error) {
	if bins <= 0 {
		bins = DefaultBins
	}
	var pooled []float64
	for _, g := range groups {
		pooled = append(pooled, g.Values...)
	}
	if len(pooled) == 0 {
		return dataset.ViolinData{}, errors.New(errors.ErrCodeInvalidDataset, "no values to estimate")
	}

	lo, hi := floats.Min(pooled), floats.Max(pooled)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	centres := Centres(lo, hi, bins)
	fallback := (hi - lo) / float64(bins)

	data := dataset.ViolinData{BinCentres: centres}
	for _, g := range groups {
		bw := Bandwidth(g.Values)
		if bw == 0 {
			bw = fallback
		}
		curve := Estimate(g.Values, centres, bw)
		if peak := floats.Max(curve); peak > 0 {
			floats.Scale(1/peak, curve)
		}
		data.Density = append(data.Density, dataset.DensitySeries{Name: g.Name, ID: g.ID, Values: curve})
	}
	return data, data.Validate()
}
