package density

import (
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/matzehuels/flowplot/pkg/dataset"
)

const (
	// cutoffGrid is the number of points the density is evaluated at when
	// searching for a cutoff.
	cutoffGrid = 100

	// valleyDepth is how far, as a fraction of the peak, a minimum must lie
	// below the lower of its flanking peaks to count as a valley.
	valleyDepth = 0.01

	// positiveCentre is the transformed intensity above which a unimodal
	// channel is taken to be entirely positive.
	positiveCentre = 3.0
)

// Cutoff estimates the boundary between negative and positive values of one
// channel. It returns the deepest valley of the kernel density on a grid
// spanning the values. A channel without a valley is cut at the
// quarter-maximum crossing above its mode, or below it when the channel's
// mass sits above [positiveCentre].
func Cutoff(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	lo, hi := floats.Min(values), floats.Max(values)
	bw := Bandwidth(values)
	if lo == hi || bw == 0 {
		return lo
	}
	grid := make([]float64, cutoffGrid)
	floats.Span(grid, lo, hi)
	px := Estimate(values, grid, bw)
	peak := floats.Max(px)

	best := -1
	for i := 1; i < len(px)-1; i++ {
		if !(px[i] < px[i-1] && px[i] < px[i+1]) {
			continue
		}
		flank := math.Min(floats.Max(px[:i]), floats.Max(px[i+1:]))
		if flank-px[i] <= valleyDepth*peak {
			continue
		}
		if best < 0 || px[i] < px[best] {
			best = i
		}
	}
	if best >= 0 {
		return grid[best]
	}

	q := peak / 4
	left, right := 0, len(px)-1
	for left < right && px[left] < q {
		left++
	}
	for right > left && px[right] < q {
		right--
	}
	var mass, moment float64
	for i := 0; i < right; i++ {
		mass += px[i]
		moment += px[i] * grid[i]
	}
	if mass > 0 && moment/mass > positiveCentre {
		return grid[left]
	}
	return grid[right]
}

// BatchCutoff records the cutoff applied to one channel of one batch.
type BatchCutoff struct {
	Batch   string
	Channel string
	Value   float64
}

// BatchNormalise aligns channels across batches in place. Events are grouped
// by the batch tags they carry, joined with "/" in batchTags order; events
// carrying none form the batch "". Within each batch and channel the [Cutoff]
// is subtracted, then positive values are divided by their mean and negative
// values by the magnitude of theirs, so each side averages ±1.
//
// The returned cutoffs follow first-seen batch order, then channel order.
func BatchNormalise(events dataset.Events, batchTags, channels []string) []BatchCutoff {
	order, groups := batchGroups(events, batchTags)
	var out []BatchCutoff
	for _, batch := range order {
		for _, ch := range channels {
			var idx []int
			var vals []float64
			for _, i := range groups[batch] {
				if v, ok := events[i].Values[ch]; ok {
					idx = append(idx, i)
					vals = append(vals, v)
				}
			}
			if len(vals) == 0 {
				continue
			}
			cut := Cutoff(vals)
			floats.AddConst(-cut, vals)
			scaleSide(vals, func(v float64) bool { return v > 0 })
			scaleSide(vals, func(v float64) bool { return v < 0 })
			for k, i := range idx {
				events[i].Values[ch] = vals[k]
			}
			out = append(out, BatchCutoff{Batch: batch, Channel: ch, Value: cut})
		}
	}
	return out
}

func batchGroups(events dataset.Events, batchTags []string) ([]string, map[string][]int) {
	groups := make(map[string][]int)
	var order []string
	for i, e := range events {
		var parts []string
		for _, t := range batchTags {
			if slices.Contains(e.Tags, t) {
				parts = append(parts, t)
			}
		}
		k := strings.Join(parts, "/")
		if _, ok := groups[k]; !ok {
			order = append(order, k)
		}
		groups[k] = append(groups[k], i)
	}
	return order, groups
}

// scaleSide divides the values selected by side by the magnitude of their mean.
func scaleSide(vals []float64, side func(float64) bool) {
	var sum float64
	n := 0
	for _, v := range vals {
		if side(v) {
			sum += v
			n++
		}
	}
	if n == 0 {
		return
	}
	m := math.Abs(sum / float64(n))
	for i, v := range vals {
		if side(v) {
			vals[i] = v / m
		}
	}
}
