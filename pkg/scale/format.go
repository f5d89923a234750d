package scale

import (
	"math"
	"strconv"
)

// FormatTick formats a tick value with the precision implied by step.
func FormatTick(v, step float64) string {
	prec := 0
	if step != 0 && !math.IsNaN(step) && !math.IsInf(step, 0) {
		prec = max(0, -int(math.Floor(math.Log10(math.Abs(step))+1e-9)))
	}
	if v == 0 {
		v = 0 // normalise -0
	}
	return strconv.FormatFloat(v, 'f', prec, 64)
}

// FormatPercent formats a fraction as a whole percentage after rounding the
// fraction to two decimals, e.g. 0.154 becomes "15%".
func FormatPercent(v float64) string {
	pct := math.Round(v * 100)
	if pct == 0 {
		pct = 0
	}
	return strconv.FormatFloat(pct, 'f', -1, 64) + "%"
}
