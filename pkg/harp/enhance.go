package harp

import(
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

// Normalize rescales the grid to [0,1] using the global min and max
// over the entire array (not per-slice, so relative brightness between
// angle frames is preserved). NaNs are skipped when finding the range
// and pass through the arithmetic as NaN. A constant array divides
// 0 by 0 and comes out all-NaN; that degenerate case is preserved
// rather than special-cased.
func Normalize(g *pmath.Grid) *pmath.Grid {
	min, max := g.MinMax()
	return g.Map(func(v float64) float64 { return (v - min) / (max - min) })
}

// NormalizeStretch rescales like Normalize but takes its limits from
// the lo/hi quantiles (0..1) of the finite values, clamping to [0,1]
// afterwards. Useful on noisy scenes where a few hot pixels would
// otherwise crush the stretch. NaNs still pass through.
func NormalizeStretch(g *pmath.Grid, lo, hi float64) *pmath.Grid {
	finite := make([]float64, 0, g.Len())
	for _, v := range g.Values() {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return g.Copy()
	}
	sort.Float64s(finite)

	vmin := stat.Quantile(lo, stat.Empirical, finite, nil)
	vmax := stat.Quantile(hi, stat.Empirical, finite, nil)

	return g.Map(func(v float64) float64 {
		v = (v - vmin) / (vmax - vmin)
		if v < 0 { v = 0 }
		if v > 1 { v = 1 }
		return v
	})
}

// Gamma applies a power-law contrast adjustment x^gamma to a grid
// already in [0,1]. gamma < 1 brightens, gamma > 1 darkens. Zero to a
// fractional power is zero, and NaN stays NaN, both courtesy of
// math.Pow.
func Gamma(g *pmath.Grid, gamma float64) *pmath.Grid {
	if gamma == 1.0 {
		return g.Copy()
	}
	return g.Map(func(v float64) float64 { return math.Pow(v, gamma) })
}
