package pmath

import(
	"fmt"
	"math"
)

// GaussianKernel builds a normalized 1-d kernel with standard
// deviation sigma (in index units), truncated at `truncate` standard
// deviations either side of center. Kernel length is always odd.
func GaussianKernel(sigma, truncate float64) []float64 {
	radius := int(math.Ceil(truncate * sigma))
	if radius < 1 {
		radius = 1
	}

	k := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		k[i+radius] = v
		sum += v
	}
	for i := range k {
		k[i] /= sum
	}
	return k
}

// ConvolveAxis convolves the grid with a 1-d kernel along the named
// axis only; every other axis is left untouched (no cross-axis
// mixing). Boundaries replicate the nearest edge value. NaNs within
// reach of the kernel propagate, like any other arithmetic here.
func (g *Grid)ConvolveAxis(axis string, kernel []float64) (*Grid, error) {
	ax, ok := g.AxisIndex(axis)
	if !ok {
		return nil, fmt.Errorf("pmath.ConvolveAxis: no axis %q in %v", axis, g.axes)
	}
	if len(kernel)%2 == 0 {
		return nil, fmt.Errorf("pmath.ConvolveAxis: kernel length %d not odd", len(kernel))
	}

	radius := len(kernel) / 2
	stride := g.strides[ax]
	dim := g.dims[ax]
	g2 := g.NewFromThis()

	for i := range g.values {
		c := (i / stride) % dim // coordinate along the convolution axis

		acc := 0.0
		for t := -radius; t <= radius; t++ {
			cc := c + t
			if cc < 0 { cc = 0 }
			if cc >= dim { cc = dim - 1 }
			acc += kernel[t+radius] * g.values[i+(cc-c)*stride]
		}
		g2.values[i] = acc
	}

	return g2, nil
}
