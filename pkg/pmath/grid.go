package pmath

import(
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
)

// A Grid is an n-dimensional array of float64s held in a single flat
// row-major buffer, with named axes (e.g. "angle", "y", "x"). All the
// pipeline transformations allocate a fresh Grid rather than mutating
// in place. NaN values mark missing / out-of-swath samples and flow
// through arithmetic untouched.
type Grid struct {
	axes    []string
	dims    []int
	strides []int
	values  []float64
}

func NewGrid(axes []string, dims []int) *Grid {
	if len(axes) != len(dims) {
		panic(fmt.Sprintf("pmath.NewGrid: %d axis names for %d dims", len(axes), len(dims)))
	}

	n := 1
	strides := make([]int, len(dims))
	for i := len(dims)-1; i >= 0; i-- {
		strides[i] = n
		n *= dims[i]
	}

	return &Grid{
		axes:    append([]string{}, axes...),
		dims:    append([]int{}, dims...),
		strides: strides,
		values:  make([]float64, n),
	}
}

func (g *Grid)Axes() []string     { return g.axes }
func (g *Grid)Dims() []int        { return g.dims }
func (g *Grid)Len() int           { return len(g.values) }
func (g *Grid)Values() []float64  { return g.values } // the flat row-major buffer

// AxisIndex maps an axis name to its position in the dims.
func (g *Grid)AxisIndex(name string) (int, bool) {
	for i, a := range g.axes {
		if a == name {
			return i, true
		}
	}
	return -1, false
}

// Dim returns the length of the named axis, or 0 if absent.
func (g *Grid)Dim(name string) int {
	if i, ok := g.AxisIndex(name); ok {
		return g.dims[i]
	}
	return 0
}

func (g *Grid)offset(idx ...int) int {
	if len(idx) != len(g.dims) {
		panic(fmt.Sprintf("pmath.Grid: %d indices into %d-d grid", len(idx), len(g.dims)))
	}
	off := 0
	for i, v := range idx {
		off += v * g.strides[i]
	}
	return off
}

func (g *Grid)At(idx ...int) float64     { return g.values[g.offset(idx...)] }
func (g *Grid)Set(v float64, idx ...int) { g.values[g.offset(idx...)] = v }

func (g *Grid)NewFromThis() *Grid {
	return NewGrid(g.axes, g.dims)
}

func (g *Grid)Copy() *Grid {
	g2 := g.NewFromThis()
	copy(g2.values, g.values)
	return g2
}

// Map applies f to every value, producing a new Grid.
func (g *Grid)Map(f func(float64) float64) *Grid {
	g2 := g.NewFromThis()
	for i, v := range g.values {
		g2.values[i] = f(v)
	}
	return g2
}

// MinMax returns the global min and max over the whole buffer,
// skipping NaNs so a handful of fill pixels can't poison the range.
// An all-NaN grid returns (NaN, NaN).
func (g *Grid)MinMax() (float64, float64) {
	min, max := math.NaN(), math.NaN()
	for _, v := range g.values {
		if math.IsNaN(v) {
			continue
		}
		if math.IsNaN(min) || v < min { min = v }
		if math.IsNaN(max) || v > max { max = v }
	}
	return min, max
}

// Slice extracts the (n-1)-dimensional plane at position i along the
// named axis, copying values into a new Grid without that axis.
func (g *Grid)Slice(axis string, i int) (*Grid, error) {
	sub, err := g.SliceRange(axis, i, i+1)
	if err != nil {
		return nil, err
	}
	return sub.dropAxis(axis), nil
}

// SliceRange extracts the half-open range [start,end) along the named
// axis, keeping the axis (with its new, shorter length).
func (g *Grid)SliceRange(axis string, start, end int) (*Grid, error) {
	ax, ok := g.AxisIndex(axis)
	if !ok {
		return nil, fmt.Errorf("pmath.SliceRange: no axis %q in %v", axis, g.axes)
	}
	if start < 0 || end > g.dims[ax] || start >= end {
		return nil, fmt.Errorf("pmath.SliceRange: [%d,%d) out of bounds on %q (len %d)", start, end, axis, g.dims[ax])
	}

	dims := append([]int{}, g.dims...)
	dims[ax] = end - start
	g2 := NewGrid(g.axes, dims)

	idx := make([]int, len(g.dims))
	for i := range g2.values {
		// decompose i into coords of g2, shift along ax, read from g
		rem := i
		for d := 0; d < len(dims); d++ {
			idx[d] = rem / g2.strides[d]
			rem = rem % g2.strides[d]
		}
		idx[ax] += start
		g2.values[i] = g.At(idx...)
	}
	return g2, nil
}

// dropAxis removes a length-1 axis. Internal: callers go via Slice.
func (g *Grid)dropAxis(axis string) *Grid {
	ax, _ := g.AxisIndex(axis)
	axes := append(append([]string{}, g.axes[:ax]...), g.axes[ax+1:]...)
	dims := append(append([]int{}, g.dims[:ax]...), g.dims[ax+1:]...)
	g2 := NewGrid(axes, dims)
	copy(g2.values, g.values)
	return g2
}

func (g *Grid)Stats() string {
	min, max := g.MinMax()
	nan := 0
	for _, v := range g.values {
		if math.IsNaN(v) { nan++ }
	}
	return fmt.Sprintf("grid[%v%v, vals{%f,%f}, %d NaN]", g.axes, g.dims, min, max, nan)
}

func gammaExpand(f float64) float64 {
	if f <= 0.0031308 {
		return 12.92 * f
	}
	return 1.055 * math.Pow(f, 1.0/2.4) - 0.055
}

// ToImg saves a 2-d grid as a simple annotated grayscale quicklook,
// stretching to the grid's own value range and gamma scaling so it
// looks normal to human vision. NaNs render black.
func (g *Grid)ToImg(title, filename string) error {
	if len(g.dims) != 2 {
		return fmt.Errorf("pmath.ToImg: want 2-d grid, have %v", g.dims)
	}
	h, w := g.dims[0], g.dims[1]
	min, max := g.MinMax()

	img := image.NewRGBA64(image.Rectangle{Max: image.Point{w, h}})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := g.At(y, x)
			gray := 0.0
			if !math.IsNaN(v) && max > min {
				gray = gammaExpand((v - min) / (max - min))
			}
			col := color.RGBA64{uint16(gray * 65535.0), uint16(gray * 65535.0), uint16(gray * 65535.0), 0xFFFF}
			img.Set(x, y, col)
		}
	}

	dc := gg.NewContextForImage(img)
	dc.SetRGB(1, 1, 1)
	dc.DrawString(title, 20, 30)
	return dc.SavePNG(filename)
}
