package harp

import (
	"math"
	"testing"

	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

func gridOf(values ...float64) *pmath.Grid {
	g := pmath.NewGrid([]string{"x"}, []int{len(values)})
	copy(g.Values(), values)
	return g
}

func TestNormalizeRange(t *testing.T) {
	g := Normalize(gridOf(2, 4, 6))
	want := []float64{0, 0.5, 1}
	for i, w := range want {
		if v := g.At(i); math.Abs(v-w) > 1e-12 {
			t.Fatalf("normalize[%d] = %f, want %f", i, v, w)
		}
	}
}

func TestNormalizeIdempotentOnUnitRange(t *testing.T) {
	// An array already spanning [0,1] passes through unchanged (min=0,
	// max=1, gamma=1), modulo float tolerance.
	in := gridOf(0, 0.25, 0.7, 1)
	out := Gamma(Normalize(in), 1.0)
	for i := 0; i < in.Len(); i++ {
		if math.Abs(out.At(i)-in.At(i)) > 1e-12 {
			t.Fatalf("renormalize changed [%d]: %f -> %f", i, in.At(i), out.At(i))
		}
	}
}

func TestNormalizeConstantArrayGoesNaN(t *testing.T) {
	// max == min: 0/0 for every element. Deliberately preserved, not
	// special-cased.
	g := Normalize(gridOf(3, 3, 3))
	for i := 0; i < g.Len(); i++ {
		if !math.IsNaN(g.At(i)) {
			t.Fatalf("constant array normalize[%d] = %f, want NaN", i, g.At(i))
		}
	}
}

func TestNormalizeNaNPassesThrough(t *testing.T) {
	g := Normalize(gridOf(0, math.NaN(), 10))
	if !math.IsNaN(g.At(1)) {
		t.Fatal("NaN must pass through normalization")
	}
	if g.At(0) != 0 || g.At(2) != 1 {
		t.Fatalf("NaN poisoned the range: %f %f", g.At(0), g.At(2))
	}
}

func TestGamma(t *testing.T) {
	g := Gamma(gridOf(0, 0.25, 1, math.NaN()), 0.5)

	if v := g.At(0); v != 0 {
		t.Fatalf("0^0.5 = %f, want exactly 0", v)
	}
	if v := g.At(1); math.Abs(v-0.5) > 1e-12 {
		t.Fatalf("0.25^0.5 = %f, want 0.5", v)
	}
	if v := g.At(2); v != 1 {
		t.Fatalf("1^0.5 = %f, want 1", v)
	}
	if !math.IsNaN(g.At(3)) {
		t.Fatal("NaN must pass through gamma")
	}
}

func TestGammaBrightensBelowOne(t *testing.T) {
	in := gridOf(0.3)
	if Gamma(in, 0.5).At(0) <= in.At(0) {
		t.Fatal("gamma < 1 should brighten")
	}
	if Gamma(in, 2.0).At(0) >= in.At(0) {
		t.Fatal("gamma > 1 should darken")
	}
}

func TestNormalizeStretch(t *testing.T) {
	// One hot pixel; quantile limits should ignore it and the result
	// clamps to [0,1].
	values := make([]float64, 101)
	for i := range values {
		values[i] = float64(i) // 0..100
	}
	values[100] = 1e9

	g := NormalizeStretch(gridOf(values...), 0.02, 0.98)
	for i := 0; i < g.Len(); i++ {
		v := g.At(i)
		if v < 0 || v > 1 {
			t.Fatalf("stretch[%d] = %f out of [0,1]", i, v)
		}
	}
	if g.At(100) != 1 {
		t.Fatalf("hot pixel should clamp to 1, got %f", g.At(100))
	}
	if g.At(0) != 0 {
		t.Fatalf("low end should clamp to 0, got %f", g.At(0))
	}
}
