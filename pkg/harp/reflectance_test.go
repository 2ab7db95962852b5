package harp

import (
	"errors"
	"math"
	"testing"

	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

func onePixelGrids(rad, sza float64) (*pmath.Grid, *pmath.Grid) {
	r := pmath.NewGrid([]string{"angle", "y", "x"}, []int{1, 1, 1})
	r.Set(rad, 0, 0, 0)
	s := pmath.NewGrid([]string{"y", "x"}, []int{1, 1})
	s.Set(sza, 0, 0)
	return r, s
}

func TestReflectanceOverheadSun(t *testing.T) {
	// radiance=1, F0=1, sza=0, au=1: cos(0)=1 so reflectance = pi
	rad, sza := onePixelGrids(1, 0)
	refl, err := Reflectance(rad, sza, []float64{1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if v := refl.At(0, 0, 0); math.Abs(v-math.Pi) > 1e-12 {
		t.Fatalf("reflectance = %f, want pi", v)
	}
}

func TestReflectanceObliqueSun(t *testing.T) {
	// sza=60: cos = 0.5, so reflectance = 2*pi
	rad, sza := onePixelGrids(1, 60)
	refl, err := Reflectance(rad, sza, []float64{1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if v := refl.At(0, 0, 0); math.Abs(v-2*math.Pi) > 1e-9 {
		t.Fatalf("reflectance = %f, want 2*pi", v)
	}
}

func TestReflectanceDistanceSquared(t *testing.T) {
	rad, sza := onePixelGrids(1, 0)
	refl, err := Reflectance(rad, sza, []float64{1}, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v := refl.At(0, 0, 0); math.Abs(v-4*math.Pi) > 1e-12 {
		t.Fatalf("reflectance at 2 AU = %f, want 4*pi", v)
	}
}

func TestReflectanceTerminatorBlowsUp(t *testing.T) {
	// cos(90) is ~0; the division is deliberately unguarded and the
	// result must come out huge or infinite, not as an error.
	rad, sza := onePixelGrids(1, 90)
	refl, err := Reflectance(rad, sza, []float64{1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if v := refl.At(0, 0, 0); !math.IsInf(v, 0) && math.Abs(v) < 1e12 {
		t.Fatalf("terminator reflectance = %f, want huge or Inf", v)
	}
}

func TestReflectanceNaNPropagates(t *testing.T) {
	rad := pmath.NewGrid([]string{"angle", "y", "x"}, []int{1, 1, 2})
	rad.Set(math.NaN(), 0, 0, 0)
	rad.Set(1, 0, 0, 1)
	sza := pmath.NewGrid([]string{"y", "x"}, []int{1, 2})

	refl, err := Reflectance(rad, sza, []float64{1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !math.IsNaN(refl.At(0, 0, 0)) {
		t.Fatal("NaN radiance must stay NaN")
	}
	if math.IsNaN(refl.At(0, 0, 1)) {
		t.Fatal("NaN must not leak into neighboring pixels")
	}
}

func TestReflectanceShapeMismatch(t *testing.T) {
	rad := pmath.NewGrid([]string{"angle", "y", "x"}, []int{2, 2, 2})
	sza := pmath.NewGrid([]string{"y", "x"}, []int{2, 2})

	if _, err := Reflectance(rad, sza, []float64{1}, 1); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("wrong F0 length: err = %v, want ErrShapeMismatch", err)
	}

	badSza := pmath.NewGrid([]string{"y", "x"}, []int{3, 2})
	if _, err := Reflectance(rad, badSza, []float64{1, 1}, 1); !errors.Is(err, ErrShapeMismatch) {
		t.Fatalf("wrong sza shape: err = %v, want ErrShapeMismatch", err)
	}
}
