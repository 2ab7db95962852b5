package harp

import (
	"errors"
	"image"
	"math"
	"testing"

	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

func rampGrid(nAng, nY, nX int) *pmath.Grid {
	g := pmath.NewGrid([]string{"angle", "y", "x"}, []int{nAng, nY, nX})
	for ch := 0; ch < nAng; ch++ {
		for y := 0; y < nY; y++ {
			for x := 0; x < nX; x++ {
				g.Set(float64(ch)/float64(nAng-1), ch, y, x)
			}
		}
	}
	return g
}

func TestQuantize(t *testing.T) {
	g := pmath.NewGrid([]string{"angle", "y", "x"}, []int{1, 1, 5})
	g.Set(0, 0, 0, 0)
	g.Set(0.5, 0, 0, 1)
	g.Set(1, 0, 0, 2)
	g.Set(math.NaN(), 0, 0, 3)
	g.Set(1.7, 0, 0, 4) // out of range clamps, no wraparound

	frames, err := Quantize(g)
	if err != nil {
		t.Fatal(err)
	}
	if len(frames) != 1 {
		t.Fatalf("got %d frames, want 1", len(frames))
	}

	want := []uint8{0, 128, 255, 0, 255}
	for x, w := range want {
		if p := frames[0].Pix[x]; p != w {
			t.Fatalf("pixel %d = %d, want %d", x, p, w)
		}
	}
}

func TestQuantizeNaNBecomesZeroExactlyHere(t *testing.T) {
	// End-to-end NaN contract: NaN radiance -> NaN reflectance ->
	// NaN normalized -> 0 only in the 8-bit frame.
	rad := pmath.NewGrid([]string{"angle", "y", "x"}, []int{1, 1, 2})
	rad.Set(math.NaN(), 0, 0, 0)
	rad.Set(1, 0, 0, 1)
	sza := pmath.NewGrid([]string{"y", "x"}, []int{1, 2})

	refl, err := Reflectance(rad, sza, []float64{1}, 1)
	if err != nil {
		t.Fatal(err)
	}
	norm := Gamma(Normalize(refl), 0.5)
	if !math.IsNaN(norm.At(0, 0, 0)) {
		t.Fatal("NaN must survive until quantization")
	}

	frames, err := Quantize(norm)
	if err != nil {
		t.Fatal(err)
	}
	if p := frames[0].Pix[0]; p != 0 {
		t.Fatalf("NaN pixel quantized to %d, want 0", p)
	}
}

func TestBounceSequenceLength(t *testing.T) {
	for _, tc := range []struct{ n, want int }{
		{60, 118},
		{2, 2},
		{3, 4},
	} {
		frames, err := Quantize(rampGrid(tc.n, 1, 1))
		if err != nil {
			t.Fatal(err)
		}
		seq, err := BounceSequence(frames)
		if err != nil {
			t.Fatal(err)
		}
		if len(seq) != tc.want {
			t.Fatalf("n=%d: bounce length %d, want %d", tc.n, len(seq), tc.want)
		}
	}
}

func TestBounceSequenceInsufficientFrames(t *testing.T) {
	frames := []*image.Gray{image.NewGray(image.Rect(0, 0, 1, 1))}
	if _, err := BounceSequence(frames); !errors.Is(err, ErrInsufficientFrames) {
		t.Fatalf("n=1: err = %v, want ErrInsufficientFrames", err)
	}
	if _, err := BounceSequence(nil); !errors.Is(err, ErrInsufficientFrames) {
		t.Fatalf("n=0: err = %v, want ErrInsufficientFrames", err)
	}
}

func TestBounceSequenceOrder(t *testing.T) {
	const n = 5
	frames, err := Quantize(rampGrid(n, 1, 1))
	if err != nil {
		t.Fatal(err)
	}
	seq, err := BounceSequence(frames)
	if err != nil {
		t.Fatal(err)
	}

	// first n frames are the forward run, then n-2..1 reversed
	wantIdx := []int{0, 1, 2, 3, 4, 3, 2, 1}
	if len(seq) != len(wantIdx) {
		t.Fatalf("bounce length %d, want %d", len(seq), len(wantIdx))
	}
	for i, w := range wantIdx {
		if seq[i] != frames[w] {
			t.Fatalf("seq[%d] is not frames[%d]", i, w)
		}
	}
}

func TestScaleFrames(t *testing.T) {
	frames := []*image.Gray{image.NewGray(image.Rect(0, 0, 10, 8))}

	half := ScaleFrames(frames, 0.5)
	if b := half[0].Bounds(); b.Dx() != 5 || b.Dy() != 4 {
		t.Fatalf("half scale bounds = %v", b)
	}

	same := ScaleFrames(frames, 1.0)
	if same[0] != frames[0] {
		t.Fatal("scale 1.0 should pass frames through untouched")
	}
}
