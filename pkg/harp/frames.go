package harp

import(
	"fmt"
	"image"
	"log"
	"math"

	"github.com/skypies/util/histogram"
	"golang.org/x/image/draw"

	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

// Quantize turns a normalized, gamma-corrected ("angle","y","x") grid
// into one 8-bit grayscale frame per angle index: round(255*x) clamped
// to [0,255]. This is the one and only place NaN is replaced - it
// becomes 0 immediately before the 8-bit cast, never earlier, so the
// float pipeline stays inspectable end to end.
func Quantize(g *pmath.Grid) ([]*image.Gray, error) {
	dims := g.Dims()
	if len(dims) != 3 {
		return nil, fmt.Errorf("%w: quantize wants (angle,y,x), have %v", ErrShapeMismatch, dims)
	}
	nAng, nY, nX := dims[0], dims[1], dims[2]

	frames := make([]*image.Gray, nAng)
	for ch := 0; ch < nAng; ch++ {
		frame := image.NewGray(image.Rect(0, 0, nX, nY))
		for y := 0; y < nY; y++ {
			for x := 0; x < nX; x++ {
				v := g.At(ch, y, x)
				if math.IsNaN(v) {
					v = 0
				}
				p := math.Round(255.0 * v)
				if p < 0 { p = 0 }
				if p > 255 { p = 255 }
				frame.Pix[y*frame.Stride+x] = uint8(p)
			}
		}
		frames[ch] = frame
	}

	return frames, nil
}

// BounceSequence orders frames for seamless looped playback: the full
// forward run 0..N-1, then the return run N-2..1 (both endpoints
// dropped so neither end of the loop stutters). Output length is
// exactly 2N-2. Frames are shared, not copied; the sequence order is
// the contract.
func BounceSequence(frames []*image.Gray) ([]*image.Gray, error) {
	n := len(frames)
	if n < 2 {
		return nil, fmt.Errorf("%w: have %d", ErrInsufficientFrames, n)
	}

	seq := make([]*image.Gray, 0, 2*n-2)
	seq = append(seq, frames...)
	for i := n - 2; i >= 1; i-- {
		seq = append(seq, frames[i])
	}
	return seq, nil
}

// ScaleFrames resizes every frame by the given factor (e.g. 0.5 to
// halve the GIF dimensions). factor 1 returns the input untouched.
func ScaleFrames(frames []*image.Gray, factor float64) []*image.Gray {
	if factor == 1.0 || len(frames) == 0 {
		return frames
	}

	b := frames[0].Bounds()
	w := int(math.Round(float64(b.Dx()) * factor))
	h := int(math.Round(float64(b.Dy()) * factor))
	if w < 1 { w = 1 }
	if h < 1 { h = 1 }

	out := make([]*image.Gray, len(frames))
	for i, f := range frames {
		dst := image.NewGray(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), f, f.Bounds(), draw.Src, nil)
		out[i] = dst
	}
	return out
}

// LogIntensityHistogram dumps the distribution of quantized pixel
// intensities across a frame set, for eyeballing whether the stretch
// and gamma left any headroom.
func LogIntensityHistogram(frames []*image.Gray) {
	h := histogram.Histogram{NumBuckets: 256, ValMin: 0, ValMax: 256}
	for _, f := range frames {
		for _, p := range f.Pix {
			h.Add(histogram.ScalarVal(int(p)))
		}
	}
	log.Printf("frame intensities: %v", h)
}
