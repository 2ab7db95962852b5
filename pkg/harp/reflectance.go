package harp

import(
	"fmt"
	"math"

	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

// Reflectance converts top-of-atmosphere radiance to unitless
// reflectance:
//
//	rho = au^2 * pi * L / (cos(sza * pi/180) * F0)
//
// applied element-wise over an ("angle","y","x") radiance grid, with
// the per-channel solar irradiance F0 broadcast along the angle axis
// and the per-pixel solar zenith grid broadcast across channels.
//
// Near the terminator the zenith cosine approaches zero and the result
// blows up towards infinity; that is real physics, not an error, and
// the division is deliberately unguarded. NaN radiance stays NaN.
func Reflectance(rad, sza *pmath.Grid, f0 []float64, au float64) (*pmath.Grid, error) {
	if au <= 0 {
		return nil, fmt.Errorf("sun-earth distance %f AU not positive", au)
	}

	dims := rad.Dims()
	if len(dims) != 3 {
		return nil, fmt.Errorf("%w: radiance is %d-d, want (angle,y,x)", ErrShapeMismatch, len(dims))
	}
	nAng, nY, nX := dims[0], dims[1], dims[2]
	if len(f0) != nAng {
		return nil, fmt.Errorf("%w: %d F0 channels for %d angle channels", ErrShapeMismatch, len(f0), nAng)
	}
	szaDims := sza.Dims()
	if len(szaDims) != 2 || szaDims[0] != nY || szaDims[1] != nX {
		return nil, fmt.Errorf("%w: solar zenith %v against radiance %v", ErrShapeMismatch, szaDims, dims)
	}

	scale := au * au * math.Pi
	refl := rad.NewFromThis()

	// Precompute the per-pixel zenith cosine once; it is identical for
	// every channel.
	cosSZA := sza.Map(func(deg float64) float64 { return math.Cos(deg * math.Pi / 180.0) })

	for ch := 0; ch < nAng; ch++ {
		for y := 0; y < nY; y++ {
			for x := 0; x < nX; x++ {
				v := scale * rad.At(ch, y, x) / (cosSZA.At(y, x) * f0[ch])
				refl.Set(v, ch, y, x)
			}
		}
	}

	return refl, nil
}
