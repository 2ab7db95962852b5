package harp

import(
	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

// Gaussian kernel truncation, in standard deviations.
const smoothTruncate = 2.0

// SmoothAngles runs a 1-d Gaussian filter along the "angle" axis, with
// sub-pixel sigma in channel-index units and nearest-edge boundary
// handling. The point is purely cosmetic: it softens the banding you
// see when the channels play back as animation frames. It alters pixel
// values, so never apply it before quantitative analysis.
//
// sigma <= 0 disables smoothing and returns a plain copy.
func SmoothAngles(g *pmath.Grid, sigma float64) (*pmath.Grid, error) {
	if sigma <= 0 {
		return g.Copy(), nil
	}
	kernel := pmath.GaussianKernel(sigma, smoothTruncate)
	return g.ConvolveAxis("angle", kernel)
}
