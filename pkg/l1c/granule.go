// Package l1c is the upstream data collaborator: it reads a PACE
// HARP2 Level-1C granule from netCDF and hands the pipeline plain
// in-memory labeled arrays. Searching, downloading and authenticating
// against the archive are someone else's job; a granule here is just a
// local file.
package l1c

import(
	"math"
	"path/filepath"
	"strings"

	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

// A Granule is one HARP2 L1C capture, fully loaded into memory.
// Channels run along the "angle" axis, grouped contiguously by
// wavelength band (the band layout itself is pipeline configuration).
type Granule struct {
	ID          string

	Angles      []float64   // per-channel view angle, degrees, signed from nadir
	Radiance    *pmath.Grid // ("angle","y","x") top-of-atmosphere radiance
	F0          []float64   // per-channel solar irradiance
	SolarZenith *pmath.Grid // ("y","x") degrees
	SunEarthAU  float64

	Lat, Lon    *pmath.Grid // ("y","x"), for geolocated quicklooks
}

// L1C fill values are large negatives; anything at or below this is an
// unobserved / out-of-swath sample and becomes NaN in memory.
const fillThreshold = -900.0

func fillToNaN(v float64) float64 {
	if v <= fillThreshold {
		return math.NaN()
	}
	return v
}

func granuleID(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
