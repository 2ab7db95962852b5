package l1c

import(
	"fmt"
	"log"

	"github.com/batchatco/go-native-netcdf/netcdf"
	"github.com/batchatco/go-native-netcdf/netcdf/api"

	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

// L1C variable names, group-qualified. Some reprocessed granules are
// flattened, so lookups fall back to the bare name.
var(
	varViewAngles  = "sensor_views_bands/view_angles"
	varIntensityF0 = "sensor_views_bands/intensity_f0"
	varRadiance    = "observation_data/i"
	varSolarZenith = "geolocation_data/solar_zenith_angle"
	varLatitude    = "geolocation_data/latitude"
	varLongitude   = "geolocation_data/longitude"
	varSunEarthAU  = "sun_earth_distance"
)

// Open loads a HARP2 L1C granule into memory. The heavy lifting - the
// actual file format - belongs to the netcdf library; this is just the
// mapping from its variables onto the pipeline's arrays, with fill
// values turned into NaN.
func Open(path string) (*Granule, error) {
	nc, err := netcdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("l1c open %s: %v", path, err)
	}
	defer nc.Close()

	g := Granule{ID: granuleID(path)}

	if g.Angles, err = readVector(nc, varViewAngles); err != nil {
		return nil, err
	}
	if g.F0, err = readVector(nc, varIntensityF0); err != nil {
		return nil, err
	}
	if g.Radiance, err = readGrid3(nc, varRadiance, []string{"angle", "y", "x"}); err != nil {
		return nil, err
	}
	if g.SolarZenith, err = readGrid2(nc, varSolarZenith, []string{"y", "x"}); err != nil {
		return nil, err
	}
	if g.Lat, err = readGrid2(nc, varLatitude, []string{"y", "x"}); err != nil {
		return nil, err
	}
	if g.Lon, err = readGrid2(nc, varLongitude, []string{"y", "x"}); err != nil {
		return nil, err
	}
	if g.SunEarthAU, err = readScalar(nc, varSunEarthAU); err != nil {
		return nil, err
	}

	if len(g.F0) != len(g.Angles) || g.Radiance.Dim("angle") != len(g.Angles) {
		return nil, fmt.Errorf("l1c %s: %d angles, %d F0 channels, %d radiance channels",
			g.ID, len(g.Angles), len(g.F0), g.Radiance.Dim("angle"))
	}

	log.Printf("Loaded granule %s: %d channels, radiance %s", g.ID, len(g.Angles), g.Radiance.Stats())
	return &g, nil
}

// varGetter is the sliver of api.Group the readers need; tests fake it.
type varGetter interface {
	GetVariable(name string) (*api.Variable, error)
}

var _ varGetter = api.Group(nil)

func lookup(nc varGetter, name string) (interface{}, error) {
	vr, err := nc.GetVariable(name)
	if err != nil {
		// fall back to the unqualified name for flattened granules
		if i := lastSlash(name); i >= 0 {
			if vr2, err2 := nc.GetVariable(name[i+1:]); err2 == nil {
				return vr2.Values, nil
			}
		}
		return nil, fmt.Errorf("l1c variable %q: %v", name, err)
	}
	return vr.Values, nil
}

func lastSlash(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '/' {
			return i
		}
	}
	return -1
}

func readScalar(nc varGetter, name string) (float64, error) {
	values, err := lookup(nc, name)
	if err != nil {
		return 0, err
	}
	switch v := values.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case []float64:
		if len(v) == 1 {
			return v[0], nil
		}
	case []float32:
		if len(v) == 1 {
			return float64(v[0]), nil
		}
	}
	return 0, fmt.Errorf("l1c variable %q: not a scalar (%T)", name, values)
}

func readVector(nc varGetter, name string) ([]float64, error) {
	values, err := lookup(nc, name)
	if err != nil {
		return nil, err
	}
	vec, err := asVector(values)
	if err != nil {
		return nil, fmt.Errorf("l1c variable %q: %v", name, err)
	}
	return vec, nil
}

func asVector(values interface{}) ([]float64, error) {
	switch v := values.(type) {
	case []float64:
		return append([]float64{}, v...), nil
	case []float32:
		out := make([]float64, len(v))
		for i, f := range v {
			out[i] = float64(f)
		}
		return out, nil
	}
	return nil, fmt.Errorf("not a float vector (%T)", values)
}

func readGrid2(nc varGetter, name string, axes []string) (*pmath.Grid, error) {
	values, err := lookup(nc, name)
	if err != nil {
		return nil, err
	}

	rows, err := asRows2(values)
	if err != nil {
		return nil, fmt.Errorf("l1c variable %q: %v", name, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("l1c variable %q: empty", name)
	}

	g := pmath.NewGrid(axes, []int{len(rows), len(rows[0])})
	for y, row := range rows {
		if len(row) != len(rows[0]) {
			return nil, fmt.Errorf("l1c variable %q: ragged row %d", name, y)
		}
		for x, v := range row {
			g.Set(fillToNaN(v), y, x)
		}
	}
	return g, nil
}

func readGrid3(nc varGetter, name string, axes []string) (*pmath.Grid, error) {
	values, err := lookup(nc, name)
	if err != nil {
		return nil, err
	}

	var planes [][][]float64
	switch v := values.(type) {
	case [][][]float64:
		planes = v
	case [][][]float32:
		planes = make([][][]float64, len(v))
		for i, p := range v {
			planes[i] = make([][]float64, len(p))
			for j, row := range p {
				planes[i][j] = make([]float64, len(row))
				for k, f := range row {
					planes[i][j][k] = float64(f)
				}
			}
		}
	default:
		return nil, fmt.Errorf("l1c variable %q: not a 3-d float array (%T)", name, values)
	}

	if len(planes) == 0 || len(planes[0]) == 0 || len(planes[0][0]) == 0 {
		return nil, fmt.Errorf("l1c variable %q: empty", name)
	}

	nCh, nY, nX := len(planes), len(planes[0]), len(planes[0][0])
	g := pmath.NewGrid(axes, []int{nCh, nY, nX})
	for ch, plane := range planes {
		if len(plane) != nY {
			return nil, fmt.Errorf("l1c variable %q: ragged channel %d", name, ch)
		}
		for y, row := range plane {
			if len(row) != nX {
				return nil, fmt.Errorf("l1c variable %q: ragged row %d/%d", name, ch, y)
			}
			for x, v := range row {
				g.Set(fillToNaN(v), ch, y, x)
			}
		}
	}
	return g, nil
}

func asRows2(values interface{}) ([][]float64, error) {
	switch v := values.(type) {
	case [][]float64:
		return v, nil
	case [][]float32:
		rows := make([][]float64, len(v))
		for i, row := range v {
			rows[i] = make([]float64, len(row))
			for j, f := range row {
				rows[i][j] = float64(f)
			}
		}
		return rows, nil
	}
	return nil, fmt.Errorf("not a 2-d float array (%T)", values)
}
