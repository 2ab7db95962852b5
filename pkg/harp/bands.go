package harp

import(
	"fmt"
	"math"
	"sort"
)

// A Range is a half-open [Start,End) run of channel indices along the
// instrument's channel axis.
type Range struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

func (r Range)Len() int { return r.End - r.Start }

// A BandTable maps a wavelength band label to the contiguous run of
// channels carrying that band. Channel layout is configuration, not a
// hard-coded literal, so the resolver and all downstream slicing stay
// correct if the instrument layout ever changes.
type BandTable map[string]Range

// DefaultBandTable is the HARP2 channel layout: 90 channels, grouped
// contiguously by band, with 60 view angles on red and 10 on the rest.
func DefaultBandTable() BandTable {
	return BandTable{
		"blue":  Range{0, 10},
		"green": Range{10, 20},
		"red":   Range{20, 80},
		"nir":   Range{80, 90},
	}
}

func (bt BandTable)Get(band string) (Range, error) {
	r, ok := bt[band]
	if !ok {
		return Range{}, fmt.Errorf("no band %q, have %v", band, bt.Labels())
	}
	return r, nil
}

func (bt BandTable)Labels() []string {
	labels := make([]string, 0, len(bt))
	for label := range bt {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	return labels
}

// NearestNadir returns the absolute index, within the full channel
// angle vector, of the channel in r whose view angle is closest to
// zero (straight down). Angles are signed offsets from nadir and the
// channels within a band run are not sorted, so this is a scan. Ties
// go to the first such index in range order, which keeps results
// reproducible.
func NearestNadir(angles []float64, r Range) (int, error) {
	if r.Start < 0 || r.End > len(angles) || r.Start >= r.End {
		return 0, fmt.Errorf("%w: [%d,%d) over %d channels", ErrInvalidRange, r.Start, r.End, len(angles))
	}

	best := r.Start
	for i := r.Start + 1; i < r.End; i++ {
		if math.Abs(angles[i]) < math.Abs(angles[best]) {
			best = i
		}
	}
	return best, nil
}
