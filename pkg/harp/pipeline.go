package harp

import(
	"fmt"
	"image"
	"log"

	"github.com/polarmetrics/pace-anim/pkg/l1c"
	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

// An Animator holds one granule plus the run configuration, and walks
// it through the stages: resolve band -> reflectance -> normalize ->
// gamma -> smooth -> quantize -> bounce -> encode. One-shot and
// synchronous; every stage consumes its predecessor's whole output,
// and the first failure aborts the run with no partial artifact.
type Animator struct {
	Config
	Granule *l1c.Granule

	// Populated as the stages run
	bandRange   Range
	nadirIndex  int // absolute, within the full channel axis
	reflectance *pmath.Grid
}

func NewAnimator(cfg Config, g *l1c.Granule) *Animator {
	return &Animator{Config: cfg, Granule: g}
}

func (a *Animator)Run() error {
	if err := a.ResolveBand(); err != nil {
		return err
	}
	if err := a.Convert(); err != nil {
		return err
	}

	frames, err := a.BuildFrames()
	if err != nil {
		return err
	}
	return a.Encode(frames)
}

// ResolveBand picks the configured band's channel run out of the band
// table and finds its nadir channel.
func (a *Animator)ResolveBand() error {
	r, err := a.Bands.Get(a.Band)
	if err != nil {
		return err
	}
	if r.End > len(a.Granule.Angles) {
		return fmt.Errorf("%w: band %q is [%d,%d) but granule has %d channels",
			ErrInvalidRange, a.Band, r.Start, r.End, len(a.Granule.Angles))
	}

	nadir, err := NearestNadir(a.Granule.Angles, r)
	if err != nil {
		return err
	}

	a.bandRange = r
	a.nadirIndex = nadir
	log.Printf("Band %q: channels [%d,%d), nadir channel %d (%.2f deg)",
		a.Band, r.Start, r.End, nadir, a.Granule.Angles[nadir])
	return nil
}

// Convert slices the band's channels out of the granule and converts
// radiance to reflectance.
func (a *Animator)Convert() error {
	log.Printf("Converting radiance to reflectance")

	rad, err := a.Granule.Radiance.SliceRange("angle", a.bandRange.Start, a.bandRange.End)
	if err != nil {
		return err
	}
	f0 := a.Granule.F0[a.bandRange.Start:a.bandRange.End]

	refl, err := Reflectance(rad, a.Granule.SolarZenith, f0, a.Granule.SunEarthAU)
	if err != nil {
		return err
	}
	a.reflectance = refl

	if a.Verbosity > 0 {
		log.Printf("Reflectance: %s", refl.Stats())
		if err := a.writeQuicklooks(); err != nil {
			return err
		}
	}
	return nil
}

// writeQuicklooks dumps the nadir reflectance slice as an annotated
// grayscale PNG and as a Radiance .hdr with the float range intact.
func (a *Animator)writeQuicklooks() error {
	nadir, err := a.reflectance.Slice("angle", a.nadirIndex-a.bandRange.Start)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s %s nadir reflectance", a.Granule.ID, a.Band)
	if err := nadir.ToImg(title, a.quicklookName(a.Granule.ID, "nadir", "png")); err != nil {
		return err
	}
	return WriteToHDR(nadir, a.quicklookName(a.Granule.ID, "nadir", "hdr"))
}

// BuildFrames normalizes, gamma-corrects and smooths the reflectance,
// then quantizes it into the bounce-ordered 8-bit frame sequence.
func (a *Animator)BuildFrames() ([]*image.Gray, error) {
	log.Printf("Normalizing (gamma %.2f) and smoothing (sigma %.2f)", a.Gamma, a.SmoothSigma)

	var norm *pmath.Grid
	if a.StretchLo > 0 || a.StretchHi > 0 {
		norm = NormalizeStretch(a.reflectance, a.StretchLo, a.StretchHi)
	} else {
		norm = Normalize(a.reflectance)
	}
	norm = Gamma(norm, a.Config.Gamma)

	smoothed, err := SmoothAngles(norm, a.SmoothSigma)
	if err != nil {
		return nil, err
	}

	frames, err := Quantize(smoothed)
	if err != nil {
		return nil, err
	}
	frames = ScaleFrames(frames, a.Scale)

	seq, err := BounceSequence(frames)
	if err != nil {
		return nil, err
	}

	if a.Verbosity > 0 {
		LogIntensityHistogram(frames)
	}
	log.Printf("Sequenced %d forward frames into a %d frame bounce", len(frames), len(seq))
	return seq, nil
}

// Encode writes the bounce sequence out as a looping grayscale GIF.
func (a *Animator)Encode(seq []*image.Gray) error {
	delays, err := Delays(len(seq), a.DelayMode, a.DelayCS)
	if err != nil {
		return err
	}
	return EncodeGIF(seq, delays, a.OutputName(a.Granule.ID))
}
