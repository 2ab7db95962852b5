package harp

import(
	"fmt"
	"image"
	"image/color"
	"math"
	"os"

	"github.com/mdouchement/hdr/codec/rgbe"
	"github.com/mdouchement/hdr/hdrcolor"

	"github.com/polarmetrics/pace-anim/pkg/pmath"
)

// reflectanceImage adapts a 2-d ("y","x") reflectance slice to the
// hdr.Image interface so it can be dumped as a Radiance RGBE file and
// inspected in HDR tooling with the full float range intact. NaN
// renders as 0; the RGBE codec has no missing-value notion.
type reflectanceImage struct {
	g *pmath.Grid
}

func (ri reflectanceImage)ColorModel() color.Model { return hdrcolor.RGBModel }
func (ri reflectanceImage)Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{ri.g.Dims()[1], ri.g.Dims()[0]}}
}
func (ri reflectanceImage)At(x, y int) color.Color { return ri.HDRAt(x, y) }
func (ri reflectanceImage)Size() int               { return ri.g.Len() }

func (ri reflectanceImage)HDRAt(x, y int) hdrcolor.Color {
	v := ri.g.At(y, x)
	if math.IsNaN(v) {
		v = 0
	}
	return hdrcolor.RGB{R: v, G: v, B: v}
}

// WriteToHDR dumps a 2-d grid slice as a Radiance .hdr image. You can
// load this into photoshop or other HDR tools.
func WriteToHDR(g *pmath.Grid, filename string) error {
	if len(g.Dims()) != 2 {
		return fmt.Errorf("WriteToHDR: want 2-d grid, have %v", g.Dims())
	}

	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("WriteToHDR, open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return rgbe.Encode(writer, reflectanceImage{g})
	}
}
