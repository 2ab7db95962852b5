package harp

import(
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"log"
	"os"
	"path/filepath"
)

const(
	DelayModeIndex    = "index"    // frame delay = frame position, as the source pipeline did
	DelayModeConstant = "constant" // one fixed delay for every frame
)

// grayPalette maps palette index i to gray level i, so a quantized
// frame's bytes are usable as palette indices directly.
var grayPalette = func() color.Palette {
	p := make(color.Palette, 256)
	for i := range p {
		p[i] = color.Gray{Y: uint8(i)}
	}
	return p
}()

// Delays builds the per-frame delay schedule, in hundredths of a
// second. The historical behavior sets each frame's delay to its own
// position index, which is almost certainly a defect inherited from
// the source pipeline (playback decelerates through the bounce), but
// it is what existing outputs contain, so it stays the DelayModeIndex
// behavior; DelayModeConstant is the corrected alternative.
func Delays(n int, mode string, constantCS int) ([]int, error) {
	delays := make([]int, n)
	switch mode {
	case DelayModeIndex:
		for i := range delays {
			delays[i] = i
		}
	case DelayModeConstant:
		for i := range delays {
			delays[i] = constantCS
		}
	default:
		return nil, fmt.Errorf("no delay mode named %q", mode)
	}
	return delays, nil
}

// EncodeGIF materializes every frame as a PNG in a per-run staging
// directory, reads them back, and assembles a single looping grayscale
// GIF with the given per-frame delays. The staging directory and its
// contents are removed on every exit path, including a failed encode.
func EncodeGIF(frames []*image.Gray, delays []int, filename string) error {
	if len(frames) == 0 {
		return fmt.Errorf("%w: no frames", ErrEncodingFailure)
	}
	if len(delays) != len(frames) {
		return fmt.Errorf("%w: %d delays for %d frames", ErrEncodingFailure, len(delays), len(frames))
	}

	staging, err := os.MkdirTemp("", "pace-anim-frames-")
	if err != nil {
		return fmt.Errorf("%w: staging dir: %v", ErrEncodingFailure, err)
	}
	defer os.RemoveAll(staging)

	paths, err := stageFrames(frames, staging)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncodingFailure, err)
	}

	anim := &gif.GIF{
		Image:     make([]*image.Paletted, 0, len(paths)),
		Delay:     delays,
		LoopCount: 0,
	}
	for _, path := range paths {
		pimg, err := loadStagedFrame(path)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrEncodingFailure, err)
		}
		anim.Image = append(anim.Image, pimg)
	}

	writer, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("%w: open+w '%s': %v", ErrEncodingFailure, filename, err)
	}
	defer writer.Close()

	if err := gif.EncodeAll(writer, anim); err != nil {
		return fmt.Errorf("%w: '%s': %v", ErrEncodingFailure, filename, err)
	}

	log.Printf("Wrote %d frames to %s", len(anim.Image), filename)
	return nil
}

func stageFrames(frames []*image.Gray, dir string) ([]string, error) {
	paths := make([]string, len(frames))
	for i, f := range frames {
		path := filepath.Join(dir, fmt.Sprintf("frame-%04d.png", i))
		if err := writePNG(f, path); err != nil {
			return nil, err
		}
		paths[i] = path
	}
	return paths, nil
}

func writePNG(img image.Image, filename string) error {
	if writer, err := os.Create(filename); err != nil {
		return fmt.Errorf("open+w '%s': %v", filename, err)
	} else {
		defer writer.Close()
		return png.Encode(writer, img)
	}
}

func loadStagedFrame(path string) (*image.Paletted, error) {
	reader, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open+r '%s': %v", path, err)
	}
	defer reader.Close()

	img, err := png.Decode(reader)
	if err != nil {
		return nil, fmt.Errorf("png decode '%s': %v", path, err)
	}

	b := img.Bounds()
	pimg := image.NewPaletted(b, grayPalette)

	// Staged frames are 8-bit grayscale, so the gray level doubles as
	// the palette index.
	if gr, ok := img.(*image.Gray); ok {
		for y := 0; y < b.Dy(); y++ {
			copy(pimg.Pix[y*pimg.Stride:y*pimg.Stride+b.Dx()], gr.Pix[y*gr.Stride:y*gr.Stride+b.Dx()])
		}
		return pimg, nil
	}

	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			g := color.GrayModel.Convert(img.At(x, y)).(color.Gray)
			pimg.SetColorIndex(x, y, g.Y)
		}
	}
	return pimg, nil
}
