// Package harp turns one band of a HARP2 multi-angle radiance granule
// into a palindromic grayscale animation: resolve the band's nadir
// view, convert radiance to reflectance, normalize and gamma-correct,
// smooth along the view-angle axis, quantize to 8-bit frames, and
// encode a bounce-ordered GIF.
//
// Numeric edge cases are deliberately left transparent: division by a
// near-zero solar-zenith cosine goes to infinity, a constant array
// normalizes to NaN, and NaNs flow through every stage untouched until
// they are zeroed immediately before the 8-bit quantization. Masking
// any of that arithmetically would hide exactly the pixels an analyst
// needs to see.
package harp

import "errors"

var(
	ErrInvalidRange       = errors.New("band channel range is empty or out of bounds")
	ErrShapeMismatch      = errors.New("arrays are not broadcast-compatible")
	ErrInsufficientFrames = errors.New("bounce sequence needs at least two frames")
	ErrEncodingFailure    = errors.New("animation encoding failed")
)
