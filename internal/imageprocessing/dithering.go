package imageprocessing

import (
	"image"

	"github.com/makeworld-the-better-one/dither/v2"
)

// DitherFloydSteinberg reduces an image to the gray levels of bitDepth with
// Floyd-Steinberg error diffusion.
func DitherFloydSteinberg(img image.Image, bitDepth int) *image.Paletted {
	if img == nil {
		return nil
	}

	d := dither.NewDitherer(GrayPalette(bitDepth))
	d.Matrix = dither.FloydSteinberg
	return d.DitherPaletted(img)
}
