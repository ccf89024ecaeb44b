package imageprocessing

import "image"

// ReduceTo1Bit thresholds every pixel's luminance at 128 and returns a
// two-level image whose palette is black then white. No dithering is
// applied and the transform is idempotent.
func ReduceTo1Bit(img image.Image) *image.Paletted {
	return QuantizeToGrayscalePalette(img, 1)
}

// IsMono reports whether img is already a two-level black and white image.
func IsMono(img image.Image) bool {
	p, ok := img.(*image.Paletted)
	if !ok || len(p.Palette) != 2 {
		return false
	}
	return Luminance(p.Palette[0]) == 0 && Luminance(p.Palette[1]) == 255
}
