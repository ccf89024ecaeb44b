// Package imageprocessing reduces rendered canvases to grayscale bit depths
// and encodes them as PNG.
package imageprocessing

import (
	"image"
	"image/color"
	"image/draw"
)

// Luminance returns Y = 0.299*R + 0.587*G + 0.114*B of a colour.
func Luminance(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}

// ToGrayscale converts an image to 8-bit grayscale by luminance.
func ToGrayscale(img image.Image) *image.Gray {
	if img == nil {
		return nil
	}
	if g, ok := img.(*image.Gray); ok {
		return g
	}
	gray := image.NewGray(img.Bounds())
	draw.Draw(gray, gray.Bounds(), img, img.Bounds().Min, draw.Src)
	return gray
}

// QuantizeColor reduces a gray value to the levels of a bit depth. At one
// bit the threshold is 128, the midpoint between black and white.
func QuantizeColor(gray uint8, bitDepth int) uint8 {
	switch bitDepth {
	case 1:
		if gray >= 128 {
			return 255
		}
		return 0
	case 2:
		return (gray / 64) * 85
	case 4:
		return (gray / 16) * 17
	default:
		return gray
	}
}

// ValidBitDepth reports whether a grayscale PNG bit depth is supported.
func ValidBitDepth(bitDepth int) bool {
	switch bitDepth {
	case 1, 2, 4, 8:
		return true
	}
	return false
}

// ColorLevels returns the number of gray levels of a bit depth.
func ColorLevels(bitDepth int) int {
	if !ValidBitDepth(bitDepth) {
		return 256
	}
	return 1 << bitDepth
}

// GrayPalette returns evenly spaced gray levels for a bit depth. Index i
// holds level i, which is what the grayscale PNG encoder relies on.
func GrayPalette(bitDepth int) color.Palette {
	levels := ColorLevels(bitDepth)
	palette := make(color.Palette, levels)
	for i := range palette {
		palette[i] = color.Gray{Y: uint8(i * 255 / (levels - 1))}
	}
	return palette
}

// QuantizeToGrayscalePalette converts an image to grayscale and quantizes it
// to a bit depth with hard thresholds and no dithering.
func QuantizeToGrayscalePalette(img image.Image, bitDepth int) *image.Paletted {
	if img == nil {
		return nil
	}
	if !ValidBitDepth(bitDepth) {
		bitDepth = 8
	}

	gray := ToGrayscale(img)
	bounds := gray.Bounds()
	out := image.NewPaletted(bounds, GrayPalette(bitDepth))
	step := 255 / (ColorLevels(bitDepth) - 1)

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			q := QuantizeColor(gray.GrayAt(x, y).Y, bitDepth)
			out.SetColorIndex(x, y, q/uint8(step))
		}
	}
	return out
}
