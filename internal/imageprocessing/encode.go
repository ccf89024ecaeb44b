package imageprocessing

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

// Encode serializes a rendered image to PNG. A bitDepth of 0 keeps full
// colour. Otherwise the image is written as grayscale at that depth: images
// that already carry a matching gray palette are written as is, everything
// else is Floyd-Steinberg dithered first.
func Encode(img image.Image, bitDepth int) ([]byte, error) {
	if img == nil {
		return nil, fmt.Errorf("encode: nil image")
	}

	if bitDepth == 0 {
		var buf bytes.Buffer
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		if err := enc.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), nil
	}

	if !ValidBitDepth(bitDepth) {
		return nil, fmt.Errorf("encode: unsupported bit depth %d", bitDepth)
	}

	p, ok := img.(*image.Paletted)
	if !ok || !hasGrayPalette(p, bitDepth) {
		p = DitherFloydSteinberg(img, bitDepth)
	}
	return EncodeGrayPNG(p, bitDepth)
}

func hasGrayPalette(p *image.Paletted, bitDepth int) bool {
	want := GrayPalette(bitDepth)
	if len(p.Palette) != len(want) {
		return false
	}
	for i := range want {
		if Luminance(p.Palette[i]) != Luminance(want[i]) {
			return false
		}
	}
	return true
}
