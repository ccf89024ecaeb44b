package imageprocessing

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"testing"
)

func randomImage(w, h int, seed int64) *image.RGBA {
	rng := rand.New(rand.NewSource(seed))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = uint8(rng.Intn(256))
	}
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func TestReduceTo1BitTotalAndIdempotent(t *testing.T) {
	src := randomImage(64, 48, 1)
	mono := ReduceTo1Bit(src)

	if !IsMono(mono) {
		t.Fatalf("reduced image palette = %v", mono.Palette)
	}
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			l := Luminance(mono.At(x, y))
			if l != 0 && l != 255 {
				t.Fatalf("pixel (%d,%d) has luminance %d", x, y, l)
			}
			want := uint8(0)
			if Luminance(src.At(x, y)) >= 128 {
				want = 255
			}
			if l != want {
				t.Fatalf("pixel (%d,%d) = %d, want %d", x, y, l, want)
			}
		}
	}

	again := ReduceTo1Bit(mono)
	if !bytes.Equal(again.Pix, mono.Pix) {
		t.Error("reducing twice changed the image")
	}
}

func TestReduceThreshold(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	img.Pix = []uint8{0, 127, 128, 255}
	mono := ReduceTo1Bit(img)
	want := []uint8{0, 0, 1, 1}
	if !bytes.Equal(mono.Pix, want) {
		t.Errorf("indices = %v, want %v", mono.Pix, want)
	}
}

func TestQuantizeColor(t *testing.T) {
	tests := []struct {
		gray  uint8
		depth int
		want  uint8
	}{
		{127, 1, 0}, {128, 1, 255},
		{63, 2, 0}, {64, 2, 85}, {255, 2, 255},
		{15, 4, 0}, {16, 4, 17}, {255, 4, 255},
		{42, 8, 42},
	}
	for _, tt := range tests {
		if got := QuantizeColor(tt.gray, tt.depth); got != tt.want {
			t.Errorf("QuantizeColor(%d, %d) = %d, want %d", tt.gray, tt.depth, got, tt.want)
		}
	}
}

func TestEncodeGrayPNGRoundTrip(t *testing.T) {
	src := randomImage(37, 11, 2)
	for _, depth := range []int{1, 2, 4, 8} {
		p := QuantizeToGrayscalePalette(src, depth)
		data, err := EncodeGrayPNG(p, depth)
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		decoded, err := png.Decode(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("depth %d: decode: %v", depth, err)
		}
		for y := 0; y < 11; y++ {
			for x := 0; x < 37; x++ {
				want := Luminance(p.At(x, y))
				got := Luminance(decoded.At(x, y))
				if got != want {
					t.Fatalf("depth %d pixel (%d,%d) = %d, want %d", depth, x, y, got, want)
				}
			}
		}
	}
}

func TestEncodeGrayPNGRejects(t *testing.T) {
	p := image.NewPaletted(image.Rect(0, 0, 2, 2), GrayPalette(8))
	if _, err := EncodeGrayPNG(p, 3); err == nil {
		t.Error("expected error for bit depth 3")
	}
	if _, err := EncodeGrayPNG(p, 1); err == nil {
		t.Error("expected error for 256 colours at 1 bit")
	}
	if _, err := EncodeGrayPNG(nil, 1); err == nil {
		t.Error("expected error for nil image")
	}
}

func TestEncode(t *testing.T) {
	src := randomImage(20, 10, 3)

	colour, err := Encode(src, 0)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(colour))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ColorModel == color.GrayModel {
		t.Error("bit depth 0 should keep colour")
	}

	for _, depth := range []int{1, 2, 4, 8} {
		data, err := Encode(src, depth)
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		cfg, err := png.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			t.Fatalf("depth %d: %v", depth, err)
		}
		if cfg.Width != 20 || cfg.Height != 10 {
			t.Errorf("depth %d: size %dx%d", depth, cfg.Width, cfg.Height)
		}
	}

	mono := ReduceTo1Bit(src)
	data, err := Encode(mono, 1)
	if err != nil {
		t.Fatal(err)
	}
	direct, err := EncodeGrayPNG(mono, 1)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, direct) {
		t.Error("already reduced image should be encoded without dithering")
	}

	if _, err := Encode(src, 5); err == nil {
		t.Error("expected error for bit depth 5")
	}
}
