package canvas

import (
	"fmt"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/opentype"
)

// Tier is a font size class.
type Tier int

const (
	Small Tier = iota
	Medium
	Large
	XLarge
)

// Tiers lists every font tier from smallest to largest.
var Tiers = []Tier{Small, Medium, Large, XLarge}

var tierSpecs = map[Tier]struct {
	size float64
	bold bool
}{
	Small:  {size: 12, bold: false},
	Medium: {size: 15, bold: false},
	Large:  {size: 20, bold: true},
	XLarge: {size: 30, bold: true},
}

// Metrics describes a tier in pixels.
type Metrics struct {
	// Advance is the glyph width. The bundled faces are monospaced so it is
	// also the average glyph width.
	Advance float64
	Height  float64
	Ascent  float64
}

// Fonts holds the parsed font files and per-tier metrics. It is built once
// and shared read-only between renders. Faces are not safe for concurrent
// use, so every Canvas creates its own.
type Fonts struct {
	regular *opentype.Font
	bold    *opentype.Font
	metrics map[Tier]Metrics
}

// LoadFonts parses the embedded Go Mono fonts.
func LoadFonts() (*Fonts, error) {
	regular, err := opentype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse regular font: %w", err)
	}
	bold, err := opentype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("parse bold font: %w", err)
	}

	f := &Fonts{regular: regular, bold: bold, metrics: make(map[Tier]Metrics)}
	for _, tier := range Tiers {
		face, err := f.newFace(tier)
		if err != nil {
			return nil, err
		}
		m := face.Metrics()
		adv, ok := face.GlyphAdvance('M')
		if !ok {
			face.Close()
			return nil, fmt.Errorf("font tier %d has no advance for M", tier)
		}
		f.metrics[tier] = Metrics{
			Advance: float64(adv) / 64,
			Height:  float64(m.Height) / 64,
			Ascent:  float64(m.Ascent) / 64,
		}
		face.Close()
	}
	return f, nil
}

// Metrics returns the pixel metrics of a tier.
func (f *Fonts) Metrics(t Tier) Metrics {
	return f.metrics[t]
}

func (f *Fonts) newFace(t Tier) (font.Face, error) {
	spec, ok := tierSpecs[t]
	if !ok {
		return nil, fmt.Errorf("unknown font tier %d", t)
	}
	src := f.regular
	if spec.bold {
		src = f.bold
	}
	face, err := opentype.NewFace(src, &opentype.FaceOptions{
		Size:    spec.size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("create face for tier %d: %w", t, err)
	}
	return face, nil
}
