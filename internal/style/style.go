// Package style resolves status categories into concrete palettes.
package style

import (
	_ "embed"
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"

	"github.com/rmitchellscott/hass-render/internal/display"
	"github.com/rmitchellscott/hass-render/internal/entity"
)

//go:embed theme.yml
var defaultTheme []byte

// Pattern is the fill used for indicators on the monochrome display, where
// hue does not survive reduction.
type Pattern int

const (
	PatternSolid Pattern = iota
	PatternHatched
	PatternOutline
	// PatternDotted is an outline with a filled centre.
	PatternDotted
	// PatternCrossed is an outline struck through corner to corner.
	PatternCrossed
)

func (p Pattern) String() string {
	switch p {
	case PatternSolid:
		return "solid"
	case PatternHatched:
		return "hatched"
	case PatternOutline:
		return "outline"
	case PatternDotted:
		return "dotted"
	case PatternCrossed:
		return "crossed"
	default:
		return fmt.Sprintf("pattern(%d)", int(p))
	}
}

// Palette is the set of colours one entity is painted with.
type Palette struct {
	Background    color.Color
	BackgroundEnd color.Color
	Card          color.Color
	Border        color.Color
	Accent        color.Color
	OnAccent      color.Color
	Text          color.Color
	MutedText     color.Color
	Track         color.Color
	Pattern       Pattern
	// Mono is set for palettes restricted to pure black and white.
	Mono bool
}

type themeFile struct {
	Background    string            `yaml:"background"`
	BackgroundEnd string            `yaml:"background_end"`
	Card          string            `yaml:"card"`
	Border        string            `yaml:"border"`
	Text          string            `yaml:"text"`
	MutedText     string            `yaml:"muted_text"`
	OnAccent      string            `yaml:"on_accent"`
	Track         string            `yaml:"track"`
	Tint          float64           `yaml:"tint"`
	Accents       map[string]string `yaml:"accents"`
}

// Theme holds the parsed colour table. It is read-only after construction
// and safe for concurrent use.
type Theme struct {
	background    colorful.Color
	backgroundEnd colorful.Color
	card          colorful.Color
	border        colorful.Color
	text          colorful.Color
	mutedText     colorful.Color
	onAccent      colorful.Color
	track         colorful.Color
	tint          float64
	accents       map[entity.Category]colorful.Color
}

// DefaultTheme parses the embedded theme.
func DefaultTheme() (*Theme, error) {
	return ParseTheme(defaultTheme)
}

// LoadTheme reads a theme file. Keys missing from the file keep their
// default values.
func LoadTheme(path string) (*Theme, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read theme %s: %w", path, err)
	}
	return ParseTheme(data)
}

// ParseTheme parses a YAML theme layered over the embedded defaults.
func ParseTheme(data []byte) (*Theme, error) {
	var tf themeFile
	if err := yaml.Unmarshal(defaultTheme, &tf); err != nil {
		return nil, fmt.Errorf("parse default theme: %w", err)
	}
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse theme: %w", err)
	}

	th := &Theme{tint: tf.Tint, accents: make(map[entity.Category]colorful.Color)}
	if th.tint < 0 || th.tint > 1 {
		return nil, fmt.Errorf("theme tint %v outside [0,1]", th.tint)
	}

	fields := []struct {
		name string
		hex  string
		dst  *colorful.Color
	}{
		{"background", tf.Background, &th.background},
		{"background_end", tf.BackgroundEnd, &th.backgroundEnd},
		{"card", tf.Card, &th.card},
		{"border", tf.Border, &th.border},
		{"text", tf.Text, &th.text},
		{"muted_text", tf.MutedText, &th.mutedText},
		{"on_accent", tf.OnAccent, &th.onAccent},
		{"track", tf.Track, &th.track},
	}
	for _, f := range fields {
		c, err := colorful.Hex(f.hex)
		if err != nil {
			return nil, fmt.Errorf("theme %s: %w", f.name, err)
		}
		*f.dst = c
	}

	for _, cat := range entity.Categories {
		hex, ok := tf.Accents[cat.String()]
		if !ok {
			return nil, fmt.Errorf("theme has no accent for %s", cat)
		}
		c, err := colorful.Hex(hex)
		if err != nil {
			return nil, fmt.Errorf("theme accent %s: %w", cat, err)
		}
		th.accents[cat] = c
	}

	return th, nil
}

// Accent returns the accent hue of a category.
func (t *Theme) Accent(c entity.Category) color.Color {
	return rgba(t.accentFor(c))
}

func (t *Theme) accentFor(c entity.Category) colorful.Color {
	if a, ok := t.accents[c]; ok {
		return a
	}
	return t.accents[entity.Neutral]
}

// Resolve returns the palette for a category in the given mode. The fixed
// display gets pure black and white plus a pattern tag.
func (t *Theme) Resolve(c entity.Category, mode display.Mode) Palette {
	if mode == display.ModeFixed {
		return monoPalette(c)
	}

	accent := t.accentFor(c)
	return Palette{
		Background:    rgba(t.background),
		BackgroundEnd: rgba(t.backgroundEnd.BlendLab(accent, t.tint).Clamped()),
		Card:          rgba(t.card),
		Border:        rgba(t.border),
		Accent:        rgba(accent),
		OnAccent:      rgba(t.onAccent),
		Text:          rgba(t.text),
		MutedText:     rgba(t.mutedText),
		Track:         rgba(t.track.BlendLab(accent, t.tint).Clamped()),
		Pattern:       PatternFor(c),
	}
}

// PatternFor maps a category to its monochrome indicator pattern. Each
// category has its own pattern.
func PatternFor(c entity.Category) Pattern {
	switch c {
	case entity.Active:
		return PatternSolid
	case entity.Neutral:
		return PatternDotted
	case entity.Warning:
		return PatternHatched
	case entity.Unavailable:
		return PatternCrossed
	default:
		return PatternOutline
	}
}

func monoPalette(c entity.Category) Palette {
	return Palette{
		Background:    color.White,
		BackgroundEnd: color.White,
		Card:          color.White,
		Border:        color.Black,
		Accent:        color.Black,
		OnAccent:      color.White,
		Text:          color.Black,
		MutedText:     color.Black,
		Track:         color.White,
		Pattern:       PatternFor(c),
		Mono:          true,
	}
}

func rgba(c colorful.Color) color.RGBA {
	r, g, b := c.RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
