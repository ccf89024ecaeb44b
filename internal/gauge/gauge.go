// Package gauge draws proportional indicators for percentage sensors.
package gauge

import (
	"fmt"
	"image"
	"math"

	"github.com/rmitchellscott/hass-render/internal/canvas"
	"github.com/rmitchellscott/hass-render/internal/format"
	"github.com/rmitchellscott/hass-render/internal/layout"
	"github.com/rmitchellscott/hass-render/internal/style"
)

// Outcome tells the caller what was drawn.
type Outcome int

const (
	OutcomeBar Outcome = iota
	OutcomeArc
	// OutcomeReadout means the region was under the legibility floor and
	// only the numeric percentage was drawn.
	OutcomeReadout
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBar:
		return "bar"
	case OutcomeArc:
		return "arc"
	case OutcomeReadout:
		return "readout"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Legibility floor.
const (
	MinBarWidth  = 40
	MinBarHeight = 6
	MinArcSize   = 36
)

const (
	maxBarHeight = 16
	labelPad     = 6
	monoBorder   = 2
)

// Ticks marked on monochrome bars, in percent.
var Ticks = []float64{25, 50, 75}

// Clamp limits a percentage to [0, 100]. NaN counts as 0.
func Clamp(p float64) float64 {
	switch {
	case math.IsNaN(p), p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Draw paints a gauge for percent inside r. Wide regions get a horizontal
// bar with the value beside it, square-ish regions a ring with the value in
// the middle. The percentage is clamped first, so out-of-range input draws
// the same as the nearest bound.
func Draw(c *canvas.Canvas, r layout.Region, percent float64, pal style.Palette) Outcome {
	p := Clamp(percent)
	label := format.Percent(p)

	if r.W >= 2*r.H {
		tier := canvas.Small
		if r.H >= 30 {
			tier = canvas.Medium
		}
		labelW := int(math.Ceil(c.MeasureText("100%", tier))) + labelPad
		bh := min(r.H, maxBarHeight)
		bar := layout.Region{X: r.X, Y: r.Y + (r.H-bh)/2, W: r.W - labelW, H: bh}
		if bar.W >= MinBarWidth && bar.H >= MinBarHeight {
			drawBar(c, bar, p, pal)
			c.TextAnchored(label, float64(r.X+r.W), float64(r.Y)+float64(r.H)/2, 1, 0.5, tier, pal.Text)
			return OutcomeBar
		}
	} else if min(r.W, r.H) >= MinArcSize {
		drawRing(c, r, p, pal, label)
		return OutcomeArc
	}

	drawReadout(c, r, label, pal)
	return OutcomeReadout
}

func drawBar(c *canvas.Canvas, bar layout.Region, p float64, pal style.Palette) {
	x, y, w, h := float64(bar.X), float64(bar.Y), float64(bar.W), float64(bar.H)

	if !pal.Mono {
		c.FillRect(x, y, w, h, pal.Track)
		c.FillRect(x, y, math.Round(w*p/100), h, pal.Accent)
		return
	}

	c.FillRect(x, y, w, h, pal.Background)
	c.StrokeRect(x, y, w, h, monoBorder, pal.Accent)

	inner := bar.Inset(monoBorder)
	filled := int(math.Round(float64(inner.W) * p / 100))
	fill := image.Rect(inner.X, inner.Y, inner.X+filled, inner.Y+inner.H)
	c.PatternRect(fill, pal.Accent, Density(p))

	tickH := max(2, inner.H/3)
	for _, t := range Ticks {
		tx := inner.X + int(math.Round(float64(inner.W)*t/100))
		c.FillRect(float64(tx), float64(inner.Y+inner.H-tickH), 1, float64(tickH), pal.Accent)
	}
}

// Density returns the pixel mask used to fill a monochrome bar: sparse dots
// below 25%, a checkerboard below 75%, solid above.
func Density(p float64) func(x, y int) bool {
	switch {
	case p < 25:
		return func(x, y int) bool { return (x+y)%4 == 0 }
	case p < 75:
		return func(x, y int) bool { return (x+y)%2 == 0 }
	default:
		return func(x, y int) bool { return true }
	}
}

func drawRing(c *canvas.Canvas, r layout.Region, p float64, pal style.Palette, label string) {
	size := float64(min(r.W, r.H))
	lw := math.Max(3, math.Round(size/8))
	cx := float64(r.X) + float64(r.W)/2
	cy := float64(r.Y) + float64(r.H)/2
	radius := size/2 - lw/2

	if pal.Mono {
		c.StrokeCircle(cx, cy, radius, 1, pal.Accent)
	} else {
		c.StrokeCircle(cx, cy, radius, lw, pal.Track)
	}

	start := -math.Pi / 2
	if p > 0 {
		c.Arc(cx, cy, radius, start, start+2*math.Pi*p/100, lw, pal.Accent)
	}

	tier := canvas.Small
	if size >= 80 {
		tier = canvas.Medium
	}
	c.TextAnchored(label, cx, cy, 0.5, 0.5, tier, pal.Text)
}

func drawReadout(c *canvas.Canvas, r layout.Region, label string, pal style.Palette) {
	tier := canvas.Small
	for _, t := range []canvas.Tier{canvas.Large, canvas.Medium} {
		if c.Metrics(t).Height <= float64(r.H) && c.MeasureText(label, t) <= float64(r.W) {
			tier = t
			break
		}
	}
	c.TextAnchored(label, float64(r.X)+float64(r.W)/2, float64(r.Y)+float64(r.H)/2, 0.5, 0.5, tier, pal.Text)
}
