package rendering

import (
	"image/color"
	"math"

	"github.com/rmitchellscott/hass-render/internal/canvas"
	"github.com/rmitchellscott/hass-render/internal/display"
	"github.com/rmitchellscott/hass-render/internal/entity"
	"github.com/rmitchellscott/hass-render/internal/format"
	"github.com/rmitchellscott/hass-render/internal/gauge"
	"github.com/rmitchellscott/hass-render/internal/layout"
	"github.com/rmitchellscott/hass-render/internal/style"
)

type align int

const (
	alignLeft align = iota
	alignCenter
	alignRight
)

func (e *Engine) palette(rec entity.Record, mode display.Mode) style.Palette {
	return e.theme.Resolve(entity.Classify(rec), mode)
}

// drawText fits s into the slot and draws it vertically centred. Text that
// cannot be truncated any further is clipped to the slot instead.
func drawText(c *canvas.Canvas, s string, slot layout.Region, tier canvas.Tier, col color.Color, a align) {
	if slot.Empty() {
		return
	}
	m := c.Metrics(tier)
	fitted := format.Fit(s, layout.CharBudget(slot.W, m.Advance))
	x, y, w, h := float64(slot.X), float64(slot.Y), float64(slot.W), float64(slot.H)
	if fitted.Clipped {
		c.TextClipped(fitted.Text, x, y, w, h, tier, col)
		return
	}

	cy := y + h/2
	switch a {
	case alignCenter:
		c.TextAnchored(fitted.Text, x+w/2, cy, 0.5, 0.5, tier, col)
	case alignRight:
		c.TextAnchored(fitted.Text, x+w, cy, 1, 0.5, tier, col)
	default:
		c.TextAnchored(fitted.Text, x, cy, 0, 0.5, tier, col)
	}
}

// drawValue shows the formatted state in the slot. Percentage sensors get a
// gauge there instead, which carries its own readout.
func drawValue(c *canvas.Canvas, rec entity.Record, slot layout.Region, pal style.Palette, tier canvas.Tier, a align) {
	if pct, ok := rec.Percent(); ok {
		gauge.Draw(c, slot, pct, pal)
		return
	}
	drawText(c, format.Value(rec), slot, tier, pal.Text, a)
}

// drawIndicator paints the status marker centred on (cx, cy): a filled circle
// in colour, a pattern swatch on the monochrome display.
func drawIndicator(c *canvas.Canvas, cx, cy, radius float64, pal style.Palette) {
	if radius <= 0 {
		return
	}
	if !pal.Mono {
		c.FillCircle(cx, cy, radius, pal.Accent)
		return
	}

	side := math.Round(2 * radius)
	x, y := math.Round(cx-radius), math.Round(cy-radius)
	switch pal.Pattern {
	case style.PatternSolid:
		c.FillRect(x, y, side, side, pal.Accent)
	case style.PatternHatched:
		c.HatchRect(x, y, side, side, 4, 1.5, pal.Accent)
		c.StrokeRect(x, y, side, side, 2, pal.Accent)
	case style.PatternDotted:
		c.StrokeRect(x, y, side, side, 2, pal.Accent)
		c.FillRect(math.Round(cx-radius/3), math.Round(cy-radius/3), math.Round(2*radius/3), math.Round(2*radius/3), pal.Accent)
	case style.PatternCrossed:
		c.StrokeRect(x, y, side, side, 2, pal.Accent)
		c.Line(x, y, x+side, y+side, 2, pal.Accent)
		c.Line(x+side, y, x, y+side, 2, pal.Accent)
	default:
		c.StrokeRect(x, y, side, side, 2, pal.Accent)
	}
}

// tierFor picks the largest of the candidate tiers whose line height fits h.
func tierFor(c *canvas.Canvas, h int, candidates ...canvas.Tier) canvas.Tier {
	for _, t := range candidates {
		if c.Metrics(t).Height <= float64(h) {
			return t
		}
	}
	return canvas.Small
}
