package rendering

import (
	"math"

	"github.com/rmitchellscott/hass-render/internal/canvas"
	"github.com/rmitchellscott/hass-render/internal/display"
	"github.com/rmitchellscott/hass-render/internal/entity"
	"github.com/rmitchellscott/hass-render/internal/format"
	"github.com/rmitchellscott/hass-render/internal/layout"
)

// Fixed display chrome, matching the e-ink card the panels were designed for.
const (
	fixedTopBarY      = 5
	fixedTopBarH      = 10
	fixedSeparatorY   = 65
	fixedSeparatorH   = 2
	fixedCellBorder   = 2
	fixedCellPadding  = 8
	fixedSwatchGap    = 6
	fixedValueSpacing = 4
)

func (e *Engine) composeFixed(c *canvas.Canvas, lay layout.Result, req FixedDisplay) {
	base := e.theme.Resolve(entity.Neutral, display.ModeFixed)
	w := float64(c.Width())
	margin := float64(layout.FixedSideMargin)

	c.Clear(base.Background)
	c.FillRect(margin, fixedTopBarY, w-2*margin, fixedTopBarH, base.Accent)
	c.FillRect(margin, fixedSeparatorY, w-2*margin, fixedSeparatorH, base.Accent)

	for i, rec := range req.Entities {
		e.drawCell(c, rec, lay.Regions[i])
	}

	title := layout.Region{
		X: layout.FixedSideMargin,
		Y: fixedTopBarY + fixedTopBarH,
		W: c.Width() - 2*layout.FixedSideMargin,
		H: fixedSeparatorY - fixedTopBarY - fixedTopBarH,
	}
	drawText(c, req.Heading(), title, tierFor(c, title.H, canvas.XLarge, canvas.Large), base.Text, alignCenter)
}

// drawCell paints one grid cell. Unavailable entities keep their slot and
// show the placeholder text with an outline swatch.
func (e *Engine) drawCell(c *canvas.Canvas, rec entity.Record, r layout.Region) {
	pal := e.palette(rec, display.ModeFixed)
	c.StrokeRect(float64(r.X), float64(r.Y), float64(r.W), float64(r.H), fixedCellBorder, pal.Border)

	inner := r.Inset(fixedCellPadding)
	nameTier, valueTier := canvas.Small, canvas.Medium
	switch {
	case inner.H >= 140:
		nameTier, valueTier = canvas.Medium, canvas.XLarge
	case inner.H >= 80:
		nameTier, valueTier = canvas.Medium, canvas.Large
	}

	lineH := int(math.Ceil(c.Metrics(nameTier).Height))
	radius := math.Floor(float64(lineH-2) / 2)
	drawIndicator(c, float64(inner.X)+radius, float64(inner.Y)+float64(lineH)/2, radius, pal)

	nameX := inner.X + int(2*radius) + fixedSwatchGap
	name := layout.Region{X: nameX, Y: inner.Y, W: inner.X + inner.W - nameX, H: lineH}
	drawText(c, format.DisplayName(rec), name, nameTier, pal.Text, alignLeft)

	valueY := inner.Y + lineH + fixedValueSpacing
	value := layout.Region{X: inner.X, Y: valueY, W: inner.W, H: inner.Y + inner.H - valueY}
	drawValue(c, rec, value, pal, tierFor(c, value.H, valueTier, canvas.Medium), alignLeft)
}
