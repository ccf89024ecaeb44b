package rendering

import (
	"math"

	"github.com/rmitchellscott/hass-render/internal/canvas"
	"github.com/rmitchellscott/hass-render/internal/display"
	"github.com/rmitchellscott/hass-render/internal/format"
	"github.com/rmitchellscott/hass-render/internal/layout"
)

const (
	singleBorder     = 3
	singleStatusBand = 37
	singleIndicator  = 12
	singleLineGap    = 2
)

func (e *Engine) composeSingle(c *canvas.Canvas, lay layout.Result, req SingleStatus) {
	rec := req.Entity
	pal := e.palette(rec, display.ModeSingle)
	w, h := float64(c.Width()), float64(c.Height())

	c.VerticalGradient(0, 0, w, h, pal.Background, pal.BackgroundEnd)
	header := layout.Region{
		X: layout.SingleMargin,
		Y: layout.SingleMargin,
		W: c.Width() - 2*layout.SingleMargin,
		H: lay.TitleBand - layout.SingleMargin,
	}
	c.FillRect(float64(header.X), float64(header.Y), float64(header.W), float64(header.H), pal.Accent)
	c.StrokeRect(0, 0, w, h, singleBorder, pal.Accent)

	content := lay.Regions[0]
	band := min(singleStatusBand, content.H)
	radius := math.Min(singleIndicator, float64(band)/2-1)
	drawIndicator(c, float64(content.X)+radius+2, float64(content.Y)+float64(band)/2, radius, pal)

	valueX := content.X + int(2*radius) + 10
	value := layout.Region{X: valueX, Y: content.Y, W: content.X + content.W - valueX - 4, H: band}
	drawValue(c, rec, value, pal, tierFor(c, band, canvas.Large, canvas.Medium), alignLeft)

	lineH := int(math.Ceil(c.Metrics(canvas.Small).Height)) + singleLineGap
	y := content.Y + band + 4
	bottom := content.Y + content.H
	for _, line := range format.InfoLines(rec) {
		if y+lineH > bottom {
			break
		}
		slot := layout.Region{X: content.X + 4, Y: y, W: content.W - 8, H: lineH}
		drawText(c, line.String(), slot, canvas.Small, pal.MutedText, alignLeft)
		y += lineH
	}

	title := header.Inset(4)
	drawText(c, req.Heading(), title, tierFor(c, title.H, canvas.Large, canvas.Medium), pal.OnAccent, alignCenter)
}
