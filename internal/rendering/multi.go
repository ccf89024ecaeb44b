package rendering

import (
	"math"

	"github.com/rmitchellscott/hass-render/internal/canvas"
	"github.com/rmitchellscott/hass-render/internal/display"
	"github.com/rmitchellscott/hass-render/internal/entity"
	"github.com/rmitchellscott/hass-render/internal/format"
	"github.com/rmitchellscott/hass-render/internal/layout"
)

const (
	multiStrip     = 4
	multiIndicator = 8
	multiNameShare = 55 // percent of the row given to the name
)

func (e *Engine) composeMulti(c *canvas.Canvas, lay layout.Result, req MultiStatus) {
	base := e.theme.Resolve(entity.Neutral, display.ModeMulti)
	w, h := float64(c.Width()), float64(c.Height())

	c.VerticalGradient(0, 0, w, h, base.Background, base.BackgroundEnd)
	c.StrokeRect(0, 0, w, h, 1, base.Border)
	rule := float64(lay.TitleBand - 10)
	c.Line(layout.MultiSideMargin, rule, w-layout.MultiSideMargin, rule, 2, base.Border)

	for i, rec := range req.Entities {
		e.drawRow(c, rec, lay.Regions[i])
	}

	title := layout.Region{X: layout.MultiSideMargin, Y: 0, W: c.Width() - 2*layout.MultiSideMargin, H: lay.TitleBand - 10}
	drawText(c, req.Heading(), title, canvas.Large, base.Text, alignCenter)
}

func (e *Engine) drawRow(c *canvas.Canvas, rec entity.Record, r layout.Region) {
	pal := e.palette(rec, display.ModeMulti)
	x, y, w, h := float64(r.X), float64(r.Y), float64(r.W), float64(r.H)

	c.FillRect(x, y, w, h, pal.Card)
	c.StrokeRect(x, y, w, h, 1, pal.Border)
	c.FillRect(x, y, multiStrip, h, pal.Accent)

	radius := math.Min(multiIndicator, h/2-3)
	drawIndicator(c, x+multiStrip+6+radius, y+h/2, radius, pal)

	tier := tierFor(c, r.H-4, canvas.Medium)
	nameX := r.X + multiStrip + 12 + 2*multiIndicator
	nameW := (r.X + r.W - nameX) * multiNameShare / 100
	name := layout.Region{X: nameX, Y: r.Y, W: nameW, H: r.H}
	drawText(c, format.DisplayName(rec), name, tier, pal.Text, alignLeft)

	valueX := nameX + nameW + 8
	value := layout.Region{X: valueX, Y: r.Y + 3, W: r.X + r.W - 8 - valueX, H: r.H - 6}
	drawValue(c, rec, value, pal, tier, alignRight)
}
