// Package canvas wraps a gg drawing context with the primitives the card
// composers paint with.
package canvas

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"
)

// Canvas is a mutable pixel surface owned by a single render.
type Canvas struct {
	dc    *gg.Context
	fonts *Fonts
	faces map[Tier]font.Face
}

// New allocates a transparent canvas of the given size.
func New(width, height int, fonts *Fonts) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	if fonts == nil {
		return nil, fmt.Errorf("canvas requires fonts")
	}

	c := &Canvas{
		dc:    gg.NewContext(width, height),
		fonts: fonts,
		faces: make(map[Tier]font.Face, len(Tiers)),
	}
	for _, tier := range Tiers {
		face, err := fonts.newFace(tier)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.faces[tier] = face
	}
	return c, nil
}

// Close releases the canvas font faces.
func (c *Canvas) Close() {
	for tier, face := range c.faces {
		face.Close()
		delete(c.faces, tier)
	}
}

func (c *Canvas) Width() int  { return c.dc.Width() }
func (c *Canvas) Height() int { return c.dc.Height() }

// Metrics returns the pixel metrics of a font tier.
func (c *Canvas) Metrics(t Tier) Metrics {
	return c.fonts.Metrics(t)
}

// Image returns the backing pixels.
func (c *Canvas) Image() *image.RGBA {
	if rgba, ok := c.dc.Image().(*image.RGBA); ok {
		return rgba
	}
	img := c.dc.Image()
	out := image.NewRGBA(img.Bounds())
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			out.Set(x, y, img.At(x, y))
		}
	}
	return out
}

// Clear fills the whole canvas.
func (c *Canvas) Clear(col color.Color) {
	c.dc.SetColor(col)
	c.dc.Clear()
}

func (c *Canvas) FillRect(x, y, w, h float64, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

// StrokeRect draws a rectangle outline with the stroke fully inside the
// given bounds.
func (c *Canvas) StrokeRect(x, y, w, h, lineWidth float64, col color.Color) {
	if w <= 0 || h <= 0 || lineWidth <= 0 {
		return
	}
	half := lineWidth / 2
	c.dc.SetColor(col)
	c.dc.SetLineWidth(lineWidth)
	c.dc.DrawRectangle(x+half, y+half, w-lineWidth, h-lineWidth)
	c.dc.Stroke()
}

func (c *Canvas) Line(x1, y1, x2, y2, lineWidth float64, col color.Color) {
	c.dc.SetColor(col)
	c.dc.SetLineWidth(lineWidth)
	c.dc.DrawLine(x1, y1, x2, y2)
	c.dc.Stroke()
}

func (c *Canvas) FillCircle(cx, cy, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.DrawCircle(cx, cy, r)
	c.dc.Fill()
}

func (c *Canvas) StrokeCircle(cx, cy, r, lineWidth float64, col color.Color) {
	if r <= 0 {
		return
	}
	c.dc.SetColor(col)
	c.dc.SetLineWidth(lineWidth)
	c.dc.DrawCircle(cx, cy, r)
	c.dc.Stroke()
}

// Arc strokes a circular arc. Angles are in radians, clockwise from the
// positive x axis.
func (c *Canvas) Arc(cx, cy, r, from, to, lineWidth float64, col color.Color) {
	if r <= 0 || to <= from {
		return
	}
	c.dc.SetColor(col)
	c.dc.SetLineWidth(lineWidth)
	c.dc.NewSubPath()
	c.dc.DrawArc(cx, cy, r, from, to)
	c.dc.Stroke()
}

// VerticalGradient fills a rectangle blending from top to bottom.
func (c *Canvas) VerticalGradient(x, y, w, h float64, top, bottom color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	grad := gg.NewLinearGradient(x, y, x, y+h)
	grad.AddColorStop(0, top)
	grad.AddColorStop(1, bottom)
	c.dc.SetFillStyle(grad)
	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Fill()
}

// HatchRect fills a rectangle with diagonal lines.
func (c *Canvas) HatchRect(x, y, w, h, spacing, lineWidth float64, col color.Color) {
	if w <= 0 || h <= 0 || spacing <= 0 {
		return
	}
	c.dc.Push()
	defer c.dc.Pop()

	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Clip()
	c.dc.SetColor(col)
	c.dc.SetLineWidth(lineWidth)
	for off := -h; off < w; off += spacing {
		c.dc.DrawLine(x+off, y+h, x+off+h, y)
	}
	c.dc.Stroke()
}

// PatternRect sets every pixel of the integer rectangle for which keep
// returns true. Coordinates passed to keep are absolute.
func (c *Canvas) PatternRect(r image.Rectangle, col color.Color, keep func(x, y int) bool) {
	r = r.Intersect(image.Rect(0, 0, c.Width(), c.Height()))
	c.dc.SetColor(col)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if keep(x, y) {
				c.dc.SetPixel(x, y)
			}
		}
	}
}

// MeasureText returns the rendered width of s in a tier.
func (c *Canvas) MeasureText(s string, t Tier) float64 {
	c.dc.SetFontFace(c.faces[t])
	w, _ := c.dc.MeasureString(s)
	return w
}

// Text draws s with its top-left corner at (x, y).
func (c *Canvas) Text(s string, x, y float64, t Tier, col color.Color) {
	c.dc.SetFontFace(c.faces[t])
	c.dc.SetColor(col)
	c.dc.DrawString(s, x, y+c.fonts.Metrics(t).Ascent)
}

// TextAnchored draws s so that the point (ax, ay) of its box, in fractions of
// its width and height, sits on (x, y). (0.5, 0.5) centres the text.
func (c *Canvas) TextAnchored(s string, x, y, ax, ay float64, t Tier, col color.Color) {
	m := c.fonts.Metrics(t)
	w := c.MeasureText(s, t)
	c.Text(s, math.Round(x-ax*w), math.Round(y-ay*m.Height), t, col)
}

// TextClipped draws s left-aligned inside the box, clipping anything that
// overflows it.
func (c *Canvas) TextClipped(s string, x, y, w, h float64, t Tier, col color.Color) {
	if w <= 0 || h <= 0 {
		return
	}
	c.dc.Push()
	defer c.dc.Pop()

	c.dc.DrawRectangle(x, y, w, h)
	c.dc.Clip()
	c.Text(s, x, y+(h-c.fonts.Metrics(t).Height)/2, t, col)
}
