// Package rendering composes entity records into status images.
package rendering

import (
	"errors"
	"fmt"
	"image"

	"github.com/rmitchellscott/hass-render/internal/canvas"
	"github.com/rmitchellscott/hass-render/internal/display"
	"github.com/rmitchellscott/hass-render/internal/imageprocessing"
	"github.com/rmitchellscott/hass-render/internal/layout"
	"github.com/rmitchellscott/hass-render/internal/style"
)

// ErrContractViolation is returned for requests whose entity count or
// canvas size is outside the bounds callers must check beforehand.
var ErrContractViolation = errors.New("render contract violation")

// Config carries the read-only tables shared by every render.
type Config struct {
	Fonts *canvas.Fonts
	Theme *style.Theme
}

// Engine renders requests. It holds no mutable state and may be used from
// many goroutines at once.
type Engine struct {
	fonts *canvas.Fonts
	theme *style.Theme
}

// Result is a finished image.
type Result struct {
	Image  image.Image
	Mode   display.Mode
	Width  int
	Height int
	// BitDepth is 1 for the monochrome display and 0 for full colour.
	BitDepth int
}

func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Fonts == nil {
		return nil, fmt.Errorf("rendering engine requires fonts")
	}
	if cfg.Theme == nil {
		return nil, fmt.Errorf("rendering engine requires a theme")
	}
	return &Engine{fonts: cfg.Fonts, theme: cfg.Theme}, nil
}

// Render paints a request onto a fresh canvas. The fixed display is reduced
// to one bit before it is returned.
func (e *Engine) Render(req Request) (*Result, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrContractViolation)
	}

	mode := req.Mode()
	w, h := req.Size()
	if err := layout.Validate(mode, len(req.Records()), w, h); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrContractViolation, err)
	}
	lay := layout.Solve(mode, len(req.Records()), w, h)

	c, err := canvas.New(w, h, e.fonts)
	if err != nil {
		return nil, fmt.Errorf("allocate canvas: %w", err)
	}
	defer c.Close()

	switch r := req.(type) {
	case SingleStatus:
		e.composeSingle(c, lay, r)
	case MultiStatus:
		e.composeMulti(c, lay, r)
	case FixedDisplay:
		e.composeFixed(c, lay, r)
	default:
		return nil, fmt.Errorf("%w: unsupported request %T", ErrContractViolation, req)
	}

	res := &Result{Image: c.Image(), Mode: mode, Width: w, Height: h}
	if mode == display.ModeFixed {
		res.Image = imageprocessing.ReduceTo1Bit(res.Image)
		res.BitDepth = 1
	}
	return res, nil
}
