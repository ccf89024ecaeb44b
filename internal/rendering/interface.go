package rendering

import (
	"github.com/rmitchellscott/hass-render/internal/display"
	"github.com/rmitchellscott/hass-render/internal/entity"
	"github.com/rmitchellscott/hass-render/internal/format"
	"github.com/rmitchellscott/hass-render/internal/layout"
)

// Request is one of SingleStatus, MultiStatus or FixedDisplay.
type Request interface {
	Mode() display.Mode
	// Records returns the entities in display order.
	Records() []entity.Record
	// Size returns the canvas size with defaults applied.
	Size() (width, height int)
	// Heading returns the title text the card will show.
	Heading() string
	isRequest()
}

// Renderer turns a request into an image.
type Renderer interface {
	Render(req Request) (*Result, error)
}

// SingleStatus renders one entity as a card. Zero sizes take the 400x200
// default.
type SingleStatus struct {
	Entity entity.Record
	Width  int
	Height int
}

func (SingleStatus) Mode() display.Mode { return display.ModeSingle }
func (SingleStatus) isRequest()         {}

func (r SingleStatus) Records() []entity.Record { return []entity.Record{r.Entity} }

func (r SingleStatus) Heading() string { return format.DisplayName(r.Entity) }

func (r SingleStatus) Size() (int, int) {
	return orDefault(r.Width, display.SingleWidth), orDefault(r.Height, display.SingleHeight)
}

// MultiStatus renders up to ten entities as rows. A zero Height is derived
// from the entity count.
type MultiStatus struct {
	Entities []entity.Record
	Title    string
	Width    int
	Height   int
}

func (MultiStatus) Mode() display.Mode { return display.ModeMulti }
func (MultiStatus) isRequest()         {}

func (r MultiStatus) Records() []entity.Record { return r.Entities }

func (r MultiStatus) Size() (int, int) {
	return orDefault(r.Width, display.MultiWidth), orDefault(r.Height, layout.MultiHeight(len(r.Entities)))
}

func (r MultiStatus) Heading() string {
	if r.Title == "" {
		return display.MultiTitle
	}
	return r.Title
}

// FixedDisplay renders up to fifteen entities on the 800x480 one-bit card.
type FixedDisplay struct {
	Entities []entity.Record
	Title    string
}

func (FixedDisplay) Mode() display.Mode { return display.ModeFixed }
func (FixedDisplay) isRequest()         {}

func (r FixedDisplay) Records() []entity.Record { return r.Entities }

func (FixedDisplay) Size() (int, int) { return display.FixedWidth, display.FixedHeight }

func (r FixedDisplay) Heading() string {
	if r.Title == "" {
		return display.FixedTitle
	}
	return r.Title
}

func orDefault(v, def int) int {
	if v == 0 {
		return def
	}
	return v
}
