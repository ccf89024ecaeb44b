// Package display holds the render modes and the canvas bounds shared by the
// layout solver, the composers and the HTTP layer.
package display

import "fmt"

// Mode selects how a set of entities is laid out on the canvas.
type Mode int

const (
	ModeSingle Mode = iota
	ModeMulti
	ModeFixed
)

// Modes lists every render mode. Tests iterate it to check exhaustive handling.
var Modes = []Mode{ModeSingle, ModeMulti, ModeFixed}

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single-status"
	case ModeMulti:
		return "multi-status"
	case ModeFixed:
		return "fixed-display"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Single status card defaults.
const (
	SingleWidth  = 400
	SingleHeight = 200
)

// Multi status dashboard defaults.
const (
	MultiWidth       = 500
	MultiTitle       = "Sensor Status"
	MultiMaxEntities = 10
)

// Fixed 800x480 e-ink display card.
const (
	FixedWidth       = 800
	FixedHeight      = 480
	FixedTitle       = "SENSOR STATUS"
	FixedMaxEntities = 15
)

// Canvas bounds accepted for the sizeable modes.
const (
	MinWidth  = 160
	MaxWidth  = 2000
	MinHeight = 100
	MaxHeight = 2000
)

// MaxEntities returns the upper entity count bound for a mode.
func MaxEntities(m Mode) int {
	switch m {
	case ModeSingle:
		return 1
	case ModeMulti:
		return MultiMaxEntities
	case ModeFixed:
		return FixedMaxEntities
	}
	return 0
}
