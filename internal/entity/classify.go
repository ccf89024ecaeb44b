package entity

import (
	"fmt"
	"strings"
)

// Category is the coarse status of an entity. It only drives colour and
// pattern selection.
type Category int

const (
	Neutral Category = iota
	Active
	Inactive
	Warning
	Unavailable
)

// Categories lists every category in declaration order.
var Categories = []Category{Neutral, Active, Inactive, Warning, Unavailable}

func (c Category) String() string {
	switch c {
	case Neutral:
		return "neutral"
	case Active:
		return "active"
	case Inactive:
		return "inactive"
	case Warning:
		return "warning"
	case Unavailable:
		return "unavailable"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// LowBatteryThreshold is the battery percentage below which a battery sensor
// is flagged.
const LowBatteryThreshold = 20

var toggleDomains = map[string]bool{
	"binary_sensor": true,
	"switch":        true,
	"light":         true,
	"input_boolean": true,
}

// Classify maps a record to its status category. Rules are evaluated in
// order and the first match wins.
func Classify(r Record) Category {
	token := strings.ToLower(strings.TrimSpace(r.State))
	if r.Unavailable || IsMissingState(token) {
		return Unavailable
	}

	domain := r.Domain()
	if toggleDomains[domain] {
		switch token {
		case "on":
			return Active
		case "off":
			return Inactive
		}
	}

	if domain == "sensor" && strings.EqualFold(r.DeviceClass(), "battery") {
		if v, ok := r.Numeric(); ok && v < LowBatteryThreshold {
			return Warning
		}
	}

	return Neutral
}

// IsMissingState reports whether a lower-cased state token means upstream has
// no usable value.
func IsMissingState(token string) bool {
	switch token {
	case "unavailable", "unknown", "":
		return true
	}
	return false
}
