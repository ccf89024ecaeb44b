// Package format turns entity records into display strings.
package format

import (
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/rmitchellscott/hass-render/internal/entity"
)

const (
	// UnavailableText is shown in place of a value when upstream has no data.
	UnavailableText = "Unavailable"
	// Ellipsis is appended to truncated text.
	Ellipsis = "…"
	// MinTruncated is the shortest string truncation may produce.
	MinTruncated = 3
)

// Value returns the display string for a record's state.
func Value(r entity.Record) string {
	token := strings.ToLower(strings.TrimSpace(r.State))
	if r.Unavailable || token == "unavailable" || token == "" {
		return UnavailableText
	}
	if v, ok := r.Numeric(); ok {
		s := Number(v)
		if unit := r.Unit(); unit != "" {
			s += " " + unit
		}
		return s
	}

	switch token {
	case "on":
		return "On"
	case "off":
		return "Off"
	}
	return r.State
}

// Number formats whole values without decimals and everything else with
// exactly one, at any magnitude.
func Number(v float64) string {
	if v == math.Trunc(v) {
		if v == 0 {
			v = 0 // drop negative zero
		}
		return strconv.FormatFloat(v, 'f', 0, 64)
	}
	s := strconv.FormatFloat(v, 'f', 1, 64)
	if s == "-0.0" {
		return "0.0"
	}
	return s
}

// Percent formats a gauge readout such as "42%".
func Percent(p float64) string {
	return strconv.Itoa(int(math.Round(p))) + "%"
}

// DisplayName returns the friendly name, falling back to the entity id.
func DisplayName(r entity.Record) string {
	if name := strings.TrimSpace(r.FriendlyName); name != "" {
		return name
	}
	if name, ok := r.Attr(entity.AttrFriendlyName); ok && strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	return r.EntityID
}

// Fitted is text prepared for a slot with a character budget.
type Fitted struct {
	Text string
	// Clipped means the budget was too small to truncate and the text must be
	// drawn left-aligned and clipped to its slot.
	Clipped bool
}

// Fit truncates s to budget characters, cutting on whitespace where possible
// and ending with a single ellipsis. Budgets below MinTruncated return the text
// whole with Clipped set.
func Fit(s string, budget int) Fitted {
	n := utf8.RuneCountInString(s)
	if n <= budget {
		return Fitted{Text: s}
	}
	if budget < MinTruncated {
		return Fitted{Text: s, Clipped: true}
	}

	runes := []rune(s)
	keep := budget - 1
	prefix := runes[:keep]

	for i := keep - 1; i > 0; i-- {
		if !unicode.IsSpace(prefix[i]) {
			continue
		}
		cut := []rune(strings.TrimRightFunc(string(prefix[:i]), unicode.IsSpace))
		if len(cut) >= MinTruncated-1 && len(cut) >= keep/2 {
			prefix = cut
		}
		break
	}

	return Fitted{Text: string(prefix) + Ellipsis}
}

// InfoLine is one "Label: value" row of the single status card.
type InfoLine struct {
	Label string
	Value string
}

func (l InfoLine) String() string {
	return l.Label + ": " + l.Value
}

// InfoLines returns the attribute rows shown under the status band, in display
// order. Rows for missing attributes are omitted.
func InfoLines(r entity.Record) []InfoLine {
	lines := []InfoLine{{Label: "Entity", Value: r.EntityID}}

	if dc := r.DeviceClass(); dc != "" {
		lines = append(lines, InfoLine{Label: "Type", Value: dc})
	}
	if unit := r.Unit(); unit != "" {
		lines = append(lines, InfoLine{Label: "Unit", Value: unit})
	}
	if v, ok := r.AttrNumber(entity.AttrTemperature); ok {
		lines = append(lines, InfoLine{Label: "Temp", Value: Number(v)})
	}
	if v, ok := r.AttrNumber(entity.AttrHumidity); ok {
		lines = append(lines, InfoLine{Label: "Humidity", Value: Number(v) + "%"})
	}
	if v, ok := r.AttrNumber(entity.AttrBatteryLevel); ok {
		lines = append(lines, InfoLine{Label: "Battery", Value: Number(v) + "%"})
	}
	if v, ok := r.AttrNumber(entity.AttrBrightness); ok {
		lines = append(lines, InfoLine{Label: "Brightness", Value: Number(v)})
	}
	if !r.LastChanged.IsZero() {
		lines = append(lines, InfoLine{Label: "Changed", Value: Changed(r.LastChanged)})
	}
	return lines
}

// Changed formats a last_changed timestamp in UTC.
func Changed(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04")
}
