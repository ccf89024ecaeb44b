// Package entity normalizes Home Assistant entity data and classifies its status.
package entity

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Attribute keys read by the renderer.
const (
	AttrFriendlyName = "friendly_name"
	AttrUnit         = "unit_of_measurement"
	AttrDeviceClass  = "device_class"
	AttrBatteryLevel = "battery_level"
	AttrTemperature  = "temperature"
	AttrHumidity     = "humidity"
	AttrBrightness   = "brightness"
)

// Record is the render-ready view of one Home Assistant entity. It is built
// fresh for every request and never mutated afterwards.
type Record struct {
	EntityID     string
	FriendlyName string
	State        string
	// Unavailable marks a record synthesized because upstream had no data.
	Unavailable bool
	Attributes  map[string]any
	LastChanged time.Time
}

var idPattern = regexp.MustCompile(`^[a-z0-9_]+\.[a-z0-9_]+$`)

// ValidID reports whether id has the <domain>.<object_id> form Home Assistant
// uses.
func ValidID(id string) bool {
	return idPattern.MatchString(id)
}

// UnavailableRecord returns the placeholder used when an entity could not be
// fetched.
func UnavailableRecord(entityID string) Record {
	return Record{
		EntityID:    entityID,
		State:       "unavailable",
		Unavailable: true,
	}
}

// Domain returns the entity id prefix before the first dot.
func (r Record) Domain() string {
	domain, _, found := strings.Cut(r.EntityID, ".")
	if !found {
		return ""
	}
	return domain
}

// Attr returns a scalar attribute rendered as a string.
func (r Record) Attr(key string) (string, bool) {
	v, ok := r.Attributes[key]
	if !ok || v == nil {
		return "", false
	}
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32), true
	case int:
		return strconv.Itoa(val), true
	case int64:
		return strconv.FormatInt(val, 10), true
	default:
		return "", false
	}
}

// AttrNumber returns a numeric attribute, accepting numeric strings.
func (r Record) AttrNumber(key string) (float64, bool) {
	v, ok := r.Attributes[key]
	if !ok {
		return 0, false
	}
	switch val := v.(type) {
	case float64:
		return val, finite(val)
	case float32:
		return float64(val), finite(float64(val))
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		return parseNumber(val)
	}
	return 0, false
}

func (r Record) Unit() string {
	unit, _ := r.Attr(AttrUnit)
	return strings.TrimSpace(unit)
}

func (r Record) DeviceClass() string {
	dc, _ := r.Attr(AttrDeviceClass)
	return strings.TrimSpace(dc)
}

// Numeric parses the state as a finite float.
func (r Record) Numeric() (float64, bool) {
	if r.Unavailable {
		return 0, false
	}
	return parseNumber(r.State)
}

// Percent reports the numeric state of a percentage sensor. Only entities
// whose unit is exactly "%" qualify for a gauge.
func (r Record) Percent() (float64, bool) {
	if r.Unit() != "%" {
		return 0, false
	}
	return r.Numeric()
}

func parseNumber(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, false
	}
	return v, finite(v)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
