package entity

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   Category
	}{
		{"door open", Record{EntityID: "binary_sensor.front_door", State: "on"}, Active},
		{"door closed", Record{EntityID: "binary_sensor.front_door", State: "off"}, Inactive},
		{"door unavailable", Record{EntityID: "binary_sensor.front_door", State: "unavailable"}, Unavailable},
		{"unknown token", Record{EntityID: "sensor.x", State: "unknown"}, Unavailable},
		{"empty state", Record{EntityID: "sensor.x", State: ""}, Unavailable},
		{"mixed case token", Record{EntityID: "switch.fan", State: " Unavailable "}, Unavailable},
		{"sentinel", UnavailableRecord("light.kitchen"), Unavailable},
		{"sentinel wins over on", Record{EntityID: "light.kitchen", State: "on", Unavailable: true}, Unavailable},
		{"light on", Record{EntityID: "light.kitchen", State: "on"}, Active},
		{"switch off", Record{EntityID: "switch.fan", State: "OFF"}, Inactive},
		{"input boolean", Record{EntityID: "input_boolean.guest", State: "on"}, Active},
		{"sensor on is not a toggle", Record{EntityID: "sensor.mode", State: "on"}, Neutral},
		{"toggle free text", Record{EntityID: "switch.fan", State: "idle"}, Neutral},
		{
			"low battery",
			Record{EntityID: "sensor.phone_battery", State: "12", Attributes: map[string]any{"device_class": "battery"}},
			Warning,
		},
		{
			"battery at threshold",
			Record{EntityID: "sensor.phone_battery", State: "20", Attributes: map[string]any{"device_class": "battery"}},
			Neutral,
		},
		{
			"battery not numeric",
			Record{EntityID: "sensor.phone_battery", State: "charging", Attributes: map[string]any{"device_class": "battery"}},
			Neutral,
		},
		{
			"low value without battery class",
			Record{EntityID: "sensor.temperature", State: "5", Attributes: map[string]any{"device_class": "temperature"}},
			Neutral,
		},
		{"numeric", Record{EntityID: "sensor.temperature", State: "21.7"}, Neutral},
		{"free text", Record{EntityID: "weather.home", State: "sunny"}, Neutral},
		{"no domain", Record{EntityID: "garbage", State: "on"}, Neutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.record); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyTotal(t *testing.T) {
	domains := []string{"sensor", "binary_sensor", "switch", "light", "input_boolean", "weather", "", "a.b"}
	states := []string{"on", "off", "unavailable", "unknown", "", "NaN", "Inf", "-1e400", "0", "19.99", "abc", "  "}
	attrs := []map[string]any{
		nil,
		{"device_class": "battery"},
		{"device_class": 7, "unit_of_measurement": nil},
		{"device_class": "battery", "unit_of_measurement": "%"},
	}

	valid := map[Category]bool{}
	for _, c := range Categories {
		valid[c] = true
	}

	for _, d := range domains {
		for _, s := range states {
			for _, a := range attrs {
				for _, sentinel := range []bool{false, true} {
					r := Record{EntityID: d + ".x", State: s, Attributes: a, Unavailable: sentinel}
					if got := Classify(r); !valid[got] {
						t.Fatalf("Classify(%+v) returned unknown category %v", r, got)
					}
				}
			}
		}
	}
}

func TestCategoryString(t *testing.T) {
	seen := map[string]bool{}
	for _, c := range Categories {
		s := c.String()
		if seen[s] {
			t.Errorf("duplicate category name %q", s)
		}
		seen[s] = true
	}
	if len(seen) != 5 {
		t.Errorf("expected 5 categories, got %d", len(seen))
	}
}

func TestRecordHelpers(t *testing.T) {
	r := Record{
		EntityID: "sensor.living_room_humidity",
		State:    "45.5",
		Attributes: map[string]any{
			"unit_of_measurement": "%",
			"device_class":        "humidity",
			"battery_level":       float64(80),
		},
	}

	if got := r.Domain(); got != "sensor" {
		t.Errorf("Domain() = %q", got)
	}
	if got := r.Unit(); got != "%" {
		t.Errorf("Unit() = %q", got)
	}
	if p, ok := r.Percent(); !ok || p != 45.5 {
		t.Errorf("Percent() = %v, %v", p, ok)
	}
	if v, ok := r.AttrNumber("battery_level"); !ok || v != 80 {
		t.Errorf("AttrNumber(battery_level) = %v, %v", v, ok)
	}
	if s, ok := r.Attr("battery_level"); !ok || s != "80" {
		t.Errorf("Attr(battery_level) = %q, %v", s, ok)
	}

	if _, ok := (Record{State: "NaN"}).Numeric(); ok {
		t.Error("NaN state should not be numeric")
	}
	if _, ok := (Record{State: "+Inf"}).Numeric(); ok {
		t.Error("Inf state should not be numeric")
	}
	if _, ok := UnavailableRecord("sensor.x").Numeric(); ok {
		t.Error("unavailable record should not be numeric")
	}
	if _, ok := (Record{State: "5", Attributes: map[string]any{"unit_of_measurement": "°C"}}).Percent(); ok {
		t.Error("non percent unit should not yield a percent")
	}
	if v, ok := (Record{Attributes: map[string]any{"x": math.NaN()}}).AttrNumber("x"); ok {
		t.Errorf("NaN attribute accepted: %v", v)
	}
}

func TestValidID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"sensor.living_room_temp", true},
		{"binary_sensor.door_1", true},
		{"sensor", false},
		{"sensor.", false},
		{".temp", false},
		{"Sensor.Temp", false},
		{"sensor.temp.extra", false},
		{"sensor.temp;drop", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := ValidID(tt.id); got != tt.want {
				t.Errorf("ValidID(%q) = %v, want %v", tt.id, got, tt.want)
			}
		})
	}
}
